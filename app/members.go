package app

import (
	"context"
	"sort"
	"strings"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/domain/checkout"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

const (
	logActionRegister = "register"
	logActionLogin    = "login"

	defaultLogLimit = 100
	maxLogLimit     = 500
)

// MemberService manages member accounts: paid-session-gated
// registration, login, and the admin listing views.
type MemberService struct {
	members  ports.MemberStore
	provider ports.PaymentProvider
	hasher   ports.Hasher
	tokens   *auth.TokenService
	ids      ports.IDGenerator
	clock    ports.Clock
	logger   zerolog.Logger
}

// NewMemberService creates a member service.
func NewMemberService(members ports.MemberStore, provider ports.PaymentProvider, hasher ports.Hasher, tokens *auth.TokenService, ids ports.IDGenerator, clock ports.Clock, logger zerolog.Logger) *MemberService {
	return &MemberService{
		members:  members,
		provider: provider,
		hasher:   hasher,
		tokens:   tokens,
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// NormalizeEmail lowercases and trims an email for use as account key.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (s *MemberService) appendLog(ctx context.Context, action, email, planID string, success bool, detail string) {
	entry := ports.MemberLogEntry{
		ID:        s.ids.New(),
		Timestamp: s.clock.Now(),
		Action:    action,
		Email:     email,
		PlanID:    planID,
		Success:   success,
		Detail:    detail,
	}
	if err := s.members.AppendLog(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to append member log")
	}
}

// Register creates or replaces a member account. It is gated on a paid
// membership checkout session; the resulting token is bound to the
// caller's device.
func (s *MemberService) Register(ctx context.Context, email, password, sessionID, deviceID string) (string, ports.MemberAccount, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "email required")
	}
	if len(password) < 8 {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "password must be at least 8 characters")
	}
	if deviceID == "" {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "device id required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "session id required")
	}

	status, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return "", ports.MemberAccount{}, err
	}
	if !checkout.IsPaid(status.PaymentStatus, status.Status) {
		s.appendLog(ctx, logActionRegister, email, "", false, "payment not confirmed")
		return "", ports.MemberAccount{}, fault.New(fault.PaymentNotConfirmed, "payment not confirmed")
	}

	meta := checkout.DecodeMetadata(status.Metadata)
	if meta.PurchaseType != checkout.PurchaseMembership {
		s.appendLog(ctx, logActionRegister, email, "", false, "session is not a membership purchase")
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "session is not a membership purchase")
	}
	planID := meta.PlanID
	if planID == "" {
		planID = "unknown"
	}

	salt, hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", ports.MemberAccount{}, err
	}

	now := s.clock.Now()
	account := ports.MemberAccount{
		Email:        email,
		Salt:         salt,
		PasswordHash: hash,
		Membership: ports.Membership{
			Active:      true,
			PlanID:      planID,
			SessionID:   status.ID,
			ActivatedAt: now,
			UpdatedAt:   now,
		},
	}
	if err := s.members.Upsert(ctx, account); err != nil {
		return "", ports.MemberAccount{}, err
	}
	s.appendLog(ctx, logActionRegister, email, planID, true, "")

	token, err := s.tokens.GenerateMember(email, deviceID)
	if err != nil {
		return "", ports.MemberAccount{}, err
	}

	s.logger.Info().Str("email", email).Str("plan_id", planID).Msg("member registered")
	return token, account, nil
}

// Login authenticates a member and issues a device-bound token.
// Unknown accounts and wrong passwords fail identically.
func (s *MemberService) Login(ctx context.Context, email, password, deviceID string) (string, ports.MemberAccount, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "email and password required")
	}
	if deviceID == "" {
		return "", ports.MemberAccount{}, fault.New(fault.Validation, "device id required")
	}

	account, err := s.members.Get(ctx, email)
	if fault.IsKind(err, fault.NotFound) {
		s.appendLog(ctx, logActionLogin, email, "", false, "unknown account")
		return "", ports.MemberAccount{}, fault.New(fault.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return "", ports.MemberAccount{}, err
	}

	if !s.hasher.Compare(account.Salt, account.PasswordHash, password) {
		s.appendLog(ctx, logActionLogin, email, account.Membership.PlanID, false, "wrong password")
		return "", ports.MemberAccount{}, fault.New(fault.Unauthorized, "invalid credentials")
	}

	s.appendLog(ctx, logActionLogin, email, account.Membership.PlanID, true, "")

	token, err := s.tokens.GenerateMember(email, deviceID)
	if err != nil {
		return "", ports.MemberAccount{}, err
	}
	return token, account, nil
}

// Get returns a member account by email.
func (s *MemberService) Get(ctx context.Context, email string) (ports.MemberAccount, error) {
	return s.members.Get(ctx, NormalizeEmail(email))
}

// ListAccounts returns member accounts, newest activation first,
// optionally filtered by plan, together with a count per plan over all
// accounts.
func (s *MemberService) ListAccounts(ctx context.Context, planID string) ([]ports.MemberAccount, map[string]int, error) {
	all, err := s.members.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int)
	for _, a := range all {
		counts[a.Membership.PlanID]++
	}

	accounts := all
	if planID != "" {
		accounts = accounts[:0:0]
		for _, a := range all {
			if a.Membership.PlanID == planID {
				accounts = append(accounts, a)
			}
		}
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Membership.ActivatedAt.After(accounts[j].Membership.ActivatedAt)
	})
	return accounts, counts, nil
}

// Logs returns audit entries newest first, optionally filtered by
// plan. limit defaults to 100 and is clamped to [1, 500].
func (s *MemberService) Logs(ctx context.Context, planID string, limit int) ([]ports.MemberLogEntry, error) {
	if limit == 0 {
		limit = defaultLogLimit
	}
	limit = min(max(limit, 1), maxLogLimit)

	all, err := s.members.Logs(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.MemberLogEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if planID != "" && all[i].PlanID != planID {
			continue
		}
		entries = append(entries, all[i])
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}
