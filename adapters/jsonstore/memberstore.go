package jsonstore

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// maxLogEntries bounds the retained audit log; oldest entries are
// dropped first.
const maxLogEntries = 500

type memberDocument struct {
	Users []ports.MemberAccount  `json:"users"`
	Logs  []ports.MemberLogEntry `json:"logs"`
}

// MemberStore persists member accounts and their audit log.
type MemberStore struct {
	mu     sync.Mutex
	path   string
	clock  ports.Clock
	logger zerolog.Logger
}

// NewMemberStore creates a member store under dataDir.
func NewMemberStore(dataDir string, clock ports.Clock, logger zerolog.Logger) *MemberStore {
	return &MemberStore{
		path:   filepath.Join(dataDir, "memberships.json"),
		clock:  clock,
		logger: logger.With().Str("store", "members").Logger(),
	}
}

func (s *MemberStore) load() (memberDocument, error) {
	var doc memberDocument
	seed := memberDocument{Users: []ports.MemberAccount{}, Logs: []ports.MemberLogEntry{}}
	if err := readDocument(s.path, &doc, seed, s.clock.Now(), s.logger); err != nil {
		return memberDocument{}, err
	}
	return doc, nil
}

// Get retrieves an account by email, case-insensitively.
func (s *MemberStore) Get(ctx context.Context, email string) (ports.MemberAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return ports.MemberAccount{}, err
	}
	for _, u := range doc.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return ports.MemberAccount{}, fault.New(fault.NotFound, "member not found")
}

// Upsert stores an account, replacing any record with the same email.
func (s *MemberStore) Upsert(ctx context.Context, account ports.MemberAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Users {
		if strings.EqualFold(doc.Users[i].Email, account.Email) {
			doc.Users[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Users = append(doc.Users, account)
	}
	return writeDocument(s.path, doc)
}

// List returns all accounts in stored order.
func (s *MemberStore) List(ctx context.Context) ([]ports.MemberAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]ports.MemberAccount, len(doc.Users))
	copy(out, doc.Users)
	return out, nil
}

// AppendLog appends an audit entry, trimming oldest first past the cap.
func (s *MemberStore) AppendLog(ctx context.Context, entry ports.MemberLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Logs = append(doc.Logs, entry)
	if excess := len(doc.Logs) - maxLogEntries; excess > 0 {
		doc.Logs = doc.Logs[excess:]
	}
	return writeDocument(s.path, doc)
}

// Logs returns the retained audit entries, oldest first.
func (s *MemberStore) Logs(ctx context.Context) ([]ports.MemberLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]ports.MemberLogEntry, len(doc.Logs))
	copy(out, doc.Logs)
	return out, nil
}

var _ ports.MemberStore = (*MemberStore)(nil)
