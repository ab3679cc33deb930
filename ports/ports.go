// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/blackforge/storefront/domain/catalog"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides salted password hashing.
type Hasher interface {
	// Hash derives a hash from plaintext under a fresh random salt.
	Hash(plaintext string) (salt, hash []byte, err error)

	// Compare re-derives the hash under salt and checks it against
	// the stored hash in constant time.
	Compare(salt, hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// CatalogStore persists the catalog document: games, membership plans,
// and coupons. Mutations follow a whole-document read-modify-write
// cycle; implementations serialize writers.
type CatalogStore interface {
	// Catalog returns a full snapshot.
	Catalog(ctx context.Context) (catalog.Catalog, error)

	AddGame(ctx context.Context, g catalog.Item) error
	UpdateGame(ctx context.Context, g catalog.Item) error
	RemoveGame(ctx context.Context, id string) error

	AddPlan(ctx context.Context, p catalog.Plan) error
	UpdatePlan(ctx context.Context, p catalog.Plan) error
	RemovePlan(ctx context.Context, id string) error

	AddCoupon(ctx context.Context, c catalog.Coupon) error
	UpdateCoupon(ctx context.Context, c catalog.Coupon) error
	RemoveCoupon(ctx context.Context, code string) error
}

// Membership is the membership state attached to a member account.
type Membership struct {
	Active      bool      `json:"active"`
	PlanID      string    `json:"plan_id"`
	SessionID   string    `json:"session_id"`
	ActivatedAt time.Time `json:"activated_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberAccount is a stored member record. Emails are unique and
// stored lowercase.
type MemberAccount struct {
	Email        string     `json:"email"`
	Salt         []byte     `json:"salt"`
	PasswordHash []byte     `json:"password_hash"`
	Membership   Membership `json:"membership"`
}

// MemberLogEntry is one append-only audit record of a registration or
// login attempt.
type MemberLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"` // "register" or "login"
	Email     string    `json:"email"`
	PlanID    string    `json:"plan_id,omitempty"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail,omitempty"`
}

// MemberStore persists member accounts and their bounded audit log.
type MemberStore interface {
	// Get retrieves an account by normalized email.
	Get(ctx context.Context, email string) (MemberAccount, error)

	// Upsert stores an account, replacing any record with the same
	// email wholesale (last write wins).
	Upsert(ctx context.Context, account MemberAccount) error

	// List returns all accounts.
	List(ctx context.Context) ([]MemberAccount, error)

	// AppendLog appends an audit entry, trimming oldest entries first
	// once the retained cap is reached.
	AppendLog(ctx context.Context, entry MemberLogEntry) error

	// Logs returns the retained audit entries, oldest first.
	Logs(ctx context.Context) ([]MemberLogEntry, error)
}

// -----------------------------------------------------------------------------
// User Directory Port
// -----------------------------------------------------------------------------

// UserDirectory is the opaque admin-credential collaborator. Passwords
// are never stored or returned in plaintext.
type UserDirectory interface {
	// Authenticate checks credentials; a miss is (false, nil).
	Authenticate(ctx context.Context, username, password string) (bool, error)

	// Create adds a user with the given credentials.
	Create(ctx context.Context, username, password string) error

	// Remove deletes a user. Protected users cannot be removed.
	Remove(ctx context.Context, username string) error

	// List returns all usernames.
	List(ctx context.Context) ([]string, error)
}

// -----------------------------------------------------------------------------
// Payment Provider Port
// -----------------------------------------------------------------------------

// CheckoutMode selects one-time payment or recurring subscription.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// LineItem is one line of a checkout session request. When PriceRef is
// set the provider's pre-registered price is used; otherwise an ad-hoc
// price is built from UnitAmount and, for subscriptions, Interval.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64 // cents
	Currency    string
	Interval    string // "month" or "year"; empty for one-time lines
	PriceRef    string
	Quantity    int64
}

// SessionRequest is the external payment-session request.
type SessionRequest struct {
	Mode       CheckoutMode
	Lines      []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is a created session the buyer gets redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is a retrieved session's payment state and metadata.
type SessionStatus struct {
	ID            string
	PaymentStatus string
	Status        string
	Metadata      map[string]string
}

// PaymentProvider interfaces with the external payment processor.
type PaymentProvider interface {
	// Name returns the provider name (e.g., "stripe", "dummy").
	Name() string

	// CreateSession creates a checkout session.
	CreateSession(ctx context.Context, req SessionRequest) (CheckoutSession, error)

	// RetrieveSession retrieves a session's status and metadata.
	RetrieveSession(ctx context.Context, id string) (SessionStatus, error)
}
