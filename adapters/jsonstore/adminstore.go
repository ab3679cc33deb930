package jsonstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/rs/zerolog"
)

// envelope is the on-disk format of the encrypted credential file:
// an AES-256-GCM nonce and ciphertext, both hex encoded.
type envelope struct {
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

type adminUser struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Hash     []byte `json:"hash"`
}

type adminDocument struct {
	Users []adminUser `json:"users"`
}

// AdminStore is an encrypted-at-rest admin credential directory. The
// file is sealed with AES-256-GCM under a key derived from the
// configured secret; passwords inside are individually salted hashes.
// The owner account is seeded on first use and cannot be removed.
type AdminStore struct {
	mu     sync.Mutex
	path   string
	key    []byte
	owner  string
	seedPw string
	hasher ports.Hasher
	clock  ports.Clock
	logger zerolog.Logger
}

// normalizeUsername canonicalizes an admin username. All lookups and
// stored entries go through this, so "Knoir" and "knoir" are the same
// account.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewAdminStore creates an admin directory under dataDir. secret keys
// the file encryption; owner and ownerPassword seed the protected
// account when the file does not exist yet.
func NewAdminStore(dataDir, secret, owner, ownerPassword string, hasher ports.Hasher, clock ports.Clock, logger zerolog.Logger) *AdminStore {
	key := sha256.Sum256([]byte(secret))
	return &AdminStore{
		path:   filepath.Join(dataDir, "admin-users.enc.json"),
		key:    key[:],
		owner:  normalizeUsername(owner),
		seedPw: ownerPassword,
		hasher: hasher,
		clock:  clock,
		logger: logger.With().Str("store", "admin").Logger(),
	}
}

func (s *AdminStore) seal(doc adminDocument) error {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode admin users: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	env := envelope{
		Nonce: hex.EncodeToString(nonce),
		Data:  hex.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}
	return writeDocument(s.path, env)
}

func (s *AdminStore) open(env envelope) (adminDocument, error) {
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil {
		return adminDocument{}, err
	}
	data, err := hex.DecodeString(env.Data)
	if err != nil {
		return adminDocument{}, err
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return adminDocument{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return adminDocument{}, err
	}
	if len(nonce) != gcm.NonceSize() {
		return adminDocument{}, fmt.Errorf("bad nonce length %d", len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return adminDocument{}, err
	}

	var doc adminDocument
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return adminDocument{}, err
	}
	return doc, nil
}

func (s *AdminStore) seed() (adminDocument, error) {
	salt, hash, err := s.hasher.Hash(s.seedPw)
	if err != nil {
		return adminDocument{}, err
	}
	doc := adminDocument{Users: []adminUser{{Username: s.owner, Salt: salt, Hash: hash}}}
	if err := s.seal(doc); err != nil {
		return adminDocument{}, err
	}
	return doc, nil
}

// load reads and decrypts the credential file. A missing file is
// seeded with the owner account; an unreadable or undecryptable one
// is quarantined and reseeded, mirroring the plain JSON stores.
func (s *AdminStore) load() (adminDocument, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.seed()
	}
	if err != nil {
		return adminDocument{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		if doc, err := s.open(env); err == nil {
			return doc, nil
		}
	}

	quarantine(s.path, s.clock.Now(), s.logger)
	return s.seed()
}

// Authenticate checks credentials. Unknown users and wrong passwords
// both return (false, nil).
func (s *AdminStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username = normalizeUsername(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	for _, u := range doc.Users {
		if u.Username == username {
			return s.hasher.Compare(u.Salt, u.Hash, password), nil
		}
	}
	return false, nil
}

// Create adds a user. Usernames are unique; passwords must be at
// least 8 characters.
func (s *AdminStore) Create(ctx context.Context, username, password string) error {
	username = normalizeUsername(username)
	if username == "" {
		return fault.New(fault.Validation, "username required")
	}
	if len(password) < 8 {
		return fault.New(fault.Validation, "password must be at least 8 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, u := range doc.Users {
		if u.Username == username {
			return fault.Newf(fault.Conflict, "user %s already exists", username)
		}
	}

	salt, hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	doc.Users = append(doc.Users, adminUser{Username: username, Salt: salt, Hash: hash})
	return s.seal(doc)
}

// Remove deletes a user. The owner account is protected.
func (s *AdminStore) Remove(ctx context.Context, username string) error {
	username = normalizeUsername(username)
	if username == s.owner {
		return fault.New(fault.Conflict, "cannot remove owner user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.Users[:0]
	for _, u := range doc.Users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(doc.Users) {
		return fault.New(fault.NotFound, "user not found")
	}
	doc.Users = kept
	return s.seal(doc)
}

// List returns all usernames, sorted.
func (s *AdminStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Users))
	for _, u := range doc.Users {
		names = append(names, u.Username)
	}
	sort.Strings(names)
	return names, nil
}

var _ ports.UserDirectory = (*AdminStore)(nil)
