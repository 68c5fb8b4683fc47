package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Keys shared with the login flow. Renaming any of them logs every user out.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyCompany   = "company"
	KeyTempToken = "tempToken"
	KeyTempUser  = "tempUser"
)

// AllKeys lists every key removed when a session is cleared.
var AllKeys = []string{KeyToken, KeyUser, KeyCompany, KeyTempToken, KeyTempUser}

// ErrNoToken is returned when neither token slot holds a value.
var ErrNoToken = errors.New("no session token stored")

// Store is the token store: two credential slots (final and temporary) on top of a Storage.
type Store struct {
	storage Storage
	logger  zerolog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewStore creates a Store backed by storage.
func NewStore(storage Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for expiry checks.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ActiveToken returns the final token if present, else the temporary one.
func (s *Store) ActiveToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTokenLocked()
}

func (s *Store) activeTokenLocked() (string, bool) {
	if token, ok := s.storage.Get(KeyToken); ok && token != "" {
		return token, true
	}
	if token, ok := s.storage.Get(KeyTempToken); ok && token != "" {
		return token, true
	}
	return "", false
}

// FinalToken returns the post-company-selection token, ignoring the temporary slot.
func (s *Store) FinalToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.storage.Get(KeyToken)
	return token, ok && token != ""
}

// Now returns the current time of the store's clock.
func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// AuthHeader returns the Authorization header value for the active token.
// A present but expired or malformed token clears the whole session before
// returning, so the caller proceeds unauthenticated.
func (s *Store) AuthHeader() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.activeTokenLocked()
	if !ok {
		return "", false
	}

	if !IsValid(token, s.now()) {
		s.logger.Warn().Msg("Stored session token is expired or malformed, clearing session")
		if err := s.storage.Delete(AllKeys...); err != nil {
			s.logger.Error().Err(err).Msg("Failed to clear session")
		}
		return "", false
	}

	return "Bearer " + token, true
}

// Clear removes every session key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(AllKeys...)
}

// SaveTemporary stores the pre-company-selection credentials.
func (s *Store) SaveTemporary(token string, user json.RawMessage) error {
	if token == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(KeyTempToken, token); err != nil {
		return fmt.Errorf("failed to store temporary token: %w", err)
	}
	if len(user) > 0 {
		if err := s.storage.Set(KeyTempUser, string(user)); err != nil {
			return fmt.Errorf("failed to store temporary user: %w", err)
		}
	}
	return nil
}

// SaveFinal stores the final credentials and drops the temporary slots.
func (s *Store) SaveFinal(token string, user, company json.RawMessage) error {
	if token == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if len(user) > 0 {
		if err := s.storage.Set(KeyUser, string(user)); err != nil {
			return fmt.Errorf("failed to store user: %w", err)
		}
	}
	if len(company) > 0 {
		if err := s.storage.Set(KeyCompany, string(company)); err != nil {
			return fmt.Errorf("failed to store company: %w", err)
		}
	}
	return s.storage.Delete(KeyTempToken, KeyTempUser)
}

// ReplaceFinalToken swaps in a refreshed final token. It fails with ErrNoToken
// when no final session exists, so a refresh racing a logout cannot revive it.
func (s *Store) ReplaceFinalToken(token string) error {
	if token == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.storage.Get(KeyToken); !ok || current == "" {
		return ErrNoToken
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("failed to store refreshed token: %w", err)
	}
	return nil
}

// User returns the stored user document, preferring the final slot.
func (s *Store) User() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.storage.Get(KeyUser); ok && v != "" {
		return json.RawMessage(v), true
	}
	if v, ok := s.storage.Get(KeyTempUser); ok && v != "" {
		return json.RawMessage(v), true
	}
	return nil, false
}

// Company returns the selected company document.
func (s *Store) Company() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.storage.Get(KeyCompany)
	if !ok || v == "" {
		return nil, false
	}
	return json.RawMessage(v), true
}
