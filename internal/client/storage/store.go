// Package storage implements the client-side credential store: durable,
// namespaced key-value persistence for session data that survives
// process restarts.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Prefix namespaces every key written through the Store so that
// unrelated data sharing the same backend is never touched.
const Prefix = "@billboard_"

// Well-known keys persisted by the application.
const (
	// KeyAuthToken holds the bearer token of the current session.
	KeyAuthToken = "auth_token"
	// KeyUserData holds the JSON-serialized profile of the current user.
	KeyUserData = "user_data"
	// KeyOnboardingCompleted marks that the intro flow was finished.
	KeyOnboardingCompleted = "onboarding_completed"
	// KeyNotificationSettings holds notification preferences.
	KeyNotificationSettings = "notification_settings"
	// KeyDraftReports holds locally saved, unsubmitted reports.
	KeyDraftReports = "draft_reports"
	// KeyAppSettings holds miscellaneous application settings.
	KeyAppSettings = "app_settings"
)

// WriteError reports a failed write or delete against the backend.
// Reads never produce it: lookup failures are treated as absence.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage write for %q failed: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Info describes the store contents for diagnostics.
type Info struct {
	Keys   []string `json:"keys"`
	Size   int      `json:"size"`
	Prefix string   `json:"prefix"`
}

// Store is the namespaced credential store. Writes propagate backend
// failures as *WriteError; reads degrade to absence so that callers
// behave "logged out" rather than crash.
type Store struct {
	backend Backend
	prefix  string
	log     *zap.Logger
}

// New constructs a Store over the given backend.
func New(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, prefix: Prefix, log: log}
}

func (s *Store) prefixed(key string) string {
	return s.prefix + key
}

// SetItem serializes value (strings pass through, everything else is
// JSON-encoded) and writes it under the namespaced key.
func (s *Store) SetItem(key string, value any) error {
	str, ok := value.(string)
	if !ok {
		b, err := json.Marshal(value)
		if err != nil {
			return &WriteError{Key: key, Err: err}
		}
		str = string(b)
	}
	if err := s.backend.Set(s.prefixed(key), str); err != nil {
		s.log.Error("storage set failed", zap.String("key", key), zap.Error(err))
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// GetItem returns the raw string value and whether it was present.
// Backend failures are logged and read as absence.
func (s *Store) GetItem(key string) (string, bool) {
	v, ok, err := s.backend.Get(s.prefixed(key))
	if err != nil {
		s.log.Warn("storage get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// GetItemJSON parses the stored value into out. Returns false on
// absence or if the stored value is not valid JSON.
func (s *Store) GetItemJSON(key string, out any) bool {
	v, ok := s.GetItem(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		s.log.Warn("storage value is not valid JSON", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// HasItem reports whether key is present.
func (s *Store) HasItem(key string) bool {
	_, ok := s.GetItem(key)
	return ok
}

// RemoveItem deletes the namespaced key.
func (s *Store) RemoveItem(key string) error {
	if err := s.backend.Delete(s.prefixed(key)); err != nil {
		s.log.Error("storage delete failed", zap.String("key", key), zap.Error(err))
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// ClearAll removes every key written through this store, leaving keys
// outside the namespace untouched.
func (s *Store) ClearAll() error {
	keys, err := s.backend.Keys()
	if err != nil {
		return &WriteError{Key: s.prefix + "*", Err: err}
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		if err := s.backend.Delete(k); err != nil {
			return &WriteError{Key: strings.TrimPrefix(k, s.prefix), Err: err}
		}
	}
	return nil
}

// GetMultiple returns the present values for the given keys. Absent
// keys are omitted from the result.
func (s *Store) GetMultiple(keys []string) map[string]string {
	result := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.GetItem(k); ok {
			result[k] = v
		}
	}
	return result
}

// SetMultiple writes every pair, stopping at the first failed write.
func (s *Store) SetMultiple(pairs map[string]any) error {
	for k, v := range pairs {
		if err := s.SetItem(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the un-prefixed names of every key owned by this store.
func (s *Store) Keys() []string {
	all, err := s.backend.Keys()
	if err != nil {
		s.log.Warn("storage key listing failed", zap.Error(err))
		return nil
	}
	var keys []string
	for _, k := range all {
		if strings.HasPrefix(k, s.prefix) {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
	}
	return keys
}

// Info summarizes the store contents.
func (s *Store) Info() Info {
	keys := s.Keys()
	return Info{Keys: keys, Size: len(keys), Prefix: s.prefix}
}
