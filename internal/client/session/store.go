package session

import (
	"sync/atomic"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

// CredentialStore holds the current credential pair. Readers always observe
// either the previous or the new pair, never a mix of both.
type CredentialStore struct {
	cur atomic.Pointer[models.Credential]
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Get returns the stored pair and whether one is present.
func (s *CredentialStore) Get() (models.Credential, bool) {
	p := s.cur.Load()
	if p == nil {
		return models.Credential{}, false
	}
	return *p, true
}

// Set atomically replaces the stored pair. Incomplete pairs are rejected.
func (s *CredentialStore) Set(c models.Credential) error {
	if !c.Complete() {
		return ErrPartialCredential
	}
	s.cur.Store(&c)
	return nil
}

func (s *CredentialStore) Clear() {
	s.cur.Store(nil)
}
