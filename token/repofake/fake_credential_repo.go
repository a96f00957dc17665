package repofake

import (
	"sync"

	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/token"
)

var _ token.Repo = (*FakeCredentialRepo)(nil)

// FakeCredentialRepo keeps the credential in memory. Upsert and Get copy the
// value so callers cannot mutate the stored record.
type FakeCredentialRepo struct {
	credential *token.Credential
	upserts    int
	lock       sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{}
}

func (r *FakeCredentialRepo) Get() (*token.Credential, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.credential == nil {
		return nil, errors.ErrNotFound
	}
	c := *r.credential
	return &c, nil
}

func (r *FakeCredentialRepo) Upsert(credential *token.Credential) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	c := *credential
	r.credential = &c
	r.upserts++
	return nil
}

// Upserts reports how many times the credential has been written.
func (r *FakeCredentialRepo) Upserts() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.upserts
}
