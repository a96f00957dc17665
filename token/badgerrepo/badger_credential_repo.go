package badgerrepo

import (
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/token"
)

const credentialKey = "crm:credential"

var _ token.Repo = (*CredentialRepo)(nil)

// CredentialRepo persists the CRM credential in BadgerDB so it survives restarts.
type CredentialRepo struct {
	db *badger.DB
}

func NewCredentialRepo(db *badger.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Open opens (or creates) a Badger database in dir with badger's own logging disabled.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	return db, nil
}

func (r *CredentialRepo) Get() (*token.Credential, error) {
	var credential token.Credential
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credentialKey))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &credential)
		})
	})
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *CredentialRepo) Upsert(credential *token.Credential) error {
	data, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(credentialKey), data)
	})
}
