package token

import "time"

// Credential is the single CRM OAuth2 credential. ExpiresAt is the instant
// after which AccessToken must be treated as invalid.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Repo persists the credential. Get returns errors.ErrNotFound until the
// first Upsert.
type Repo interface {
	Get() (*Credential, error)
	Upsert(credential *Credential) error
}

// State is the lifecycle position of the stored credential.
type State int

const (
	StateNoCredential State = iota
	StateValid
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "no_credential"
	}
}
