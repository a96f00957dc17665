package bookingsource

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
)

var validate = validator.New()

// Validate checks the fields every delivery must carry.
func (w *Webhook) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return nil
}
