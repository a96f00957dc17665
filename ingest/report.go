package ingest

import (
	"github.com/jrsteele09/go-booking-sync/contacts"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/ledger"
)

// ContactResult is the outcome of reconciling one person on the booking.
type ContactResult struct {
	Email      string          `json:"email"`
	Kind       string          `json:"kind"`
	Slot       int             `json:"slot,omitempty"`
	ContactID  int64           `json:"contact_id,omitempty"`
	Existing   bool            `json:"existing"`
	Repeat     bool            `json:"repeat"`
	Tags       []int           `json:"tags,omitempty"`
	Completed  []contacts.Step `json:"completed_steps"`
	FailedStep contacts.Step   `json:"failed_step,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (c ContactResult) Failed() bool {
	return c.Error != ""
}

type LedgerResult struct {
	Mode  ledger.Mode `json:"mode,omitempty"`
	Row   int         `json:"row,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Report lists every work item of one delivery and how it ended.
type Report struct {
	DeliveryID  string          `json:"delivery_id"`
	BookingCode string          `json:"booking_code"`
	Product     string          `json:"product"`
	Venue       string          `json:"venue"`
	BookedItems string          `json:"booked_items"`
	Primary     ContactResult   `json:"primary"`
	Passengers  []ContactResult `json:"passengers"`
	Ledger      LedgerResult    `json:"ledger"`
}

// Failed reports whether any contact or the ledger write failed.
func (r *Report) Failed() bool {
	if r.Primary.Failed() || r.Ledger.Error != "" {
		return true
	}
	for _, p := range r.Passengers {
		if p.Failed() {
			return true
		}
	}
	return false
}

func contactResult(rec contacts.Record, out *contacts.Outcome, err error) ContactResult {
	res := ContactResult{
		Email:     rec.Basic.Email,
		Kind:      rec.Kind.String(),
		Completed: []contacts.Step{},
	}
	if out != nil {
		res.ContactID = out.ContactID
		res.Existing = out.Existing
		res.Repeat = out.Repeat
		res.Tags = out.Tags
		res.Completed = append(res.Completed, out.Completed...)
	}
	if err != nil {
		res.Error = err.Error()
		var sagaErr *contacts.SagaError
		if errors.As(err, &sagaErr) {
			res.FailedStep = sagaErr.Failed
		}
	}
	return res
}
