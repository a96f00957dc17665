package contacts

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jrsteele09/go-booking-sync/crm"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
)

// CrmAPI is the subset of the CRM client the reconciler drives.
type CrmAPI interface {
	FindContactByEmail(ctx context.Context, email string) (*crm.SearchResult, error)
	UpsertContact(ctx context.Context, contact crm.Contact) (*crm.UpsertResult, error)
	AssignTags(ctx context.Context, contactID int64, tagIDs []int) error
	CreateNote(ctx context.Context, contactID int64, note string) error
}

// TagSet holds the tag ids applied after an upsert.
type TagSet struct {
	New       []int
	Repeat    []int
	Passenger []int
}

func DefaultTagSet() TagSet {
	return TagSet{
		New:       []int{13988},
		Repeat:    []int{14052},
		Passenger: []int{13988},
	}
}

// Step is one stage of a reconciliation.
type Step string

const (
	StepLookup Step = "lookup"
	StepUpsert Step = "upsert"
	StepTags   Step = "tags"
	StepNote   Step = "note"
)

// SagaError reports how far a reconciliation got before a step failed. Steps
// already completed are not undone, so ContactID (when non zero) identifies a
// contact that exists in the CRM without its tags or note.
type SagaError struct {
	Completed []Step
	Failed    Step
	ContactID int64
	Err       error
}

func (e *SagaError) Error() string {
	done := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		done[i] = string(s)
	}
	msg := fmt.Sprintf("reconcile contact: %s failed", e.Failed)
	if len(done) > 0 {
		msg += " after " + strings.Join(done, ",")
	}
	if e.ContactID != 0 {
		msg += fmt.Sprintf(" (contact %d)", e.ContactID)
	}
	return msg + ": " + e.Err.Error()
}

func (e *SagaError) Unwrap() error { return e.Err }

type Outcome struct {
	ContactID int64
	Existing  bool // a contact with this email was found
	Repeat    bool // and it already carried this booking id
	Tags      []int
	Completed []Step
}

type Reconciler struct {
	crm  CrmAPI
	tags TagSet
}

func NewReconciler(api CrmAPI, tags TagSet) *Reconciler {
	return &Reconciler{crm: api, tags: tags}
}

// Reconcile upserts the record then attaches tags and the note. Primary
// records are checked against the CRM first to choose between the new and
// repeat booking tags.
func (r *Reconciler) Reconcile(ctx context.Context, rec Record) (*Outcome, error) {
	logger := logging.Ctx(ctx).With().Str("email", rec.Basic.Email).Str("kind", rec.Kind.String()).Logger()
	out := &Outcome{}

	fail := func(step Step, err error) (*Outcome, error) {
		metrics.RecordReconciliation("failed")
		logger.Error().Err(err).Str("step", string(step)).Msg("Contact reconciliation failed")
		return out, &SagaError{Completed: slices.Clone(out.Completed), Failed: step, ContactID: out.ContactID, Err: err}
	}

	switch rec.Kind {
	case KindPassenger:
		out.Tags = slices.Clone(r.tags.Passenger)
	default:
		existing, repeat, err := r.exists(ctx, rec)
		if err != nil {
			return fail(StepLookup, err)
		}
		out.Existing, out.Repeat = existing, repeat
		out.Completed = append(out.Completed, StepLookup)
		if repeat {
			out.Tags = slices.Clone(r.tags.Repeat)
		} else {
			out.Tags = slices.Clone(r.tags.New)
		}
	}

	result, err := r.crm.UpsertContact(ctx, rec.Contact())
	if err != nil {
		return fail(StepUpsert, err)
	}
	out.ContactID = result.ID
	out.Completed = append(out.Completed, StepUpsert)

	if err := r.crm.AssignTags(ctx, out.ContactID, out.Tags); err != nil {
		return fail(StepTags, err)
	}
	out.Completed = append(out.Completed, StepTags)

	if err := r.crm.CreateNote(ctx, out.ContactID, rec.Note()); err != nil {
		return fail(StepNote, err)
	}
	out.Completed = append(out.Completed, StepNote)

	metrics.RecordReconciliation(outcomeLabel(rec.Kind, out.Repeat))
	logger.Info().Int64("contact_id", out.ContactID).Bool("repeat", out.Repeat).Ints("tags", out.Tags).Msg("Contact reconciled")
	return out, nil
}

// exists reports whether a contact with the record's email exists and whether
// its booking id field equals the record's booking id.
func (r *Reconciler) exists(ctx context.Context, rec Record) (existing, repeat bool, err error) {
	result, err := r.crm.FindContactByEmail(ctx, rec.Basic.Email)
	if err != nil {
		return false, false, err
	}
	if result.Count == 0 || len(result.Contacts) == 0 {
		return false, false, nil
	}
	stored, ok := result.Contacts[0].CustomFieldString(FieldBookingID)
	return true, ok && stored == rec.Booking.ID, nil
}

func outcomeLabel(kind Kind, repeat bool) string {
	switch {
	case kind == KindPassenger:
		return "passenger"
	case repeat:
		return "repeat"
	default:
		return "new"
	}
}
