// Package ingest turns one booking webhook into CRM contacts and a ledger row.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/contacts"
	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
	"github.com/jrsteele09/go-booking-sync/ledger"
)

const crmDateLayout = "2006-01-02"

type ItemNamer interface {
	ItemName(ctx context.Context, itemID string) (string, error)
}

type ContactReconciler interface {
	Reconcile(ctx context.Context, rec contacts.Record) (*contacts.Outcome, error)
}

// Workflow holds no per-delivery state; concurrent Process calls are safe.
type Workflow struct {
	items        ItemNamer
	reconciler   ContactReconciler
	ledger       ledger.Ledger
	products     KeywordMatcher
	venues       KeywordMatcher
	statusLabels map[string]string
	urlPrefix    string
	location     *time.Location
}

func NewWorkflow(cfg config.Config, items ItemNamer, reconciler ContactReconciler, l ledger.Ledger) (*Workflow, error) {
	loc, err := time.LoadLocation(cfg.GetReportingTimezone())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reporting timezone %q", cfg.GetReportingTimezone())
	}
	return &Workflow{
		items:        items,
		reconciler:   reconciler,
		ledger:       l,
		products:     NewKeywordMatcher(cfg.GetProductKeywords()),
		venues:       NewKeywordMatcher(cfg.GetVenueKeywords()),
		statusLabels: cfg.GetBookingStatusLabels(),
		urlPrefix:    cfg.GetBookingURLPrefix(),
		location:     loc,
	}, nil
}

// Process runs every work item of the delivery: the lead booker, each
// additional passenger with an email, and the ledger row. A failed item is
// recorded in the report and does not stop the others. An error is returned
// only when the booking cannot be enriched at all.
func (w *Workflow) Process(ctx context.Context, booking bookingsource.Booking) (*Report, error) {
	report := &Report{
		DeliveryID:  logging.NewID(),
		BookingCode: booking.Code,
		Passengers:  []ContactResult{},
	}
	ctx = logging.WithDeliveryID(ctx, report.DeliveryID)
	ctx = logging.WithField(ctx, "booking_code", booking.Code)
	logger := logging.Ctx(ctx)

	names, err := w.itemNames(ctx, booking.Order.Items)
	if err != nil {
		return nil, err
	}
	report.BookedItems = strings.Join(names, ", ")
	report.Product = w.products.Match(report.BookedItems)
	report.Venue = w.venues.Match(report.BookedItems)
	logger.Info().Str("items", report.BookedItems).Str("product", report.Product).Str("venue", report.Venue).Msg("Booking enriched")

	summary := w.summary(booking, report.Product, report.Venue)

	primary := w.primaryRecord(booking, summary, report)
	out, err := w.reconciler.Reconcile(ctx, primary)
	report.Primary = contactResult(primary, out, err)

	for _, p := range booking.Fields.Passengers() {
		if p.Email == "" {
			continue
		}
		rec := passengerRecord(p, summary, report)
		out, err := w.reconciler.Reconcile(ctx, rec)
		res := contactResult(rec, out, err)
		res.Slot = p.Slot
		report.Passengers = append(report.Passengers, res)
	}

	row := ledger.BuildRow(ledger.RowInput{
		Booking:     booking,
		StatusLabel: summary.Status,
		Product:     report.Product,
		Venue:       report.Venue,
		BookedItems: report.BookedItems,
		GivenName:   primary.Basic.FirstName,
		FamilyName:  primary.Basic.LastName,
		BookingURL:  summary.URL,
		Location:    w.location,
	})
	res, err := ledger.Upsert(ctx, w.ledger, row)
	report.Ledger = LedgerResult{Mode: res.Mode, Row: res.Row}
	if err != nil {
		report.Ledger.Error = err.Error()
		logger.Error().Err(err).Msg("Ledger write failed")
	}

	logger.Info().Bool("failed", report.Failed()).Int("passengers", len(report.Passengers)).Msg("Booking processed")
	return report, nil
}

func (w *Workflow) itemNames(ctx context.Context, items bookingsource.ItemList) ([]string, error) {
	if len(items) == 0 {
		logging.Ctx(ctx).Warn().Msg("Booking has no line items")
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, err := w.items.ItemName(ctx, item.ItemID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve item names")
		}
		names = append(names, name)
	}
	return names, nil
}

func (w *Workflow) summary(b bookingsource.Booking, product, venue string) contacts.BookingSummary {
	return contacts.BookingSummary{
		ID:             b.Code,
		URL:            w.urlPrefix + b.Code,
		Status:         w.statusLabel(b.Status.String()),
		CreatedDate:    w.date(b.CreatedDate),
		StartDate:      w.date(b.StartDate),
		EndDate:        w.date(b.EndDate),
		EventType:      product,
		Club:           b.Customer.Club.String(),
		GroupOrganiser: b.Customer.GroupOrganiser.String(),
		EventLocation:  venue,
	}
}

// statusLabel maps a status code to its display label, keeping unknown codes.
func (w *Workflow) statusLabel(code string) string {
	if label, ok := w.statusLabels[code]; ok {
		return label
	}
	return code
}

func (w *Workflow) date(v bookingsource.Flex) string {
	t, err := v.Time()
	if err != nil || t.IsZero() {
		return ""
	}
	return t.In(w.location).Format(crmDateLayout)
}

func (w *Workflow) primaryRecord(b bookingsource.Booking, summary contacts.BookingSummary, report *Report) contacts.Record {
	c := b.Customer
	rec := contacts.Record{
		Kind: contacts.KindPrimary,
		Basic: contacts.BasicInfo{
			Email:     c.Email.String(),
			FirstName: c.Name.String(),
			LastName:  c.LastName.String(),
			Title:     contacts.Title(c.Title.String()),
			Phone:     c.Phone.String(),
		},
		Billing: contacts.BillingAddress{
			Line1:   c.Address.String(),
			Line2:   c.AddressLine2.String(),
			City:    c.City.String(),
			ZipCode: c.PostalZip.String(),
			Country: c.Country.String(),
		},
		Booking:        summary,
		SkillLevel:     c.SkillLevel.String(),
		SkillLevelInfo: b.Fields.Get("tennis_standard__more_informat"),
		Product:        report.Product,
		Venue:          report.Venue,
		BookedItems:    report.BookedItems,
	}
	// The contact carries the first three additional passengers.
	for i := range rec.Passengers {
		p := b.Fields.Passenger(bookingsource.FirstPassengerSlot + i)
		rec.Passengers[i] = contacts.PassengerInfo{FirstName: p.FirstName, Surname: p.LastName, SkillLevel: p.SkillLevel}
	}
	return rec
}

func passengerRecord(p bookingsource.Passenger, summary contacts.BookingSummary, report *Report) contacts.Record {
	return contacts.Record{
		Kind: contacts.KindPassenger,
		Basic: contacts.BasicInfo{
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Title:     contacts.Title(p.Title),
			Phone:     p.Phone,
		},
		Booking:     summary,
		SkillLevel:  p.SkillLevel,
		Product:     report.Product,
		Venue:       report.Venue,
		BookedItems: report.BookedItems,
	}
}
