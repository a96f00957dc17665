// Package ledger mirrors every booking as one spreadsheet row keyed by the
// booking code in column A.
package ledger

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
)

// LastColumn is the final column a booking row occupies.
const LastColumn = "CU"

// Ledger is the spreadsheet sink. Rows are 1-based.
type Ledger interface {
	Lookup(ctx context.Context, code string) (row int, found bool, err error)
	Update(ctx context.Context, rangeA1 string, row []string) error
	Append(ctx context.Context, row []string) error
}

type Mode string

const (
	ModeAppend Mode = "append"
	ModeUpdate Mode = "update"
)

type Result struct {
	Mode Mode
	Row  int // 0 for appends
}

// RowRange is the A1 range covering a whole booking row.
func RowRange(row int) string {
	return fmt.Sprintf("A%d:%s%d", row, LastColumn, row)
}

// Upsert overwrites the row whose column A holds row[0], or appends a new row.
func Upsert(ctx context.Context, l Ledger, row []string) (Result, error) {
	if len(row) == 0 || row[0] == "" {
		return Result{}, errors.Wrapf(errors.ErrInvalidPayload, "ledger row has no booking code")
	}

	n, found, err := l.Lookup(ctx, row[0])
	if err != nil {
		metrics.RecordLedgerWrite(string(ModeAppend), err)
		return Result{}, errors.Wrapf(err, "ledger lookup %s", row[0])
	}

	if found {
		err = l.Update(ctx, RowRange(n), row)
		metrics.RecordLedgerWrite(string(ModeUpdate), err)
		if err != nil {
			return Result{}, errors.Wrapf(err, "ledger update row %d", n)
		}
		return Result{Mode: ModeUpdate, Row: n}, nil
	}

	err = l.Append(ctx, row)
	metrics.RecordLedgerWrite(string(ModeAppend), err)
	if err != nil {
		return Result{}, errors.Wrapf(err, "ledger append")
	}
	return Result{Mode: ModeAppend}, nil
}
