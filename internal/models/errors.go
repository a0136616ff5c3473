package models

import (
	"errors"
	"fmt"
	"strings"
)

// Blocking validation kinds. A ValidationError matches its kind with errors.Is.
var (
	ErrNoParticipants          = errors.New("no participants")
	ErrNoItems                 = errors.New("no items or expenses")
	ErrSharesNotSumming100     = errors.New("custom shares do not sum to 100")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrUnknownParticipant      = errors.New("unknown participant")
	ErrDuplicateID             = errors.New("duplicate id")
	ErrShareOutsideParticipant = errors.New("share references a non-participant")
	ErrInvalidEnum             = errors.New("invalid enumerated value")
	ErrSelfTransfer            = errors.New("transfer to self")
)

// ValidationError is a failure that aborts a compute pass.
type ValidationError struct {
	// Kind is one of the Err* sentinels above.
	Kind error

	// Ref names the offending record or field (e.g. an expense ID, or
	// "items[2].ownerIds").
	Ref string

	// Actual carries the offending value where one exists, such as the
	// share sum for ErrSharesNotSumming100.
	Actual float64
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrSharesNotSumming100):
		return fmt.Sprintf("%v: expense %s sums to %g", e.Kind, e.Ref, e.Actual)
	case e.Ref != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Ref)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Ref: fmt.Sprintf(format, args...)}
}

// WarningKind classifies a non-blocking reconciliation finding.
type WarningKind string

const (
	// WarnUnassignedItem: an item or expense with no owners and a nonzero
	// price; its cost is excluded from every participant's total.
	WarnUnassignedItem WarningKind = "unassignedItem"
	// WarnZeroTaxDenominator: a tax charge whose base evaluated to zero,
	// so it was allocated to nobody.
	WarnZeroTaxDenominator WarningKind = "zeroTaxDenominator"
	// WarnZeroFeeBase: a proportional fee or discount over a zero total base.
	WarnZeroFeeBase WarningKind = "zeroFeeBase"
	// WarnMultiplePayers: more than one participant is marked as payer;
	// the first one is used.
	WarnMultiplePayers WarningKind = "multiplePayers"
)

// Warning is attached to a successful compute result.
type Warning struct {
	Kind WarningKind
	// Ref is the item, expense or charge ID the warning is about. For
	// WarnMultiplePayers it is the comma separated MarkedPayers list, so the
	// first ID is the payer that was used.
	Ref string
	// Amount is the money left unallocated because of this finding.
	Amount float64
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnUnassignedItem:
		return fmt.Sprintf("%s has no owners; %.2f is not allocated until assigned", w.Ref, w.Amount)
	case WarnZeroTaxDenominator:
		return fmt.Sprintf("tax %s has a zero base; %.2f is not allocated", w.Ref, w.Amount)
	case WarnZeroFeeBase:
		return fmt.Sprintf("charge %s is proportional to an empty base; %.2f is not allocated", w.Ref, w.Amount)
	case WarnMultiplePayers:
		ids := strings.Split(w.Ref, ",")
		return fmt.Sprintf("%d participants are marked as payer; using %s", len(ids), ids[0])
	default:
		return string(w.Kind) + ": " + w.Ref
	}
}
