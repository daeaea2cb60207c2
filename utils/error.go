package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrItemHasLedgerEntries rejects deleting a line item that purchase or
// usage records still reference. Ledgers stay auditable; no cascade.
var ErrItemHasLedgerEntries = errors.New("line item has ledger entries")

// ValidationError rejects malformed ledger writes (non-positive quantity or
// price) before the reconciliation engine ever sees them. Never clamp.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
