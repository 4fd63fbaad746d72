package ledgerRepo

import "maravi/models"

// LedgerRepository is an append-only financial log. Entries are never
// updated except by MarkReversed, which only sets the reversal fields.
type LedgerRepository interface {
	// Append writes one entry. A unique index on reference+type makes
	// re-posting for the same transaction return ErrDuplicateEntry.
	Append(entry *models.LedgerEntry) error
	FindByReference(reference string) (*models.LedgerEntry, error)
	MarkReversed(reference, by, reason string) error
}
