package domain

import "time"

// TransactionAuditEntry is one structured, append-only audit note keyed by
// transaction id. It carries the same information as the note appended to the
// transaction description, in a queryable form.
type TransactionAuditEntry struct {
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}
