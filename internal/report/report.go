// Package report processes invoice documents into reconciled reports and
// keeps them for later retrieval.
package report

import (
	"time"

	"github.com/zombor/invoice-ledger/internal/reconcile"
)

// Record is a processed invoice document
type Record struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	StoredAs    string           `json:"stored_as"`
	ContentType string           `json:"content_type"`
	Pages       int              `json:"pages"`
	Result      reconcile.Result `json:"result"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Summary is the listing view of a Record
type Summary struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	InvoiceNumber    string    `json:"invoice_number,omitempty"`
	Items            int       `json:"items"`
	TotalWithCharges string    `json:"total_with_charges"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summary condenses the report for listings
func (r *Record) Summary() Summary {
	return Summary{
		ID:               r.ID,
		Filename:         r.Filename,
		InvoiceNumber:    r.Result.Singleton.InvoiceNumber,
		Items:            len(r.Result.Items),
		TotalWithCharges: r.Result.TotalWithCharges.StringFixed(2),
		CreatedAt:        r.CreatedAt,
	}
}
