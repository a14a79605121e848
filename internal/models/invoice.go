package models

import (
	"fmt"
	"time"
)

// ExpenseCategory classifies an invoice into the fixed bookkeeping taxonomy
type ExpenseCategory string

const (
	CategorySuppliers ExpenseCategory = "suppliers"
	CategorySalaries  ExpenseCategory = "salaries"
	CategoryRent      ExpenseCategory = "rent"
	CategoryMisc      ExpenseCategory = "misc"
)

// IsValid reports whether the category is one of the known values
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategorySuppliers, CategorySalaries, CategoryRent, CategoryMisc:
		return true
	}
	return false
}

// CarriesVAT reports whether invoices in this category include VAT.
// Payroll and rent are out of VAT scope.
func (c ExpenseCategory) CarriesVAT() bool {
	return c != CategorySalaries && c != CategoryRent
}

// LineItem is a single invoice line
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// InvoiceRecord is the structured result of invoice/receipt extraction.
// Field names mirror the JSON schema the vision model is instructed to
// return, so the model output unmarshals directly into this type.
type InvoiceRecord struct {
	VendorName     *string         `json:"vendor_name"`
	VendorNameEN   *string         `json:"vendor_name_en"`
	InvoiceNumber  *string         `json:"invoice_number"`
	Date           *string         `json:"date"`
	Subtotal       *float64        `json:"subtotal"`
	VATAmount      *float64        `json:"vat_amount"`
	VATRate        *float64        `json:"vat_rate"`
	Total          *float64        `json:"total"`
	Currency       *string         `json:"currency"`
	Category       ExpenseCategory `json:"category"`
	CategoryReason *string         `json:"category_reason"`
	Items          []LineItem      `json:"items"`
	Confidence     *float64        `json:"confidence"`

	// Request metadata stamped by the service, not extracted by the model.
	Filename    string `json:"filename,omitempty"`
	ProcessedAt string `json:"processed_at,omitempty"`
	Demo        bool   `json:"demo"`
}

// Validate checks the invariants the extraction pipeline relies on
func (r *InvoiceRecord) Validate() error {
	if r.Category != "" && !r.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", r.Category)
	}

	if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 100) {
		return fmt.Errorf("confidence %v out of range [0,100]", *r.Confidence)
	}

	if r.Date != nil && *r.Date != "" {
		if _, err := time.Parse("2006-01-02", *r.Date); err != nil {
			return fmt.Errorf("invalid date %q: %w", *r.Date, err)
		}
	}

	return nil
}

// StampMetadata attaches request metadata to an extracted record
func (r *InvoiceRecord) StampMetadata(filename string, processedAt time.Time, demo bool) {
	r.Filename = filename
	r.ProcessedAt = processedAt.UTC().Format(time.RFC3339)
	r.Demo = demo
}
