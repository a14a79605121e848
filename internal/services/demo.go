package services

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"muhasib-api/internal/models"
)

// demoVATRate is the Saudi standard VAT rate applied to VAT-bearing categories
const demoVATRate = 0.15

// demoRule maps filename keywords to a plausible synthetic invoice.
// Keywords cover English and Arabic; matching is ordered, first match wins.
type demoRule struct {
	keywords []string
	category models.ExpenseCategory
	vendor   string
	base     int
	spread   int
}

var demoRules = []demoRule{
	{
		keywords: []string{"supplier", "vendor", "مورد"},
		category: models.CategorySuppliers,
		vendor:   "ABC Supplies Co.",
		base:     3500, spread: 5000,
	},
	{
		keywords: []string{"payroll", "salary", "راتب"},
		category: models.CategorySalaries,
		vendor:   "Payroll - January 2026",
		base:     4000, spread: 4000,
	},
	{
		keywords: []string{"rent", "إيجار"},
		category: models.CategoryRent,
		vendor:   "Property Management LLC",
		base:     3000, spread: 3000,
	},
	{
		keywords: []string{"electric", "كهرباء"},
		category: models.CategoryMisc,
		vendor:   "Saudi Electricity Company",
		base:     500, spread: 1000,
	},
	{
		keywords: []string{"water", "nwc", "ماء"},
		category: models.CategoryMisc,
		vendor:   "National Water Company",
		base:     200, spread: 400,
	},
	{
		keywords: []string{"internet", "stc", "mobily"},
		category: models.CategoryMisc,
		vendor:   "STC / Mobily",
		base:     300, spread: 500,
	},
}

// matchDemoRule resolves the category rule for a filename; nil means no
// keyword matched and the generic misc invoice applies.
func matchDemoRule(filename string) *demoRule {
	name := strings.ToLower(filename)
	for i := range demoRules {
		for _, keyword := range demoRules[i].keywords {
			if strings.Contains(name, keyword) {
				return &demoRules[i]
			}
		}
	}
	return nil
}

// newDemoInvoice derives a synthetic InvoiceRecord from the filename
func newDemoInvoice(filename string, now time.Time) *models.InvoiceRecord {
	name := filename
	if name == "" {
		name = "unknown"
	}

	category := models.CategoryMisc
	vendor := "Unknown Vendor"
	amount := 1000.0

	if rule := matchDemoRule(name); rule != nil {
		category = rule.category
		vendor = rule.vendor
		amount = float64(rule.base + rand.Intn(rule.spread))
	}

	vatRate := 0.0
	vatAmount := 0.0
	if category.CarriesVAT() {
		vatRate = demoVATRate * 100
		vatAmount = math.Round(amount * demoVATRate)
	}
	total := amount + vatAmount

	invoiceNumber := fmt.Sprintf("INV-%06d", now.UnixMilli()%1000000)
	date := now.Format("2006-01-02")
	reason := fmt.Sprintf("Categorized based on filename: %s", filename)
	confidence := 60.0
	currency := "SAR"

	record := &models.InvoiceRecord{
		VendorName:     &vendor,
		VendorNameEN:   &vendor,
		InvoiceNumber:  &invoiceNumber,
		Date:           &date,
		Subtotal:       &amount,
		VATAmount:      &vatAmount,
		VATRate:        &vatRate,
		Total:          &total,
		Currency:       &currency,
		Category:       category,
		CategoryReason: &reason,
		Items: []models.LineItem{
			{Description: "Invoice item", Quantity: 1, Price: amount},
		},
		Confidence: &confidence,
	}

	record.StampMetadata(filename, now, true)
	return record
}
