package vision

// systemPrompt fixes the model's role for every extraction request
const systemPrompt = `You are an expert invoice/receipt analyzer for Saudi Arabian businesses.
Extract data from invoices and receipts accurately.
Support both Arabic and English text.
Always respond with valid JSON only, no markdown.`

// extractionPrompt is the field-by-field schema the model must fill in
const extractionPrompt = `Analyze this invoice/receipt image and extract the following information.
Return ONLY a JSON object with these fields:

{
  "vendor_name": "Name of the vendor/supplier (Arabic or English)",
  "vendor_name_en": "English translation if Arabic",
  "invoice_number": "Invoice/receipt number if visible",
  "date": "Date in YYYY-MM-DD format",
  "subtotal": number (amount before VAT),
  "vat_amount": number (VAT/tax amount, 0 if not applicable),
  "vat_rate": number (VAT percentage, typically 15 in Saudi),
  "total": number (total amount including VAT),
  "currency": "SAR" or other currency code,
  "category": "suppliers" | "salaries" | "rent" | "misc",
  "category_reason": "Brief reason for categorization",
  "items": [{"description": "item name", "quantity": 1, "price": 100}],
  "confidence": number (0-100, your confidence in extraction accuracy)
}

Category guidelines:
- "suppliers": Material purchases, inventory, goods from vendors
- "salaries": Payroll, wages, employee payments
- "rent": Rental payments, lease payments, property
- "misc": Utilities (electricity, water, internet), maintenance, services, other

If you cannot read something clearly, use null for that field.
Respond with JSON only, no explanation.`
