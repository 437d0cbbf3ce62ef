package dto

import "github.com/shopspring/decimal"

// Money renders a monetary amount as a fixed two-digit decimal string.
func Money(d decimal.Decimal) string { return d.StringFixed(2) }

// Date is the layout of calendar-day fields.
const Date = "2006-01-02"

// Timestamp renders server-assigned times in RFC 3339 (UTC).
const Timestamp = "2006-01-02T15:04:05.000Z07:00"
