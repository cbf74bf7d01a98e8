package helpers

import "fmt"

// FormatCurrency formats an amount for the given ISO currency code.
// Turkish symbols use lira formatting, everything else falls back to USD.
func FormatCurrency(amount float64, currency string) string {
	if currency == "TRY" {
		return FormatLira(amount)
	}
	return FormatUSD(amount)
}

// FormatLira formats a number as Turkish Lira, with dots as thousand
// separators and a comma before the kuruş part, e.g. "₺1.234.567,89".
func FormatLira(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	// Round once on the total kuruş so carry past ,99 bumps the whole part
	total := int64(amount*100 + 0.5)
	whole, cents := total/100, total%100

	formatted := groupDigits(whole, ".")
	if negative {
		return fmt.Sprintf("₺-%s,%02d", formatted, cents)
	}
	return fmt.Sprintf("₺%s,%02d", formatted, cents)
}

// FormatUSD formats a number as US Dollars with comma thousand separators,
// e.g. "$1,234,567.89".
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	total := int64(amount*100 + 0.5)
	whole, cents := total/100, total%100

	formatted := groupDigits(whole, ",")
	if negative {
		return fmt.Sprintf("$-%s.%02d", formatted, cents)
	}
	return fmt.Sprintf("$%s.%02d", formatted, cents)
}

// groupDigits inserts the separator every three digits from the right.
func groupDigits(value int64, separator string) string {
	str := fmt.Sprintf("%d", value)
	length := len(str)
	if length <= 3 {
		return str
	}

	var result string
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result += separator
		}
		result += string(digit)
	}
	return result
}
