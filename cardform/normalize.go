package cardform

import "strings"

// StripDigits removes every character that is not an ASCII digit
func StripDigits(raw string) string {
	result := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			result = append(result, raw[i])
		}
	}
	return string(result)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// groupDigits joins digits into space separated groups of size
func groupDigits(digits string, size int) string {
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/size)
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%size == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatCardNumber keeps at most 16 digits and groups them by four,
// e.g. "4111-1111 11" -> "4111 1111 11".
func FormatCardNumber(raw string) string {
	return groupDigits(truncate(StripDigits(raw), CardNumberDigits), 4)
}

// FormatExpiryDate keeps at most 4 digits and inserts "/" after the month
// once a third digit is typed.
func FormatExpiryDate(raw string) string {
	value := truncate(StripDigits(raw), ExpiryDigits)
	if len(value) > 2 {
		value = value[:2] + "/" + value[2:]
	}
	return value
}

// FormatCVV keeps at most 4 digits
func FormatCVV(raw string) string {
	return truncate(StripDigits(raw), MaxCVVDigits)
}

// Normalize applies the normalizer that belongs to field.
// Names are stored as typed.
func Normalize(field Field, raw string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(raw)
	case FieldExpireDate:
		return FormatExpiryDate(raw)
	case FieldCVV:
		return FormatCVV(raw)
	default:
		return raw
	}
}
