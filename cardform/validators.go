package cardform

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	expiryRe = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// CheckRequired returns TagRequired for an empty value. Blank names are
// reported by ValidateName as TagMinLength.
func CheckRequired(value string) ErrorTag {
	if value == "" {
		return TagRequired
	}
	return NoError
}

// ValidateName checks the cardholder name length. Empty values are left
// to CheckRequired.
func ValidateName(value string) ErrorTag {
	if value == "" {
		return NoError
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) < MinNameLength {
		return TagMinLength
	}
	return NoError
}

// ValidateCardNumber requires exactly 16 digits passing the Luhn check
func ValidateCardNumber(value string) ErrorTag {
	if value == "" {
		return NoError
	}

	num := StripDigits(value)
	if len(num) != CardNumberDigits {
		return TagLength
	}
	if !LuhnCheck(num) {
		return TagLuhn
	}
	return NoError
}

// ValidateExpiryDate checks an MM/YY value against now. The card is valid
// through the last day of its expiry month.
func ValidateExpiryDate(value string, now time.Time) ErrorTag {
	if value == "" {
		return NoError
	}

	match := expiryRe.FindStringSubmatch(value)
	if match == nil {
		return TagFormat
	}

	month, _ := strconv.Atoi(match[1])
	if month < 1 || month > 12 {
		return TagMonth
	}

	yy, _ := strconv.Atoi(match[2])
	year := 2000 + yy

	currentYear, currentMonth := now.Year(), int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return TagExpired
	}
	return NoError
}

// ValidateCVV accepts 3 or 4 digits regardless of card brand
func ValidateCVV(value string) ErrorTag {
	if value == "" {
		return NoError
	}
	if !cvvRe.MatchString(StripDigits(value)) {
		return TagCVV
	}
	return NoError
}

// ValidateField runs the required check and the field validator on value.
// A required field that is empty only reports TagRequired.
func ValidateField(field Field, value string, now time.Time) FieldErrors {
	errs := FieldErrors{}
	if tag := CheckRequired(value); tag != NoError {
		errs[tag] = true
		return errs
	}

	var tag ErrorTag
	switch field {
	case FieldName:
		tag = ValidateName(value)
	case FieldCardNumber:
		tag = ValidateCardNumber(value)
	case FieldExpireDate:
		tag = ValidateExpiryDate(value, now)
	case FieldCVV:
		tag = ValidateCVV(value)
	}
	if tag != NoError {
		errs[tag] = true
	}
	return errs
}
