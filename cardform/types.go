// Package cardform provides the formatting and validation core of the payment form
package cardform

// Field identifies one input of the payment form
type Field int

// Fields in display order. ErrorMessage scans them in this order.
const (
	FieldName Field = iota
	FieldCardNumber
	FieldExpireDate
	FieldCVV
)

// Fields lists every form field in display order
var Fields = [...]Field{FieldName, FieldCardNumber, FieldExpireDate, FieldCVV}

// String returns the form control name of the field
func (f Field) String() string {
	switch f {
	case FieldName:
		return "firstName"
	case FieldCardNumber:
		return "cardNumber"
	case FieldExpireDate:
		return "expireDate"
	case FieldCVV:
		return "cvv"
	default:
		return "unknown"
	}
}

// ErrorTag is a validation error reported for a single field
type ErrorTag string

const (
	NoError ErrorTag = ""

	TagRequired  ErrorTag = "required"
	TagMinLength ErrorTag = "minlength"
	TagLength    ErrorTag = "length"
	TagLuhn      ErrorTag = "luhn"
	TagFormat    ErrorTag = "format"
	TagMonth     ErrorTag = "month"
	TagExpired   ErrorTag = "expired"
	TagCVV       ErrorTag = "cvv"
)

// fieldTags holds each field's tags in message priority order
var fieldTags = map[Field][]ErrorTag{
	FieldName:       {TagRequired, TagMinLength},
	FieldCardNumber: {TagRequired, TagLength, TagLuhn},
	FieldExpireDate: {TagRequired, TagFormat, TagMonth, TagExpired},
	FieldCVV:        {TagRequired, TagCVV},
}

// Tags returns the closed tag set of a field in priority order
func (f Field) Tags() []ErrorTag {
	tags := fieldTags[f]
	out := make([]ErrorTag, len(tags))
	copy(out, tags)
	return out
}

// FieldErrors is the set of tags currently raised on a field
type FieldErrors map[ErrorTag]bool

// Has reports whether tag is raised
func (fe FieldErrors) Has(tag ErrorTag) bool {
	return fe[tag]
}

// Empty reports whether the field is valid
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// First returns the highest priority tag for field, or NoError
func (fe FieldErrors) First(field Field) ErrorTag {
	for _, tag := range fieldTags[field] {
		if fe[tag] {
			return tag
		}
	}
	return NoError
}

// Brand is the card network inferred from the number prefix
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandMir        Brand = "mir"
	BrandDefault    Brand = "default"
)

// DisplayName returns a human readable brand name
func (b Brand) DisplayName() string {
	switch b {
	case BrandVisa:
		return "Visa"
	case BrandMastercard:
		return "Mastercard"
	case BrandMir:
		return "Mir"
	default:
		return "Card"
	}
}

// Length limits applied by the normalizers
const (
	CardNumberDigits = 16
	ExpiryDigits     = 4
	MaxCVVDigits     = 4
	MinNameLength    = 2
)
