package cardform

import "strings"

// DefaultMaskChar is the character used for hidden digits
const DefaultMaskChar = '*'

// Masker renders card numbers for the card preview
type Masker struct {
	maskChar rune
}

// Option configures a Masker
type Option func(*Masker)

// WithMaskChar sets a custom mask character
func WithMaskChar(char rune) Option {
	return func(m *Masker) {
		m.maskChar = char
	}
}

// NewMasker creates a Masker with the given options
func NewMasker(opts ...Option) *Masker {
	m := &Masker{maskChar: DefaultMaskChar}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Placeholder returns the fully masked 16 digit template
func (m *Masker) Placeholder() string {
	return m.pad("")
}

// pad fills digits up to 16 positions with the mask character and groups by four
func (m *Masker) pad(digits string) string {
	runes := make([]rune, 0, CardNumberDigits)
	for _, c := range digits {
		runes = append(runes, c)
	}
	for len(runes) < CardNumberDigits {
		runes = append(runes, m.maskChar)
	}

	groups := make([]string, 0, 4)
	for i := 0; i < CardNumberDigits; i += 4 {
		groups = append(groups, string(runes[i:i+4]))
	}
	return strings.Join(groups, " ")
}

// CardNumber masks a (possibly partial) card number. Partial input is shown
// as typed with the remaining positions masked; a complete number keeps only
// the first and last four digits.
func (m *Masker) CardNumber(value string) string {
	clean := truncate(StripDigits(value), CardNumberDigits)
	if len(clean) < CardNumberDigits {
		return m.pad(clean)
	}

	middle := strings.Repeat(string(m.maskChar), 4)
	return clean[:4] + " " + middle + " " + middle + " " + clean[12:]
}

// CVV hides every digit of the security code
func (m *Masker) CVV(value string) string {
	return strings.Repeat(string(m.maskChar), len(StripDigits(value)))
}

var defaultMasker = NewMasker()

// MaskCardNumber masks value with the default mask character.
// Empty input yields "**** **** **** ****".
func MaskCardNumber(value string) string {
	return defaultMasker.CardNumber(value)
}
