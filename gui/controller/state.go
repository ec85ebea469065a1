package controller

import (
	"strings"
	"time"

	"github.com/kacebover/payment-form/cardform"
)

// PaymentStatus is the state of the simulated submission
type PaymentStatus int

const (
	StatusNone PaymentStatus = iota
	StatusValidationError
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s PaymentStatus) String() string {
	switch s {
	case StatusValidationError:
		return "validation_error"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "none"
	}
}

// Label returns the status line shown under the form
func (s PaymentStatus) Label() string {
	switch s {
	case StatusValidationError, StatusFailure:
		return "Error"
	case StatusPending:
		return "Loading order..."
	case StatusSuccess:
		return "Success order"
	default:
		return ""
	}
}

// FieldState is the value and interaction flags of one field
type FieldState struct {
	Value   string
	Touched bool
	Dirty   bool
}

// FormState is an immutable snapshot of the form. Every update returns a
// new value; the receiver is never modified.
type FormState struct {
	fields  [len(cardform.Fields)]FieldState
	Status  PaymentStatus
	Flipped bool
}

// Field returns the state of f
func (fs FormState) Field(f cardform.Field) FieldState {
	return fs.fields[f]
}

// Value returns the stored value of f
func (fs FormState) Value(f cardform.Field) string {
	return fs.fields[f].Value
}

// Input normalizes raw for f and stores the result. The stored value is
// final: it is not fed back through the normalizer.
func (fs FormState) Input(f cardform.Field, raw string) FormState {
	fs.fields[f].Value = cardform.Normalize(f, raw)
	fs.fields[f].Dirty = true
	return fs
}

// Blur marks f as touched
func (fs FormState) Blur(f cardform.Field) FormState {
	fs.fields[f].Touched = true
	return fs
}

// TouchAll marks every field as touched
func (fs FormState) TouchAll() FormState {
	for i := range fs.fields {
		fs.fields[i].Touched = true
	}
	return fs
}

// Reset clears values and interaction flags, keeping Status
func (fs FormState) Reset() FormState {
	fs.fields = [len(cardform.Fields)]FieldState{}
	fs.Flipped = false
	return fs
}

// WithStatus returns fs with the given status
func (fs FormState) WithStatus(s PaymentStatus) FormState {
	fs.Status = s
	return fs
}

// WithFlip returns fs with the card flip flag set
func (fs FormState) WithFlip(flipped bool) FormState {
	fs.Flipped = flipped
	return fs
}

// Errors validates every field against now
func (fs FormState) Errors(now time.Time) map[cardform.Field]cardform.FieldErrors {
	errs := make(map[cardform.Field]cardform.FieldErrors, len(cardform.Fields))
	for _, f := range cardform.Fields {
		errs[f] = cardform.ValidateField(f, fs.fields[f].Value, now)
	}
	return errs
}

// Valid reports whether every field passes validation
func (fs FormState) Valid(now time.Time) bool {
	for _, fe := range fs.Errors(now) {
		if !fe.Empty() {
			return false
		}
	}
	return true
}

// ErrorMessage returns the single message to display for touched fields
func (fs FormState) ErrorMessage(now time.Time) string {
	errs := fs.Errors(now)
	statuses := make([]cardform.FieldStatus, 0, len(cardform.Fields))
	for _, f := range cardform.Fields {
		statuses = append(statuses, cardform.FieldStatus{
			Field:   f,
			Touched: fs.fields[f].Touched,
			Errors:  errs[f],
		})
	}
	return cardform.ErrorMessage(statuses)
}

// CardView is what the card preview renders
type CardView struct {
	Number  string
	Brand   cardform.Brand
	Holder  string
	Expiry  string
	CVV     string
	Flipped bool
}

// Card projects fs onto the card preview using masker
func (fs FormState) Card(masker *cardform.Masker) CardView {
	number := fs.Value(cardform.FieldCardNumber)

	holder := strings.ToUpper(strings.TrimSpace(fs.Value(cardform.FieldName)))
	if holder == "" {
		holder = "CARDHOLDER NAME"
	}

	expiry := fs.Value(cardform.FieldExpireDate)
	if expiry == "" {
		expiry = "MM/YY"
	}

	return CardView{
		Number:  masker.CardNumber(number),
		Brand:   cardform.CardType(number),
		Holder:  holder,
		Expiry:  expiry,
		CVV:     masker.CVV(fs.Value(cardform.FieldCVV)),
		Flipped: fs.Flipped,
	}
}
