package cardform

// FieldStatus is the render-time view of one field used by ErrorMessage
type FieldStatus struct {
	Field   Field
	Touched bool
	Errors  FieldErrors
}

var messages = map[Field]map[ErrorTag]string{
	FieldName: {
		TagRequired:  "Please enter cardholder name",
		TagMinLength: "Name must be at least 2 characters",
	},
	FieldCardNumber: {
		TagRequired: "Please enter card number",
		TagLength:   "Please enter a 16-digit card number",
		TagLuhn:     "Invalid card number",
	},
	FieldExpireDate: {
		TagRequired: "Please enter expiry date",
		TagFormat:   "Invalid date format (MM/YY)",
		TagMonth:    "Please enter a valid month (01-12)",
		TagExpired:  "Card has expired",
	},
	FieldCVV: {
		TagRequired: "Please enter CVV",
		TagCVV:      "CVV should be 3 or 4 digits long",
	},
}

// Message returns the user facing text for tag on field, or "" when the tag
// does not belong to the field.
func Message(field Field, tag ErrorTag) string {
	return messages[field][tag]
}

// ErrorMessage picks the single message to display. Fields are scanned in
// display order regardless of the order in statuses; only touched fields
// with errors qualify.
func ErrorMessage(statuses []FieldStatus) string {
	byField := make(map[Field]FieldStatus, len(statuses))
	for _, st := range statuses {
		byField[st.Field] = st
	}

	for _, field := range Fields {
		st, ok := byField[field]
		if !ok || !st.Touched || st.Errors.Empty() {
			continue
		}
		if tag := st.Errors.First(field); tag != NoError {
			return Message(field, tag)
		}
	}

	return ""
}
