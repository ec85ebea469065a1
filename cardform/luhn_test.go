package cardform

import "testing"

func TestLuhnCheck(t *testing.T) {
	tests := []struct {
		name     string
		digits   string
		expected bool
	}{
		// Valid card numbers
		{"Valid Visa 1", "4111111111111111", true},
		{"Valid Visa 2", "4532015112830366", true},
		{"Valid Mastercard", "5105105105105100", true},
		{"Valid Mastercard 2", "5425233430109903", true},
		{"All zeros", "0000000000000000", true},
		{"Short valid", "18", true},

		// Invalid card numbers
		{"Invalid Luhn", "4111111111111112", false},
		{"Random invalid", "1234567890123456", false},
		{"Wrong checksum", "4532015112830367", false},

		// Edge cases
		{"Empty string", "", false},
		{"Contains space", "4111 1111 1111 1111", false},
		{"Contains letters", "4111111111111a11", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LuhnCheck(tt.digits)
			if result != tt.expected {
				t.Errorf("LuhnCheck(%q) = %v, expected %v", tt.digits, result, tt.expected)
			}
		})
	}
}

// TestLuhnCheck_MatchesFormula compares against the doubled-digit sum for
// every single digit change of a known good number.
func TestLuhnCheck_MatchesFormula(t *testing.T) {
	base := []byte("4532015112830366")

	formula := func(s []byte) bool {
		sum := 0
		for i := 0; i < len(s); i++ {
			d := int(s[len(s)-1-i] - '0')
			if i%2 == 1 {
				d *= 2
				if d > 9 {
					d = d/10 + d%10
				}
			}
			sum += d
		}
		return sum%10 == 0
	}

	for pos := 0; pos < len(base); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			s := make([]byte, len(base))
			copy(s, base)
			s[pos] = d
			if got, want := LuhnCheck(string(s)), formula(s); got != want {
				t.Errorf("LuhnCheck(%s) = %v, formula says %v", s, got, want)
			}
		}
	}
}
