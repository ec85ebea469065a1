package cardform

// LuhnCheck reports whether digits passes the mod 10 checksum.
// Input must contain only ASCII digits; anything else fails.
func LuhnCheck(digits string) bool {
	if digits == "" {
		return false
	}

	sum := 0
	isSecond := false

	// Process from right to left
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')

		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isSecond = !isSecond
	}

	return sum%10 == 0
}
