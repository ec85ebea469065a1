package cardform

import (
	"regexp"
	"strings"
	"unicode"
)

type brandRule struct {
	brand  Brand
	prefix *regexp.Regexp
}

// brandRules are tested in order, first match wins
var brandRules = []brandRule{
	{BrandVisa, regexp.MustCompile(`^4`)},
	{BrandMastercard, regexp.MustCompile(`^5[1-5]`)},
	{BrandMir, regexp.MustCompile(`^220[0-4]`)},
}

// CardType classifies value by its leading digits
func CardType(value string) Brand {
	number := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)

	for _, rule := range brandRules {
		if rule.prefix.MatchString(number) {
			return rule.brand
		}
	}
	return BrandDefault
}
