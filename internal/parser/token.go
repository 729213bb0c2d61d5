package parser

import "regexp"

// reversedPrice matches a price token in reversed text: the cents tail of two
// or more digits, one or more decimal marks with optional spaces, then the
// whole-unit digits. Matching on the reversed line anchors the cents tail to
// the right-most digits, so "1,234.56" yields "234.56" rather than "1,234".
var reversedPrice = regexp.MustCompile(`\d{2,}(?: *[.,] *)+\d+`)

// PriceTokens returns every price-shaped token in line, left to right.
func PriceTokens(line string) []string {
	matches := reversedPrice.FindAllString(reverse(line), -1)
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[len(matches)-1-i] = reverse(m)
	}
	return tokens
}

// lastPriceToken returns the right-most price token, which is taken as the
// line's price. Earlier tokens (unit prices, product codes) belong to the
// description.
func lastPriceToken(line string) (string, bool) {
	tokens := PriceTokens(line)
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[len(tokens)-1], true
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
