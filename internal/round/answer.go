package round

import (
	"strconv"
	"strings"
)

// CheckAnswer compares the player's input against the expected integer.
//
// Normalization rules:
// - Whitespace is trimmed
// - A leading '+' is accepted
// - Leading zeros are ignored ("007" matches 7)
// - Thousands separators are ignored ("1,000" matches 1000)
//
// Anything that is not an integer is wrong.
func CheckAnswer(input string, expected int) bool {
	n, ok := ParseAnswer(input)
	return ok && n == expected
}

// ParseAnswer normalizes input into an integer.
func ParseAnswer(input string) (int, bool) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
