package gauge

import (
	"fmt"
	"strconv"
)

// Digits is the number of decimal places a gauge shows.
type Digits uint8

const (
	DigitsNone Digits = iota
	DigitsOne
	DigitsTwo
)

// ParseDigits maps a configured precision to Digits.
func ParseDigits(n int) (Digits, error) {
	if n < 0 || n > int(DigitsTwo) {
		return 0, fmt.Errorf("digits must be 0, 1 or 2 (got %d)", n)
	}
	return Digits(n), nil
}

// FormatValue renders v with exactly d decimal places.
func FormatValue(v float32, d Digits) string {
	return strconv.FormatFloat(float64(v), 'f', int(d), 32)
}
