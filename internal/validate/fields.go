// Package validate holds the pure local input checks run before anything is
// sent to the server.
package validate

import (
	"errors"
	"strconv"
	"strings"
)

// ErrQuantity is reported when a quantity field does not hold a whole number
// of at least 1. Such input is a local validation fault and never reaches
// the network.
var ErrQuantity = errors.New("quantity must be a whole number of at least 1")

// RangeState is the presentational outcome of a bound-pair check.
type RangeState int

const (
	// RangeValid means no constraint is violated (including the case where
	// either bound is blank or non-numeric: "no constraint supplied yet").
	RangeValid RangeState = iota
	// RangeInvalid means both bounds parse and min exceeds max.
	RangeInvalid
)

// PriceRange checks a min/max bound pair. It is invalid only when both
// values parse as numbers and min > max. It marks state for display; it
// never blocks submission.
func PriceRange(min, max string) RangeState {
	lo, okLo := parseNumber(min)
	hi, okHi := parseNumber(max)
	if okLo && okHi && lo > hi {
		return RangeInvalid
	}
	return RangeValid
}

// Quantity coerces a quantity field to an integer. Empty, non-numeric, or
// sub-1 input is rejected so it is never silently sent as zero.
func Quantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, ErrQuantity
	}
	return n, nil
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
