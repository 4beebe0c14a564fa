// Package parse turns raw CSV rows and roster JSON into normalized model
// records. Numeric fields never fail: anything unparseable becomes 0.
// Structural problems (bad team id, missing required column) are returned as
// errors so callers can skip the row and keep going.
package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidTID marks a row whose team id is not an integer in [0,29].
	ErrInvalidTID = errors.New("invalid tid")
	// ErrMissingField marks a row lacking a required value.
	ErrMissingField = errors.New("missing required field")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate runs struct tag validation. Failures wrap ErrMissingField.
func Validate(v any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// Int parses an integer stat. Decimal strings are truncated toward zero;
// empty, non-numeric or out-of-range input yields 0.
func Int(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f := Float(s)
	if f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}

// Float parses a decimal stat. Empty, non-numeric, NaN and infinite input
// yield 0.
func Float(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FloatStripCommas is Float after removing thousands separators.
func FloatStripCommas(s string) float64 {
	return Float(strings.ReplaceAll(s, ",", ""))
}

// TID parses a team id and checks the [0,29] range. Integral decimals such
// as "5.0" are accepted; fractional values are not.
func TID(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTID, s)
	}
	if f < 0 || f > 29 {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidTID, f)
	}
	return int(f), nil
}

// Matchup separators, tried in this order.
const (
	awaySeparator = " @ "
	homeSeparator = " vs. "
)

// SplitMatchup splits "LAL @ BOS" or "LAL vs. BOS" into (team, opponent).
// Strings with neither separator come back whole as the team with an empty
// opponent. No check is made that the abbreviations are real teams.
func SplitMatchup(s string) (team, opponent string) {
	for _, sep := range []string{awaySeparator, homeSeparator} {
		if before, after, ok := strings.Cut(s, sep); ok {
			return before, after
		}
	}
	return s, ""
}
