package mpcalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Scale    = 719.28
	Slope    = 0.0019
	Exponent = 1.2
)

var ErrPowerLevelDomain = errors.New("power level out of domain")

// Stat computes (base/100) * multiplier * Scale * ln(1 + Slope*mp)^Exponent.
// mp must be finite and >= 0: below that the logarithm turns negative and the
// fractional power has no real value.
func Stat(base, multiplier, mp float64) (float64, error) {
	if math.IsNaN(mp) || math.IsInf(mp, 0) || mp < 0 {
		return 0, fmt.Errorf("%w: mp=%v (must be a finite number >= 0)", ErrPowerLevelDomain, mp)
	}
	ln := math.Log1p(Slope * mp)
	return (base / 100) * multiplier * Scale * math.Pow(ln, Exponent), nil
}

// ParsePowerLevel parses the power level input.
func ParsePowerLevel(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("power level is empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid power level %q", s)
	}
	return v, nil
}
