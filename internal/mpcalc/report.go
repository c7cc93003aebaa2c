package mpcalc

import (
	"errors"
	"fmt"

	"github.com/Twurtel/MagicalPowerCalculator/internal/domain"
)

var ErrUnknownPowerstone = errors.New("unknown powerstone")

type Line struct {
	Stat  string
	Value float64
	Color string
}

type Report struct {
	Power string
	MP    float64
	// Lines follow the stat sheet order; stats that evaluate to zero are absent.
	Lines []Line
	Bonus *float64
}

// Evaluate computes every stat of the named powerstone at power level mp.
func Evaluate(ds *domain.Dataset, power string, mp float64) (Report, error) {
	rec, ok := ds.Powerstone(power)
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownPowerstone, power)
	}

	rep := Report{Power: rec.Name, MP: mp, Bonus: rec.UniqueBonus}
	for _, s := range ds.Stats() {
		v, err := Stat(rec.Base(s.Name), s.Multiplier, mp)
		if err != nil {
			return Report{}, err
		}
		if v == 0 {
			continue
		}
		rep.Lines = append(rep.Lines, Line{Stat: s.Name, Value: v, Color: s.Color})
	}
	return rep, nil
}
