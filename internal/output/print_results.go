package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Twurtel/MagicalPowerCalculator/internal/hexcolor"
	"github.com/Twurtel/MagicalPowerCalculator/internal/mpcalc"
)

// Renderer writes reports as plain text, optionally with 24-bit ANSI foreground colors.
type Renderer struct {
	W     io.Writer
	Color bool
}

func (r Renderer) paint(color, s string) string {
	if !r.Color {
		return s
	}
	red, green, blue := hexcolor.RGB(color)
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", red, green, blue, s)
}

func FormatBonus(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r Renderer) RenderReport(rep mpcalc.Report) {
	fmt.Fprintf(r.W, "Results for '%s' with MP = %.0f:\n\n", rep.Power, rep.MP)
	for _, l := range rep.Lines {
		fmt.Fprintln(r.W, r.paint(l.Color, fmt.Sprintf("  • %s: %.2f", l.Stat, l.Value)))
	}
	if rep.Bonus != nil {
		fmt.Fprintf(r.W, "\n  ✦ Unique Power Bonus: %s\n", FormatBonus(*rep.Bonus))
	}
}

func (r Renderer) RenderError(err error) {
	fmt.Fprintf(r.W, "Error: Calculation failed:\n%v\n", err)
}

// RenderPowerstones lists the selectable powerstones, marking the selected one.
func (r Renderer) RenderPowerstones(names []string, selected string) {
	if len(names) == 0 {
		fmt.Fprintln(r.W, "No powerstones")
		return
	}
	for i, n := range names {
		mark := " "
		if n == selected {
			mark = "*"
		}
		fmt.Fprintf(r.W, "%s %2d. %s\n", mark, i+1, n)
	}
}
