package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Twurtel/MagicalPowerCalculator/internal/domain"
	"github.com/Twurtel/MagicalPowerCalculator/internal/mpcalc"
	"github.com/Twurtel/MagicalPowerCalculator/internal/output"
)

const formHelp = `Commands:
  <number> | mp <number>       set the power level
  select <name|index>          choose a powerstone (also: power <...>)
  list                         list powerstones
  export [path]                write the full table for the current power level
  help                         show this help
  quit                         exit
`

// Form is the terminal rendition of the calculator window: one powerstone
// selection, one power level input and the last rendered report.
// Select and Commit are the two triggers that recompute it.
type Form struct {
	ds        *domain.Dataset
	r         output.Renderer
	exportDir string

	// Prompt is printed before every read in Run; empty disables it.
	Prompt string

	selected string
	mpText   string
	last     *mpcalc.Report

	now func() time.Time
}

func NewForm(ds *domain.Dataset, r output.Renderer, selected, mpText, exportDir string) *Form {
	return &Form{
		ds:        ds,
		r:         r,
		exportDir: exportDir,
		selected:  selected,
		mpText:    mpText,
		now:       time.Now,
	}
}

func (f *Form) Selected() string { return f.selected }

func (f *Form) PowerLevelText() string { return f.mpText }

// Last returns the report currently on screen.
func (f *Form) Last() (mpcalc.Report, bool) {
	if f.last == nil {
		return mpcalc.Report{}, false
	}
	return *f.last, true
}

// Recompute renders the report for the current selection and power level.
func (f *Form) Recompute() error {
	return f.apply(f.selected, f.mpText)
}

// Select changes the selected powerstone and recomputes.
func (f *Form) Select(name string) error {
	return f.apply(name, f.mpText)
}

// Commit sets the power level input and recomputes.
func (f *Form) Commit(text string) error {
	return f.apply(f.selected, strings.TrimSpace(text))
}

// apply keeps the previous state and output when the computation fails.
func (f *Form) apply(selected, mpText string) error {
	mp, err := mpcalc.ParsePowerLevel(mpText)
	if err != nil {
		f.r.RenderError(err)
		return err
	}
	rep, err := mpcalc.Evaluate(f.ds, selected, mp)
	if err != nil {
		f.r.RenderError(err)
		return err
	}
	f.selected = selected
	f.mpText = mpText
	f.last = &rep
	f.r.RenderReport(rep)
	return nil
}

// Export writes the table for the committed power level. An empty path uses the
// dated default under the export directory.
func (f *Form) Export(path string) (string, error) {
	mp, err := mpcalc.ParsePowerLevel(f.mpText)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = output.DefaultTablePath(f.exportDir, mp, f.now())
	}
	return output.ExportTableXLSX(path, f.ds, mp)
}

// resolveSelection maps an exact name or a 1-based list index to a powerstone name.
func (f *Form) resolveSelection(arg string) string {
	if _, ok := f.ds.Powerstone(arg); ok {
		return arg
	}
	names := f.ds.PowerstoneNames()
	if i, err := strconv.Atoi(strings.TrimPrefix(arg, "#")); err == nil && i >= 1 && i <= len(names) {
		return names[i-1]
	}
	return arg
}

// Run reads commands from in until EOF, quit, or ctx is done.
func (f *Form) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		f.prompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if f.handle(strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

func (f *Form) prompt() {
	if f.Prompt != "" {
		fmt.Fprint(f.r.W, f.Prompt)
	}
}

// handle runs one command line and reports whether the form should close.
func (f *Form) handle(line string) bool {
	if line == "" {
		return false
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(f.r.W, formHelp)
	case "list", "ls":
		f.r.RenderPowerstones(f.ds.PowerstoneNames(), f.selected)
	case "select", "power":
		_ = f.Select(f.resolveSelection(arg))
	case "mp":
		_ = f.Commit(arg)
	case "export":
		path, err := f.Export(arg)
		if err != nil {
			f.r.RenderError(err)
			return false
		}
		fmt.Fprintln(f.r.W, "Exported table to", path)
	default:
		if _, err := strconv.ParseFloat(line, 64); err == nil {
			_ = f.Commit(line)
			return false
		}
		if _, ok := f.ds.Powerstone(line); ok {
			_ = f.Select(line)
			return false
		}
		fmt.Fprintf(f.r.W, "Unknown command %q (type help)\n", line)
	}
	return false
}
