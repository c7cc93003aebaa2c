package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Twurtel/MagicalPowerCalculator/internal/mpcalc"
	"github.com/Twurtel/MagicalPowerCalculator/internal/output"
	"github.com/Twurtel/MagicalPowerCalculator/internal/workbook"
)

type Options struct {
	// ConfigPath overrides the mp_calculator.yaml lookup.
	ConfigPath string
	// Workbook overrides the workbook path from the config.
	Workbook string
	// Power is the initially selected powerstone; empty selects the first one.
	Power string
	// PowerLevel is the initial power level input; empty uses the config default.
	PowerLevel string
	// Once renders a single report and exits.
	Once bool
	// Export writes the full table and exits. "-" picks the dated default path.
	Export   string
	LogLevel string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) fillStdio() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// RunWithOptions executes the calculator and returns the desired process exit code.
func RunWithOptions(ctx context.Context, opts Options) int {
	opts.fillStdio()

	code, err := exitStatus(run(ctx, opts))
	if err != nil {
		slog.Error("fatal", "err", err)
	}
	return code
}

func run(ctx context.Context, opts Options) error {
	// Log config errors somewhere sensible before the configured logger exists.
	setupLogger(opts.Stderr, opts.LogLevel)

	root, configPath, err := resolveRoot(opts)
	if err != nil {
		return err
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	setupLogger(opts.Stderr, level)
	if configPath != "" {
		slog.Debug("config loaded", "path", configPath)
	}

	wbPath := cfg.Workbook
	if opts.Workbook != "" {
		wbPath = opts.Workbook
	}
	wbPath = resolvePath(root, wbPath)

	ds, err := workbook.Load(wbPath, cfg.Layout())
	if err != nil {
		return fmt.Errorf("load workbook: %w", err)
	}
	names := ds.PowerstoneNames()
	if len(names) == 0 {
		return fmt.Errorf("workbook %q has no powerstones", wbPath)
	}

	selected := names[0]
	if opts.Power != "" {
		if _, ok := ds.Powerstone(opts.Power); !ok {
			return fmt.Errorf("-power: %w: %q", mpcalc.ErrUnknownPowerstone, opts.Power)
		}
		selected = opts.Power
	}
	mpText := strconv.FormatFloat(cfg.DefaultPowerLevel, 'f', -1, 64)
	if opts.PowerLevel != "" {
		mpText = strings.TrimSpace(opts.PowerLevel)
	}

	r := output.Renderer{W: opts.Stdout, Color: useColor(cfg.Color, opts.Stdout)}
	form := NewForm(ds, r, selected, mpText, resolvePath(root, cfg.OutputDir))

	switch {
	case opts.Export != "":
		path := opts.Export
		if path == "-" {
			path = ""
		}
		out, err := form.Export(path)
		if err != nil {
			return exitWith(1, fmt.Errorf("export table: %w", err))
		}
		fmt.Fprintln(opts.Stdout, "Exported table to", out)
		return nil

	case opts.Once:
		if err := form.Recompute(); err != nil {
			// Already shown to the user.
			return exitSilently(1)
		}
		return nil
	}

	if isTerminal(opts.Stdin) {
		form.Prompt = "> "
	}
	_ = form.Recompute()
	return form.Run(ctx, opts.Stdin)
}
