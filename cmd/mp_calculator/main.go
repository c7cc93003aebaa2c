package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Twurtel/MagicalPowerCalculator/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to mp_calculator.yaml (default: search the working directory and its parents)")
	workbookPath := flag.String("workbook", "", "workbook to load instead of the one in the config")
	power := flag.String("power", "", "powerstone to select initially (default: first in the workbook)")
	mp := flag.String("mp", "", "initial power level (default: default_power_level from the config)")
	once := flag.Bool("once", false, "print one result and exit")
	export := flag.String("export", "", "write the table of all powerstones at -mp to this xlsx path and exit (\"-\" for the default path)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides log_level from the config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.RunWithOptions(ctx, app.Options{
		ConfigPath: *configPath,
		Workbook:   *workbookPath,
		Power:      *power,
		PowerLevel: *mp,
		Once:       *once,
		Export:     *export,
		LogLevel:   *logLevel,
	})
	stop()
	os.Exit(code)
}
