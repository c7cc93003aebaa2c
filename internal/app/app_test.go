package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Twurtel/MagicalPowerCalculator/internal/domain"
	"github.com/Twurtel/MagicalPowerCalculator/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func fireballValue() float64 {
	return (50.0 / 100) * 2 * 719.28 * math.Pow(math.Log(1+1.9), 1.2)
}

func writeFixtureWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", "Stat multipliers"))
	_, err := f.NewSheet("Powers")
	require.NoError(t, err)

	setRows := func(sheet string, rows [][]any) {
		for i, row := range rows {
			ref, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			vals := row
			require.NoError(t, f.SetSheetRow(sheet, ref, &vals))
		}
	}
	setRows("Stat multipliers", [][]any{
		{"Stat:", "Base Stat Multiplier:", "Display Color"},
		{"Power", 2, "ff00ff"},
		{"Speed", 1, "#00ff00"},
	})
	setRows("Powers", [][]any{
		{"Power Name", "Power", "Speed", "Unique Power Bonus"},
		{"Fireball", 50, 0, nil},
		{"Frost", 0, 10, 15},
	})
	require.NoError(t, f.SaveAs(path))
}

// setupProject writes a config and workbook into a temp dir and returns the config path.
func setupProject(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	writeFixtureWorkbook(t, filepath.Join(dir, "data.xlsx"))
	cfg := "workbook: data.xlsx\ncolor: never\nlog_level: error\noutput_dir: out\n" + extra
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func runCapture(t *testing.T, opts Options) (int, string) {
	t.Helper()
	code, stdout, _ := runCaptureAll(t, opts)
	return code, stdout
}

func runCaptureAll(t *testing.T, opts Options) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}
	code := RunWithOptions(context.Background(), opts)
	return code, stdout.String(), stderr.String()
}

func TestRun_OnceEndToEnd(t *testing.T) {
	code, out := runCapture(t, Options{ConfigPath: setupProject(t, ""), Once: true})
	require.Equal(t, 0, code)

	assert.Contains(t, out, "Results for 'Fireball' with MP = 1000:")
	assert.Contains(t, out, fmt.Sprintf("  • Power: %.2f\n", fireballValue()))
	assert.NotContains(t, out, "Speed", "a stat with base 0 produces no line")
	assert.NotContains(t, out, "Unique Power Bonus")
}

func TestRun_OnceWithSelectionAndBonus(t *testing.T) {
	code, out := runCapture(t, Options{ConfigPath: setupProject(t, ""), Once: true, Power: "Frost", PowerLevel: "500"})
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Results for 'Frost' with MP = 500:")
	assert.Contains(t, out, "  • Speed: ")
	assert.Contains(t, out, "  ✦ Unique Power Bonus: 15\n")
}

func TestRun_OnceFailures(t *testing.T) {
	cfg := setupProject(t, "")

	code, out := runCapture(t, Options{ConfigPath: cfg, Once: true, PowerLevel: "lots"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error: Calculation failed:")

	code, out = runCapture(t, Options{ConfigPath: cfg, Once: true, PowerLevel: "-1"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "power level out of domain")
}

func TestRun_UnknownInitialPowerstoneFailsStartup(t *testing.T) {
	cfg := setupProject(t, "")

	code, out, errOut := runCaptureAll(t, Options{ConfigPath: cfg, Once: true, Power: "Nope"})
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "unknown powerstone")

	in := strings.NewReader("2000\n500\nquit\n")
	code, out, errOut = runCaptureAll(t, Options{ConfigPath: cfg, Power: "Nope", Stdin: in})
	assert.Equal(t, 1, code)
	assert.NotContains(t, out, "Error: Calculation failed:", "startup stops before the form runs")
	assert.Contains(t, errOut, "Nope")
}

func TestRun_InitialPowerstoneSelection(t *testing.T) {
	in := strings.NewReader("2000\nquit\n")
	code, out := runCapture(t, Options{ConfigPath: setupProject(t, ""), Power: "Frost", Stdin: in})
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Results for 'Frost' with MP = 1000:")
	assert.Contains(t, out, "Results for 'Frost' with MP = 2000:")
	assert.NotContains(t, out, "Fireball")
}

func TestRun_DefaultPowerLevelFromConfig(t *testing.T) {
	code, out := runCapture(t, Options{ConfigPath: setupProject(t, "default_power_level: 250\n"), Once: true})
	require.Equal(t, 0, code)
	assert.Contains(t, out, "with MP = 250:")
}

func TestRun_StartupFailures(t *testing.T) {
	dir := t.TempDir()
	missingWB := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(missingWB, []byte("workbook: nope.xlsx\n"), 0o644))
	code, _ := runCapture(t, Options{ConfigPath: missingWB, Once: true})
	assert.Equal(t, 1, code)

	badKey := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(badKey, []byte("workbok: typo.xlsx\n"), 0o644))
	code, _ = runCapture(t, Options{ConfigPath: badKey, Once: true})
	assert.Equal(t, 1, code)
}

func TestRun_Export(t *testing.T) {
	cfg := setupProject(t, "")
	target := filepath.Join(filepath.Dir(cfg), "table.xlsx")

	code, out := runCapture(t, Options{ConfigPath: cfg, Export: target, PowerLevel: "1000"})
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Exported table to "+target)
	_, err := os.Stat(target)
	assert.NoError(t, err)

	code, _ = runCapture(t, Options{ConfigPath: cfg, Export: "-", PowerLevel: "-3"})
	assert.Equal(t, 1, code)
}

func TestRun_Interactive(t *testing.T) {
	in := strings.NewReader("2000\nselect Frost\nmp abc\nlist\nquit\nmp 1\n")
	code, out := runCapture(t, Options{ConfigPath: setupProject(t, ""), Stdin: in})
	require.Equal(t, 0, code)

	assert.Contains(t, out, "Results for 'Fireball' with MP = 1000:")
	assert.Contains(t, out, "Results for 'Fireball' with MP = 2000:")
	assert.Contains(t, out, "Results for 'Frost' with MP = 2000:")
	assert.Contains(t, out, "invalid power level \"abc\"")
	assert.Contains(t, out, "*  2. Frost")
	assert.NotContains(t, out, "with MP = 1:", "input after quit is ignored")
}

func TestConfigUnmarshal_RejectsUnknownKeys(t *testing.T) {
	cfg := domain.DefaultConfig()
	err := yaml.Unmarshal([]byte("workbook: a.xlsx\nunknown_key: 1\n"), &cfg)
	assert.Error(t, err)
}

func TestConfigUnmarshal_KeepsDefaults(t *testing.T) {
	cfg := domain.DefaultConfig()
	in := "" +
		"workbook: other.xlsx\n" +
		"sheets:\n" +
		"  powers: Stones\n"
	require.NoError(t, yaml.Unmarshal([]byte(in), &cfg))

	assert.Equal(t, "other.xlsx", cfg.Workbook)
	assert.Equal(t, domain.DefaultPowerLevel, cfg.DefaultPowerLevel)
	l := cfg.Layout()
	assert.Equal(t, "Stones", l.Sheets.Powers)
	assert.Equal(t, "Stat multipliers", l.Sheets.Stats)
	assert.Equal(t, "Power Name", l.Columns.PowerName)
}

func TestLoadConfig_RejectsBadColorMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("color: rainbow\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPathIsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", &buf))
	assert.False(t, useColor("auto", &buf), "buffers are not terminals")
}

func TestResolvePath(t *testing.T) {
	root := filepath.Join("a", "b")
	assert.Equal(t, filepath.Join(root, "x.xlsx"), resolvePath(root, "x.xlsx"))
	abs := filepath.Join(string(filepath.Separator), "abs", "x.xlsx")
	assert.Equal(t, abs, resolvePath(root, abs))
	assert.Equal(t, "", resolvePath(root, ""))
}

func TestExitStatus(t *testing.T) {
	code, err := exitStatus(nil)
	assert.Equal(t, 0, code)
	assert.NoError(t, err)

	code, err = exitStatus(fmt.Errorf("wrapped: %w", exitWith(3, fmt.Errorf("boom"))))
	assert.Equal(t, 3, code)
	assert.EqualError(t, err, "boom")

	code, err = exitStatus(exitSilently(2))
	assert.Equal(t, 2, code)
	assert.NoError(t, err, "already reported")

	code, err = exitStatus(exitSilently(0))
	assert.Equal(t, 0, code)
	assert.NoError(t, err)

	code, err = exitStatus(fmt.Errorf("plain"))
	assert.Equal(t, 1, code)
	assert.EqualError(t, err, "plain")
}

func TestForm_FailureKeepsState(t *testing.T) {
	bonus := 15.0
	ds := domain.NewDataset(
		[]domain.StatDefinition{{Name: "Power", Multiplier: 2, Color: "#FF00FF"}},
		[]domain.PowerstoneRecord{
			{Name: "Fireball", BaseStats: map[string]float64{"Power": 50}},
			{Name: "Ember", BaseStats: map[string]float64{"Power": 5}, UniqueBonus: &bonus},
		},
	)
	var buf bytes.Buffer
	form := NewForm(ds, output.Renderer{W: &buf}, "Fireball", "1000", t.TempDir())

	require.NoError(t, form.Recompute())
	before, ok := form.Last()
	require.True(t, ok)

	assert.Error(t, form.Commit("-600"))
	assert.Error(t, form.Commit("x"))
	assert.Error(t, form.Select("Missing"))

	after, ok := form.Last()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, "Fireball", form.Selected())
	assert.Equal(t, "1000", form.PowerLevelText())

	require.NoError(t, form.Select(form.resolveSelection("#2")))
	assert.Equal(t, "Ember", form.Selected())
	require.NoError(t, form.Commit(" 10 "))
	assert.Equal(t, "10", form.PowerLevelText())
}

func TestForm_ExportDefaultPath(t *testing.T) {
	ds := domain.NewDataset(
		[]domain.StatDefinition{{Name: "Power", Multiplier: 2, Color: "#FF00FF"}},
		[]domain.PowerstoneRecord{{Name: "Fireball", BaseStats: map[string]float64{"Power": 50}}},
	)
	dir := t.TempDir()
	form := NewForm(ds, output.Renderer{W: &bytes.Buffer{}}, "Fireball", "1000", dir)
	form.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	path, err := form.Export("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20261019_mp_table_1000.xlsx"), path)
}

func TestForm_RunStopsOnCancel(t *testing.T) {
	ds := domain.NewDataset(nil, []domain.PowerstoneRecord{{Name: "Fireball"}})
	form := NewForm(ds, output.Renderer{W: &bytes.Buffer{}}, "Fireball", "1000", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, pw := io.Pipe()
	defer pw.Close()
	assert.NoError(t, form.Run(ctx, pr))
}
