// Package workbook loads the stat multiplier and powers tables from an XLSX file.
package workbook

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Twurtel/MagicalPowerCalculator/internal/domain"
	"github.com/Twurtel/MagicalPowerCalculator/internal/hexcolor"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetMissing  = errors.New("sheet missing")
	ErrColumnMissing = errors.New("column missing")
)

// Load reads both tables described by layout from the workbook at path.
func Load(path string, layout domain.Layout) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	statRows, err := readSheet(f, layout.Sheets.Stats)
	if err != nil {
		return nil, err
	}
	stats, err := parseStats(layout.Sheets.Stats, layout.Columns, statRows)
	if err != nil {
		return nil, err
	}

	powerRows, err := readSheet(f, layout.Sheets.Powers)
	if err != nil {
		return nil, err
	}
	powers, err := parsePowers(layout.Sheets.Powers, layout.Columns, stats, powerRows)
	if err != nil {
		return nil, err
	}

	slog.Info("workbook loaded", "path", path, "stats", len(stats), "powerstones", len(powers))
	return domain.NewDataset(stats, powers), nil
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSheetMissing, sheet)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func requireColumn(sheet string, idx map[string]int, name string) (int, error) {
	i, ok := idx[strings.TrimSpace(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q in sheet %q", ErrColumnMissing, name, sheet)
	}
	return i, nil
}

func optionalColumn(idx map[string]int, name string) int {
	if i, ok := idx[strings.TrimSpace(name)]; ok {
		return i
	}
	return -1
}

func cellRef(col, row int) string {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return ref
}

func numberAt(sheet string, row []string, r, c int) (float64, error) {
	if c < 0 {
		return 0, nil
	}
	v, err := parseNumberCell(cell(row, c))
	if err != nil {
		return 0, fmt.Errorf("%s!%s: %w", sheet, cellRef(c, r), err)
	}
	return v, nil
}

func parseStats(sheet string, cols domain.Columns, rows [][]string) ([]domain.StatDefinition, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	idx := headerIndex(header)

	nameCol, err := requireColumn(sheet, idx, cols.StatName)
	if err != nil {
		return nil, err
	}
	multCol, err := requireColumn(sheet, idx, cols.Multiplier)
	if err != nil {
		return nil, err
	}
	colorCol := optionalColumn(idx, cols.Color)

	// A repeated stat keeps its first position; the later row's values replace the earlier ones.
	out := make([]domain.StatDefinition, 0, len(rows))
	pos := make(map[string]int, len(rows))
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}

		mult, err := numberAt(sheet, row, r, multCol)
		if err != nil {
			return nil, err
		}
		def := domain.StatDefinition{
			Name:       name,
			Multiplier: mult,
			Color:      hexcolor.Sanitize(cell(row, colorCol)),
		}

		if i, ok := pos[name]; ok {
			slog.Warn("duplicate stat, later row wins", "sheet", sheet, "cell", cellRef(nameCol, r), "name", name)
			out[i] = def
			continue
		}
		pos[name] = len(out)
		out = append(out, def)
	}
	return out, nil
}

func parsePowers(sheet string, cols domain.Columns, stats []domain.StatDefinition, rows [][]string) ([]domain.PowerstoneRecord, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	idx := headerIndex(header)

	nameCol, err := requireColumn(sheet, idx, cols.PowerName)
	if err != nil {
		return nil, err
	}
	bonusCol := optionalColumn(idx, cols.UniqueBonus)

	statCols := make(map[string]int, len(stats))
	for _, s := range stats {
		if c := optionalColumn(idx, s.Name); c >= 0 {
			statCols[s.Name] = c
		} else {
			slog.Debug("stat has no column in powers sheet", "sheet", sheet, "stat", s.Name)
		}
	}

	out := make([]domain.PowerstoneRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			slog.Warn("duplicate powerstone, keeping the first row", "sheet", sheet, "cell", cellRef(nameCol, r), "name", name)
			continue
		}
		seen[name] = struct{}{}

		rec := domain.PowerstoneRecord{Name: name, BaseStats: make(map[string]float64, len(statCols))}
		for stat, c := range statCols {
			v, err := numberAt(sheet, row, r, c)
			if err != nil {
				return nil, err
			}
			rec.BaseStats[stat] = v
		}

		bonus, err := numberAt(sheet, row, r, bonusCol)
		if err != nil {
			return nil, err
		}
		if bonus != 0 {
			rec.UniqueBonus = &bonus
		}
		out = append(out, rec)
	}
	return out, nil
}
