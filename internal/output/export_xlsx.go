package output

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Twurtel/MagicalPowerCalculator/internal/domain"
	"github.com/Twurtel/MagicalPowerCalculator/internal/mpcalc"

	"github.com/xuri/excelize/v2"
)

const tableSheet = "Results"

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// DefaultTablePath builds <dir>/<yyyymmdd>_mp_table_<mp>.xlsx.
func DefaultTablePath(dir string, mp float64, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_mp_table_%s.xlsx", now.Format("20060102"), strconv.FormatFloat(mp, 'f', -1, 64)))
}

// ExportTableXLSX writes every powerstone's stats at power level mp to path.
//
// Layout:
// Row 1: "MP = <mp>" merged across the table
// Row 2: "Power", one column per stat (font in the stat color), "Unique Power Bonus"
// Row 3+: one row per powerstone; zero values stay blank.
func ExportTableXLSX(path string, ds *domain.Dataset, mp float64) (string, error) {
	stats := ds.Stats()
	lastCol := len(stats) + 2

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", tableSheet); err != nil {
		return "", err
	}
	sheet := tableSheet

	if err := f.MergeCell(sheet, cellName(1, 1), cellName(lastCol, 1)); err != nil {
		return "", err
	}
	if err := f.SetCellValue(sheet, cellName(1, 1), fmt.Sprintf("MP = %s", strconv.FormatFloat(mp, 'f', -1, 64))); err != nil {
		return "", err
	}

	titleStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", err
	}
	if err := f.SetCellStyle(sheet, cellName(1, 1), cellName(lastCol, 2), titleStyleID); err != nil {
		return "", err
	}

	if err := f.SetCellValue(sheet, cellName(1, 2), "Power"); err != nil {
		return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(1, 2), err)
	}
	if err := f.SetCellValue(sheet, cellName(lastCol, 2), "Unique Power Bonus"); err != nil {
		return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(lastCol, 2), err)
	}
	for i, s := range stats {
		col := i + 2
		if err := f.SetCellValue(sheet, cellName(col, 2), s.Name); err != nil {
			return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(col, 2), err)
		}
		styleID, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: s.Color},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return "", err
		}
		if err := f.SetCellStyle(sheet, cellName(col, 2), cellName(col, 2), styleID); err != nil {
			return "", err
		}
	}

	powers := ds.Powerstones()
	for i, p := range powers {
		row := i + 3
		if err := f.SetCellValue(sheet, cellName(1, row), p.Name); err != nil {
			return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(1, row), err)
		}
		for j, s := range stats {
			v, err := mpcalc.Stat(p.Base(s.Name), s.Multiplier, mp)
			if err != nil {
				return "", err
			}
			if v == 0 {
				continue
			}
			if err := f.SetCellValue(sheet, cellName(j+2, row), math.Round(v*100)/100); err != nil {
				return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(j+2, row), err)
			}
		}
		if p.UniqueBonus != nil {
			if err := f.SetCellValue(sheet, cellName(lastCol, row), *p.UniqueBonus); err != nil {
				return "", fmt.Errorf("write %s!%s: %w", sheet, cellName(lastCol, row), err)
			}
		}
	}

	// 0.00
	if len(powers) > 0 && len(stats) > 0 {
		styleID, err := f.NewStyle(&excelize.Style{NumFmt: 2})
		if err != nil {
			return "", err
		}
		if err := f.SetCellStyle(sheet, cellName(2, 3), cellName(lastCol-1, len(powers)+2), styleID); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
