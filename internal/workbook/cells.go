package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var groupedRe = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// parseNumberCell reads a numeric cell typed as text. Empty cells are 0.
//
// Separators: "1,234" and "1,234.5" use commas for thousands grouping. Any other
// single comma is a decimal comma ("1,5" is 1.5). A trailing "%" divides by 100.
func parseNumberCell(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	rest, pct := strings.CutSuffix(s, "%")
	if pct {
		s = strings.TrimSpace(rest)
	}

	switch {
	case groupedRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(raw))
	}
	if pct {
		v /= 100
	}
	return v, nil
}

// cell returns row[i], or "" when the row is shorter (excelize trims trailing blanks).
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// headerIndex maps trimmed header labels to column indexes; the first occurrence wins.
func headerIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = i
		}
	}
	return out
}
