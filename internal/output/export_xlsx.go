package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/qluke/genshin-builds/internal/builds"
	"github.com/qluke/genshin-builds/internal/domain"
	"github.com/qluke/genshin-builds/internal/materials"
)

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

func cell(col, row int) string {
	return colName(col) + strconv.Itoa(row)
}

// writeSheet fills a sheet with a bold header row followed by rows.
func writeSheet(f *excelize.File, sheet string, header []string, widths []float64, rows [][]any) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	for i, h := range header {
		if err := f.SetCellValue(sheet, cell(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", cell(len(header), 1), headerStyle); err != nil {
		return err
	}
	for i, w := range widths {
		if err := f.SetColWidth(sheet, colName(i+1), colName(i+1), w); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := f.SetCellValue(sheet, cell(c+1, r+2), v); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// ExportBuildsXLSX writes a "Builds" sheet with one row per decoded build and
// an "Artifacts" sheet with one row per equipped slot. Nil builds are skipped.
func ExportBuildsXLSX(path string, decoded []*domain.DecodedBuild) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Builds"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	artifactSheet := "Artifacts"
	if _, err := f.NewSheet(artifactSheet); err != nil {
		return err
	}

	var buildRows, slotRows [][]any
	for _, b := range decoded {
		if b == nil {
			continue
		}
		weapon := b.Weapon.Name
		if weapon == "" && b.Weapon.WeaponID != 0 {
			weapon = strconv.Itoa(b.Weapon.WeaponID)
		}
		buildRows = append(buildRows, []any{
			b.Name,
			b.Level,
			b.Constellation,
			weapon,
			b.Weapon.Refinement,
			formatSets(b),
			round1(builds.CritValue(b)),
			len(b.Faults),
		})

		for _, kind := range domain.Slots {
			s := b.Slot(kind)
			if s.ArtifactID == 0 {
				continue
			}
			slotRows = append(slotRows, []any{
				b.Name,
				string(kind),
				s.SetID,
				s.Name,
				s.Rarity,
				formatStats(s.MainStat),
				formatSubStats(s.SubStats),
			})
		}
	}

	if err := writeSheet(f, sheet,
		[]string{"Character", "Level", "Constellation", "Weapon", "Refinement", "Sets", "Crit Value", "Faults"},
		[]float64{22, 8, 14, 28, 12, 40, 12, 8},
		buildRows,
	); err != nil {
		return err
	}
	if err := writeSheet(f, artifactSheet,
		[]string{"Character", "Slot", "Set", "Piece", "Rarity", "Main Stat", "Sub Stats"},
		[]float64{22, 10, 24, 32, 8, 22, 60},
		slotRows,
	); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ExportMaterialsXLSX writes the ascension and talent totals of one
// character to a "Materials" sheet.
func ExportMaterialsXLSX(path string, character string, totals materials.CharacterTotals) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Materials"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	var rows [][]any
	for _, sec := range []struct {
		label string
		res   domain.AggregateResult
	}{
		{"Ascension", totals.Ascension},
		{"Talents", totals.Talents},
	} {
		for _, m := range sec.res.Items {
			rows = append(rows, []any{character, sec.label, m.Type, m.Name, m.Rarity, m.Amount})
		}
		rows = append(rows, []any{character, sec.label, "mora", "Mora", "", sec.res.Cost})
	}

	if err := writeSheet(f, sheet,
		[]string{"Character", "Section", "Type", "Material", "Rarity", "Amount"},
		[]float64{16, 12, 16, 36, 8, 12},
		rows,
	); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func formatSets(b *domain.DecodedBuild) string {
	counts := builds.SetPieceCounts(b)
	parts := make([]string, 0, len(b.Sets))
	for _, s := range b.Sets {
		parts = append(parts, fmt.Sprintf("%s (%d)", s.Name, counts[s.ID]))
	}
	return strings.Join(parts, " / ")
}

func formatStats(m map[string]float64) string {
	keys := sortedKeys(m)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, builds.NormalizeStatKey(k)+" "+strconv.FormatFloat(m[k], 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func formatSubStats(m map[string]domain.SubStat) string {
	keys := sortedKeys(m)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s := m[k]
		parts = append(parts, fmt.Sprintf("%s %s (%d)", builds.NormalizeStatKey(k), strconv.FormatFloat(s.Value, 'f', -1, 64), s.Count))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
