package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/san-kum/emfield/internal/grid"
	"github.com/xuri/excelize/v2"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Quantity string             `json:"quantity"`
	Derive   string             `json:"derive"`
	Time     float64            `json:"time"`
	Shape    [3]int             `json:"shape"`
	Points   [][3]float64       `json:"points"`
	Field    [][3]float64       `json:"field"`
	Singular []int              `json:"singular"`
	Params   map[string]float64 `json:"params,omitempty"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// NewExportData flattens f into point and field triples. Singular lists
// the masked indices.
func NewExportData(scene string, f *grid.Sampled, params, metrics map[string]float64) *ExportData {
	n := f.Grid.Len()
	data := &ExportData{
		Scene:    scene,
		Quantity: f.Quantity.String(),
		Derive:   f.Derive.String(),
		Time:     f.T,
		Shape:    f.Grid.Shape(),
		Points:   make([][3]float64, n),
		Field:    make([][3]float64, n),
		Singular: []int{},
		Params:   params,
		Metrics:  metrics,
	}
	for idx := 0; idx < n; idx++ {
		p := f.Grid.Point(idx)
		data.Points[idx] = [3]float64{p.X, p.Y, p.Z}
		data.Field[idx] = [3]float64{f.X[idx], f.Y[idx], f.Z[idx]}
		if f.Singular[idx] {
			data.Singular = append(data.Singular, idx)
		}
	}
	return data
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data *ExportData) error {
	return WriteJSON(os.Stdout, data)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportXLSX writes a Summary sheet with the run description, params and
// metrics, and a Field sheet with one row per grid point.
func ExportXLSX(path string, data *ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}

	rows := [][2]any{
		{"Key", "Value"},
		{"scene", data.Scene},
		{"quantity", data.Quantity},
		{"derive", data.Derive},
		{"time", data.Time},
		{"points", len(data.Points)},
		{"singular", len(data.Singular)},
	}
	for _, k := range sortedKeys(data.Params) {
		rows = append(rows, [2]any{"param." + k, data.Params[k]})
	}
	for _, k := range sortedKeys(data.Metrics) {
		rows = append(rows, [2]any{"metric." + k, data.Metrics[k]})
	}
	for i, r := range rows {
		for j, v := range r {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}
	}

	sheet := "Field"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for col, h := range fieldHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	singular := make(map[int]bool, len(data.Singular))
	for _, idx := range data.Singular {
		singular[idx] = true
	}
	for i := range data.Points {
		row := i + 2
		vals := []any{
			data.Points[i][0], data.Points[i][1], data.Points[i][2],
			data.Field[i][0], data.Field[i][1], data.Field[i][2],
			singular[i],
		}
		for col, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("storage: xlsx %s: %w", cell, err)
			}
		}
	}

	return f.SaveAs(path)
}
