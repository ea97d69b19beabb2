// Package dataset loads the World Happiness table into a dataframe and
// defines the column vocabulary shared by the analysis packages.
package dataset

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/hbarrett/happidex/internal/utils"
)

// Canonical column names as they appear in the World Happiness Report CSV.
const (
	ColCountry = "Country"
	ColRegion  = "Region"
	ColScore   = "Happiness Score"
	ColRank    = "Happiness Rank"

	ColGDP        = "Economy (GDP per Capita)"
	ColFamily     = "Family"
	ColHealth     = "Health (Life Expectancy)"
	ColFreedom    = "Freedom"
	ColTrust      = "Trust (Government Corruption)"
	ColGenerosity = "Generosity"
)

// MissingColumnError signals a structurally invalid input: a column the
// computation cannot proceed without. Optional columns never produce it;
// they are skipped per the permissive pipeline contract.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not present in dataset", e.Column)
}

// Load reads a tabular dataset from path, dispatching on the file extension.
// Anything that is not .xlsx is treated as CSV.
func Load(path string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, "")
	}
	return LoadCSV(path)
}

// LoadCSV reads a CSV file into a DataFrame with header detection.
func LoadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

// Require returns a MissingColumnError when col is absent from df. Use it for
// columns the caller cannot compute without; optional columns should be
// probed with HasColumn instead.
func Require(df dataframe.DataFrame, col string) error {
	if !HasColumn(df, col) {
		return &MissingColumnError{Column: col}
	}
	return nil
}

// HasColumn reports whether df carries a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Floats extracts a column as float64 values. Cells that do not parse come
// back as NaN. The column must exist; probe with HasColumn first.
func Floats(df dataframe.DataFrame, name string) []float64 {
	return df.Col(name).Float()
}

// NumericColumns lists the columns gota inferred as int or float, in table
// order.
func NumericColumns(df dataframe.DataFrame) []string {
	names := df.Names()
	types := df.Types()
	out := make([]string, 0, len(names))
	for i, t := range types {
		if t == "int" || t == "float" {
			out = append(out, names[i])
		}
	}
	return out
}

// MissingCount tallies empty or NaN cells per column.
func MissingCount(df dataframe.DataFrame) map[string]int {
	out := make(map[string]int, df.Ncol())
	types := df.Types()
	for i, name := range df.Names() {
		col := df.Col(name)
		n := 0
		if types[i] == "int" || types[i] == "float" {
			for _, v := range col.Float() {
				if math.IsNaN(v) {
					n++
				}
			}
		} else {
			for _, v := range col.Records() {
				s := strings.TrimSpace(v)
				if s == "" || s == "NaN" {
					n++
				}
			}
		}
		out[name] = n
	}
	return out
}

// WriteCSV persists df atomically (temp file + rename).
func WriteCSV(df dataframe.DataFrame, path string) error {
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
