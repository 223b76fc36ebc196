// Package dataset loads fixed-point observation tables.
//
// A table is a CSV file whose header names an identifier column followed
// by network variables, and whose rows bind some of those variables to 0
// or 1 for one named observation. Unbound cells mean the observation
// does not constrain the variable.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// An Observation is a named partial assignment of boolean values to
// network variables. It is never mutated after loading.
type Observation struct {
	ID     string
	Values map[string]bool
}

// A Dataset is an ordered collection of observations over a common list
// of variables. It is built once at load time and read-only thereafter.
type Dataset struct {
	Variables    []string
	Observations []Observation
}

// Load reads a dataset from the given CSV file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse specification in %q: %v", path, err)
	}
	return ds, nil
}

// Parse parses a dataset from the given input Reader.
//
// The header row names the identifier column, then the variables. Each
// following row is one observation: its identifier, then one cell per
// variable holding "0", "1" or nothing ("", "*", "ND" and "?" all mean
// unspecified). Rows that are entirely empty are skipped. Any other cell
// value rejects the whole load; there is no best-effort parsing.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("specification is empty")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("specification header names no variables")
	}
	ds := &Dataset{}
	for _, name := range header[1:] {
		ds.Variables = append(ds.Variables, strings.TrimSpace(name))
	}
	seen := make(map[string]bool)
	units := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}
		id := strings.TrimSpace(record[0])
		if seen[id] {
			return nil, fmt.Errorf("duplicate observation %q", id)
		}
		seen[id] = true
		obs := Observation{ID: id, Values: make(map[string]bool)}
		for i, name := range ds.Variables {
			switch cell := strings.TrimSpace(record[i+1]); cell {
			case "0":
				obs.Values[name] = false
				units++
			case "1":
				obs.Values[name] = true
				units++
			case "", "*", "ND", "?":
				// unspecified, the observation does not constrain the variable
			default:
				return nil, fmt.Errorf("invalid cell value %q for variable %q in observation %q", cell, name, id)
			}
		}
		ds.Observations = append(ds.Observations, obs)
	}
	if len(ds.Observations) == 0 {
		return nil, fmt.Errorf("specification has no observations")
	}
	if units == 0 {
		return nil, fmt.Errorf("specification constrains no values")
	}
	return ds, nil
}

// blank reports whether a record holds only empty cells.
func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// NbUnits returns the total number of (observation, variable) facts.
func (d *Dataset) NbUnits() int {
	n := 0
	for _, obs := range d.Observations {
		n += len(obs.Values)
	}
	return n
}

// String renders the dataset one observation per line, variables in
// column order.
func (d *Dataset) String() string {
	var sb strings.Builder
	for _, obs := range d.Observations {
		fmt.Fprintf(&sb, "%s: %s\n", obs.ID, d.formatValues(obs.Values))
	}
	return sb.String()
}

// formatValues renders a partial assignment as "{A: 1, B: 0}" in the
// dataset's variable order.
func (d *Dataset) formatValues(values map[string]bool) string {
	var parts []string
	for _, name := range d.Variables {
		v, ok := values[name]
		if !ok {
			continue
		}
		bit := "0"
		if v {
			bit = "1"
		}
		parts = append(parts, name+": "+bit)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
