package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindBool        Kind = "bool"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
)

// Column holds one typed column of a Frame. Exactly one of the value
// slices is populated depending on Kind; Valid marks non-missing cells.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64 // KindNumeric; NaN where Valid is false
	Bools   []bool    // KindBool
	Strings []string  // KindCategorical and KindText
	Valid   []bool
}

// Missing returns the number of missing cells in the column.
func (c *Column) Missing() int {
	n := 0
	for _, ok := range c.Valid {
		if !ok {
			n++
		}
	}
	return n
}

// Label returns a canonical string for the cell at row i, or "" if missing.
// Numeric and bool cells are formatted so they can be compared against
// user-supplied class labels.
func (c *Column) Label(i int) string {
	if !c.Valid[i] {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bools[i])
	default:
		return c.Strings[i]
	}
}

// Frame is an in-memory tabular dataset with named, typed columns.
type Frame struct {
	Name string

	cols  []*Column
	index map[string]int
	rows  int
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Columns returns column names in file order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (f *Frame) Column(name string) *Column {
	if i, ok := f.index[name]; ok {
		return f.cols[i]
	}
	return nil
}

// NumericColumns returns the names of all numeric columns in file order.
func (f *Frame) NumericColumns() []string {
	var names []string
	for _, c := range f.cols {
		if c.Kind == KindNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of all bool and categorical columns.
func (f *Frame) CategoricalColumns() []string {
	var names []string
	for _, c := range f.cols {
		if c.Kind == KindBool || c.Kind == KindCategorical {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericValues returns the non-missing values of a numeric column.
func (f *Frame) NumericValues(name string) ([]float64, error) {
	c := f.Column(name)
	if c == nil {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if c.Kind != KindNumeric {
		return nil, fmt.Errorf("column %q is %s, not numeric", name, c.Kind)
	}
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Matrix extracts the named numeric columns as row-major records, dropping
// rows where any of the requested columns is missing.
func (f *Frame) Matrix(names []string) ([][]float64, []int, error) {
	cols := make([]*Column, len(names))
	for i, name := range names {
		c := f.Column(name)
		if c == nil {
			return nil, nil, fmt.Errorf("column %q not found", name)
		}
		if c.Kind != KindNumeric {
			return nil, nil, fmt.Errorf("column %q is %s, not numeric", name, c.Kind)
		}
		cols[i] = c
	}
	var rows [][]float64
	var kept []int
	for i := 0; i < f.rows; i++ {
		rec := make([]float64, len(cols))
		ok := true
		for j, c := range cols {
			if !c.Valid[i] {
				ok = false
				break
			}
			rec[j] = c.Floats[i]
		}
		if ok {
			rows = append(rows, rec)
			kept = append(kept, i)
		}
	}
	return rows, kept, nil
}

// Bound is an inclusive [Min, Max] range constraint for FilterRange.
type Bound struct {
	Min float64
	Max float64
}

// FilterRange returns a new Frame keeping only rows where every constrained
// column holds a value within its inclusive bound. Columns absent from the
// constraint map are never filtered. A missing cell in a constrained column
// drops the row. Constraining an unknown or non-numeric column is an error.
func (f *Frame) FilterRange(constraints map[string]Bound) (*Frame, error) {
	cols := make(map[*Column]Bound, len(constraints))
	for name, b := range constraints {
		c := f.Column(name)
		if c == nil {
			return nil, fmt.Errorf("range constraint on unknown column %q", name)
		}
		if c.Kind != KindNumeric {
			return nil, fmt.Errorf("range constraint on %s column %q", c.Kind, name)
		}
		if b.Min > b.Max {
			return nil, fmt.Errorf("range constraint on %q: min %v greater than max %v", name, b.Min, b.Max)
		}
		cols[c] = b
	}
	var keep []int
	for i := 0; i < f.rows; i++ {
		ok := true
		for c, b := range cols {
			if !c.Valid[i] || math.IsNaN(c.Floats[i]) || c.Floats[i] < b.Min || c.Floats[i] > b.Max {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	return f.selectRows(keep), nil
}

// selectRows builds a new Frame containing only the given row indices.
func (f *Frame) selectRows(rows []int) *Frame {
	out := &Frame{Name: f.Name, index: make(map[string]int, len(f.cols)), rows: len(rows)}
	for i, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind, Valid: make([]bool, len(rows))}
		switch c.Kind {
		case KindNumeric:
			nc.Floats = make([]float64, len(rows))
		case KindBool:
			nc.Bools = make([]bool, len(rows))
		default:
			nc.Strings = make([]string, len(rows))
		}
		for j, r := range rows {
			nc.Valid[j] = c.Valid[r]
			switch c.Kind {
			case KindNumeric:
				nc.Floats[j] = c.Floats[r]
			case KindBool:
				nc.Bools[j] = c.Bools[r]
			default:
				nc.Strings[j] = c.Strings[r]
			}
		}
		out.cols = append(out.cols, nc)
		out.index[c.Name] = i
	}
	return out
}
