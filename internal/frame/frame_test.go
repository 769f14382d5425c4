package frame

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
)

var csvRows = []string{
	"age;income;employed;segment;note",
	"17;1.200,5;yes;bronze;first",
	"18;2.000,0;yes;silver;second",
	"35;2.500,0;no;silver;third",
	"60;1.800,0;yes;gold;fourth",
	"61;900,0;no;bronze;fifth",
	";1.000,0;yes;silver;missing age",
}

func loadFixture(t *testing.T) *Frame {
	t.Helper()
	f, err := ReadCSV(strings.NewReader(strings.Join(csvRows, "\n")), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return f
}

func TestReadCSVInfersKinds(t *testing.T) {
	f := loadFixture(t)
	if f.Len() != 6 {
		t.Fatalf("rows = %d, want 6", f.Len())
	}
	want := map[string]Kind{
		"age":      KindNumeric,
		"income":   KindNumeric,
		"employed": KindBool,
		"segment":  KindCategorical,
		"note":     KindCategorical,
	}
	for name, kind := range want {
		c := f.Column(name)
		if c == nil {
			t.Fatalf("column %q missing", name)
		}
		if c.Kind != kind {
			t.Errorf("column %q kind = %s, want %s", name, c.Kind, kind)
		}
	}
	// Locale parsing: "1.200,5" -> 1200.5
	income := f.Column("income")
	if got := income.Floats[0]; got != 1200.5 {
		t.Errorf("income[0] = %v, want 1200.5", got)
	}
	age := f.Column("age")
	if age.Valid[5] {
		t.Errorf("missing age cell parsed as valid")
	}
	if !math.IsNaN(age.Floats[5]) {
		t.Errorf("missing age cell = %v, want NaN", age.Floats[5])
	}
}

func TestFilterRangeInclusiveBounds(t *testing.T) {
	f := loadFixture(t)
	out, err := f.FilterRange(map[string]Bound{"age": {Min: 18, Max: 60}})
	if err != nil {
		t.Fatalf("FilterRange: %v", err)
	}
	// 17 and 61 excluded, 18 and 60 included, missing age dropped.
	if out.Len() != 3 {
		t.Fatalf("filtered rows = %d, want 3", out.Len())
	}
	ages := out.Column("age").Floats
	for _, v := range ages {
		if v < 18 || v > 60 {
			t.Errorf("age %v escaped bound [18, 60]", v)
		}
	}
	hasBoundary := map[float64]bool{}
	for _, v := range ages {
		hasBoundary[v] = true
	}
	if !hasBoundary[18] || !hasBoundary[60] {
		t.Errorf("boundary values not retained: got %v", ages)
	}
	// Unconstrained columns pass through untouched.
	if got := out.Column("segment").Strings; got[0] != "silver" {
		t.Errorf("segment[0] = %q, want silver", got[0])
	}
}

func TestFilterRangeRejectsBadConstraints(t *testing.T) {
	f := loadFixture(t)
	if _, err := f.FilterRange(map[string]Bound{"nope": {Min: 0, Max: 1}}); err == nil {
		t.Errorf("expected error for unknown column")
	}
	if _, err := f.FilterRange(map[string]Bound{"segment": {Min: 0, Max: 1}}); err == nil {
		t.Errorf("expected error for non-numeric column")
	}
	if _, err := f.FilterRange(map[string]Bound{"age": {Min: 10, Max: 5}}); err == nil {
		t.Errorf("expected error for inverted bound")
	}
}

func TestFilterRangeEmptyConstraintsKeepsAllRows(t *testing.T) {
	f := loadFixture(t)
	out, err := f.FilterRange(nil)
	if err != nil {
		t.Fatalf("FilterRange: %v", err)
	}
	if out.Len() != f.Len() {
		t.Fatalf("filtered rows = %d, want %d", out.Len(), f.Len())
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := loadFixture(t)
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out, err := ReadCSV(&buf, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV round trip: %v", err)
	}
	if out.Len() != f.Len() {
		t.Fatalf("round trip rows = %d, want %d", out.Len(), f.Len())
	}
	if out.Column("age").Kind != KindNumeric {
		t.Errorf("age kind lost in round trip")
	}
}

func TestMatrixDropsRowsWithMissing(t *testing.T) {
	f := loadFixture(t)
	rows, kept, err := f.Matrix([]string{"age", "income"})
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	if len(rows) != 5 || len(kept) != 5 {
		t.Fatalf("matrix rows = %d, want 5", len(rows))
	}
	if rows[0][0] != 17 || rows[0][1] != 1200.5 {
		t.Errorf("matrix row 0 = %v", rows[0])
	}
}

func TestZeroOptionsHighCardinalityColumnIsText(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,grp\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "id_%d,a\n", i)
	}
	// Zero-value Options must behave like the defaults: 100 distinct
	// values exceed the 64-category limit, so the column is text.
	f, err := ReadCSV(strings.NewReader(sb.String()), Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := f.Column("id").Kind; got != KindText {
		t.Errorf("id kind = %s, want %s", got, KindText)
	}
	if got := f.Column("grp").Kind; got != KindCategorical {
		t.Errorf("grp kind = %s, want %s", got, KindCategorical)
	}

	// A larger explicit limit flips the same column to categorical.
	f, err = ReadCSV(strings.NewReader(sb.String()), Options{MaxCategories: 200})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := f.Column("id").Kind; got != KindCategorical {
		t.Errorf("id kind with limit 200 = %s, want %s", got, KindCategorical)
	}
}
