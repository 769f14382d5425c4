package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunSaveLoadRoundTrip(t *testing.T) {
	r := NewRun("loans.csv")
	r.Rows = 42
	r.Columns = []ColumnInfo{{Name: "age", Kind: "numeric", Missing: 3, Percent: 7.1}}
	r.Plots = []string{"plots/anova.png"}
	r.Warnings = []string{"processed only 42/100 rows"}

	if r.ID == "" {
		t.Fatalf("run ID must be assigned")
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file not cleaned up")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != r.ID || got.Dataset != r.Dataset || got.Rows != r.Rows {
		t.Errorf("round trip mismatch: got %+v want %+v", got, r)
	}
	if len(got.Columns) != 1 || got.Columns[0].Name != "age" {
		t.Errorf("columns lost in round trip: %+v", got.Columns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
