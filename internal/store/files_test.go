package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salarymap/internal/salary"
)

func TestFileStore_SaveRawLayout(t *testing.T) {
	dir := t.TempDir()
	fileStore := NewFileStore(dir)

	if err := fileStore.SaveRaw("Berlin", "software engineer", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("SaveRaw failed: %v", err)
	}

	path := filepath.Join(dir, "Berlin", "txt_data", "salaries_Berlin_software-engineer.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("raw file not at expected path: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("raw body = %q, want verbatim response", data)
	}
}

func TestFileStore_CityTableRoundTrip(t *testing.T) {
	fileStore := NewFileStore(t.TempDir())

	table := salary.NewTable()
	table.EnsureColumn("job")
	table.EnsureColumn("mean_monthly")
	table.AppendRow(salary.Row{"job": "nurse", "mean_monthly": "4200"})

	if err := fileStore.SaveCityTable("Berlin", table); err != nil {
		t.Fatalf("SaveCityTable failed: %v", err)
	}

	loaded, err := fileStore.LoadCityTable("Berlin")
	if err != nil {
		t.Fatalf("LoadCityTable failed: %v", err)
	}
	if loaded.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", loaded.NumRows())
	}
	if loaded.Rows()[0]["mean_monthly"] != "4200" {
		t.Errorf("reloaded row = %v", loaded.Rows()[0])
	}
}

func TestFileStore_LoadCityTable_Missing(t *testing.T) {
	fileStore := NewFileStore(t.TempDir())

	_, err := fileStore.LoadCityTable("Atlantis")
	if !errors.Is(err, ErrCityTableNotFound) {
		t.Errorf("LoadCityTable error = %v, want %v", err, ErrCityTableNotFound)
	}
	if err == nil || !strings.Contains(err.Error(), "Atlantis") {
		t.Errorf("error should name the missing city, got %v", err)
	}
}

func TestFileStore_SaveProblemLog(t *testing.T) {
	dir := t.TempDir()
	fileStore := NewFileStore(dir)

	entries := []salary.ProblemEntry{
		{Job: "plumber", Location: "Berlin"},
		{Job: "teacher", Location: "Warsaw"},
	}
	if err := fileStore.SaveProblemLog(entries); err != nil {
		t.Fatalf("SaveProblemLog failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "problematic_extractions.json"))
	if err != nil {
		t.Fatalf("problem log not written: %v", err)
	}
	for _, want := range []string{`"problematic_extractions"`, `"plumber"`, `"Warsaw"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("problem log missing %s:\n%s", want, data)
		}
	}
}

func TestFileStore_SaveProblemLog_Empty(t *testing.T) {
	dir := t.TempDir()
	fileStore := NewFileStore(dir)

	if err := fileStore.SaveProblemLog(nil); err != nil {
		t.Fatalf("SaveProblemLog failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "problematic_extractions.json"))
	if err != nil {
		t.Fatalf("problem log not written: %v", err)
	}
	if !strings.Contains(string(data), "[]") {
		t.Errorf("empty run should still log an empty list:\n%s", data)
	}
}
