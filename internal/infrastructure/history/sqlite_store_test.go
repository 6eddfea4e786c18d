package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwiatr/verba/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(input, command string, success bool, at time.Time) domain.HistoryRecord {
	return domain.HistoryRecord{
		Timestamp:  at,
		SessionID:  "s-1",
		Input:      input,
		Command:    command,
		Kind:       domain.KindShell,
		Success:    success,
		ExitCode:   0,
		DurationMS: 12,
	}
}

func TestSaveAndRecords(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, input := range []string{"show files", "run the tests", "push"} {
		if err := store.Save(record(input, input, true, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Input != "push" {
		t.Errorf("newest first expected, got %q", records[0].Input)
	}
	if records[0].Kind != domain.KindShell {
		t.Errorf("kind round-trip failed: %q", records[0].Kind)
	}
}

func TestRecordsLimitAndSearch(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()

	store.Save(record("build it", "make all", true, base))
	store.Save(record("run the tests", "make test", false, base.Add(time.Minute)))
	store.Save(record("push", "git push", true, base.Add(2*time.Minute)))

	limited, err := store.Records(2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}

	found, err := store.Records(0, "make")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Errorf("search returned %d records, want 2", len(found))
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	store.Save(record("x", "x", true, time.Now()))

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err := store.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("records after clear: %d", len(records))
	}
}

func TestExportJSON(t *testing.T) {
	store := newTestStore(t)
	store.Save(record("show files", "ls -la", true, time.Now()))
	store.Save(record("push", "git push", false, time.Now()))

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec domain.HistoryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("exported %d lines, want 2", lines)
	}
}
