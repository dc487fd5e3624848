package listing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDumpToTmpFile(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	records := []*Record{
		{ID: "p1", Title: "GCSE maths", Budget: &Budget{Amount: 20, Currency: "GBP"}},
		{ID: "p2"},
	}

	name, err := DumpToTmpFile("posts", records)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	if !strings.HasPrefix(filepath.Base(name), "posts_") || filepath.Ext(name) != ".json" {
		t.Fatalf("unexpected file name %q", name)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0]["id"] != "p1" || got[0]["title"] != "GCSE maths" {
		t.Fatalf("unexpected first record: %v", got[0])
	}
	if _, ok := got[1]["budget"]; ok {
		t.Fatalf("missing budget must be omitted: %v", got[1])
	}
}

func TestDumpToTmpFileEmpty(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	name, err := DumpToTmpFile("tutors", nil)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}
