package dataset

import "testing"

func entryNamed(filename string) UploadEntry {
	return UploadEntry{Filename: filename, Shape: Shape{Rows: 3, Columns: 2}}
}

func TestUploadHistory_MostRecentFirst(t *testing.T) {
	h := NewUploadHistory(5)
	h = h.Record(entryNamed("first.csv"))
	h = h.Record(entryNamed("second.csv"))
	h = h.Record(entryNamed("third.csv"))

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Filename != "third.csv" {
		t.Errorf("Most recent should be first, got %s", entries[0].Filename)
	}
	if entries[2].Filename != "first.csv" {
		t.Errorf("Oldest should be last, got %s", entries[2].Filename)
	}
}

func TestUploadHistory_CapEvictsOldest(t *testing.T) {
	h := NewUploadHistory(5)
	names := []string{"a.csv", "b.csv", "c.csv", "d.csv", "e.csv", "f.csv", "g.csv"}
	for _, name := range names {
		h = h.Record(entryNamed(name))
	}

	if h.Len() != 5 {
		t.Fatalf("Expected history capped at 5, got %d", h.Len())
	}
	entries := h.Entries()
	if entries[0].Filename != "g.csv" {
		t.Errorf("Newest entry missing: %s", entries[0].Filename)
	}
	if entries[4].Filename != "c.csv" {
		t.Errorf("Expected oldest survivor c.csv, got %s", entries[4].Filename)
	}
	for _, e := range entries {
		if e.Filename == "a.csv" || e.Filename == "b.csv" {
			t.Errorf("Evicted entry still present: %s", e.Filename)
		}
	}
}

func TestUploadHistory_DuplicateFilenameSkipped(t *testing.T) {
	h := NewUploadHistory(5)
	h = h.Record(entryNamed("sales.csv"))
	h = h.Record(entryNamed("other.csv"))
	h = h.Record(entryNamed("sales.csv"))

	if h.Len() != 2 {
		t.Fatalf("Duplicate should not add an entry, got %d", h.Len())
	}
	entries := h.Entries()
	if entries[0].Filename != "other.csv" {
		t.Errorf("Duplicate should not move to front, got %s first", entries[0].Filename)
	}
}

func TestUploadHistory_RecordDoesNotMutateReceiver(t *testing.T) {
	original := NewUploadHistory(5).Record(entryNamed("one.csv"))
	updated := original.Record(entryNamed("two.csv"))

	if original.Len() != 1 {
		t.Errorf("Original history mutated, len = %d", original.Len())
	}
	if updated.Len() != 2 {
		t.Errorf("Updated history missing entry, len = %d", updated.Len())
	}
}

func TestUploadHistory_EntriesReturnsCopy(t *testing.T) {
	h := NewUploadHistory(5).Record(entryNamed("one.csv"))
	entries := h.Entries()
	entries[0].Filename = "changed.csv"

	if h.Entries()[0].Filename != "one.csv" {
		t.Error("Mutating the returned slice changed the history")
	}
}

func TestNewUploadHistory_DefaultLimit(t *testing.T) {
	h := NewUploadHistory(0)
	if h.Limit() != DefaultHistoryLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultHistoryLimit, h.Limit())
	}
}

func TestUploadEntry_NonZeroNulls(t *testing.T) {
	entry := UploadEntry{
		Filename: "gaps.csv",
		Nulls:    []ColumnNulls{{"a", 0}, {"b", 2}, {"c", 0}, {"d", 1}},
	}

	filtered := entry.NonZeroNulls()
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 columns with nulls, got %d", len(filtered))
	}
	if filtered[0] != (ColumnNulls{"b", 2}) || filtered[1] != (ColumnNulls{"d", 1}) {
		t.Errorf("Filtered nulls mismatch: %+v", filtered)
	}

	complete := UploadEntry{Nulls: []ColumnNulls{{"a", 0}, {"b", 0}}}
	if got := complete.NonZeroNulls(); len(got) != 0 {
		t.Errorf("Expected empty result for a complete upload, got %+v", got)
	}
}
