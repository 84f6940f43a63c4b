package dataset

import "goexplain/domain/core"

// DefaultHistoryLimit caps how many uploads the sidebar remembers
const DefaultHistoryLimit = 5

// UploadEntry is the immutable sidebar record of one upload
type UploadEntry struct {
	Filename   string         `json:"filename"`
	Shape      Shape          `json:"shape"`
	Columns    []string       `json:"columns"`
	Nulls      []ColumnNulls  `json:"nulls"`
	UploadedAt core.Timestamp `json:"uploaded_at"`
}

// NewUploadEntry snapshots the summary facts of a dataset for the history
func NewUploadEntry(d *Dataset) UploadEntry {
	return UploadEntry{
		Filename:   d.Filename,
		Shape:      d.Shape(),
		Columns:    d.ColumnNames(),
		Nulls:      d.NullSummary(),
		UploadedAt: d.UploadedAt,
	}
}

// NonZeroNulls filters the null summary down to columns that actually
// have missing values. Empty means the upload was complete.
func (e UploadEntry) NonZeroNulls() []ColumnNulls {
	out := []ColumnNulls{}
	for _, n := range e.Nulls {
		if n.Nulls > 0 {
			out = append(out, n)
		}
	}
	return out
}

// UploadHistory is a bounded, most-recent-first list of upload entries.
// It is a value object: Record returns a new history, receivers are
// never mutated.
type UploadHistory struct {
	entries []UploadEntry
	limit   int
}

// NewUploadHistory creates an empty history with the given cap.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewUploadHistory(limit int) UploadHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return UploadHistory{limit: limit}
}

// Record prepends an entry and returns the updated history. A filename
// already present leaves the history unchanged, original position kept.
func (h UploadHistory) Record(entry UploadEntry) UploadHistory {
	for _, existing := range h.entries {
		if existing.Filename == entry.Filename {
			return h
		}
	}
	entries := make([]UploadEntry, 0, len(h.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, h.entries...)
	if len(entries) > h.limit {
		entries = entries[:h.limit]
	}
	return UploadHistory{entries: entries, limit: h.limit}
}

// Entries returns a copy, most recent first
func (h UploadHistory) Entries() []UploadEntry {
	out := make([]UploadEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns how many entries are recorded
func (h UploadHistory) Len() int {
	return len(h.entries)
}

// Limit returns the cap
func (h UploadHistory) Limit() int {
	return h.limit
}
