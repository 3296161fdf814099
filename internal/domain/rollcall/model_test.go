package rollcall_test

import (
	"testing"
	"time"

	"rollcall/internal/domain/rollcall"
)

// TestEntry_Validate tests validation of Entry.
func TestEntry_Validate(t *testing.T) {
	now := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entry   rollcall.Entry
		wantErr bool
	}{
		{
			name:    "valid entry",
			entry:   rollcall.Entry{ID: "1", SessionID: "s1", Squad: "alpha", MarkedAt: now},
			wantErr: false,
		},
		{
			name:    "empty squad",
			entry:   rollcall.Entry{ID: "2", SessionID: "s1", Squad: "", MarkedAt: now},
			wantErr: true,
		},
		{
			name:    "empty session",
			entry:   rollcall.Entry{ID: "3", SessionID: "", Squad: "alpha", MarkedAt: now},
			wantErr: true,
		},
		{
			name:    "zero marked time",
			entry:   rollcall.Entry{ID: "4", SessionID: "s1", Squad: "alpha"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Entry.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestSession_EntryFor tests looking up a squad's entry in a session.
func TestSession_EntryFor(t *testing.T) {
	sess := rollcall.Session{
		ID: "s1",
		Entries: []rollcall.Entry{
			{ID: "e1", SessionID: "s1", Squad: "alpha"},
			{ID: "e2", SessionID: "s1", Squad: "bravo"},
		},
	}

	entry, ok := sess.EntryFor("bravo")
	if !ok {
		t.Fatal("expected to find entry for bravo")
	}
	if entry.ID != "e2" {
		t.Errorf("expected entry e2, got %s", entry.ID)
	}

	if _, ok := sess.EntryFor("charlie"); ok {
		t.Error("expected no entry for charlie")
	}
}

// TestSortEntries tests ordering by marked time with creation order tie-break.
func TestSortEntries(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 0, 0, 0, time.UTC)
	entries := []rollcall.Entry{
		{ID: "c", Seq: 3, MarkedAt: base.Add(2 * time.Minute)},
		{ID: "b", Seq: 2, MarkedAt: base},
		{ID: "a", Seq: 1, MarkedAt: base},
	}
	rollcall.SortEntries(entries)

	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if entries[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].ID)
		}
	}
}
