package orchestrators

import (
	"context"
	"errors"
	"testing"

	domain "rollcall/internal/domain/schedule"
)

// mockScheduleStore records calls for the schedule orchestrators.
type mockScheduleStore struct {
	added []domain.Entry

	editAtCalled  bool
	editAtDay     string
	editAtIndex   int
	editAtOwner   string
	editAtPatch   domain.Patch
	editAtResult  bool

	deleteAtCalled bool
	deleteAtResult bool

	setCommentCalled  bool
	setCommentValue   string
	setCommentResult  bool

	deleteAllCalled bool

	err error
}

func (m *mockScheduleStore) Add(_ context.Context, value domain.Entry) (domain.Entry, error) {
	if m.err != nil {
		return domain.Entry{}, m.err
	}
	m.added = append(m.added, value)
	return value, nil
}

func (m *mockScheduleStore) EditAt(_ context.Context, day string, index int, owner string, patch domain.Patch) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.editAtCalled = true
	m.editAtDay = day
	m.editAtIndex = index
	m.editAtOwner = owner
	m.editAtPatch = patch
	return m.editAtResult, nil
}

func (m *mockScheduleStore) DeleteAt(_ context.Context, day string, index int, owner string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.deleteAtCalled = true
	return m.deleteAtResult, nil
}

func (m *mockScheduleStore) SetCommentAt(_ context.Context, day string, index int, comment string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.setCommentCalled = true
	m.setCommentValue = comment
	return m.setCommentResult, nil
}

func (m *mockScheduleStore) DeleteAll(_ context.Context) error {
	m.deleteAllCalled = true
	return m.err
}

// --- ExecuteAddEntry tests ---

// TestExecuteAddEntry_Valid tests adding a well-formed row.
func TestExecuteAddEntry_Valid(t *testing.T) {
	store := &mockScheduleStore{}
	added, err := ExecuteAddEntry(context.Background(), AddEntryInput{
		Squad: "alpha",
		Day:   domain.DayToday,
		Start: " 08:00 ",
		Task:  " morning drill ",
	}, AddEntryDeps{ScheduleStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected entry to be added")
	}
	if len(store.added) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(store.added))
	}
	got := store.added[0]
	if got.Start != "08:00" || got.Task != "morning drill" {
		t.Errorf("expected trimmed fields, got start=%q task=%q", got.Start, got.Task)
	}
	if got.Comment != "" {
		t.Errorf("expected empty comment on a new row, got %q", got.Comment)
	}
	if got.Squad != "alpha" {
		t.Errorf("expected owner alpha, got %q", got.Squad)
	}
}

// TestExecuteAddEntry_InvalidInputIsSilent tests that bad input is a no-op,
// not an error.
func TestExecuteAddEntry_InvalidInputIsSilent(t *testing.T) {
	tests := []struct {
		name  string
		input AddEntryInput
	}{
		{"bad day", AddEntryInput{Squad: "alpha", Day: "yesterday", Start: "08:00", Task: "drill"}},
		{"blank start", AddEntryInput{Squad: "alpha", Day: domain.DayToday, Start: "  ", Task: "drill"}},
		{"blank task", AddEntryInput{Squad: "alpha", Day: domain.DayToday, Start: "08:00", Task: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockScheduleStore{}
			added, err := ExecuteAddEntry(context.Background(), tt.input,
				AddEntryDeps{ScheduleStore: store, GenerateID: fixedID, Now: fixedNow})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if added {
				t.Error("expected silent rejection")
			}
			if len(store.added) != 0 {
				t.Error("expected nothing persisted")
			}
		})
	}
}

// TestExecuteAddEntry_StoreError tests that storage failures surface.
func TestExecuteAddEntry_StoreError(t *testing.T) {
	store := &mockScheduleStore{err: errors.New("disk full")}
	_, err := ExecuteAddEntry(context.Background(), AddEntryInput{
		Squad: "alpha", Day: domain.DayToday, Start: "08:00", Task: "drill",
	}, AddEntryDeps{ScheduleStore: store, GenerateID: fixedID, Now: fixedNow})
	if err == nil {
		t.Error("expected storage error to surface")
	}
}

// --- ExecuteEditEntry tests ---

// TestExecuteEditEntry_PassesOwnerAndPatch tests that ownership and trimmed
// patch fields reach the store.
func TestExecuteEditEntry_PassesOwnerAndPatch(t *testing.T) {
	store := &mockScheduleStore{editAtResult: true}
	start := " 09:30 "
	edited, err := ExecuteEditEntry(context.Background(), EditEntryInput{
		Squad: "alpha",
		Day:   domain.DayTomorrow,
		Index: 2,
		Start: &start,
	}, EditEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !edited {
		t.Fatal("expected edit to apply")
	}
	if store.editAtOwner != "alpha" {
		t.Errorf("expected owner alpha, got %q", store.editAtOwner)
	}
	if store.editAtDay != domain.DayTomorrow || store.editAtIndex != 2 {
		t.Errorf("expected (tomorrow, 2), got (%s, %d)", store.editAtDay, store.editAtIndex)
	}
	if store.editAtPatch.Start == nil || *store.editAtPatch.Start != "09:30" {
		t.Errorf("expected trimmed start patch, got %+v", store.editAtPatch.Start)
	}
	if store.editAtPatch.Task != nil {
		t.Error("expected absent task to stay nil")
	}
}

// TestExecuteEditEntry_InvalidDay tests that a bad day never reaches the store.
func TestExecuteEditEntry_InvalidDay(t *testing.T) {
	store := &mockScheduleStore{}
	edited, err := ExecuteEditEntry(context.Background(), EditEntryInput{
		Squad: "alpha", Day: "funday", Index: 0,
	}, EditEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edited || store.editAtCalled {
		t.Error("expected silent no-op without a store call")
	}
}

// TestExecuteEditEntry_MissingRow tests the fail-soft path when the store
// reports no matching row.
func TestExecuteEditEntry_MissingRow(t *testing.T) {
	store := &mockScheduleStore{editAtResult: false}
	edited, err := ExecuteEditEntry(context.Background(), EditEntryInput{
		Squad: "alpha", Day: domain.DayToday, Index: 99,
	}, EditEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edited {
		t.Error("expected no-op for missing index")
	}
}

// --- ExecuteDeleteEntry tests ---

// TestExecuteDeleteEntry tests delete delegation and the invalid-day guard.
func TestExecuteDeleteEntry(t *testing.T) {
	store := &mockScheduleStore{deleteAtResult: true}
	deleted, err := ExecuteDeleteEntry(context.Background(), DeleteEntryInput{
		Squad: "alpha", Day: domain.DayToday, Index: 0,
	}, DeleteEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted || !store.deleteAtCalled {
		t.Error("expected delete to reach the store")
	}

	store = &mockScheduleStore{}
	deleted, err = ExecuteDeleteEntry(context.Background(), DeleteEntryInput{
		Squad: "alpha", Day: "never", Index: 0,
	}, DeleteEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted || store.deleteAtCalled {
		t.Error("expected invalid day to be a silent no-op")
	}
}

// --- ExecuteCommentEntry tests ---

// TestExecuteCommentEntry_Verbatim tests that the comment is stored exactly
// as given, untrimmed, and that empty clears.
func TestExecuteCommentEntry_Verbatim(t *testing.T) {
	store := &mockScheduleStore{setCommentResult: true}
	set, err := ExecuteCommentEntry(context.Background(), CommentEntryInput{
		Day: domain.DayToday, Index: 1, Comment: "  **good plan**  ",
	}, CommentEntryDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set {
		t.Fatal("expected comment to apply")
	}
	if store.setCommentValue != "  **good plan**  " {
		t.Errorf("expected verbatim comment, got %q", store.setCommentValue)
	}

	store = &mockScheduleStore{setCommentResult: true}
	if _, err := ExecuteCommentEntry(context.Background(), CommentEntryInput{
		Day: domain.DayToday, Index: 1, Comment: "",
	}, CommentEntryDeps{ScheduleStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.setCommentValue != "" {
		t.Error("expected empty comment to pass through and clear")
	}
}
