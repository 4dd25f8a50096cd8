package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/queuebot/internal/adapters/sqlite"
)

func TestQueueRepository_Append_SequenceIncreases(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, 1, "alice")
	seedParticipant(t, db, 2, "bob")

	first, err := repo.Append(ctx, 1, "alice")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	second, err := repo.Append(ctx, 2, "bob")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if second <= first {
		t.Errorf("expected increasing sequence, got %d then %d", first, second)
	}

	entry, err := repo.GetByParticipant(ctx, 1)
	if err != nil {
		t.Fatalf("GetByParticipant failed: %v", err)
	}
	if entry.Notified {
		t.Error("expected new entry not to be notified")
	}
	if entry.DisplayName != "alice" {
		t.Errorf("expected name 'alice', got '%s'", entry.DisplayName)
	}
}

func TestQueueRepository_Append_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, 1, "alice")
	if _, err := repo.Append(ctx, 1, "alice"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := repo.Append(ctx, 1, "alice"); err == nil {
		t.Error("expected error for second entry of the same participant")
	}
}

func TestQueueRepository_Append_UnknownParticipant(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)

	if _, err := repo.Append(context.Background(), 404, "ghost"); err == nil {
		t.Error("expected foreign key error for unregistered participant")
	}
}

func TestQueueRepository_SequenceNeverReused(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, 1, "alice")
	first, _ := repo.Append(ctx, 1, "alice")

	if _, err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	again, err := repo.Append(ctx, 1, "alice")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if again <= first {
		t.Errorf("expected sequence > %d after clear, got %d", first, again)
	}
}

func TestQueueRepository_PositionOf(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		seedParticipant(t, db, id, "")
		seedEntry(t, db, id, "")
	}

	for want, id := range []int64{1, 2, 3} {
		pos, ok, err := repo.PositionOf(ctx, id)
		if err != nil {
			t.Fatalf("PositionOf failed: %v", err)
		}
		if !ok || pos != want+1 {
			t.Errorf("PositionOf(%d) = %d, %v; want %d, true", id, pos, ok, want+1)
		}
	}

	// Removing the middle entry shifts everyone behind it.
	removed, err := repo.Remove(ctx, 2)
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}

	pos, ok, _ := repo.PositionOf(ctx, 3)
	if !ok || pos != 2 {
		t.Errorf("PositionOf(3) after removal = %d, %v; want 2, true", pos, ok)
	}

	_, ok, err = repo.PositionOf(ctx, 2)
	if err != nil {
		t.Fatalf("PositionOf failed: %v", err)
	}
	if ok {
		t.Error("expected removed participant to have no position")
	}
}

func TestQueueRepository_Remove_Absent(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)

	removed, err := repo.Remove(context.Background(), 404)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Error("expected no removal")
	}
}

func TestQueueRepository_ListOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	entries, err := repo.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("ListOrdered failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(entries))
	}

	// Participant IDs deliberately out of enrollment order.
	seedParticipant(t, db, 30, "carol")
	seedParticipant(t, db, 10, "alice")
	seedEntry(t, db, 30, "carol")
	seedEntry(t, db, 10, "alice")

	entries, err = repo.ListOrdered(ctx)
	if err != nil {
		t.Fatalf("ListOrdered failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ParticipantID != 30 || entries[1].ParticipantID != 10 {
		t.Errorf("expected enrollment order [30, 10], got [%d, %d]", entries[0].ParticipantID, entries[1].ParticipantID)
	}
}

func TestQueueRepository_NextUnnotified(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	next, err := repo.NextUnnotified(ctx)
	if err != nil {
		t.Fatalf("NextUnnotified failed: %v", err)
	}
	if next != nil {
		t.Fatalf("expected nil on empty queue, got %+v", next)
	}

	seedParticipant(t, db, 1, "alice")
	seedParticipant(t, db, 2, "bob")
	seqA := seedEntry(t, db, 1, "alice")
	seqB := seedEntry(t, db, 2, "bob")

	next, _ = repo.NextUnnotified(ctx)
	if next == nil || next.Sequence != seqA {
		t.Fatalf("expected alice's entry first, got %+v", next)
	}

	marked, err := repo.MarkNotified(ctx, 1, seqA)
	if err != nil || !marked {
		t.Fatalf("MarkNotified = %v, %v", marked, err)
	}

	next, _ = repo.NextUnnotified(ctx)
	if next == nil || next.Sequence != seqB {
		t.Fatalf("expected bob's entry next, got %+v", next)
	}

	entry, _ := repo.GetByParticipant(ctx, 1)
	if !entry.Notified {
		t.Error("expected alice's entry to be notified")
	}
}

func TestQueueRepository_MarkNotified_StaleSequence(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewQueueRepository(db)
	ctx := context.Background()

	seedParticipant(t, db, 1, "alice")
	oldSeq := seedEntry(t, db, 1, "alice")

	// Participant leaves and rejoins before the acknowledgement lands.
	repo.Remove(ctx, 1)
	newSeq, _ := repo.Append(ctx, 1, "alice")

	marked, err := repo.MarkNotified(ctx, 1, oldSeq)
	if err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}
	if marked {
		t.Error("expected stale acknowledgement to be ignored")
	}

	entry, _ := repo.GetByParticipant(ctx, 1)
	if entry.Sequence != newSeq || entry.Notified {
		t.Errorf("expected fresh unnotified entry %d, got %+v", newSeq, entry)
	}
}
