package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/ports/secondary"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// ============================================================================
// In-memory Store
// ============================================================================

// memState is the data behind mockStore. WithinTx works on a clone and
// swaps it in on success, so failed transactions leave no trace.
type memState struct {
	participants map[int64]*secondary.ParticipantRecord
	entries      []*secondary.QueueEntryRecord
	lastSeq      int64
}

func (s *memState) clone() *memState {
	c := &memState{
		participants: make(map[int64]*secondary.ParticipantRecord, len(s.participants)),
		entries:      make([]*secondary.QueueEntryRecord, 0, len(s.entries)),
		lastSeq:      s.lastSeq,
	}
	for id, p := range s.participants {
		cp := *p
		c.participants[id] = &cp
	}
	for _, e := range s.entries {
		ce := *e
		c.entries = append(c.entries, &ce)
	}
	return c
}

func (s *memState) entryIndex(participantID int64) int {
	for i, e := range s.entries {
		if e.ParticipantID == participantID {
			return i
		}
	}
	return -1
}

// mockStore implements secondary.Store in memory.
type mockStore struct {
	mu     sync.Mutex
	state  *memState
	failOn map[string]error // operation name -> injected error
}

func newMockStore() *mockStore {
	return &mockStore{
		state:  &memState{participants: make(map[int64]*secondary.ParticipantRecord)},
		failOn: make(map[string]error),
	}
}

func (m *mockStore) Participants() secondary.ParticipantRepository {
	return &mockParticipantRepository{v: &memView{store: m}}
}

func (m *mockStore) Queue() secondary.QueueRepository {
	return &mockQueueRepository{v: &memView{store: m}}
}

func (m *mockStore) WithinTx(ctx context.Context, fn func(tx secondary.Store) error) error {
	if err := m.failOn["tx.begin"]; err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	working := m.state.clone()
	if err := fn(&mockTxStore{v: &memView{store: m, tx: working}}); err != nil {
		return err
	}
	m.state = working
	return nil
}

// snapshot returns a copy of the committed state for assertions.
func (m *mockStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

type mockTxStore struct {
	v *memView
}

func (t *mockTxStore) Participants() secondary.ParticipantRepository {
	return &mockParticipantRepository{v: t.v}
}

func (t *mockTxStore) Queue() secondary.QueueRepository {
	return &mockQueueRepository{v: t.v}
}

func (t *mockTxStore) WithinTx(ctx context.Context, fn func(tx secondary.Store) error) error {
	return fn(t)
}

// memView runs repository operations either on a transaction's working copy
// or, outside a transaction, on the committed state under the store mutex.
type memView struct {
	store *mockStore
	tx    *memState
}

func (v *memView) do(op string, fn func(st *memState) error) error {
	if err := v.store.failOn[op]; err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}

// mockParticipantRepository implements secondary.ParticipantRepository for testing.
type mockParticipantRepository struct {
	v *memView
}

func (r *mockParticipantRepository) Register(ctx context.Context, id int64, displayName string) error {
	return r.v.do("participants.Register", func(st *memState) error {
		if _, ok := st.participants[id]; !ok {
			st.participants[id] = &secondary.ParticipantRecord{ID: id, DisplayName: displayName}
		}
		return nil
	})
}

func (r *mockParticipantRepository) GetByID(ctx context.Context, id int64) (*secondary.ParticipantRecord, error) {
	var out *secondary.ParticipantRecord
	err := r.v.do("participants.GetByID", func(st *memState) error {
		if p, ok := st.participants[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *mockParticipantRepository) SetInQueue(ctx context.Context, id int64, inQueue bool) error {
	return r.v.do("participants.SetInQueue", func(st *memState) error {
		if p, ok := st.participants[id]; ok {
			p.InQueue = inQueue
		}
		return nil
	})
}

func (r *mockParticipantRepository) ResetInQueue(ctx context.Context) error {
	return r.v.do("participants.ResetInQueue", func(st *memState) error {
		for _, p := range st.participants {
			p.InQueue = false
		}
		return nil
	})
}

func (r *mockParticipantRepository) List(ctx context.Context) ([]*secondary.ParticipantRecord, error) {
	var out []*secondary.ParticipantRecord
	err := r.v.do("participants.List", func(st *memState) error {
		for _, p := range st.participants {
			cp := *p
			out = append(out, &cp)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// mockQueueRepository implements secondary.QueueRepository for testing.
type mockQueueRepository struct {
	v *memView
}

func (r *mockQueueRepository) Append(ctx context.Context, participantID int64, displayName string) (int64, error) {
	var seq int64
	err := r.v.do("queue.Append", func(st *memState) error {
		if _, ok := st.participants[participantID]; !ok {
			return errors.New("FOREIGN KEY constraint failed")
		}
		if st.entryIndex(participantID) >= 0 {
			return errors.New("UNIQUE constraint failed: queue.participant_id")
		}
		st.lastSeq++
		seq = st.lastSeq
		st.entries = append(st.entries, &secondary.QueueEntryRecord{
			Sequence:      seq,
			ParticipantID: participantID,
			DisplayName:   displayName,
		})
		return nil
	})
	return seq, err
}

func (r *mockQueueRepository) Remove(ctx context.Context, participantID int64) (bool, error) {
	var removed bool
	err := r.v.do("queue.Remove", func(st *memState) error {
		if i := st.entryIndex(participantID); i >= 0 {
			st.entries = append(st.entries[:i], st.entries[i+1:]...)
			removed = true
		}
		return nil
	})
	return removed, err
}

func (r *mockQueueRepository) Clear(ctx context.Context) (int, error) {
	var n int
	err := r.v.do("queue.Clear", func(st *memState) error {
		n = len(st.entries)
		st.entries = nil
		return nil
	})
	return n, err
}

func (r *mockQueueRepository) GetByParticipant(ctx context.Context, participantID int64) (*secondary.QueueEntryRecord, error) {
	var out *secondary.QueueEntryRecord
	err := r.v.do("queue.GetByParticipant", func(st *memState) error {
		if i := st.entryIndex(participantID); i >= 0 {
			cp := *st.entries[i]
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *mockQueueRepository) PositionOf(ctx context.Context, participantID int64) (int, bool, error) {
	var (
		pos int
		ok  bool
	)
	err := r.v.do("queue.PositionOf", func(st *memState) error {
		if i := st.entryIndex(participantID); i >= 0 {
			pos, ok = i+1, true
		}
		return nil
	})
	return pos, ok, err
}

func (r *mockQueueRepository) ListOrdered(ctx context.Context) ([]*secondary.QueueEntryRecord, error) {
	var out []*secondary.QueueEntryRecord
	err := r.v.do("queue.ListOrdered", func(st *memState) error {
		for _, e := range st.entries {
			cp := *e
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *mockQueueRepository) NextUnnotified(ctx context.Context) (*secondary.QueueEntryRecord, error) {
	var out *secondary.QueueEntryRecord
	err := r.v.do("queue.NextUnnotified", func(st *memState) error {
		for _, e := range st.entries {
			if !e.Notified {
				cp := *e
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *mockQueueRepository) MarkNotified(ctx context.Context, participantID, sequence int64) (bool, error) {
	var marked bool
	err := r.v.do("queue.MarkNotified", func(st *memState) error {
		for _, e := range st.entries {
			if e.Sequence == sequence && e.ParticipantID == participantID {
				e.Notified = true
				marked = true
			}
		}
		return nil
	})
	return marked, err
}

var (
	_ secondary.Store                 = (*mockStore)(nil)
	_ secondary.Store                 = (*mockTxStore)(nil)
	_ secondary.ParticipantRepository = (*mockParticipantRepository)(nil)
	_ secondary.QueueRepository       = (*mockQueueRepository)(nil)
)
