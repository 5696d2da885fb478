package flux

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jupiter-cli/internal/model"
)

func TestAddRemove(t *testing.T) {
	s := New()

	if s.IsEntityInFlux(model.TagHabit, "H1") {
		t.Fatalf("expected H1 not in flux before add")
	}
	s.AddEntityInFlux(model.TagHabit, "H1")
	if !s.IsEntityInFlux(model.TagHabit, "H1") {
		t.Fatalf("expected H1 in flux after add")
	}
	s.RemoveEntityInFlux(model.TagHabit, "H1")
	if s.IsEntityInFlux(model.TagHabit, "H1") {
		t.Fatalf("expected H1 not in flux after remove")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s := New()
	before := s.Snapshot()

	s.RemoveEntityInFlux(model.TagChore, "C9")
	if s.IsEntityInFlux(model.TagChore, "C9") {
		t.Fatalf("expected C9 not in flux")
	}
	if s.Snapshot() != before {
		t.Fatalf("expected no new state for a no-op remove")
	}

	s.AddEntityInFlux(model.TagChore, "C1")
	v := s.Snapshot().Version()
	s.RemoveEntityInFlux(model.TagChore, "C9")
	if s.Snapshot().Version() != v {
		t.Fatalf("expected version unchanged when removing an absent id")
	}
}

func TestTagsAreIndependent(t *testing.T) {
	s := New()
	s.AddEntityInFlux(model.TagHabit, "X")
	if s.IsEntityInFlux(model.TagChore, "X") {
		t.Fatalf("expected chore X not in flux")
	}
}

func TestEveryChangePublishesNewState(t *testing.T) {
	s := New()
	s0 := s.Snapshot()
	s.AddEntityInFlux(model.TagHabit, "H1")
	s1 := s.Snapshot()
	if s0 == s1 {
		t.Fatalf("expected a new state after add")
	}
	if s1.Version() != s0.Version()+1 {
		t.Fatalf("expected version %d; got %d", s0.Version()+1, s1.Version())
	}

	// Adding an entry already present changes nothing.
	s.AddEntityInFlux(model.TagHabit, "H1")
	if s.Snapshot() != s1 {
		t.Fatalf("expected same state for duplicate add")
	}
}

func TestSnapshotsAreStable(t *testing.T) {
	s := New()
	s.AddEntityInFlux(model.TagHabit, "H1")
	snap := s.Snapshot()

	s.AddEntityInFlux(model.TagHabit, "H2")
	s.RemoveEntityInFlux(model.TagHabit, "H1")

	if !snap.Has(model.TagHabit, "H1") {
		t.Fatalf("expected old snapshot to still contain H1")
	}
	if snap.Has(model.TagHabit, "H2") {
		t.Fatalf("expected old snapshot to not see H2")
	}
	got := s.Snapshot().IDs(model.TagHabit)
	if len(got) != 1 || got[0] != "H2" {
		t.Fatalf("expected [H2]; got %v", got)
	}
}

func TestStoresAreIsolated(t *testing.T) {
	a := New()
	b := New()
	a.AddEntityInFlux(model.TagNote, "N1")
	if b.IsEntityInFlux(model.TagNote, "N1") {
		t.Fatalf("expected stores to be isolated")
	}
}

func TestTryAdd(t *testing.T) {
	s := New()
	if !s.TryAddEntityInFlux(model.TagHomeTab, "t1") {
		t.Fatalf("expected first TryAdd to succeed")
	}
	if s.TryAddEntityInFlux(model.TagHomeTab, "t1") {
		t.Fatalf("expected second TryAdd to fail")
	}
}

func TestTrackRemovesOnError(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	err := s.Track(context.Background(), model.TagBigPlan, "B1", func(context.Context) error {
		if !s.IsEntityInFlux(model.TagBigPlan, "B1") {
			t.Fatalf("expected B1 in flux inside Track")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom; got %v", err)
	}
	if s.IsEntityInFlux(model.TagBigPlan, "B1") {
		t.Fatalf("expected B1 removed after Track")
	}
	if s.Snapshot().Len() != 0 {
		t.Fatalf("expected empty state; got %d entries", s.Snapshot().Len())
	}
}

func TestSubscribe(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := s.Subscribe(ctx)
	s.AddEntityInFlux(model.TagInboxTask, "I1")

	select {
	case st := <-sub:
		if !st.Has(model.TagInboxTask, "I1") {
			t.Fatalf("expected published state to contain I1")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for published state")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("expected subscription to close after cancel")
		}
	}
}

func TestConcurrentWriters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.EntityID(string(rune('a' + i%26)))
			s.AddEntityInFlux(model.TagHabit, id)
			_ = s.IsEntityInFlux(model.TagHabit, id)
			s.RemoveEntityInFlux(model.TagHabit, id)
		}(i)
	}
	wg.Wait()
	if n := s.Snapshot().Len(); n != 0 {
		t.Fatalf("expected empty store after concurrent add/remove; got %d", n)
	}
}
