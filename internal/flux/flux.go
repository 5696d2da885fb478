// Package flux tracks which entities have a mutation in flight.
//
// A Store publishes immutable State values: every change builds a new outer map
// and a fresh copy of the affected inner set, so a State obtained earlier never
// changes underneath its holder.
package flux

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"jupiter-cli/internal/model"
)

// subBufferSize is the buffer size of the channel for each subscription.
const subBufferSize = 64

type set map[model.EntityID]struct{}

// State is an immutable snapshot of the entities in flux.
type State struct {
	version  uint64
	entities map[model.NamedEntityTag]set
}

// Version increases by one for every published change.
func (s *State) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

func (s *State) Has(tag model.NamedEntityTag, id model.EntityID) bool {
	if s == nil {
		return false
	}
	ids, ok := s.entities[tag]
	if !ok {
		return false
	}
	_, ok = ids[id]
	return ok
}

// IDs lists the ids in flux for tag, sorted.
func (s *State) IDs(tag model.NamedEntityTag) []model.EntityID {
	if s == nil {
		return nil
	}
	ids := s.entities[tag]
	out := make([]model.EntityID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len counts the entities in flux across all tags.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ids := range s.entities {
		n += len(ids)
	}
	return n
}

type Store struct {
	cur atomic.Pointer[State]

	mu   sync.Mutex // serialises writers and guards subs
	subs map[chan *State]struct{}
}

func New() *Store {
	s := &Store{subs: map[chan *State]struct{}{}}
	s.cur.Store(&State{entities: map[model.NamedEntityTag]set{}})
	return s
}

// Snapshot returns the current state. It is safe to keep across later mutations.
func (s *Store) Snapshot() *State {
	return s.cur.Load()
}

func (s *Store) IsEntityInFlux(tag model.NamedEntityTag, id model.EntityID) bool {
	return s.cur.Load().Has(tag, id)
}

func (s *Store) AddEntityInFlux(tag model.NamedEntityTag, id model.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(tag, id)
}

// TryAddEntityInFlux adds the entity unless it is already in flux.
// It reports whether the caller now owns the entry.
func (s *Store) TryAddEntityInFlux(tag model.NamedEntityTag, id model.EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.Load().Has(tag, id) {
		return false
	}
	s.addLocked(tag, id)
	return true
}

func (s *Store) RemoveEntityInFlux(tag model.NamedEntityTag, id model.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cur.Load()
	if !prev.Has(tag, id) {
		return
	}
	next := s.derive(prev, tag)
	delete(next.entities[tag], id)
	if len(next.entities[tag]) == 0 {
		delete(next.entities, tag)
	}
	s.publishLocked(next)
}

// Track marks the entity in flux for the duration of fn. The entry is removed
// whether fn succeeds or not.
func (s *Store) Track(ctx context.Context, tag model.NamedEntityTag, id model.EntityID, fn func(context.Context) error) error {
	s.AddEntityInFlux(tag, id)
	defer s.RemoveEntityInFlux(tag, id)
	return fn(ctx)
}

// Subscribe returns a stream of published states. The subscription ends when ctx
// is cancelled. Subscribers that fall behind by a full buffer are dropped.
func (s *Store) Subscribe(ctx context.Context) <-chan *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := make(chan *State, subBufferSize)
	s.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		s.unsubscribe(sub)
	}()
	return sub
}

func (s *Store) addLocked(tag model.NamedEntityTag, id model.EntityID) {
	prev := s.cur.Load()
	if prev.Has(tag, id) {
		return
	}
	next := s.derive(prev, tag)
	if next.entities[tag] == nil {
		next.entities[tag] = set{}
	}
	next.entities[tag][id] = struct{}{}
	s.publishLocked(next)
}

// derive copies the outer map of prev and deep-copies the set for tag.
// Sets for other tags are shared; they are never written after publication.
func (s *Store) derive(prev *State, tag model.NamedEntityTag) *State {
	next := &State{
		version:  prev.version + 1,
		entities: make(map[model.NamedEntityTag]set, len(prev.entities)+1),
	}
	for k, v := range prev.entities {
		next.entities[k] = v
	}
	if ids, ok := prev.entities[tag]; ok {
		cp := make(set, len(ids)+1)
		for id := range ids {
			cp[id] = struct{}{}
		}
		next.entities[tag] = cp
	}
	return next
}

func (s *Store) publishLocked(next *State) {
	s.cur.Store(next)

	var full []chan *State
	for sub := range s.subs {
		select {
		case sub <- next:
		default:
			full = append(full, sub)
		}
	}
	for _, sub := range full {
		close(sub)
		delete(s.subs, sub)
	}
}

func (s *Store) unsubscribe(sub chan *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub]; !ok {
		return
	}
	close(sub)
	delete(s.subs, sub)
}
