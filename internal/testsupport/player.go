package testsupport

import (
	"context"
	"sync"

	"tonearm/internal/trackid"
	"tonearm/internal/voting"
)

// FakePlayer implements the queue snapshot and actuator collaborators with
// scripted state and call recording.
type FakePlayer struct {
	mu      sync.Mutex
	current *trackid.Ref
	slots   []voting.Slot

	SkipErr    error
	ReorderErr error
	FlushErr   error
	InsertErr  error
	RemoveErr  error

	// InsertSlot is the slot index InsertAfterCurrent reports.
	InsertSlot int

	SkipCalls  int
	FlushCalls int
	Reordered  []int
	Inserted   []string
	Removed    []int
}

// NewFakePlayer returns an idle player with an empty queue.
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{InsertSlot: 1}
}

// SetNowPlaying scripts the currently playing track.
func (p *FakePlayer) SetNowPlaying(ref trackid.Ref) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = &ref
}

// ClearNowPlaying scripts an idle player.
func (p *FakePlayer) ClearNowPlaying() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}

// SetQueue scripts the queue snapshot.
func (p *FakePlayer) SetQueue(slots ...voting.Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots = append([]voting.Slot(nil), slots...)
}

func (p *FakePlayer) NowPlaying(context.Context) (trackid.Ref, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return trackid.Ref{}, false, nil
	}
	return *p.current, true, nil
}

func (p *FakePlayer) Queue(context.Context) ([]voting.Slot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]voting.Slot(nil), p.slots...), nil
}

func (p *FakePlayer) Skip(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SkipCalls++
	return p.SkipErr
}

func (p *FakePlayer) Reorder(_ context.Context, slot int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Reordered = append(p.Reordered, slot)
	return p.ReorderErr
}

func (p *FakePlayer) Flush(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.FlushCalls++
	return p.FlushErr
}

func (p *FakePlayer) InsertAfterCurrent(_ context.Context, uri string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Inserted = append(p.Inserted, uri)
	if p.InsertErr != nil {
		return 0, p.InsertErr
	}
	return p.InsertSlot, nil
}

func (p *FakePlayer) Remove(_ context.Context, slot int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Removed = append(p.Removed, slot)
	return p.RemoveErr
}

// Snapshot returns recorded call state under the lock for assertions.
func (p *FakePlayer) Snapshot() (skips, flushes int, reordered, removed []int, inserted []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.SkipCalls, p.FlushCalls,
		append([]int(nil), p.Reordered...),
		append([]int(nil), p.Removed...),
		append([]string(nil), p.Inserted...)
}
