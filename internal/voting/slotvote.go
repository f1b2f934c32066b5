package voting

import (
	"context"
	"fmt"
	"sort"

	"tonearm/internal/config"
	"tonearm/internal/logging"
	"tonearm/internal/trackid"
)

// slotTable holds per-slot ballots plus a table-wide per-user total that
// enforces the shared ballot cap. Both the promotion vote and the immunity
// vote are instances of this one shape; they differ only in their quorum
// action and reset strategy.
type slotTable struct {
	slots      map[int]map[string]struct{}
	userTotals map[string]int
}

func newSlotTable() slotTable {
	return slotTable{
		slots:      make(map[int]map[string]struct{}),
		userTotals: make(map[string]int),
	}
}

func (t *slotTable) tally(slot int) int {
	return len(t.slots[slot])
}

func (t *slotTable) hasBallot(slot int, user string) bool {
	_, ok := t.slots[slot][user]
	return ok
}

func (t *slotTable) record(slot int, user string) {
	ballots, ok := t.slots[slot]
	if !ok {
		ballots = make(map[string]struct{})
		t.slots[slot] = ballots
	}
	ballots[user] = struct{}{}
	t.userTotals[user]++
}

// resetSlotOnly clears one slot's ballots. User totals are never given
// back, so spent ballots stay spent.
func resetSlotOnly(t *slotTable, slot int) {
	delete(t.slots, slot)
}

// resetSlotAndUserTotals clears the slot and every user's table-wide
// total. The immunity vote has always behaved this way.
func resetSlotAndUserTotals(t *slotTable, slot int) {
	delete(t.slots, slot)
	t.userTotals = make(map[string]int)
}

// SlotVoteResult reports the outcome of an accepted slot ballot.
type SlotVoteResult struct {
	Slot      int
	Track     string
	Tally     int
	Needed    int
	Triggered bool
}

// SlotStatus describes one slot with open ballots.
type SlotStatus struct {
	Slot   int
	Track  string
	Tally  int
	Needed int
}

// CastPromotionVote records a ballot to move the track at the given slot
// up to play next. On quorum the slot is reordered behind the current
// track and only that slot's ballots reset.
func (e *Engine) CastPromotionVote(ctx context.Context, user string, slot int) (SlotVoteResult, error) {
	return e.castSlotVote(ctx, user, slot, &e.promotions, slotVoteKind{
		name:    "vote",
		limitOf: func(l config.Limits) int { return l.VoteLimit },
		reset:   resetSlotOnly,
		onQuorum: func(ctx context.Context, track trackid.Ref, slot int) {
			e.actuate(ctx, "reorder", func(ctx context.Context) error {
				return e.actuator.Reorder(ctx, slot)
			})
			e.say(ctx, fmt.Sprintf("The people have spoken: %s plays next.", track.Display()))
		},
	})
}

// CastImmunityVote records a ballot to protect the track at the given
// slot. On quorum the track is banned from the gong; the slot's ballots
// clear and every user's table-wide total resets.
func (e *Engine) CastImmunityVote(ctx context.Context, user string, slot int) (SlotVoteResult, error) {
	return e.castSlotVote(ctx, user, slot, &e.immunities, slotVoteKind{
		name:    "immunity vote",
		limitOf: func(l config.Limits) int { return l.VoteImmuneLimit },
		reset:   resetSlotAndUserTotals,
		onQuorum: func(ctx context.Context, track trackid.Ref, slot int) {
			e.registry.Ban(track)
			e.say(ctx, fmt.Sprintf("%s is now immune to the gong.", track.Display()))
		},
	})
}

// CheckPromotionVotes lists open promotion votes against a fresh queue
// snapshot.
func (e *Engine) CheckPromotionVotes(ctx context.Context) ([]SlotStatus, error) {
	return e.checkSlotVotes(ctx, &e.promotions, func(l config.Limits) int { return l.VoteLimit })
}

// CheckImmunityVotes lists open immunity votes against a fresh queue
// snapshot.
func (e *Engine) CheckImmunityVotes(ctx context.Context) ([]SlotStatus, error) {
	return e.checkSlotVotes(ctx, &e.immunities, func(l config.Limits) int { return l.VoteImmuneLimit })
}

// InvalidateSlot drops any open ballots against the given slot in both
// tables. Spent user totals are not refunded. Callers are not required to
// use this; slot votes are allowed to go stale.
func (e *Engine) InvalidateSlot(slot int) {
	e.mu.Lock()
	delete(e.promotions.slots, slot)
	delete(e.immunities.slots, slot)
	e.mu.Unlock()
}

type slotVoteKind struct {
	name     string
	limitOf  func(config.Limits) int
	reset    func(*slotTable, int)
	onQuorum func(ctx context.Context, track trackid.Ref, slot int)
}

func (e *Engine) castSlotVote(ctx context.Context, user string, slot int, table *slotTable, kind slotVoteKind) (SlotVoteResult, error) {
	queue, err := e.queue.Queue(ctx)
	if err != nil {
		return SlotVoteResult{}, fmt.Errorf("fetch queue snapshot: %w", err)
	}
	track, ok := trackAtSlot(queue, slot)
	if !ok {
		e.say(ctx, fmt.Sprintf("There is no queue slot %d.", slot))
		return SlotVoteResult{Slot: slot}, ErrSlotNotFound
	}

	limits := e.limits.Snapshot()
	needed := kind.limitOf(limits)

	e.mu.Lock()
	if table.userTotals[user] >= limits.UserVoteCap {
		e.mu.Unlock()
		e.say(ctx, fmt.Sprintf("%s has no %ss left.", user, kind.name))
		return SlotVoteResult{Slot: slot, Track: track.Display(), Needed: needed}, ErrCapReached
	}
	if table.hasBallot(slot, user) {
		e.mu.Unlock()
		e.say(ctx, fmt.Sprintf("%s already voted for slot %d.", user, slot))
		return SlotVoteResult{Slot: slot, Track: track.Display(), Needed: needed}, ErrAlreadyVoted
	}
	table.record(slot, user)
	tally := table.tally(slot)
	triggered := tally >= needed
	if triggered {
		kind.reset(table, slot)
	}
	e.mu.Unlock()

	e.recordAction(ctx, user, kind.name)

	result := SlotVoteResult{Slot: slot, Track: track.Display(), Tally: tally, Needed: needed, Triggered: triggered}
	if !triggered {
		e.say(ctx, fmt.Sprintf("%s %d of %d for %s (slot %d).", kind.name, tally, needed, track.Display(), slot))
		return result, nil
	}

	e.logger.Info("slot vote quorum reached",
		logging.String(logging.FieldEventType, "slot_quorum"),
		logging.String("kind", kind.name),
		logging.Int("slot", slot),
		logging.String("track", track.Display()),
	)
	kind.onQuorum(ctx, track, slot)
	return result, nil
}

func (e *Engine) checkSlotVotes(ctx context.Context, table *slotTable, limitOf func(config.Limits) int) ([]SlotStatus, error) {
	queue, err := e.queue.Queue(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch queue snapshot: %w", err)
	}
	needed := limitOf(e.limits.Snapshot())

	e.mu.Lock()
	statuses := make([]SlotStatus, 0, len(table.slots))
	for slot, ballots := range table.slots {
		status := SlotStatus{Slot: slot, Tally: len(ballots), Needed: needed}
		if track, ok := trackAtSlot(queue, slot); ok {
			status.Track = track.Display()
		}
		statuses = append(statuses, status)
	}
	e.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Slot < statuses[j].Slot })
	return statuses, nil
}

func trackAtSlot(queue []Slot, slot int) (trackid.Ref, bool) {
	for _, entry := range queue {
		if entry.Index == slot {
			return entry.Track, true
		}
	}
	return trackid.Ref{}, false
}
