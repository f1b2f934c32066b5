package voting

import (
	"context"
	"fmt"

	"tonearm/internal/logging"
)

// CapScope selects how the per-user gong cap behaves when the playing
// track changes.
type CapScope string

const (
	// CapPerTrack zeroes each user's gong counter whenever the bound track
	// changes, so every new track grants a fresh allowance.
	CapPerTrack CapScope = "track"

	// CapLifetime keeps gong counters across track changes. A user who
	// spends their allowance cannot gong again until a quorum resets the
	// topic. Kept for compatibility with the historical behavior.
	CapLifetime CapScope = "lifetime"
)

// gongTopic is the single skip-vote bound to whatever is currently playing.
// It is created implicitly on the first ballot and rebinds lazily when a
// ballot observes a different track.
type gongTopic struct {
	boundKey  string
	ballots   map[string]int
	userGongs map[string]int
	tally     int
}

func newGongTopic() gongTopic {
	return gongTopic{
		ballots:   make(map[string]int),
		userGongs: make(map[string]int),
	}
}

// rebind points the topic at a new track, zeroing the tally and ballots.
// Per-user counters survive only under the lifetime cap scope.
func (g *gongTopic) rebind(key string, scope CapScope) {
	g.boundKey = key
	g.tally = 0
	g.ballots = make(map[string]int)
	if scope != CapLifetime {
		g.userGongs = make(map[string]int)
	}
}

// reset zeroes everything after a quorum fires.
func (g *gongTopic) reset() {
	g.tally = 0
	g.ballots = make(map[string]int)
	g.userGongs = make(map[string]int)
}

// GongResult reports the outcome of an accepted gong ballot.
type GongResult struct {
	Track   string
	Tally   int
	Needed  int
	Skipped bool
}

// GongStatus is the read-only view returned by CheckGong.
type GongStatus struct {
	Playing   bool
	Track     string
	Immune    bool
	Tally     int
	Remaining int
}

// CastGong records a skip-vote ballot against the currently playing track.
func (e *Engine) CastGong(ctx context.Context, user string) (GongResult, error) {
	ref, ok, err := e.queue.NowPlaying(ctx)
	if err != nil {
		return GongResult{}, fmt.Errorf("resolve current track: %w", err)
	}
	if !ok {
		e.say(ctx, "Nothing is playing; there is nothing to gong.")
		return GongResult{}, ErrNothingPlaying
	}
	if e.registry.IsBanned(ref) {
		e.say(ctx, fmt.Sprintf("%s is immune to the gong.", ref.Display()))
		return GongResult{Track: ref.Display()}, ErrImmune
	}

	limits := e.limits.Snapshot()
	key := ref.Key()

	e.mu.Lock()
	if e.gong.boundKey != key {
		e.gong.rebind(key, e.gongCapScope)
	}
	if e.gong.userGongs[user] >= limits.UserGongCap {
		e.mu.Unlock()
		e.say(ctx, fmt.Sprintf("%s has no gongs left.", user))
		return GongResult{Track: ref.Display(), Needed: limits.GongLimit}, ErrCapReached
	}
	e.gong.ballots[user]++
	e.gong.userGongs[user]++
	e.gong.tally++
	tally := e.gong.tally
	triggered := tally >= limits.GongLimit
	if triggered {
		e.gong.reset()
	}
	e.mu.Unlock()

	e.recordAction(ctx, user, "gong")

	result := GongResult{Track: ref.Display(), Tally: tally, Needed: limits.GongLimit, Skipped: triggered}
	if !triggered {
		e.say(ctx, fmt.Sprintf("Gong %d of %d against %s.", tally, limits.GongLimit, ref.Display()))
		return result, nil
	}

	e.registry.Ban(ref)
	e.logger.Info("gong quorum reached",
		logging.String(logging.FieldEventType, "gong_quorum"),
		logging.String("track", ref.Display()),
		logging.Int("tally", tally),
	)
	e.say(ctx, fmt.Sprintf("That's the gong! %s is swept away.", ref.Display()))
	e.skipWithFanfare(ctx)
	return result, nil
}

// CheckGong reports how many gongs remain before the current track is
// skipped. It never mutates topic state.
func (e *Engine) CheckGong(ctx context.Context) (GongStatus, error) {
	ref, ok, err := e.queue.NowPlaying(ctx)
	if err != nil {
		return GongStatus{}, fmt.Errorf("resolve current track: %w", err)
	}
	if !ok {
		return GongStatus{}, nil
	}

	status := GongStatus{Playing: true, Track: ref.Display()}
	if e.registry.IsBanned(ref) {
		status.Immune = true
		return status, nil
	}

	limits := e.limits.Snapshot()
	e.mu.Lock()
	if e.gong.boundKey == ref.Key() {
		status.Tally = e.gong.tally
	}
	e.mu.Unlock()

	status.Remaining = limits.GongLimit - status.Tally
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	return status, nil
}

// skipWithFanfare inserts the filler track behind the current position,
// advances into it, and schedules a non-cancellable sweep that removes the
// filler once it has played out. Removal failure is logged, never retried.
func (e *Engine) skipWithFanfare(ctx context.Context) {
	if e.fanfareURI == "" {
		e.actuate(ctx, "skip", e.actuator.Skip)
		return
	}

	fillerSlot, err := e.actuator.InsertAfterCurrent(ctx, e.fanfareURI)
	if err != nil {
		e.logger.Error("fanfare insert failed",
			logging.String(logging.FieldEventType, "actuator_failed"),
			logging.Error(err),
		)
		e.actuate(ctx, "skip", e.actuator.Skip)
		return
	}
	e.actuate(ctx, "skip", e.actuator.Skip)

	e.clock.AfterFunc(e.fanfareDuration, func() {
		if err := e.actuator.Remove(context.Background(), fillerSlot); err != nil {
			e.logger.Warn("fanfare removal failed",
				logging.String(logging.FieldEventType, "fanfare_sweep_failed"),
				logging.Int("slot", fillerSlot),
				logging.Error(err),
			)
		}
	})
}
