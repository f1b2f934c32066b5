package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tonearm/internal/logging"
)

// flushWindow is the single timed group vote to clear the queue. A window
// exists only between the first ballot and either quorum or timeout; the
// window ID guards against a stale timer firing after the window closed.
type flushWindow struct {
	windowID string
	ballots  map[string]struct{}
	timer    Timer
	openedAt time.Time
}

func (w *flushWindow) open(id string, now time.Time) {
	w.windowID = id
	w.ballots = make(map[string]struct{})
	w.openedAt = now
}

func (w *flushWindow) close() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.windowID = ""
	w.ballots = nil
	w.openedAt = time.Time{}
}

// FlushResult reports the outcome of an accepted flush ballot.
type FlushResult struct {
	Tally   int
	Needed  int
	Opened  bool
	Flushed bool
}

// CastFlushVote records a ballot to clear the entire queue. The first
// ballot of a window starts a timer; if quorum is not reached before it
// fires, the window resets and the next ballot starts fresh.
func (e *Engine) CastFlushVote(ctx context.Context, user string) (FlushResult, error) {
	limits := e.limits.Snapshot()
	window := time.Duration(limits.VoteTimeLimitMinutes) * time.Minute

	e.mu.Lock()
	if _, ok := e.flush.ballots[user]; ok {
		e.mu.Unlock()
		e.say(ctx, fmt.Sprintf("%s already voted to flush the queue.", user))
		return FlushResult{Needed: limits.FlushVoteLimit}, ErrAlreadyVoted
	}

	opened := false
	if e.flush.windowID == "" {
		opened = true
		id := uuid.NewString()
		e.flush.open(id, e.clock.Now())
		e.flush.timer = e.clock.AfterFunc(window, func() {
			e.expireFlushWindow(id)
		})
	}
	e.flush.ballots[user] = struct{}{}
	tally := len(e.flush.ballots)
	flushed := tally >= limits.FlushVoteLimit
	if flushed {
		e.flush.close()
	}
	e.mu.Unlock()

	e.recordAction(ctx, user, "flush vote")

	result := FlushResult{Tally: tally, Needed: limits.FlushVoteLimit, Opened: opened, Flushed: flushed}
	if !flushed {
		e.say(ctx, fmt.Sprintf("Flush vote %d of %d. The window closes in %d minutes.",
			tally, limits.FlushVoteLimit, limits.VoteTimeLimitMinutes))
		return result, nil
	}

	e.logger.Info("flush quorum reached",
		logging.String(logging.FieldEventType, "flush_quorum"),
		logging.Int("tally", tally),
	)
	e.actuate(ctx, "flush", e.actuator.Flush)
	e.say(ctx, "The queue has been flushed. Fresh start.")
	return result, nil
}

// expireFlushWindow is the timer callback for a flush window. A window
// that already closed (quorum, or an earlier timer) is left alone.
func (e *Engine) expireFlushWindow(windowID string) {
	e.mu.Lock()
	if e.flush.windowID != windowID {
		e.mu.Unlock()
		return
	}
	e.flush.close()
	e.mu.Unlock()

	e.logger.Info("flush vote expired",
		logging.String(logging.FieldEventType, "flush_expired"),
	)
	e.say(context.Background(), "The flush vote expired without a quorum.")
}
