package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tonearm/internal/config"
	"tonearm/internal/immunity"
	"tonearm/internal/logging"
	"tonearm/internal/trackid"
)

// Options configures an Engine.
type Options struct {
	Limits    *config.LimitStore
	Registry  *immunity.Registry
	Queue     QueueSnapshot
	Actuator  Actuator
	Messenger Messenger
	Actions   ActionLog
	Clock     Clock
	Logger    *slog.Logger

	// FanfareURI is the short filler played while a gonged track is swept
	// away; FanfareDuration sizes the timer that removes it again.
	FanfareURI      string
	FanfareDuration time.Duration

	// GongCapScope selects how the per-user gong cap behaves across track
	// changes. Defaults to CapPerTrack.
	GongCapScope CapScope
}

// Engine owns all voting topics. It is constructed once at startup and is
// the only object the command dispatcher talks to.
type Engine struct {
	limits    *config.LimitStore
	registry  *immunity.Registry
	queue     QueueSnapshot
	actuator  Actuator
	messenger Messenger
	actions   ActionLog
	clock     Clock
	logger    *slog.Logger

	fanfareURI      string
	fanfareDuration time.Duration
	gongCapScope    CapScope

	mu         sync.Mutex
	gong       gongTopic
	promotions slotTable
	immunities slotTable
	flush      flushWindow
}

// New validates the wiring and returns a ready engine.
func New(opts Options) (*Engine, error) {
	if opts.Limits == nil {
		return nil, errors.New("voting engine requires a limit store")
	}
	if opts.Registry == nil {
		return nil, errors.New("voting engine requires an immunity registry")
	}
	if opts.Queue == nil || opts.Actuator == nil {
		return nil, errors.New("voting engine requires queue snapshot and actuator collaborators")
	}
	clock := opts.Clock
	if clock == nil {
		clock = RealClock()
	}
	scope := opts.GongCapScope
	if scope == "" {
		scope = CapPerTrack
	}
	if scope != CapPerTrack && scope != CapLifetime {
		return nil, fmt.Errorf("unknown gong cap scope %q", scope)
	}
	fanfareDuration := opts.FanfareDuration
	if fanfareDuration <= 0 {
		fanfareDuration = 7 * time.Second
	}

	eng := &Engine{
		limits:          opts.Limits,
		registry:        opts.Registry,
		queue:           opts.Queue,
		actuator:        opts.Actuator,
		messenger:       opts.Messenger,
		actions:         opts.Actions,
		clock:           clock,
		logger:          logging.NewComponentLogger(opts.Logger, "voting"),
		fanfareURI:      opts.FanfareURI,
		fanfareDuration: fanfareDuration,
		gongCapScope:    scope,
	}
	eng.gong = newGongTopic()
	eng.promotions = newSlotTable()
	eng.immunities = newSlotTable()
	return eng, nil
}

// Limits returns the current live limit values.
func (e *Engine) Limits() config.Limits {
	return e.limits.Snapshot()
}

// SetLimits applies a partial limit update and returns the result. Running
// votes observe the new values on their next quorum check.
func (e *Engine) SetLimits(patch config.LimitPatch) config.Limits {
	limits := e.limits.Apply(patch)
	e.logger.Info("voting limits updated",
		logging.String(logging.FieldEventType, "limits_updated"),
		logging.Int("gong_limit", limits.GongLimit),
		logging.Int("vote_limit", limits.VoteLimit),
		logging.Int("flush_vote_limit", limits.FlushVoteLimit),
	)
	return limits
}

// IsTrackImmune reports whether the referenced track is protected.
func (e *Engine) IsTrackImmune(ref trackid.Ref) bool {
	return e.registry.IsBanned(ref)
}

// BanTrack marks the referenced track immune without a vote.
func (e *Engine) BanTrack(ctx context.Context, user string, ref trackid.Ref) {
	e.registry.Ban(ref)
	e.recordAction(ctx, user, "ban")
	e.say(ctx, fmt.Sprintf("%s is now immune to the gong.", ref.Display()))
}

// ListImmuneTracks returns display names for every immune track.
func (e *Engine) ListImmuneTracks() []string {
	return e.registry.List()
}

// say delivers a chat announcement. Delivery is best effort; failures are
// logged and never affect vote state.
func (e *Engine) say(ctx context.Context, text string) {
	if e.messenger == nil {
		return
	}
	if err := e.messenger.Send(ctx, text); err != nil {
		e.logger.Warn("messenger send failed",
			logging.String(logging.FieldEventType, "messenger_failed"),
			logging.Error(err),
		)
	}
}

// recordAction writes to the audit log, swallowing failures.
func (e *Engine) recordAction(ctx context.Context, user, action string) {
	if e.actions == nil {
		return
	}
	if err := e.actions.Record(ctx, user, action); err != nil {
		e.logger.Debug("action log write failed",
			logging.String("action", action),
			logging.Error(err),
		)
	}
}

// actuate invokes an actuator call, logging and announcing failure. The
// calling topic has already finalized its state; there is no rollback.
func (e *Engine) actuate(ctx context.Context, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		e.logger.Error("actuator call failed",
			logging.String(logging.FieldEventType, "actuator_failed"),
			logging.String("call", name),
			logging.Error(err),
		)
		e.say(ctx, fmt.Sprintf("The player refused to %s; the vote still counts.", name))
	}
}
