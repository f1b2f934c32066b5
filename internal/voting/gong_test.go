package voting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tonearm/internal/config"
	"tonearm/internal/trackid"
	"tonearm/internal/voting"
)

func TestCastGongRejectsWhenNothingPlaying(t *testing.T) {
	f := newFixture(t, defaultVoting())
	_, err := f.engine.CastGong(context.Background(), "alice")
	if !errors.Is(err, voting.ErrNothingPlaying) {
		t.Fatalf("expected ErrNothingPlaying, got %v", err)
	}
	if skips, _, _, _, _ := f.player.Snapshot(); skips != 0 {
		t.Fatal("no actuator call expected for an idle player")
	}
}

func TestGongQuorumSkipsBansAndResets(t *testing.T) {
	// Scenario A: gongLimit=3, users A, B, C each gong Song X.
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	song := trackid.FromParts("Song X", "The Example Band", "lib:songx")
	f.player.SetNowPlaying(song)

	for i, user := range []string{"alice", "bob", "carol"} {
		result, err := f.engine.CastGong(ctx, user)
		if err != nil {
			t.Fatalf("gong %d rejected: %v", i+1, err)
		}
		if result.Tally != i+1 {
			t.Fatalf("expected tally %d, got %d", i+1, result.Tally)
		}
		wantSkip := i == 2
		if result.Skipped != wantSkip {
			t.Fatalf("ballot %d: skipped=%v, want %v", i+1, result.Skipped, wantSkip)
		}
	}

	skips, _, _, _, inserted := f.player.Snapshot()
	if skips != 1 {
		t.Fatalf("skip should fire exactly once, got %d", skips)
	}
	if len(inserted) != 1 || inserted[0] != "tonearm:fanfare" {
		t.Fatalf("expected fanfare insert, got %v", inserted)
	}
	if !f.engine.IsTrackImmune(song) {
		t.Fatal("gonged track should be immune")
	}

	// Any further gong against Song X is rejected as immune, regardless of
	// tally or cap state.
	if _, err := f.engine.CastGong(ctx, "dave"); !errors.Is(err, voting.ErrImmune) {
		t.Fatalf("expected ErrImmune after quorum, got %v", err)
	}
	if skips, _, _, _, _ := f.player.Snapshot(); skips != 1 {
		t.Fatal("side effect must not fire twice")
	}
}

func TestGongFanfareIsSweptAfterItsDuration(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetNowPlaying(trackid.FromTitle("Filler Fodder"))
	f.player.InsertSlot = 1

	for _, user := range []string{"a", "b", "c"} {
		if _, err := f.engine.CastGong(ctx, user); err != nil {
			t.Fatalf("gong rejected: %v", err)
		}
	}
	if _, _, _, removed, _ := f.player.Snapshot(); len(removed) != 0 {
		t.Fatal("filler must not be removed before its duration elapses")
	}

	f.clock.Advance(7 * time.Second)
	_, _, _, removed, _ := f.player.Snapshot()
	if len(removed) != 1 || removed[0] != 1 {
		t.Fatalf("expected filler slot 1 removed, got %v", removed)
	}
}

func TestGongFanfareRemovalFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetNowPlaying(trackid.FromTitle("Unsweepable"))
	f.player.RemoveErr = errors.New("player offline")

	for _, user := range []string{"a", "b", "c"} {
		if _, err := f.engine.CastGong(ctx, user); err != nil {
			t.Fatalf("gong rejected: %v", err)
		}
	}
	f.clock.Advance(time.Minute)
	// Removal failed, but nothing retries and nothing surfaces to callers.
	if _, _, _, removed, _ := f.player.Snapshot(); len(removed) != 1 {
		t.Fatalf("expected exactly one removal attempt, got %d", len(removed))
	}
}

func TestGongUserCapEnforced(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetNowPlaying(trackid.FromTitle("Longplayer"))

	if _, err := f.engine.CastGong(ctx, "alice"); err != nil {
		t.Fatalf("first gong rejected: %v", err)
	}
	if _, err := f.engine.CastGong(ctx, "alice"); !errors.Is(err, voting.ErrCapReached) {
		t.Fatalf("expected ErrCapReached on second gong, got %v", err)
	}
	status, err := f.engine.CheckGong(ctx)
	if err != nil {
		t.Fatalf("CheckGong failed: %v", err)
	}
	if status.Tally != 1 {
		t.Fatalf("rejected ballot must not change the tally, got %d", status.Tally)
	}
}

func TestGongTrackChangeResetsTopic(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()

	f.player.SetNowPlaying(trackid.FromTitle("First Track"))
	if _, err := f.engine.CastGong(ctx, "alice"); err != nil {
		t.Fatalf("gong rejected: %v", err)
	}
	if _, err := f.engine.CastGong(ctx, "bob"); err != nil {
		t.Fatalf("gong rejected: %v", err)
	}

	// The track changes between ballots; detection is lazy, at ballot time.
	f.player.SetNowPlaying(trackid.FromTitle("Second Track"))
	result, err := f.engine.CastGong(ctx, "carol")
	if err != nil {
		t.Fatalf("gong rejected after track change: %v", err)
	}
	if result.Tally != 1 {
		t.Fatalf("expected fresh tally after track change, got %d", result.Tally)
	}
	// Under the default per-track cap scope, alice gets a fresh allowance.
	if _, err := f.engine.CastGong(ctx, "alice"); err != nil {
		t.Fatalf("expected alice's counter reset with the track change: %v", err)
	}
}

func TestGongLifetimeCapScopeSurvivesTrackChange(t *testing.T) {
	// Regression pin for the historical behavior: with the lifetime scope a
	// user who spends their gong cannot gong again until a quorum resets
	// the topic, no matter how many tracks go by.
	f := newFixture(t, defaultVoting(), withCapScope(voting.CapLifetime))
	ctx := context.Background()

	f.player.SetNowPlaying(trackid.FromTitle("First Track"))
	if _, err := f.engine.CastGong(ctx, "alice"); err != nil {
		t.Fatalf("gong rejected: %v", err)
	}

	f.player.SetNowPlaying(trackid.FromTitle("Second Track"))
	if _, err := f.engine.CastGong(ctx, "alice"); !errors.Is(err, voting.ErrCapReached) {
		t.Fatalf("expected lifetime cap to survive track change, got %v", err)
	}
}

func TestGongLimitIsReadLive(t *testing.T) {
	// Scenario D: the limit changes between ballots on a fresh track and
	// the very next ballot observes it.
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetNowPlaying(trackid.FromTitle("Doomed"))

	one := 1
	f.engine.SetLimits(config.LimitPatch{GongLimit: &one})

	result, err := f.engine.CastGong(ctx, "alice")
	if err != nil {
		t.Fatalf("gong rejected: %v", err)
	}
	if !result.Skipped {
		t.Fatal("expected immediate skip with gongLimit=1")
	}
	if skips, _, _, _, _ := f.player.Snapshot(); skips != 1 {
		t.Fatalf("expected one skip, got %d", skips)
	}
}

func TestCheckGongReportsRemaining(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()

	status, err := f.engine.CheckGong(ctx)
	if err != nil {
		t.Fatalf("CheckGong failed: %v", err)
	}
	if status.Playing {
		t.Fatal("expected idle status")
	}

	track := trackid.FromParts("Creep", "Radiohead", "")
	f.player.SetNowPlaying(track)
	if _, err := f.engine.CastGong(ctx, "alice"); err != nil {
		t.Fatalf("gong rejected: %v", err)
	}

	status, err = f.engine.CheckGong(ctx)
	if err != nil {
		t.Fatalf("CheckGong failed: %v", err)
	}
	if !status.Playing || status.Immune {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Tally != 1 || status.Remaining != 2 {
		t.Fatalf("expected 1 gong with 2 remaining, got %+v", status)
	}

	f.engine.BanTrack(ctx, "ops", track)
	status, err = f.engine.CheckGong(ctx)
	if err != nil {
		t.Fatalf("CheckGong failed: %v", err)
	}
	if !status.Immune {
		t.Fatal("expected immune status after ban")
	}
}

func TestGongSkipFailureStillFinalizesVote(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	song := trackid.FromTitle("Stuck Needle")
	f.player.SetNowPlaying(song)
	f.player.SkipErr = errors.New("player offline")

	for _, user := range []string{"a", "b", "c"} {
		if _, err := f.engine.CastGong(ctx, user); err != nil {
			t.Fatalf("gong rejected: %v", err)
		}
	}

	// The skip failed downstream, but the vote is decided: the track is
	// banned and the topic reset.
	if !f.engine.IsTrackImmune(song) {
		t.Fatal("track should be banned even when the actuator fails")
	}
	status, err := f.engine.CheckGong(ctx)
	if err != nil {
		t.Fatalf("CheckGong failed: %v", err)
	}
	if !status.Immune {
		t.Fatalf("unexpected status after failed skip: %+v", status)
	}
}
