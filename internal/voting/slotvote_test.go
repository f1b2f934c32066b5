package voting_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tonearm/internal/trackid"
	"tonearm/internal/voting"
)

func queueOf(titles ...string) []voting.Slot {
	slots := make([]voting.Slot, 0, len(titles))
	for i, title := range titles {
		slots = append(slots, voting.Slot{Index: i + 1, Track: trackid.FromTitle(title)})
	}
	return slots
}

func TestPromotionVoteRejectsMissingSlot(t *testing.T) {
	f := newFixture(t, defaultVoting())
	f.player.SetQueue(queueOf("One", "Two")...)

	_, err := f.engine.CastPromotionVote(context.Background(), "alice", 9)
	if !errors.Is(err, voting.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestPromotionVoteQuorumReordersAndResetsSlotOnly(t *testing.T) {
	// Scenario B: voteLimit=3, slot 4. A votes, B votes, A again is
	// rejected, C completes the quorum.
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three", "Four", "Five")...)

	if _, err := f.engine.CastPromotionVote(ctx, "alice", 4); err != nil {
		t.Fatalf("alice's vote rejected: %v", err)
	}
	result, err := f.engine.CastPromotionVote(ctx, "bob", 4)
	if err != nil {
		t.Fatalf("bob's vote rejected: %v", err)
	}
	if result.Tally != 2 {
		t.Fatalf("expected tally 2, got %d", result.Tally)
	}

	if _, err := f.engine.CastPromotionVote(ctx, "alice", 4); !errors.Is(err, voting.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted for alice's second ballot, got %v", err)
	}

	result, err = f.engine.CastPromotionVote(ctx, "carol", 4)
	if err != nil {
		t.Fatalf("carol's vote rejected: %v", err)
	}
	if !result.Triggered || result.Tally != 3 {
		t.Fatalf("expected quorum at tally 3, got %+v", result)
	}

	_, _, reordered, _, _ := f.player.Snapshot()
	if len(reordered) != 1 || reordered[0] != 4 {
		t.Fatalf("expected slot 4 reordered once, got %v", reordered)
	}

	// The slot's tally is gone; table-wide counters are never refunded.
	statuses, err := f.engine.CheckPromotionVotes(ctx)
	if err != nil {
		t.Fatalf("CheckPromotionVotes failed: %v", err)
	}
	if len(statuses) != 0 {
		t.Fatalf("expected no open votes after quorum, got %v", statuses)
	}
}

func TestPromotionVoteUserCapSharedAcrossSlots(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three", "Four", "Five")...)

	for slot := 1; slot <= 4; slot++ {
		if _, err := f.engine.CastPromotionVote(ctx, "alice", slot); err != nil {
			t.Fatalf("vote %d rejected: %v", slot, err)
		}
	}
	if _, err := f.engine.CastPromotionVote(ctx, "alice", 5); !errors.Is(err, voting.ErrCapReached) {
		t.Fatalf("expected ErrCapReached after 4 ballots, got %v", err)
	}
}

func TestPromotionQuorumDoesNotRefundUserTotals(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three", "Four", "Five")...)

	// alice spends all four ballots, the last three driving slot 1 to
	// quorum with help from bob and carol.
	for _, slot := range []int{2, 3, 4} {
		if _, err := f.engine.CastPromotionVote(ctx, "alice", slot); err != nil {
			t.Fatalf("setup vote rejected: %v", err)
		}
	}
	for _, user := range []string{"alice", "bob", "carol"} {
		if _, err := f.engine.CastPromotionVote(ctx, user, 1); err != nil {
			t.Fatalf("%s's vote rejected: %v", user, err)
		}
	}

	// Slot 1 hit quorum, but alice's table-wide total stays spent.
	if _, err := f.engine.CastPromotionVote(ctx, "alice", 5); !errors.Is(err, voting.ErrCapReached) {
		t.Fatalf("expected promotion quorum to keep user totals, got %v", err)
	}
}

func TestImmunityVoteQuorumBansAndResetsWholeTable(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three", "Four", "Five")...)

	// alice spends her full allowance across other slots first.
	for _, slot := range []int{2, 3, 4} {
		if _, err := f.engine.CastImmunityVote(ctx, "alice", slot); err != nil {
			t.Fatalf("setup vote rejected: %v", err)
		}
	}
	for _, user := range []string{"alice", "bob", "carol"} {
		if _, err := f.engine.CastImmunityVote(ctx, user, 1); err != nil {
			t.Fatalf("%s's vote rejected: %v", user, err)
		}
	}

	if !f.engine.IsTrackImmune(trackid.FromTitle("One")) {
		t.Fatal("expected slot 1's track banned after quorum")
	}
	if _, _, reordered, _, _ := f.player.Snapshot(); len(reordered) != 0 {
		t.Fatal("immunity quorum must not reorder the queue")
	}

	// Unlike the promotion table, the immunity quorum resets every user's
	// table-wide total, so alice can vote again immediately.
	if _, err := f.engine.CastImmunityVote(ctx, "alice", 5); err != nil {
		t.Fatalf("expected whole-table reset to refund alice, got %v", err)
	}
}

func TestSlotVoteChecksJoinFreshSnapshot(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three")...)

	if _, err := f.engine.CastPromotionVote(ctx, "alice", 2); err != nil {
		t.Fatalf("vote rejected: %v", err)
	}
	if _, err := f.engine.CastPromotionVote(ctx, "alice", 3); err != nil {
		t.Fatalf("vote rejected: %v", err)
	}

	// Slot 3 disappears from the live queue; its ballots remain but the
	// status no longer resolves a track.
	f.player.SetQueue(queueOf("One", "Two")...)

	statuses, err := f.engine.CheckPromotionVotes(ctx)
	if err != nil {
		t.Fatalf("CheckPromotionVotes failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected two open votes, got %v", statuses)
	}
	if statuses[0].Slot != 2 || statuses[0].Track != "Two" || statuses[0].Tally != 1 {
		t.Fatalf("unexpected first status: %+v", statuses[0])
	}
	if statuses[1].Slot != 3 || statuses[1].Track != "" {
		t.Fatalf("expected stale slot with no track, got %+v", statuses[1])
	}
}

func TestInvalidateSlotDropsBallots(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two")...)

	if _, err := f.engine.CastPromotionVote(ctx, "alice", 2); err != nil {
		t.Fatalf("vote rejected: %v", err)
	}
	if _, err := f.engine.CastImmunityVote(ctx, "bob", 2); err != nil {
		t.Fatalf("vote rejected: %v", err)
	}

	f.engine.InvalidateSlot(2)

	promo, err := f.engine.CheckPromotionVotes(ctx)
	if err != nil {
		t.Fatalf("CheckPromotionVotes failed: %v", err)
	}
	imm, err := f.engine.CheckImmunityVotes(ctx)
	if err != nil {
		t.Fatalf("CheckImmunityVotes failed: %v", err)
	}
	if len(promo) != 0 || len(imm) != 0 {
		t.Fatalf("expected no open votes after invalidation, got %v / %v", promo, imm)
	}

	// Invalidation does not refund the spent totals: alice already used one
	// ballot, so three more exhaust her cap.
	f.player.SetQueue(queueOf("One", "Two", "Three", "Four", "Five")...)
	for _, slot := range []int{1, 2, 3} {
		if _, err := f.engine.CastPromotionVote(ctx, "alice", slot); err != nil {
			t.Fatalf("vote for slot %d rejected: %v", slot, err)
		}
	}
	if _, err := f.engine.CastPromotionVote(ctx, "alice", 4); !errors.Is(err, voting.ErrCapReached) {
		t.Fatalf("expected cap after fourth recorded ballot, got %v", err)
	}
}

func TestImmunityVoteLimitIsIndependent(t *testing.T) {
	vcfg := defaultVoting()
	vcfg.VoteImmuneLimit = 2
	f := newFixture(t, vcfg)
	ctx := context.Background()
	f.player.SetQueue(queueOf("One")...)

	if _, err := f.engine.CastImmunityVote(ctx, "alice", 1); err != nil {
		t.Fatalf("vote rejected: %v", err)
	}
	result, err := f.engine.CastImmunityVote(ctx, "bob", 1)
	if err != nil {
		t.Fatalf("vote rejected: %v", err)
	}
	if !result.Triggered {
		t.Fatalf("expected quorum with voteImmuneLimit=2, got %+v", result)
	}
}

func TestSlotVotesForDistinctSlotsAreIndependent(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One", "Two", "Three")...)

	users := []string{"u1", "u2"}
	for _, user := range users {
		for slot := 1; slot <= 2; slot++ {
			result, err := f.engine.CastPromotionVote(ctx, user, slot)
			if err != nil {
				t.Fatalf("vote rejected: %v", err)
			}
			if result.Triggered {
				t.Fatalf("unexpected quorum: %+v", result)
			}
		}
	}

	statuses, err := f.engine.CheckPromotionVotes(ctx)
	if err != nil {
		t.Fatalf("CheckPromotionVotes failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected two independent slot votes, got %v", statuses)
	}
	for i, status := range statuses {
		if status.Tally != 2 {
			t.Fatalf("slot %d: expected tally 2, got %+v", i+1, status)
		}
	}
}

func TestPromotionReorderFailureStillResetsSlot(t *testing.T) {
	f := newFixture(t, defaultVoting())
	ctx := context.Background()
	f.player.SetQueue(queueOf("One")...)
	f.player.ReorderErr = fmt.Errorf("player offline")

	for _, user := range []string{"a", "b", "c"} {
		if _, err := f.engine.CastPromotionVote(ctx, user, 1); err != nil {
			t.Fatalf("vote rejected: %v", err)
		}
	}

	statuses, err := f.engine.CheckPromotionVotes(ctx)
	if err != nil {
		t.Fatalf("CheckPromotionVotes failed: %v", err)
	}
	if len(statuses) != 0 {
		t.Fatalf("vote state must finalize despite actuator failure, got %v", statuses)
	}
}
