package polls

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/pollbooth/testutil"
)

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := NewService(db, nil)
	ctx := context.Background()
	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")
	testutil.CreateTestUser(t, db, 300, "carol")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Lunch", false, future)
	testutil.AddTestOption(t, db, pollID, "Pizza")
	testutil.AddTestOption(t, db, pollID, "Sushi")

	t.Run("records a vote", func(t *testing.T) {
		if err := svc.CastVote(ctx, pollID, 200, "Pizza"); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
		voted, err := svc.HasVoted(ctx, pollID, 200)
		if err != nil {
			t.Fatalf("HasVoted failed: %v", err)
		}
		if !voted {
			t.Error("HasVoted should report true after a vote")
		}
	})

	t.Run("rejects a second vote", func(t *testing.T) {
		err := svc.CastVote(ctx, pollID, 200, "Sushi")
		if !errors.Is(err, ErrDuplicateVote) {
			t.Errorf("Expected ErrDuplicateVote, got %v", err)
		}
		// The original vote is untouched
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = 200", pollID).Scan(&count); err != nil {
			t.Fatalf("Failed to count votes: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected exactly 1 vote, got %d", count)
		}
	})

	t.Run("rejects an unknown option", func(t *testing.T) {
		if err := svc.CastVote(ctx, pollID, 300, "Tacos"); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Expected ErrInvalidOption, got %v", err)
		}
	})

	t.Run("rejects a missing poll", func(t *testing.T) {
		if err := svc.CastVote(ctx, 99999, 300, "Pizza"); !errors.Is(err, ErrPollNotFound) {
			t.Errorf("Expected ErrPollNotFound, got %v", err)
		}
	})

	t.Run("rejects an ended poll", func(t *testing.T) {
		endedID := testutil.CreateTestPoll(t, db, 100, "Ended", false, future)
		testutil.AddTestOption(t, db, endedID, "A")
		testutil.AddTestOption(t, db, endedID, "B")
		testutil.EndTestPoll(t, db, endedID)

		if err := svc.CastVote(ctx, endedID, 300, "A"); !errors.Is(err, ErrPollClosed) {
			t.Errorf("Expected ErrPollClosed, got %v", err)
		}
	})

	t.Run("rejects an expired poll", func(t *testing.T) {
		expiredID := testutil.CreateTestPoll(t, db, 100, "Expired", false, time.Now().Add(-time.Hour))
		testutil.AddTestOption(t, db, expiredID, "A")
		testutil.AddTestOption(t, db, expiredID, "B")

		// Still flagged active, but past its end time
		if err := svc.CastVote(ctx, expiredID, 300, "A"); !errors.Is(err, ErrPollClosed) {
			t.Errorf("Expected ErrPollClosed, got %v", err)
		}
	})
}

func TestCastVotePrivatePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := NewService(db, nil)
	ctx := context.Background()
	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")
	testutil.CreateTestUser(t, db, 300, "carol")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Private lunch", true, future)
	testutil.AddTestOption(t, db, pollID, "Pizza")
	testutil.AddTestOption(t, db, pollID, "Sushi")
	testutil.AddTestParticipant(t, db, pollID, 100)
	testutil.AddTestParticipant(t, db, pollID, 200)

	t.Run("participant may vote", func(t *testing.T) {
		if err := svc.CastVote(ctx, pollID, 200, "Pizza"); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	})

	t.Run("creator may vote", func(t *testing.T) {
		if err := svc.CastVote(ctx, pollID, 100, "Sushi"); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		if err := svc.CastVote(ctx, pollID, 300, "Pizza"); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

// TestCastVoteConcurrentDuplicates verifies that simultaneous votes from the
// same user resolve to exactly one stored vote, with every loser getting
// ErrDuplicateVote
func TestCastVoteConcurrentDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := NewService(db, nil)
	ctx := context.Background()
	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Race", false, future)
	testutil.AddTestOption(t, db, pollID, "A")
	testutil.AddTestOption(t, db, pollID, "B")

	numAttempts := 10
	var successCount atomic.Int32
	var duplicateCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			option := "A"
			if attempt%2 == 1 {
				option = "B"
			}
			err := svc.CastVote(ctx, pollID, 200, option)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				duplicateCount.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}
	if int(duplicateCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d duplicates, got %d", numAttempts-1, duplicateCount.Load())
	}

	var stored int
	if err := db.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = 200", pollID).Scan(&stored); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if stored != 1 {
		t.Errorf("Expected exactly 1 vote in database, got %d", stored)
	}
}

// TestConcurrentVotesDifferentUsers verifies independent users voting at once
// all succeed
func TestConcurrentVotesDifferentUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := NewService(db, nil)
	ctx := context.Background()
	testutil.CreateTestUser(t, db, 100, "alice")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Busy poll", false, future)
	testutil.AddTestOption(t, db, pollID, "A")
	testutil.AddTestOption(t, db, pollID, "B")

	numVoters := 10
	for i := 0; i < numVoters; i++ {
		testutil.CreateTestUser(t, db, int64(1000+i), "voter"+string(rune('A'+i)))
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			option := "A"
			if idx%2 == 1 {
				option = "B"
			}
			if err := svc.CastVote(ctx, pollID, int64(1000+idx), option); err == nil {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	var stored int
	if err := db.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", pollID).Scan(&stored); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if stored != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, stored)
	}
}
