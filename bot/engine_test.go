package bot

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/polls"
	"github.com/danielhkuo/pollbooth/session"
	"github.com/danielhkuo/pollbooth/testutil"
)

// say drives one message through the engine and returns the replies
func say(t *testing.T, e *Engine, userID int64, text string) []models.Reply {
	t.Helper()

	replies := e.HandleMessage(context.Background(), userID, "user"+strconv.FormatInt(userID, 10), text)
	if len(replies) == 0 {
		t.Fatalf("Expected at least one reply to %q", text)
	}
	return replies
}

// lastReply returns the final reply, the one carrying the menu
func lastReply(replies []models.Reply) models.Reply {
	return replies[len(replies)-1]
}

func TestCreatePublicPollFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	say(t, engine, 100, CmdStart)

	r := lastReply(say(t, engine, 100, CmdCreatePoll))
	if r.Menu != models.MenuPrivacy {
		t.Fatalf("Expected privacy menu, got %v", r.Menu)
	}

	r = lastReply(say(t, engine, 100, LabelPublic))
	if !strings.Contains(r.Text, "title") {
		t.Fatalf("Expected title prompt, got %q", r.Text)
	}

	r = lastReply(say(t, engine, 100, "Team lunch"))
	if r.Text != promptOptions {
		t.Fatalf("Expected options prompt, got %q", r.Text)
	}

	r = lastReply(say(t, engine, 100, "Pizza, Sushi, Tacos"))
	if r.Text != promptDuration {
		t.Fatalf("Expected duration prompt, got %q", r.Text)
	}

	r = lastReply(say(t, engine, 100, "24"))
	if !strings.HasPrefix(r.Text, "Poll created!") {
		t.Fatalf("Expected creation confirmation, got %q", r.Text)
	}
	if r.Menu != models.MenuMain {
		t.Errorf("Expected main menu after creation, got %v", r.Menu)
	}

	// The poll and its options landed in the database
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM polls WHERE creator_id = 100").Scan(&count); err != nil {
		t.Fatalf("Failed to count polls: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 poll, got %d", count)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM poll_options").Scan(&count); err != nil {
		t.Fatalf("Failed to count options: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 options, got %d", count)
	}
}

func TestCreatePollInputValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	say(t, engine, 100, CmdStart)
	say(t, engine, 100, CmdCreatePoll)

	// Nonsense at the privacy step reprompts, staying in the flow
	r := lastReply(say(t, engine, 100, "maybe"))
	if r.Menu != models.MenuPrivacy {
		t.Fatalf("Expected privacy reprompt, got %q", r.Text)
	}

	say(t, engine, 100, LabelPublic)

	// Oversized title reprompts
	r = lastReply(say(t, engine, 100, strings.Repeat("x", polls.MaxTitleLen+1)))
	if !strings.Contains(r.Text, "too long") {
		t.Fatalf("Expected length complaint, got %q", r.Text)
	}

	say(t, engine, 100, "Fine title")

	// Too few options reprompts
	r = lastReply(say(t, engine, 100, "OnlyOne"))
	if !strings.Contains(r.Text, "At least") {
		t.Fatalf("Expected options complaint, got %q", r.Text)
	}

	say(t, engine, 100, "Yes, No")

	// Out-of-range durations reprompt without losing the draft
	for _, bad := range []string{"0", "721", "abc"} {
		r = lastReply(say(t, engine, 100, bad))
		if !strings.Contains(r.Text, "Enter a number") {
			t.Fatalf("Expected duration reprompt for %q, got %q", bad, r.Text)
		}
	}

	r = lastReply(say(t, engine, 100, "1"))
	if !strings.HasPrefix(r.Text, "Poll created!") {
		t.Fatalf("Expected creation after valid duration, got %q", r.Text)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	say(t, engine, 100, CmdStart)
	say(t, engine, 100, CmdCreatePoll)
	say(t, engine, 100, LabelPrivate)
	say(t, engine, 100, "Doomed draft")

	r := lastReply(say(t, engine, 100, CmdCancel))
	if r.Text != "Action cancelled." || r.Menu != models.MenuMain {
		t.Fatalf("Expected cancellation, got %q", r.Text)
	}

	// Back in Idle: the next message is a command, not a dialogue answer
	r = lastReply(say(t, engine, 100, "Vote"))
	if !strings.Contains(r.Text, "no active polls") {
		t.Fatalf("Expected Vote to run as a command, got %q", r.Text)
	}

	// A fresh create flow starts from privacy with an empty draft
	r = lastReply(say(t, engine, 100, CmdCreatePoll))
	if r.Menu != models.MenuPrivacy {
		t.Fatalf("Expected fresh privacy prompt, got %q", r.Text)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM polls").Scan(&count); err != nil {
		t.Fatalf("Failed to count polls: %v", err)
	}
	if count != 0 {
		t.Errorf("Cancelled draft must not persist anything, got %d polls", count)
	}
}

func TestVoteFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Lunch", false, future)
	testutil.AddTestOption(t, db, pollID, "Pizza")
	testutil.AddTestOption(t, db, pollID, "Sushi")

	replies := say(t, engine, 200, CmdVote)
	if !strings.Contains(replies[0].Text, "Lunch") {
		t.Fatalf("Expected poll list, got %q", replies[0].Text)
	}

	r := lastReply(say(t, engine, 200, strconv.FormatInt(pollID, 10)))
	if r.Menu != models.MenuChoices {
		t.Fatalf("Expected option choices, got %v", r.Menu)
	}
	if len(r.Choices) != 2 || r.Choices[0] != "Pizza" || r.Choices[1] != "Sushi" {
		t.Fatalf("Unexpected choices: %v", r.Choices)
	}

	r = lastReply(say(t, engine, 200, "Sushi"))
	if !strings.Contains(r.Text, "has been recorded") {
		t.Fatalf("Expected vote confirmation, got %q", r.Text)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = 200", pollID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}

	// A second attempt aborts with the duplicate message at poll selection
	say(t, engine, 200, CmdVote)
	r = lastReply(say(t, engine, 200, strconv.FormatInt(pollID, 10)))
	if r.Text != "You have already voted in this poll." {
		t.Fatalf("Expected duplicate-vote message, got %q", r.Text)
	}
	if r.Menu != models.MenuMain {
		t.Errorf("Duplicate vote should reset to the main menu")
	}
}

func TestManageFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	testutil.CreateTestUser(t, db, 100, "alice")
	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Managed", false, future)
	testutil.AddTestOption(t, db, pollID, "A")
	testutil.AddTestOption(t, db, pollID, "B")

	say(t, engine, 100, CmdManage)

	r := lastReply(say(t, engine, 100, strconv.FormatInt(pollID, 10)))
	if r.Menu != models.MenuConfirm {
		t.Fatalf("Expected confirm menu, got %v", r.Menu)
	}

	r = lastReply(say(t, engine, 100, LabelEnd))
	if !strings.Contains(r.Text, "ended") {
		t.Fatalf("Expected end confirmation, got %q", r.Text)
	}

	var active bool
	if err := db.QueryRow("SELECT is_active FROM polls WHERE id = $1", pollID).Scan(&active); err != nil {
		t.Fatalf("Failed to read poll: %v", err)
	}
	if active {
		t.Error("Poll should be inactive after End")
	}

	// Ended polls can still be deleted through the same flow
	say(t, engine, 100, CmdManage)
	say(t, engine, 100, strconv.FormatInt(pollID, 10))
	r = lastReply(say(t, engine, 100, LabelDelete))
	if !strings.Contains(r.Text, "deleted") {
		t.Fatalf("Expected delete confirmation, got %q", r.Text)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM polls WHERE id = $1", pollID).Scan(&count); err != nil {
		t.Fatalf("Failed to count polls: %v", err)
	}
	if count != 0 {
		t.Error("Poll should be gone after Delete")
	}
}

func TestAddParticipantsFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Private circle", true, future)
	testutil.AddTestParticipant(t, db, pollID, 100)

	say(t, engine, 100, CmdAddParticipants)
	say(t, engine, 100, strconv.FormatInt(pollID, 10))

	// Unknown ids reprompt within the step
	r := lastReply(say(t, engine, 100, "200, 999"))
	if !strings.Contains(r.Text, "unknown user ids") {
		t.Fatalf("Expected unknown-id complaint, got %q", r.Text)
	}

	r = lastReply(say(t, engine, 100, "200"))
	if !strings.Contains(r.Text, "added") {
		t.Fatalf("Expected success, got %q", r.Text)
	}

	ok, err := svc.IsParticipant(context.Background(), pollID, 200)
	if err != nil {
		t.Fatalf("IsParticipant failed: %v", err)
	}
	if !ok {
		t.Error("User 200 should be a participant after the flow")
	}
}

func TestStatsCommand(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	testutil.CreateTestUser(t, db, 100, "alice")
	testutil.CreateTestUser(t, db, 200, "bob")

	future := time.Now().Add(24 * time.Hour)
	pollID := testutil.CreateTestPoll(t, db, 100, "Counted", false, future)
	optA := testutil.AddTestOption(t, db, pollID, "Yes")
	testutil.AddTestOption(t, db, pollID, "No")
	testutil.CastTestVote(t, db, pollID, 200, optA)

	replies := say(t, engine, 200, CmdStats)
	text := replies[0].Text
	if !strings.Contains(text, "Counted") || !strings.Contains(text, "Total votes: 1") {
		t.Fatalf("Unexpected stats text: %q", text)
	}
	if !strings.Contains(text, "Yes: 1 (100.0%)") || !strings.Contains(text, "No: 0 (0.0%)") {
		t.Fatalf("Expected per-option lines with percentages, got %q", text)
	}
	if lastReply(replies).Menu != models.MenuMain {
		t.Error("Stats should end on the main menu")
	}
}

func TestUnrecognizedCommand(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	r := lastReply(say(t, engine, 100, "make me a sandwich"))
	if r.Text != unrecognizedText {
		t.Fatalf("Expected the unrecognized-command text, got %q", r.Text)
	}
	if r.Menu != models.MenuMain {
		t.Errorf("Expected main menu, got %v", r.Menu)
	}
}

func TestStartRegistersUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	svc := polls.NewService(db, nil)
	engine := New(svc, session.NewMemoryStore())

	r := lastReply(say(t, engine, 100, CmdStart))
	if r.Text != "Choose an action:" || r.Menu != models.MenuMain {
		t.Fatalf("Unexpected /start reply: %q", r.Text)
	}

	var username string
	if err := db.QueryRow("SELECT username FROM users WHERE telegram_id = 100").Scan(&username); err != nil {
		t.Fatalf("User was not upserted: %v", err)
	}
	if username != "user100" {
		t.Errorf("Expected username user100, got %q", username)
	}
}
