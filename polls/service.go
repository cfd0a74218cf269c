// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/danielhkuo/pollbooth/models"
)

// Validation bounds for poll creation.
const (
	MaxTitleLen      = 200
	MinOptions       = 2
	MaxOptions       = 10
	MinDurationHours = 1
	MaxDurationHours = 720
)

// queryTimeout bounds every store call; a hung database surfaces as
// ErrStoreUnavailable instead of blocking a user's session forever.
const queryTimeout = 5 * time.Second

type Service struct {
	db     *sql.DB
	admins map[int64]bool
}

func NewService(db *sql.DB, adminIDs []int64) *Service {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Service{db: db, admins: admins}
}

type CreatePollParams struct {
	Title          string
	Options        []string
	DurationHours  int
	CreatorID      int64
	IsPrivate      bool
	ParticipantIDs []int64
}

// UpsertUser inserts the user on first contact and refreshes the username on
// every later one.
func (s *Service) UpsertUser(ctx context.Context, telegramID int64, username string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (telegram_id) DO UPDATE SET username = EXCLUDED.username
	`, telegramID, username)
	if err != nil {
		return storeErr("upsert user", err)
	}
	return nil
}

// ListUsers returns every known user, ordered by Telegram id. Used by the
// participant-entry steps so creators can see valid ids.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, telegram_id, COALESCE(username, ''), COALESCE(role, 'user')
		FROM users
		ORDER BY telegram_id
	`)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.Role); err != nil {
			return nil, storeErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

// CreatePoll validates all bounds, then persists the poll, its options, and
// (for private polls) the participant list as one transaction. Nothing is
// written if any participant id is unknown.
func (s *Service) CreatePoll(ctx context.Context, p CreatePollParams) (int64, error) {
	if p.Title == "" {
		return 0, validationErr("title", "must not be empty")
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLen {
		return 0, validationErr("title", "longer than "+strconv.Itoa(MaxTitleLen)+" characters")
	}
	if len(p.Options) < MinOptions {
		return 0, validationErr("options", "need at least "+strconv.Itoa(MinOptions))
	}
	if len(p.Options) > MaxOptions {
		return 0, validationErr("options", "no more than "+strconv.Itoa(MaxOptions)+" allowed")
	}
	for _, opt := range p.Options {
		if opt == "" {
			return 0, validationErr("options", "option text must not be empty")
		}
	}
	if p.DurationHours < MinDurationHours || p.DurationHours > MaxDurationHours {
		return 0, validationErr("duration", "must be between "+strconv.Itoa(MinDurationHours)+
			" and "+strconv.Itoa(MaxDurationHours)+" hours")
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("begin create poll", err)
	}
	defer tx.Rollback()

	if p.IsPrivate && len(p.ParticipantIDs) > 0 {
		unknown, err := unknownParticipants(ctx, tx, p.ParticipantIDs)
		if err != nil {
			return 0, err
		}
		if len(unknown) > 0 {
			return 0, validationErr("participants", "unknown user ids: "+joinIDs(unknown))
		}
	}

	endTime := time.Now().Add(time.Duration(p.DurationHours) * time.Hour)

	var pollID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO polls (title, creator_id, end_time, is_active, is_private)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id
	`, p.Title, p.CreatorID, endTime, p.IsPrivate).Scan(&pollID)
	if err != nil {
		return 0, storeErr("insert poll", err)
	}

	for _, opt := range p.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (poll_id, option_text)
			VALUES ($1, $2)
		`, pollID, opt)
		if err != nil {
			return 0, storeErr("insert option", err)
		}
	}

	if p.IsPrivate {
		// The creator is always a participant of their own private poll.
		ids := append([]int64{p.CreatorID}, p.ParticipantIDs...)
		for _, uid := range ids {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO poll_participants (poll_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, pollID, uid)
			if err != nil {
				return 0, storeErr("insert participant", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("commit create poll", err)
	}

	slog.Info("poll created",
		"poll_id", pollID,
		"creator_id", p.CreatorID,
		"options", len(p.Options),
		"is_private", p.IsPrivate,
	)
	return pollID, nil
}

// FetchPoll returns a poll by id or ErrPollNotFound.
func (s *Service) FetchPoll(ctx context.Context, pollID int64) (models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, creator_id, created_at, end_time, is_active, is_private
		FROM polls
		WHERE id = $1
	`, pollID).Scan(&p.ID, &p.Title, &p.CreatorID, &p.CreatedAt, &p.EndTime, &p.IsActive, &p.IsPrivate)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, storeErr("fetch poll", err)
	}
	return p, nil
}

// FetchOptions returns a poll's options in creation order.
func (s *Service) FetchOptions(ctx context.Context, pollID int64) ([]models.PollOption, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		return nil, storeErr("fetch options", err)
	}
	defer rows.Close()

	var options []models.PollOption
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text); err != nil {
			return nil, storeErr("scan option", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("fetch options", err)
	}
	return options, nil
}

// ListVisiblePolls returns active, unexpired polls the viewer may vote in:
// public polls plus private polls where the viewer is a participant.
func (s *Service) ListVisiblePolls(ctx context.Context, viewerID int64) ([]models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, creator_id, created_at, end_time, is_active, is_private
		FROM polls
		WHERE is_active = TRUE AND end_time > now()
		  AND (is_private = FALSE
		       OR creator_id = $1
		       OR id IN (SELECT poll_id FROM poll_participants WHERE user_id = $1))
		ORDER BY id
	`, viewerID)
	if err != nil {
		return nil, storeErr("list visible polls", err)
	}
	defer rows.Close()
	return scanPolls(rows)
}

// ListManageablePolls returns every poll the actor may end or delete:
// the actor's own polls, or all polls for allowlisted admins. Ended polls
// are included so they can still be deleted.
func (s *Service) ListManageablePolls(ctx context.Context, actorID int64) ([]models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, title, creator_id, created_at, end_time, is_active, is_private
		FROM polls
		WHERE creator_id = $1
		ORDER BY id
	`
	args := []any{actorID}
	if s.admins[actorID] {
		query = `
			SELECT id, title, creator_id, created_at, end_time, is_active, is_private
			FROM polls
			ORDER BY id
		`
		args = nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list manageable polls", err)
	}
	defer rows.Close()
	return scanPolls(rows)
}

// ListPrivatePollsByCreator returns the creator's active private polls, the
// candidates for the add-participants flow.
func (s *Service) ListPrivatePollsByCreator(ctx context.Context, creatorID int64) ([]models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, creator_id, created_at, end_time, is_active, is_private
		FROM polls
		WHERE is_active = TRUE AND is_private = TRUE AND creator_id = $1
		ORDER BY id
	`, creatorID)
	if err != nil {
		return nil, storeErr("list private polls", err)
	}
	defer rows.Close()
	return scanPolls(rows)
}

// AddParticipants grants the listed users access to a private poll. The
// actor must be allowed to manage the poll, and every id must be a known
// user; otherwise nothing is added.
func (s *Service) AddParticipants(ctx context.Context, pollID, actorID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return validationErr("participants", "no user ids given")
	}

	poll, err := s.FetchPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.IsPrivate {
		return validationErr("poll", "poll #"+strconv.FormatInt(pollID, 10)+" is not private")
	}
	if !s.canManage(poll, actorID) {
		return ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin add participants", err)
	}
	defer tx.Rollback()

	unknown, err := unknownParticipants(ctx, tx, userIDs)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		return validationErr("participants", "unknown user ids: "+joinIDs(unknown))
	}

	for _, uid := range userIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_participants (poll_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, pollID, uid)
		if err != nil {
			return storeErr("insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit add participants", err)
	}

	slog.Info("participants added", "poll_id", pollID, "actor_id", actorID, "count", len(userIDs))
	return nil
}

// EndPoll irreversibly deactivates a poll. The poll's data stays in place
// for statistics.
func (s *Service) EndPoll(ctx context.Context, pollID, actorID int64) error {
	poll, err := s.FetchPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.Ended(time.Now()) {
		return ErrAlreadyEnded
	}
	if !s.canManage(poll, actorID) {
		return ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		UPDATE polls SET is_active = FALSE WHERE id = $1
	`, pollID)
	if err != nil {
		return storeErr("end poll", err)
	}

	slog.Info("poll ended", "poll_id", pollID, "actor_id", actorID)
	return nil
}

// DeletePoll removes the poll and all dependent rows as one transaction.
func (s *Service) DeletePoll(ctx context.Context, pollID, actorID int64) error {
	poll, err := s.FetchPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !s.canManage(poll, actorID) {
		return ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin delete poll", err)
	}
	defer tx.Rollback()

	// The schema cascades these, but deleting explicitly keeps the delete
	// correct even on a database created before the cascade rules.
	for _, stmt := range []string{
		`DELETE FROM votes WHERE poll_id = $1`,
		`DELETE FROM poll_participants WHERE poll_id = $1`,
		`DELETE FROM poll_options WHERE poll_id = $1`,
		`DELETE FROM polls WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, pollID); err != nil {
			return storeErr("delete poll", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit delete poll", err)
	}

	slog.Info("poll deleted", "poll_id", pollID, "actor_id", actorID)
	return nil
}

// DeactivateExpired flips the active flag on polls whose end time has
// passed. Called periodically from the main loop.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE polls SET is_active = FALSE
		WHERE is_active = TRUE AND end_time <= now()
	`)
	if err != nil {
		return 0, storeErr("deactivate expired", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("deactivate expired", err)
	}
	return n, nil
}

func scanPolls(rows *sql.Rows) ([]models.Poll, error) {
	var polls []models.Poll
	for rows.Next() {
		var p models.Poll
		err := rows.Scan(&p.ID, &p.Title, &p.CreatorID, &p.CreatedAt, &p.EndTime, &p.IsActive, &p.IsPrivate)
		if err != nil {
			return nil, storeErr("scan poll", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("scan polls", err)
	}
	return polls, nil
}

// unknownParticipants returns the subset of ids with no users row.
func unknownParticipants(ctx context.Context, tx *sql.Tx, ids []int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT telegram_id FROM users WHERE telegram_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, storeErr("check participants", err)
	}
	defer rows.Close()

	known := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("check participants", err)
		}
		known[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("check participants", err)
	}

	var unknown []int64
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func joinIDs(ids []int64) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += strconv.FormatInt(id, 10)
	}
	return out
}
