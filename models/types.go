package models

import "time"

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Domain types

type User struct {
	ID         int64  `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	Role       string `json:"role"`
}

type Poll struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	EndTime   time.Time `json:"end_time"`
	IsActive  bool      `json:"is_active"`
	IsPrivate bool      `json:"is_private"`
}

// Ended reports whether the poll can no longer accept votes, either because
// it was ended explicitly or because its end time has elapsed.
func (p Poll) Ended(now time.Time) bool {
	return !p.IsActive || !now.Before(p.EndTime)
}

type PollOption struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"poll_id"`
	Text   string `json:"option_text"`
}

type Vote struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"poll_id"`
	UserID    int64     `json:"user_id"`
	OptionID  int64     `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Aggregated statistics

type OptionStats struct {
	Text    string  `json:"option_text"`
	Votes   int     `json:"votes"`
	Percent float64 `json:"percent"`
}

type PollStats struct {
	PollID     int64         `json:"poll_id"`
	Title      string        `json:"title"`
	CreatedAt  time.Time     `json:"created_at"`
	EndTime    time.Time     `json:"end_time"`
	IsActive   bool          `json:"is_active"`
	TotalVotes int           `json:"total_votes"`
	Options    []OptionStats `json:"options"`
}
