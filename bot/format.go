// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/pollbooth/models"
)

const timeFormat = "02.01.2006 15:04"

func (e *Engine) cmdStats(ctx context.Context, userID int64) []models.Reply {
	stats, err := e.svc.AggregateVisible(ctx, userID)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(stats) == 0 {
		return reply("No polls found.", models.MenuMain)
	}

	// One message per poll; the transport chunks anything oversized.
	replies := make([]models.Reply, len(stats))
	for i, ps := range stats {
		replies[i] = models.Reply{Text: formatStats(ps)}
	}
	replies[len(replies)-1].Menu = models.MenuMain
	return replies
}

func (e *Engine) cmdShowUsers(ctx context.Context, userID int64) []models.Reply {
	users, err := e.svc.ListUsers(ctx)
	if err != nil {
		return e.abort(ctx, userID, err)
	}
	if len(users) == 0 {
		return reply("No users found.", models.MenuMain)
	}
	return reply(formatUsers(users), models.MenuMain)
}

func formatStats(ps models.PollStats) string {
	status := "active"
	if !ps.IsActive {
		status = "ended"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%d: %s\n", ps.PollID, ps.Title)
	fmt.Fprintf(&b, "Created: %s\n", ps.CreatedAt.Format(timeFormat))
	fmt.Fprintf(&b, "Ends: %s\n", ps.EndTime.Format(timeFormat))
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Total votes: %d\n", ps.TotalVotes)
	for _, opt := range ps.Options {
		fmt.Fprintf(&b, "  • %s: %d (%.1f%%)\n", opt.Text, opt.Votes, opt.Percent)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPollList(header string, polls []models.Poll) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, p := range polls {
		status := ""
		if !p.IsActive {
			status = " (ended)"
		}
		fmt.Fprintf(&b, "\nID: %d - %s (until %s)%s", p.ID, p.Title, p.EndTime.Format(timeFormat), status)
	}
	return b.String()
}

func formatUsers(users []models.User) string {
	var b strings.Builder
	b.WriteString("Known users:\n")
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "no username"
		}
		fmt.Fprintf(&b, "\nID: %d - %s", u.TelegramID, name)
	}
	return b.String()
}
