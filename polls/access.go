// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"

	"github.com/danielhkuo/pollbooth/models"
)

// CanManage reports whether the actor may end or delete the poll: the poll's
// creator always can, and so can anyone on the deployment admin allowlist.
// An empty allowlist leaves management creator-only.
func (s *Service) CanManage(ctx context.Context, pollID, actorID int64) (bool, error) {
	poll, err := s.FetchPoll(ctx, pollID)
	if err != nil {
		return false, err
	}
	return s.canManage(poll, actorID), nil
}

// IsAdmin reports allowlist membership.
func (s *Service) IsAdmin(actorID int64) bool {
	return s.admins[actorID]
}

func (s *Service) canManage(poll models.Poll, actorID int64) bool {
	return poll.CreatorID == actorID || s.admins[actorID]
}
