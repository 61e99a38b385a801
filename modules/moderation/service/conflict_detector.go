package service

import (
	"sort"
	"time"

	"summit-scheduler/core/utils"
	"summit-scheduler/modules/moderation/entity"

	"github.com/google/uuid"
)

// FindConflicts returns the moderator's active requests whose activity
// window strictly overlaps [start, end). Requests of other moderators and
// terminal requests in active are ignored. The result is ordered by activity
// start, then by request id.
func FindConflicts(moderatorID uuid.UUID, start, end time.Time, active []entity.ModerationRequest) []entity.ModerationRequest {
	conflicts := make([]entity.ModerationRequest, 0)
	for _, req := range active {
		if req.ModeratorID != moderatorID || !req.Status.IsActive() {
			continue
		}
		if utils.Overlaps(start, end, req.ActivityStart, req.ActivityEnd) {
			conflicts = append(conflicts, req)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if !conflicts[i].ActivityStart.Equal(conflicts[j].ActivityStart) {
			return conflicts[i].ActivityStart.Before(conflicts[j].ActivityStart)
		}
		return conflicts[i].ID.String() < conflicts[j].ID.String()
	})
	return conflicts
}

func excludeActivity(requests []entity.ModerationRequest, activityID uuid.UUID) []entity.ModerationRequest {
	out := make([]entity.ModerationRequest, 0, len(requests))
	for _, req := range requests {
		if req.ActivityID != activityID {
			out = append(out, req)
		}
	}
	return out
}
