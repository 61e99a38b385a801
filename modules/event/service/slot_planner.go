package service

import (
	"sort"
	"time"

	"summit-scheduler/modules/event/entity"
)

const (
	DefaultActivityDuration = 90 * time.Minute
	DefaultBreakDuration    = 15 * time.Minute
)

// TimeSlot is a free window of exactly one activity duration. Values are
// only produced by SlotPlanner.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func (s TimeSlot) Start() time.Time {
	return s.start
}

func (s TimeSlot) End() time.Time {
	return s.end
}

func (s TimeSlot) Duration() time.Duration {
	return s.end.Sub(s.start)
}

func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.start.Equal(other.start) && s.end.Equal(other.end)
}

// SlotPlanner packs the free gaps of an event window with fixed-length
// slots separated by a mandatory break.
type SlotPlanner struct {
	ActivityDuration time.Duration
	BreakDuration    time.Duration
}

// NewSlotPlanner falls back to the defaults for a non-positive activity
// duration or a negative break.
func NewSlotPlanner(activity, breakDuration time.Duration) *SlotPlanner {
	if activity <= 0 {
		activity = DefaultActivityDuration
	}
	if breakDuration < 0 {
		breakDuration = DefaultBreakDuration
	}
	return &SlotPlanner{
		ActivityDuration: activity,
		BreakDuration:    breakDuration,
	}
}

// ComputeAvailableSlots returns the free slots of [eventStart, eventEnd] in
// chronological order. The input is not modified and may be unsorted or
// overlapping: overlapping activities are treated as one busy block, so the
// cursor never moves backwards. An empty window yields no slots.
func (p *SlotPlanner) ComputeAvailableSlots(eventStart, eventEnd time.Time, scheduled []entity.Activity) []TimeSlot {
	slots := []TimeSlot{}
	if !eventEnd.After(eventStart) {
		return slots
	}

	sorted := make([]entity.Activity, len(scheduled))
	copy(sorted, scheduled)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	cursor := eventStart
	for _, act := range sorted {
		if cursor.Before(act.StartTime) {
			gapEnd := act.StartTime
			if gapEnd.After(eventEnd) {
				gapEnd = eventEnd
			}
			slots = p.pack(slots, cursor, gapEnd)
		}
		if next := act.EndTime.Add(p.BreakDuration); next.After(cursor) {
			cursor = next
		}
	}

	if cursor.Before(eventEnd) {
		slots = p.pack(slots, cursor, eventEnd)
	}
	return slots
}

// pack appends every full slot that fits in [from, to].
func (p *SlotPlanner) pack(slots []TimeSlot, from, to time.Time) []TimeSlot {
	step := p.ActivityDuration + p.BreakDuration
	for c := from; !c.Add(p.ActivityDuration).After(to); c = c.Add(step) {
		slots = append(slots, TimeSlot{start: c, end: c.Add(p.ActivityDuration)})
	}
	return slots
}

// IsAvailable reports whether candidate is one of the slots currently
// offered for the window.
func (p *SlotPlanner) IsAvailable(eventStart, eventEnd time.Time, scheduled []entity.Activity, start, end time.Time) bool {
	want := TimeSlot{start: start, end: end}
	for _, slot := range p.ComputeAvailableSlots(eventStart, eventEnd, scheduled) {
		if slot.Equal(want) {
			return true
		}
	}
	return false
}
