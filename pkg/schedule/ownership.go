package schedule

import (
	"sort"

	"github.com/avops/roomops-api-go/pkg/models"
)

// ResolveOwnership derives who owns an event across its time span. A manual
// override on the event wins outright, collapsing the timeline to a single
// entry. Otherwise each shift block intersecting the event's range
// contributes its room assignee for that sub-interval; consecutive
// sub-intervals with the same owner merge, and each hand-off becomes an
// entry whose Transition is the block boundary. Sub-intervals no block
// covers, or covered by a block with nobody on the room, are simply absent
// from the timeline.
//
// blocks must be the store's result for the event's date in its default
// ordering; when duplicate blocks claim the same room over the same range,
// the later row wins, matching what the store ordering happens to produce.
func ResolveOwnership(ev models.Event, blocks []models.ShiftBlock) []models.OwnershipEntry {
	if ev.ManualOwner != nil && *ev.ManualOwner != "" {
		return []models.OwnershipEntry{{Owner: *ev.ManualOwner}}
	}

	type segment struct {
		owner    string
		from, to models.ClockTime
	}

	ordered := make([]models.ShiftBlock, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var segs []segment
	for _, b := range ordered {
		if b.Date != ev.Date || b.End <= ev.Start || b.Start >= ev.End {
			continue
		}
		a, ok := b.AssignmentFor(ev.RoomName)
		if !ok {
			continue
		}
		seg := segment{
			owner: a.StaffID,
			from:  max(b.Start, ev.Start),
			to:    min(b.End, ev.End),
		}
		if n := len(segs); n > 0 && segs[n-1].from == seg.from && segs[n-1].to == seg.to {
			// Duplicate blocks over the same range: later row wins.
			segs[n-1] = seg
			continue
		}
		segs = append(segs, seg)
	}

	// Merge contiguous same-owner segments before emitting entries.
	var merged []segment
	for _, seg := range segs {
		if n := len(merged); n > 0 && merged[n-1].owner == seg.owner && merged[n-1].to == seg.from {
			merged[n-1].to = seg.to
			continue
		}
		merged = append(merged, seg)
	}

	var timeline []models.OwnershipEntry
	for i, seg := range merged {
		entry := models.OwnershipEntry{Owner: seg.owner}
		if i+1 < len(merged) {
			t := seg.to
			entry.Transition = &t
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

// OwnerAt returns the owner of an event at one instant, or "" when nobody
// owns it. Used for notification routing and "My Events" filtering, where a
// single responsible person is wanted rather than the full timeline.
func OwnerAt(ev models.Event, blocks []models.ShiftBlock, at models.ClockTime) string {
	if ev.ManualOwner != nil && *ev.ManualOwner != "" {
		return *ev.ManualOwner
	}
	return RoomOwnerAt(blocks, ev.RoomName, at)
}

// RoomOwnerAt returns who holds room at one instant according to blocks, or
// "" when no covering block assigns it.
func RoomOwnerAt(blocks []models.ShiftBlock, room string, at models.ClockTime) string {
	owner := ""
	for _, b := range blocks {
		if at < b.Start || at >= b.End {
			continue
		}
		if a, ok := b.AssignmentFor(room); ok {
			owner = a.StaffID // later rows win on duplicates
		}
	}
	return owner
}
