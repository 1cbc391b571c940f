package service

import (
	"mentoring/cmd/internal/domain/entity"
	"mentoring/cmd/internal/utils"
)

// slotMinutes is the fixed length of every bookable meeting.
const slotMinutes = 15

// partitionMeetings splits [start, end) on a single date into
// contiguous 15-minute meetings. The division truncates: remainder
// minutes that do not fill a whole slot are dropped, so a 40-minute
// range yields two slots, and nothing ever extends past end.
// Returns the number of whole slots and an error on a malformed clock;
// a non-positive range yields zero slots.
func partitionMeetings(date, start, end string, mentorID int) ([]*entity.Meeting, error) {
	totalMinutes, err := utils.MinutesBetween(start, end)
	if err != nil {
		return nil, err
	}
	if totalMinutes <= 0 {
		return nil, nil
	}

	startMinutes, err := utils.ParseClock(start)
	if err != nil {
		return nil, err
	}

	count := totalMinutes / slotMinutes
	meetings := make([]*entity.Meeting, 0, count)
	for i := 0; i < count; i++ {
		slotStart := startMinutes + slotMinutes*i
		meetings = append(meetings, &entity.Meeting{
			MeetingDate: date,
			StartTime:   utils.FormatClock(slotStart),
			EndTime:     utils.FormatClock(slotStart + slotMinutes),
			MentorID:    mentorID,
		})
	}
	return meetings, nil
}

// findCollisions returns every candidate whose (date, start, end)
// triple exactly matches some existing meeting, in candidate order.
// Partial overlap is deliberately not a collision: the published grid
// is uniform 15-minute slots, so only exact duplicates can occur.
func findCollisions(existing, candidates []*entity.Meeting) []*entity.Meeting {
	var collisions []*entity.Meeting

	for _, candidate := range candidates {
		for _, published := range existing {
			if candidate.SameMoment(published) {
				collisions = append(collisions, candidate)
				break
			}
		}
	}
	return collisions
}
