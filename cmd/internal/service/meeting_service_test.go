package service

import (
	"testing"

	"mentoring/cmd/internal/domain/entity"
	"mentoring/cmd/internal/utils/apierror"
)

const mentorSub = "mentor-sub"

func newMeetingServiceFixture() (*DefaultMeetingService, *fakeMeetingRepo, *fakeUserRepo) {
	meetingRepo := &fakeMeetingRepo{}
	userRepo := &fakeUserRepo{}
	svc := NewMeetingService(meetingRepo, userRepo, newTestValidate())
	return svc, meetingRepo, userRepo
}

func TestCreateMeetings_PublishesPartitionedRange(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:00", EndTime: "19:30"}
	meetings, apierr := svc.CreateMeetings(req, mentorSub)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr.Message())
	}

	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}
	if len(meetingRepo.meetings) != 2 {
		t.Fatalf("expected 2 persisted meetings, got %d", len(meetingRepo.meetings))
	}
	if meetings[0].StartTime != "19:00" || meetings[1].StartTime != "19:15" {
		t.Errorf("unexpected slot starts %s, %s", meetings[0].StartTime, meetings[1].StartTime)
	}
	for _, m := range meetingRepo.meetings {
		if m.MentorID != mentor.ID {
			t.Errorf("persisted slot owned by %d, want mentor %d", m.MentorID, mentor.ID)
		}
	}
}

func TestCreateMeetings_NoMentorAccount(t *testing.T) {
	svc, _, _ := newMeetingServiceFixture()

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:00", EndTime: "19:30"}
	_, apierr := svc.CreateMeetings(req, mentorSub)
	if apierr != apierror.MentorNotFoundError {
		t.Fatalf("expected MentorNotFoundError, got %v", apierr)
	}
}

func TestCreateMeetings_StudentCallerRefused(t *testing.T) {
	svc, _, userRepo := newMeetingServiceFixture()
	userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	userRepo.add("student-sub", "student@example.com", entity.RoleStudent)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:00", EndTime: "19:30"}
	_, apierr := svc.CreateMeetings(req, "student-sub")
	if apierr != apierror.ForbiddenError {
		t.Fatalf("expected ForbiddenError, got %v", apierr)
	}
}

func TestCreateMeetings_InvertedRangeRefused(t *testing.T) {
	svc, _, userRepo := newMeetingServiceFixture()
	userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:30", EndTime: "19:00"}
	_, apierr := svc.CreateMeetings(req, mentorSub)
	if apierr != apierror.MeetingTimeRangeError {
		t.Fatalf("expected MeetingTimeRangeError, got %v", apierr)
	}
}

func TestCreateMeetings_CollisionAbortsWholeBatch(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:15", "19:30", mentor.ID, false)

	// 19:00-19:45 partitions into three slots; the middle one exactly
	// duplicates the published slot.
	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:00", EndTime: "19:45"}
	_, apierr := svc.CreateMeetings(req, mentorSub)

	colerr, ok := apierr.(*apierror.CollisionError)
	if !ok {
		t.Fatalf("expected CollisionError, got %v", apierr)
	}
	if len(colerr.Collisions) != 1 {
		t.Fatalf("expected 1 colliding candidate, got %d", len(colerr.Collisions))
	}
	if c := colerr.Collisions[0]; c.StartTime != "19:15" || c.EndTime != "19:30" {
		t.Errorf("collision reports %s-%s, want 19:15-19:30", c.StartTime, c.EndTime)
	}
	if len(meetingRepo.meetings) != 1 {
		t.Errorf("batch must be all-or-nothing: store has %d meetings, want the 1 pre-existing", len(meetingRepo.meetings))
	}
}

func TestUpdateMeeting_BookedSlotRefused(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, true)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "20:00", EndTime: "20:15"}
	_, apierr := svc.UpdateMeeting("1", req, mentorSub)
	if apierr != apierror.MeetingBookedError {
		t.Fatalf("expected MeetingBookedError, got %v", apierr)
	}
}

func TestUpdateMeeting_TwentyMinuteDurationRefused(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, false)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "20:00", EndTime: "20:20"}
	_, apierr := svc.UpdateMeeting("1", req, mentorSub)
	if apierr == nil {
		t.Fatal("expected an error for a 20-minute duration")
	}
	// 20:20 is off the quarter grid, so request validation may reject
	// it first; an on-grid 30-minute span must still be the duration
	// error.
	req = &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "20:00", EndTime: "20:30"}
	_, apierr = svc.UpdateMeeting("1", req, mentorSub)
	if apierr != apierror.MeetingDurationError {
		t.Fatalf("expected MeetingDurationError, got %v", apierr)
	}
}

func TestUpdateMeeting_OwnRowIsNotACollision(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, false)

	// Same triple as the slot itself: must succeed.
	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:00", EndTime: "19:15"}
	updated, apierr := svc.UpdateMeeting("1", req, mentorSub)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr.Message())
	}
	if updated.ID != 1 || updated.MentorID != mentor.ID {
		t.Errorf("update must preserve id and mentor, got id %d mentor %d", updated.ID, updated.MentorID)
	}
}

func TestUpdateMeeting_CollidesWithOtherSlot(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, false)
	meetingRepo.add("2026-09-01", "19:15", "19:30", mentor.ID, false)

	req := &MeetingRequest{MeetingDate: "2026-09-01", StartTime: "19:15", EndTime: "19:30"}
	_, apierr := svc.UpdateMeeting("1", req, mentorSub)
	if _, ok := apierr.(*apierror.CollisionError); !ok {
		t.Fatalf("expected CollisionError, got %v", apierr)
	}
}

func TestDeleteMeeting_BookedSlotRefused(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, true)

	apierr := svc.DeleteMeeting("1", mentorSub)
	if apierr != apierror.MeetingBookedError {
		t.Fatalf("expected MeetingBookedError, got %v", apierr)
	}
	if len(meetingRepo.meetings) != 1 {
		t.Error("booked meeting must not be deleted")
	}
}

func TestDeleteMeeting_UnbookedSlotDeleted(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, false)

	if apierr := svc.DeleteMeeting("1", mentorSub); apierr != nil {
		t.Fatalf("unexpected error: %v", apierr.Message())
	}
	if len(meetingRepo.meetings) != 0 {
		t.Error("meeting was not deleted")
	}
}

func TestGetMeetingsByBooked_FiltersSlots(t *testing.T) {
	svc, meetingRepo, userRepo := newMeetingServiceFixture()
	mentor := userRepo.add(mentorSub, "mentor@example.com", entity.RoleMentor)
	meetingRepo.add("2026-09-01", "19:00", "19:15", mentor.ID, false)
	meetingRepo.add("2026-09-01", "19:15", "19:30", mentor.ID, true)

	open, apierr := svc.GetMeetingsByBooked(false)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr.Message())
	}
	if len(open) != 1 || open[0].StartTime != "19:00" {
		t.Errorf("expected only the open 19:00 slot, got %d entries", len(open))
	}
}

func TestGetMeeting_IDKindsAreDistinct(t *testing.T) {
	svc, _, _ := newMeetingServiceFixture()

	if _, apierr := svc.GetMeeting("abc"); apierr != apierror.InvalidIDError {
		t.Errorf("non-numeric id: expected InvalidIDError, got %v", apierr)
	}
	if _, apierr := svc.GetMeeting("999"); apierr != apierror.MeetingNotFoundError {
		t.Errorf("unknown numeric id: expected MeetingNotFoundError, got %v", apierr)
	}
}
