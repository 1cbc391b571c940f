package service

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"mentoring/cmd/internal/domain/entity"
	"mentoring/cmd/internal/utils"
	"mentoring/cmd/internal/utils/apierror"
)

type MeetingRepository interface {
	Save(meeting *entity.Meeting) error
	FindByID(id int) (*entity.Meeting, error)
	FindAll() ([]*entity.Meeting, error)
	FindAllByBooked(booked bool) ([]*entity.Meeting, error)
	DeleteByID(id int) error
}

type MeetingRequest struct {
	MeetingDate string `json:"meeting_date" validate:"required,isodate"`
	StartTime   string `json:"start_time" validate:"required,clock,quartermins"`
	EndTime     string `json:"end_time" validate:"required,clock,quartermins"`
}

type MeetingResponse struct {
	ID          int    `json:"id"`
	MeetingDate string `json:"meeting_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MentorID    int    `json:"mentor_id"`
	Booked      bool   `json:"booked"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type DefaultMeetingService struct {
	MeetingRepo MeetingRepository
	UserRepo    UserRepository
	Validate    *validator.Validate
}

func NewMeetingService(meetingRepo MeetingRepository, userRepo UserRepository, validate *validator.Validate) *DefaultMeetingService {
	return &DefaultMeetingService{MeetingRepo: meetingRepo, UserRepo: userRepo, Validate: validate}
}

// CreateMeetings partitions the requested range into 15-minute meetings
// and publishes them as one batch: if any candidate collides with an
// already published meeting, nothing is saved and every colliding
// candidate is reported.
func (m *DefaultMeetingService) CreateMeetings(req *MeetingRequest, subId string) ([]*MeetingResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := m.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	// The mentor account owns every published slot. Its absence is its
	// own error kind, so it is resolved before the caller is checked
	// against it.
	mentor, err := m.UserRepo.FindMentor()
	if err != nil {
		log.Errorf("failed to look up mentor account: %v", err)
		return nil, apierror.InternalServerError
	}
	if mentor == nil {
		return nil, apierror.MentorNotFoundError
	}

	caller, err := m.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil || caller.ID != mentor.ID {
		return nil, apierror.ForbiddenError
	}

	totalMinutes, err := utils.MinutesBetween(req.StartTime, req.EndTime)
	if err != nil || totalMinutes <= 0 {
		return nil, apierror.MeetingTimeRangeError
	}

	meetings, err := partitionMeetings(req.MeetingDate, req.StartTime, req.EndTime, mentor.ID)
	if err != nil {
		return nil, apierror.MeetingTimeRangeError
	}

	published, err := m.MeetingRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch published meetings: %v", err)
		return nil, apierror.InternalServerError
	}

	collisions := findCollisions(published, meetings)
	if len(collisions) > 0 {
		return nil, apierror.NewCollisionError(collisions)
	}

	now := utils.NowUTC()
	for _, meeting := range meetings {
		meeting.CreatedAt = now
		meeting.UpdatedAt = now
		if err := m.MeetingRepo.Save(meeting); err != nil {
			log.Errorf("failed to save meeting %s %s-%s: %v", meeting.MeetingDate, meeting.StartTime, meeting.EndTime, err)
			return nil, apierror.InternalServerError
		}
	}

	return toMeetingResponses(meetings), nil
}

// UpdateMeeting replaces a meeting's date and times. The meeting must
// be unbooked, the new range must be exactly one 15-minute slot, and
// the new triple must not collide with any other published meeting.
// ID, mentor, creation time and the booked flag are preserved.
func (m *DefaultMeetingService) UpdateMeeting(meetingId string, req *MeetingRequest, subId string) (*MeetingResponse, apierror.ErrorResponse) {
	if apierr := m.requireMentorCaller(subId); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := m.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	meeting, apierr := m.findMeeting(meetingId)
	if apierr != nil {
		return nil, apierr
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}
	if meeting.Booked {
		return nil, apierror.MeetingBookedError
	}

	totalMinutes, err := utils.MinutesBetween(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apierror.MeetingTimeRangeError
	}
	if totalMinutes != slotMinutes {
		return nil, apierror.MeetingDurationError
	}

	updated := &entity.Meeting{
		ID:          meeting.ID,
		MeetingDate: req.MeetingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MentorID:    meeting.MentorID,
		Booked:      meeting.Booked,
		CreatedAt:   meeting.CreatedAt,
		UpdatedAt:   utils.NowUTC(),
	}

	published, err := m.MeetingRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch published meetings: %v", err)
		return nil, apierror.InternalServerError
	}

	// The meeting's own row must not count as a collision with itself.
	others := make([]*entity.Meeting, 0, len(published))
	for _, p := range published {
		if p.ID != meeting.ID {
			others = append(others, p)
		}
	}

	collisions := findCollisions(others, []*entity.Meeting{updated})
	if len(collisions) > 0 {
		return nil, apierror.NewCollisionError(collisions)
	}

	if err := m.MeetingRepo.Save(updated); err != nil {
		log.Errorf("failed to update meeting %d: %v", updated.ID, err)
		return nil, apierror.InternalServerError
	}
	return toMeetingResponse(updated), nil
}

// DeleteMeeting hard-deletes an unbooked meeting.
func (m *DefaultMeetingService) DeleteMeeting(meetingId, subId string) apierror.ErrorResponse {
	if apierr := m.requireMentorCaller(subId); apierr != nil {
		return apierr
	}

	meeting, apierr := m.findMeeting(meetingId)
	if apierr != nil {
		return apierr
	}
	if meeting == nil {
		return apierror.MeetingNotFoundError
	}
	if meeting.Booked {
		return apierror.MeetingBookedError
	}

	if err := m.MeetingRepo.DeleteByID(meeting.ID); err != nil {
		log.Errorf("failed to delete meeting %d: %v", meeting.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (m *DefaultMeetingService) GetMeeting(meetingId string) (*MeetingResponse, apierror.ErrorResponse) {
	meeting, apierr := m.findMeeting(meetingId)
	if apierr != nil {
		return nil, apierr
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}
	return toMeetingResponse(meeting), nil
}

func (m *DefaultMeetingService) GetMeetings() ([]*MeetingResponse, apierror.ErrorResponse) {
	meetings, err := m.MeetingRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all meetings: %v", err)
		return nil, apierror.InternalServerError
	}
	return toMeetingResponses(meetings), nil
}

// GetMeetingsByBooked lists only booked or only open slots, which is
// what students browse when picking a meeting.
func (m *DefaultMeetingService) GetMeetingsByBooked(booked bool) ([]*MeetingResponse, apierror.ErrorResponse) {
	meetings, err := m.MeetingRepo.FindAllByBooked(booked)
	if err != nil {
		log.Errorf("failed to fetch meetings with booked=%t: %v", booked, err)
		return nil, apierror.InternalServerError
	}
	return toMeetingResponses(meetings), nil
}

// findMeeting resolves a raw path id. A non-numeric id is its own
// error kind, distinct from a numeric id that matches nothing.
func (m *DefaultMeetingService) findMeeting(meetingId string) (*entity.Meeting, apierror.ErrorResponse) {
	id, err := strconv.Atoi(meetingId)
	if err != nil {
		return nil, apierror.InvalidIDError
	}

	meeting, err := m.MeetingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find meeting (%s) by id: %v", meetingId, err)
		return nil, apierror.InternalServerError
	}
	return meeting, nil
}

func (m *DefaultMeetingService) requireMentorCaller(subId string) apierror.ErrorResponse {
	caller, err := m.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return apierror.InternalServerError
	}
	if caller == nil || caller.Role != entity.RoleMentor {
		return apierror.ForbiddenError
	}
	return nil
}

func toMeetingResponse(meeting *entity.Meeting) *MeetingResponse {
	return &MeetingResponse{
		ID:          meeting.ID,
		MeetingDate: meeting.MeetingDate,
		StartTime:   meeting.StartTime,
		EndTime:     meeting.EndTime,
		MentorID:    meeting.MentorID,
		Booked:      meeting.Booked,
		CreatedAt:   utils.FormatEpoch(meeting.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(meeting.UpdatedAt),
	}
}

func toMeetingResponses(meetings []*entity.Meeting) []*MeetingResponse {
	responses := make([]*MeetingResponse, len(meetings))
	for i, meeting := range meetings {
		responses[i] = toMeetingResponse(meeting)
	}
	return responses
}
