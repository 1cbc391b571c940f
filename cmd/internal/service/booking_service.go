package service

import (
	"errors"
	"strconv"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"

	"mentoring/cmd/internal/domain/entity"
	"mentoring/cmd/internal/utils"
	"mentoring/cmd/internal/utils/apierror"
)

type BookingRepository interface {
	Save(booking *entity.Booking) error
	FindByID(id int) (*entity.Booking, error)
	FindByMeetingID(meetingId int) (*entity.Booking, error)
	FindAll() ([]*entity.Booking, error)
	FindAllByStudentID(studentId int) ([]*entity.Booking, error)
	DeleteByID(id int) error
}

// Notifier delivers booking and cancellation mail. A returned error
// means the message did not go out and the operation that wanted it
// must not commit.
type Notifier interface {
	Notify(recipient string, meeting *entity.Meeting, info, subject string) error
}

type BookingResponse struct {
	ID        int    `json:"id"`
	MeetingID int    `json:"meeting_id"`
	StudentID int    `json:"student_id"`
	CreatedAt string `json:"created_at"`
}

type DefaultBookingService struct {
	BookingRepo BookingRepository
	MeetingRepo MeetingRepository
	UserRepo    UserRepository
	Mailer      Notifier
}

func NewBookingService(bookingRepo BookingRepository, meetingRepo MeetingRepository, userRepo UserRepository, mailer Notifier) *DefaultBookingService {
	return &DefaultBookingService{BookingRepo: bookingRepo, MeetingRepo: meetingRepo, UserRepo: userRepo, Mailer: mailer}
}

// BookMeeting books a meeting for the calling student. The sequence is
// stage -> notify -> commit: both mails must go out before anything is
// written, so a notify failure leaves no booked-but-unnotified slot.
// The booking row is written first — its unique meeting_id index is
// what decides a race between two callers — and the meeting's booked
// flag is derived from it.
func (b *DefaultBookingService) BookMeeting(meetingId, subId string) (*BookingResponse, apierror.ErrorResponse) {
	meeting, apierr := b.findMeeting(meetingId)
	if apierr != nil {
		return nil, apierr
	}
	if meeting == nil {
		return nil, apierror.MeetingNotFoundError
	}

	existing, err := b.BookingRepo.FindByMeetingID(meeting.ID)
	if err != nil {
		log.Errorf("failed to check booking for meeting %d: %v", meeting.ID, err)
		return nil, apierror.InternalServerError
	}
	if existing != nil {
		return nil, apierror.AlreadyBookedError
	}

	student, err := b.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if student == nil {
		return nil, apierror.ForbiddenError
	}

	mentor, err := b.UserRepo.FindMentor()
	if err != nil {
		log.Errorf("failed to look up mentor account: %v", err)
		return nil, apierror.InternalServerError
	}
	if mentor == nil {
		return nil, apierror.MentorNotFoundError
	}

	if err := b.Mailer.Notify(student.Email, meeting, "Thank you for booking meeting!", "Booked meeting!"); err != nil {
		log.Errorf("failed to mail student %s about booking: %v", student.Email, err)
		return nil, apierror.EmailSendError
	}
	if err := b.Mailer.Notify(mentor.Email, meeting, "Student: "+student.Email+" booked meeting!", "Booked meeting!"); err != nil {
		log.Errorf("failed to mail mentor %s about booking: %v", mentor.Email, err)
		return nil, apierror.EmailSendError
	}

	booking := &entity.Booking{
		MeetingID: meeting.ID,
		StudentID: student.ID,
		CreatedAt: utils.NowUTC(),
	}

	if err := b.BookingRepo.Save(booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Somebody else won the race between our check and write.
			return nil, apierror.AlreadyBookedError
		}
		log.Errorf("failed to save booking for meeting %d: %v", meeting.ID, err)
		return nil, apierror.InternalServerError
	}

	meeting.Booked = true
	meeting.UpdatedAt = utils.NowUTC()
	if err := b.MeetingRepo.Save(meeting); err != nil {
		// Roll the booking back rather than leave the two out of sync.
		log.Errorf("failed to mark meeting %d booked: %v", meeting.ID, err)
		if delerr := b.BookingRepo.DeleteByID(booking.ID); delerr != nil {
			log.Errorf("failed to roll back booking %d: %v", booking.ID, delerr)
		}
		return nil, apierror.InternalServerError
	}

	return toBookingResponse(booking), nil
}

// CancelBooking flips the meeting back to bookable and removes the
// booking, with the same notify-before-commit rule as BookMeeting.
// Only the student who made the booking may cancel it.
func (b *DefaultBookingService) CancelBooking(bookingId, subId string) apierror.ErrorResponse {
	booking, apierr := b.findBooking(bookingId)
	if apierr != nil {
		return apierr
	}
	if booking == nil {
		return apierror.BookingNotFoundError
	}

	student, err := b.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return apierror.InternalServerError
	}
	if student == nil {
		return apierror.ForbiddenError
	}
	if booking.StudentID != student.ID {
		return apierror.NotOwnerError
	}

	mentor, err := b.UserRepo.FindMentor()
	if err != nil {
		log.Errorf("failed to look up mentor account: %v", err)
		return apierror.InternalServerError
	}
	if mentor == nil {
		return apierror.MentorNotFoundError
	}

	meeting, err := b.MeetingRepo.FindByID(booking.MeetingID)
	if err != nil || meeting == nil {
		log.Errorf("booking %d references missing meeting %d: %v", booking.ID, booking.MeetingID, err)
		return apierror.InternalServerError
	}

	if err := b.Mailer.Notify(student.Email, meeting, "You have successfully canceled the meeting!", "Cancellation of the meeting!"); err != nil {
		log.Errorf("failed to mail student %s about cancellation: %v", student.Email, err)
		return apierror.EmailSendError
	}
	if err := b.Mailer.Notify(mentor.Email, meeting, "Student: "+student.Email+" canceled the meeting!", "Cancellation of the meeting!"); err != nil {
		log.Errorf("failed to mail mentor %s about cancellation: %v", mentor.Email, err)
		return apierror.EmailSendError
	}

	meeting.Booked = false
	meeting.UpdatedAt = utils.NowUTC()
	if err := b.MeetingRepo.Save(meeting); err != nil {
		log.Errorf("failed to unbook meeting %d: %v", meeting.ID, err)
		return apierror.InternalServerError
	}

	if err := b.BookingRepo.DeleteByID(booking.ID); err != nil {
		// Re-book the slot so we never keep a live booking on an open
		// meeting.
		log.Errorf("failed to delete booking %d: %v", booking.ID, err)
		meeting.Booked = true
		if saverr := b.MeetingRepo.Save(meeting); saverr != nil {
			log.Errorf("failed to restore booked flag on meeting %d: %v", meeting.ID, saverr)
		}
		return apierror.InternalServerError
	}

	return nil
}

func (b *DefaultBookingService) GetBooking(bookingId string) (*BookingResponse, apierror.ErrorResponse) {
	booking, apierr := b.findBooking(bookingId)
	if apierr != nil {
		return nil, apierr
	}
	if booking == nil {
		return nil, apierror.BookingNotFoundError
	}
	return toBookingResponse(booking), nil
}

// GetMyBooking is GetBooking plus an ownership check against the
// calling student.
func (b *DefaultBookingService) GetMyBooking(bookingId, subId string) (*BookingResponse, apierror.ErrorResponse) {
	booking, apierr := b.findBooking(bookingId)
	if apierr != nil {
		return nil, apierr
	}
	if booking == nil {
		return nil, apierror.BookingNotFoundError
	}

	student, err := b.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if student == nil || booking.StudentID != student.ID {
		return nil, apierror.NotOwnerError
	}
	return toBookingResponse(booking), nil
}

func (b *DefaultBookingService) GetBookings() ([]*BookingResponse, apierror.ErrorResponse) {
	bookings, err := b.BookingRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all bookings: %v", err)
		return nil, apierror.InternalServerError
	}
	return toBookingResponses(bookings), nil
}

func (b *DefaultBookingService) GetMyBookings(subId string) ([]*BookingResponse, apierror.ErrorResponse) {
	student, err := b.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch caller %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if student == nil {
		return nil, apierror.ForbiddenError
	}

	bookings, err := b.BookingRepo.FindAllByStudentID(student.ID)
	if err != nil {
		log.Errorf("failed to fetch bookings for student %d: %v", student.ID, err)
		return nil, apierror.InternalServerError
	}
	return toBookingResponses(bookings), nil
}

func (b *DefaultBookingService) findMeeting(meetingId string) (*entity.Meeting, apierror.ErrorResponse) {
	id, err := strconv.Atoi(meetingId)
	if err != nil {
		return nil, apierror.InvalidIDError
	}

	meeting, err := b.MeetingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find meeting (%s) by id: %v", meetingId, err)
		return nil, apierror.InternalServerError
	}
	return meeting, nil
}

func (b *DefaultBookingService) findBooking(bookingId string) (*entity.Booking, apierror.ErrorResponse) {
	id, err := strconv.Atoi(bookingId)
	if err != nil {
		return nil, apierror.InvalidIDError
	}

	booking, err := b.BookingRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to find booking (%s) by id: %v", bookingId, err)
		return nil, apierror.InternalServerError
	}
	return booking, nil
}

func toBookingResponse(booking *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        booking.ID,
		MeetingID: booking.MeetingID,
		StudentID: booking.StudentID,
		CreatedAt: utils.FormatEpoch(booking.CreatedAt),
	}
}

func toBookingResponses(bookings []*entity.Booking) []*BookingResponse {
	responses := make([]*BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = toBookingResponse(booking)
	}
	return responses
}
