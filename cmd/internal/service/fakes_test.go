package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"mentoring/cmd/internal/domain/entity"
	cognitoclient "mentoring/cmd/internal/integration/aws/cognito"
	"mentoring/cmd/internal/utils/validators"
)

func newTestValidate() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("isodate", validators.IsIsoDate)
	_ = validate.RegisterValidation("clock", validators.IsClock)
	_ = validate.RegisterValidation("quartermins", validators.IsQuarterAligned)
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	return validate
}

// fakeMeetingRepo keeps copies of saved meetings, like a real store
// would, so rollback assertions cannot be fooled by aliased pointers.
type fakeMeetingRepo struct {
	meetings []*entity.Meeting
	nextID   int
	saveErr  error
}

func (f *fakeMeetingRepo) add(date, start, end string, mentorID int, booked bool) *entity.Meeting {
	f.nextID++
	meeting := &entity.Meeting{
		ID:          f.nextID,
		MeetingDate: date,
		StartTime:   start,
		EndTime:     end,
		MentorID:    mentorID,
		Booked:      booked,
	}
	f.meetings = append(f.meetings, meeting)
	return meeting
}

func (f *fakeMeetingRepo) Save(meeting *entity.Meeting) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if meeting.ID == 0 {
		f.nextID++
		meeting.ID = f.nextID
	}
	stored := *meeting
	for i, m := range f.meetings {
		if m.ID == meeting.ID {
			f.meetings[i] = &stored
			return nil
		}
	}
	f.meetings = append(f.meetings, &stored)
	return nil
}

func (f *fakeMeetingRepo) FindByID(id int) (*entity.Meeting, error) {
	for _, m := range f.meetings {
		if m.ID == id {
			found := *m
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) FindAll() ([]*entity.Meeting, error) {
	all := make([]*entity.Meeting, len(f.meetings))
	for i, m := range f.meetings {
		found := *m
		all[i] = &found
	}
	return all, nil
}

func (f *fakeMeetingRepo) FindAllByBooked(booked bool) ([]*entity.Meeting, error) {
	var matched []*entity.Meeting
	for _, m := range f.meetings {
		if m.Booked == booked {
			found := *m
			matched = append(matched, &found)
		}
	}
	return matched, nil
}

func (f *fakeMeetingRepo) DeleteByID(id int) error {
	for i, m := range f.meetings {
		if m.ID == id {
			f.meetings = append(f.meetings[:i], f.meetings[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeBookingRepo enforces the meeting_id unique index the way the
// real store does. hideFromLookup makes FindByMeetingID blind so the
// check-then-write race can be driven through the index path.
type fakeBookingRepo struct {
	bookings       []*entity.Booking
	nextID         int
	hideFromLookup bool
}

func (f *fakeBookingRepo) add(meetingID, studentID int) *entity.Booking {
	f.nextID++
	booking := &entity.Booking{ID: f.nextID, MeetingID: meetingID, StudentID: studentID}
	f.bookings = append(f.bookings, booking)
	return booking
}

func (f *fakeBookingRepo) Save(booking *entity.Booking) error {
	for _, b := range f.bookings {
		if b.MeetingID == booking.MeetingID && b.ID != booking.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	if booking.ID == 0 {
		f.nextID++
		booking.ID = f.nextID
	}
	stored := *booking
	f.bookings = append(f.bookings, &stored)
	return nil
}

func (f *fakeBookingRepo) FindByID(id int) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByMeetingID(meetingId int) (*entity.Booking, error) {
	if f.hideFromLookup {
		return nil, nil
	}
	for _, b := range f.bookings {
		if b.MeetingID == meetingId {
			found := *b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindAll() ([]*entity.Booking, error) {
	all := make([]*entity.Booking, len(f.bookings))
	for i, b := range f.bookings {
		found := *b
		all[i] = &found
	}
	return all, nil
}

func (f *fakeBookingRepo) FindAllByStudentID(studentId int) ([]*entity.Booking, error) {
	var matched []*entity.Booking
	for _, b := range f.bookings {
		if b.StudentID == studentId {
			found := *b
			matched = append(matched, &found)
		}
	}
	return matched, nil
}

func (f *fakeBookingRepo) DeleteByID(id int) error {
	for i, b := range f.bookings {
		if b.ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUserRepo struct {
	users   []*entity.User
	nextID  int
	saveErr error
}

func (f *fakeUserRepo) add(sub, email, role string) *entity.User {
	f.nextID++
	user := &entity.User{ID: f.nextID, SubUUID: sub, Username: email, Email: email, Role: role}
	f.users = append(f.users, user)
	return user
}

func (f *fakeUserRepo) FindByID(id int) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindBySub(sub string) (*entity.User, error) {
	for _, u := range f.users {
		if u.SubUUID == sub {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindMentor() (*entity.User, error) {
	for _, u := range f.users {
		if u.Role == entity.RoleMentor {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll() ([]*entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	user, _ := f.FindByEmail(email)
	return user != nil, nil
}

func (f *fakeUserRepo) Save(user *entity.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
		f.users = append(f.users, user)
	}
	return nil
}

func (f *fakeUserRepo) Delete(user *entity.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type notifyCall struct {
	recipient string
	info      string
	subject   string
}

// fakeNotifier records deliveries and can be told to fail the n-th
// attempt (0-based); failAt -1 never fails.
type fakeNotifier struct {
	calls    []notifyCall
	attempts int
	failAt   int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failAt: -1}
}

func (f *fakeNotifier) Notify(recipient string, meeting *entity.Meeting, info, subject string) error {
	attempt := f.attempts
	f.attempts++
	if f.failAt >= 0 && attempt == f.failAt {
		return errors.New("smtp: connection refused")
	}
	f.calls = append(f.calls, notifyCall{recipient: recipient, info: info, subject: subject})
	return nil
}

type fakeCognito struct {
	sub       string
	signUpErr error
	deleted   []string
}

func (f *fakeCognito) SignUp(user *cognitoclient.User) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.sub, nil
}

func (f *fakeCognito) SignIn(login *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	return &cognitoclient.AuthCreate{AccessToken: "access", IDToken: "id"}, nil
}

func (f *fakeCognito) ConfirmAccount(confirmation *cognitoclient.UserConfirmation) error {
	return nil
}

func (f *fakeCognito) AdminDeleteUser(email string) error {
	f.deleted = append(f.deleted, email)
	return nil
}
