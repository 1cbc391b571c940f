package service

import (
	"errors"
	"os"
	"strconv"

	"github.com/aws/smithy-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"mentoring/cmd/internal/domain/entity"
	cognitoclient "mentoring/cmd/internal/integration/aws/cognito"
	"mentoring/cmd/internal/utils"
	"mentoring/cmd/internal/utils/apierror"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	FindMentor() (*entity.User, error)
	FindAll() ([]*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
	Delete(user *entity.User) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,nospaces,hasspecial,hasdigit,hasupper,haslower"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=6"`
}

type UpdateMeRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

type DefaultUserService struct {
	UserRepo    UserRepository
	MeetingRepo MeetingRepository
	BookingRepo BookingRepository
	Validate    *validator.Validate
	Cognito     cognitoclient.CognitoInterface
}

func NewUserService(userRepo UserRepository, meetingRepo MeetingRepository, bookingRepo BookingRepository, validate *validator.Validate, cogClient cognitoclient.CognitoInterface) *DefaultUserService {
	return &DefaultUserService{
		UserRepo:    userRepo,
		MeetingRepo: meetingRepo,
		BookingRepo: bookingRepo,
		Validate:    validate,
		Cognito:     cogClient,
	}
}

func (u *DefaultUserService) GetUsers() ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *DefaultUserService) GetUser(rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(rawId, subId)
	if apierr != nil {
		return nil, apierr
	}

	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return toUserResponse(user), nil
}

// CreateUser registers a new account on Cognito and in our database,
// which sends a verification code to the user's email address. The
// account whose email matches MENTOR_EMAIL becomes the single mentor;
// everyone else is a student.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return apierror.InternalServerError
	}

	if found {
		return apierror.UserAlreadyExistsError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password}
	uuid, apierr, revert := handleUserSignup(u.Cognito, cogUser)
	if apierr != nil {
		return apierr
	}

	role := entity.RoleStudent
	if req.Email == os.Getenv("MENTOR_EMAIL") {
		role = entity.RoleMentor
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       uuid,
		Username:      req.Username,
		Email:         req.Email,
		Role:          role,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	auth, apierr := handleUserSignin(u.Cognito, credentials)
	if apierr != nil {
		return nil, apierr
	}
	return &UserLoginResponse{AccessToken: auth.AccessToken, IDToken: auth.IDToken}, nil
}

func (u *DefaultUserService) ConfirmSignup(req *ConfirmSignupRequest) apierror.ErrorResponse {
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	apierr := handleSignupConfirmation(u.Cognito, confirms)
	if apierr != nil {
		return apierr
	}

	user.EmailVerified = true
	user.UpdatedAt = utils.NowUTC()
	err = u.UserRepo.Save(user)
	if err != nil {
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
	}
	return nil
}

func (u *DefaultUserService) UpdateMe(req *UpdateMeRequest, subId string) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.fetchBySub(subId)
	if apierr != nil {
		return nil, apierr
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}

	user.Username = req.Username
	user.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

// DeleteUser removes a student account on the mentor's behalf. Every
// booking the student holds is released first — the meeting goes back
// to bookable and the booking row is removed — so no booking ever
// outlives its student. The mentor account itself cannot be deleted.
func (u *DefaultUserService) DeleteUser(rawId, subId string) apierror.ErrorResponse {
	caller, apierr := u.fetchBySub(subId)
	if apierr != nil {
		return apierr
	}
	if caller == nil || caller.Role != entity.RoleMentor {
		return apierror.ForbiddenError
	}

	student, apierr := u.fetchByID(rawId)
	if apierr != nil {
		return apierr
	}
	if student == nil {
		return apierror.UserNotFoundError
	}
	if student.Role == entity.RoleMentor {
		return apierror.MentorAccountError
	}

	bookings, err := u.BookingRepo.FindAllByStudentID(student.ID)
	if err != nil {
		log.Errorf("failed to fetch bookings for student %d: %v", student.ID, err)
		return apierror.InternalServerError
	}

	for _, booking := range bookings {
		meeting, err := u.MeetingRepo.FindByID(booking.MeetingID)
		if err != nil {
			log.Errorf("failed to fetch meeting %d for booking %d: %v", booking.MeetingID, booking.ID, err)
			return apierror.InternalServerError
		}
		if meeting != nil {
			meeting.Booked = false
			meeting.UpdatedAt = utils.NowUTC()
			if err := u.MeetingRepo.Save(meeting); err != nil {
				log.Errorf("failed to unbook meeting %d: %v", meeting.ID, err)
				return apierror.InternalServerError
			}
		}
		if err := u.BookingRepo.DeleteByID(booking.ID); err != nil {
			log.Errorf("failed to delete booking %d: %v", booking.ID, err)
			return apierror.InternalServerError
		}
	}

	if err := u.UserRepo.Delete(student); err != nil {
		log.Errorf("failed to delete user %d: %v", student.ID, err)
		return apierror.InternalServerError
	}

	if err := u.Cognito.AdminDeleteUser(student.Email); err != nil {
		log.Errorf("failed to delete cognito account for %s: %v", student.Email, err)
	}
	return nil
}

// DeleteMe removes the caller's own account. Unlike DeleteUser it does
// not release bookings: a student who still holds one has to cancel it
// first, so nothing disappears without the cancellation mails going out.
func (u *DefaultUserService) DeleteMe(subId string) apierror.ErrorResponse {
	user, apierr := u.fetchBySub(subId)
	if apierr != nil {
		return apierr
	}
	if user == nil {
		return apierror.UserNotFoundError
	}
	if user.Role == entity.RoleMentor {
		return apierror.MentorAccountError
	}

	bookings, err := u.BookingRepo.FindAllByStudentID(user.ID)
	if err != nil {
		log.Errorf("failed to fetch bookings for student %d: %v", user.ID, err)
		return apierror.InternalServerError
	}
	if len(bookings) > 0 {
		return apierror.HasBookingsError
	}

	if err := u.UserRepo.Delete(user); err != nil {
		log.Errorf("failed to delete user %d: %v", user.ID, err)
		return apierror.InternalServerError
	}

	if err := u.Cognito.AdminDeleteUser(user.Email); err != nil {
		log.Errorf("failed to delete cognito account for %s: %v", user.Email, err)
	}
	return nil
}

func (u *DefaultUserService) fetchUser(rawId, sub string) (*entity.User, apierror.ErrorResponse) {
	if rawId == "@me" {
		return u.fetchBySub(sub)
	}
	return u.fetchByID(rawId)
}

func (u *DefaultUserService) fetchBySub(sub string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func (u *DefaultUserService) fetchByID(rawId string) (*entity.User, apierror.ErrorResponse) {
	userId, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.InvalidIDError
	}
	user, err := u.UserRepo.FindByID(userId)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", rawId, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func handleUserSignup(cogClient cognitoclient.CognitoInterface, req *cognitoclient.User) (string, apierror.ErrorResponse, func()) {
	revert := func() {
		_ = cogClient.AdminDeleteUser(req.Email)
	}

	uuid, err := cogClient.SignUp(req)
	if err == nil {
		return uuid, nil, revert
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidPasswordException":
			return "", apierror.IDPInvalidPasswordError, revert
		case "UsernameExistsException":
			return "", apierror.IDPExistingEmailError, revert
		default:
			log.Errorf("signup failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return "", apierror.InternalServerError, revert
		}
	}

	log.Errorf("failed to signup user (%s): %v", req.Email, err)
	return "", apierror.InternalServerError, revert
}

func handleUserSignin(cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, apierror.ErrorResponse) {
	auth, err := cogClient.SignIn(req)
	if err == nil {
		return auth, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UserNotFoundException":
			return nil, apierror.IDPUserNotFoundError
		case "UserNotConfirmedException":
			return nil, apierror.IDPUserNotConfirmedError
		case "NotAuthorizedException":
			return nil, apierror.IDPCredentialsMismatchError
		default:
			log.Errorf("signin failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return nil, apierror.InternalServerError
		}
	}

	log.Errorf("failed to signin user (%s): %v", req.Email, err)
	return nil, apierror.InternalServerError
}

func handleSignupConfirmation(cogClient cognitoclient.CognitoInterface, req *cognitoclient.UserConfirmation) apierror.ErrorResponse {
	err := cogClient.ConfirmAccount(req)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "CodeMismatchException":
			return apierror.IDPConfirmCodeMismatchError
		case "ExpiredCodeException":
			return apierror.IDPConfirmCodeExpiredError
		case "UserNotFoundException":
			return apierror.IDPUserNotFoundError
		default:
			log.Errorf("confirmation failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return apierror.InternalServerError
		}
	}

	log.Errorf("failed to confirm user (%s): %v", req.Email, err)
	return apierror.InternalServerError
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
