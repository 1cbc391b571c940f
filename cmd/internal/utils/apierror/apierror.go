package apierror

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back instead of a plain error.
// The value itself is the JSON body; Code is the HTTP status the thin
// route layer should answer with. Callers tell error kinds apart by
// comparing against the named values below.
type ErrorResponse interface {
	Code() int
	Message() string
}

type simpleError struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"message"`
}

func (e *simpleError) Code() int       { return e.StatusCode }
func (e *simpleError) Message() string { return e.Msg }

func NewSimple(code int, message string) ErrorResponse {
	return &simpleError{StatusCode: code, Msg: message}
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Something went wrong on our side")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Could not understand request body")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Missing or invalid authorization token")
	ForbiddenError        = NewSimple(http.StatusForbidden, "You are not allowed to do that")

	// Meeting slot engine
	InvalidIDError        = NewSimple(http.StatusBadRequest, "ID have to be a number")
	MeetingNotFoundError  = NewSimple(http.StatusNotFound, "Meeting was not found")
	MeetingBookedError    = NewSimple(http.StatusConflict, "Someone booked the meeting")
	MeetingTimeRangeError = NewSimple(http.StatusBadRequest, "End time have to be after start time")
	MeetingDurationError  = NewSimple(http.StatusBadRequest, "Time between start and end have to be 15 minutes")
	MentorNotFoundError   = NewSimple(http.StatusNotFound, "Mentor can not be found")

	// Bookings
	BookingNotFoundError = NewSimple(http.StatusNotFound, "Meeting booking was not found")
	AlreadyBookedError   = NewSimple(http.StatusConflict, "Meeting is already booked")
	NotOwnerError        = NewSimple(http.StatusForbidden, "You are not owner of the meeting booking")
	EmailSendError       = NewSimple(http.StatusServiceUnavailable, "Could not send email. Please try again later")

	// Users
	UserNotFoundError         = NewSimple(http.StatusNotFound, "User was not found")
	UserAlreadyExistsError    = NewSimple(http.StatusConflict, "User with this email already exists")
	UserAlreadyConfirmedError = NewSimple(http.StatusConflict, "User is already confirmed")
	MentorAccountError        = NewSimple(http.StatusConflict, "Mentor account can not be deleted")
	HasBookingsError          = NewSimple(http.StatusConflict, "Account still has meeting bookings")

	// Identity provider
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "User is not registered")
	IDPUserNotConfirmedError    = NewSimple(http.StatusForbidden, "Account email is not confirmed yet")
	IDPCredentialsMismatchError = NewSimple(http.StatusUnauthorized, "Email and password do not match")
	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "Password does not meet the policy")
	IDPExistingEmailError       = NewSimple(http.StatusConflict, "User with this email already exists")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "Confirmation code does not match")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusBadRequest, "Confirmation code has expired")
)

func NewMissingParamError(param string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' have to be of type %s", param, expected))
}

type validationError struct {
	StatusCode int               `json:"-"`
	Msg        string            `json:"message"`
	Fields     map[string]string `json:"fields"`
}

func (e *validationError) Code() int       { return e.StatusCode }
func (e *validationError) Message() string { return e.Msg }

// FromValidationError flattens validator.ValidationErrors into a
// field -> failed-rule map for the response body.
func FromValidationError(err error) ErrorResponse {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return MalformedBodyError
	}

	fields := make(map[string]string, len(verrs))
	for _, ferr := range verrs {
		fields[ferr.Field()] = ferr.Tag()
	}
	return &validationError{
		StatusCode: http.StatusBadRequest,
		Msg:        "Request validation failed",
		Fields:     fields,
	}
}
