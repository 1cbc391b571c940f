package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mentoring/cmd/internal/service"
	"mentoring/cmd/internal/utils"
	"mentoring/cmd/internal/utils/apierror"
)

type MeetingService interface {
	CreateMeetings(req *service.MeetingRequest, subId string) ([]*service.MeetingResponse, apierror.ErrorResponse)
	UpdateMeeting(meetingId string, req *service.MeetingRequest, subId string) (*service.MeetingResponse, apierror.ErrorResponse)
	DeleteMeeting(meetingId, subId string) apierror.ErrorResponse
	GetMeeting(meetingId string) (*service.MeetingResponse, apierror.ErrorResponse)
	GetMeetings() ([]*service.MeetingResponse, apierror.ErrorResponse)
	GetMeetingsByBooked(booked bool) ([]*service.MeetingResponse, apierror.ErrorResponse)
}

type DefaultMeetingRoute struct {
	MeetingService MeetingService
}

func NewMeetingDefault(meetingService MeetingService) *DefaultMeetingRoute {
	return &DefaultMeetingRoute{MeetingService: meetingService}
}

func (m *DefaultMeetingRoute) CreateMeetings(c echo.Context) error {
	var req service.MeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	meetings, apierr := m.MeetingService.CreateMeetings(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"meetings": meetings}
	return c.JSON(http.StatusCreated, &resp)
}

func (m *DefaultMeetingRoute) UpdateMeeting(c echo.Context) error {
	var req service.MeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	meeting, apierr := m.MeetingService.UpdateMeeting(c.Param("id"), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, meeting)
}

func (m *DefaultMeetingRoute) DeleteMeeting(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := m.MeetingService.DeleteMeeting(c.Param("id"), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (m *DefaultMeetingRoute) GetMeeting(c echo.Context) error {
	meeting, apierr := m.MeetingService.GetMeeting(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, meeting)
}

func (m *DefaultMeetingRoute) GetMeetings(c echo.Context) error {
	var meetings []*service.MeetingResponse
	var apierr apierror.ErrorResponse

	switch c.QueryParam("booked") {
	case "":
		meetings, apierr = m.MeetingService.GetMeetings()
	case "true":
		meetings, apierr = m.MeetingService.GetMeetingsByBooked(true)
	case "false":
		meetings, apierr = m.MeetingService.GetMeetingsByBooked(false)
	default:
		perr := apierror.NewInvalidParamTypeError("booked", "bool")
		return c.JSON(perr.Code(), perr)
	}

	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"meetings": meetings}
	return c.JSON(http.StatusOK, &resp)
}
