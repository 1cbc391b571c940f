package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mentoring/cmd/internal/service"
	"mentoring/cmd/internal/utils"
	"mentoring/cmd/internal/utils/apierror"
)

type BookingService interface {
	BookMeeting(meetingId, subId string) (*service.BookingResponse, apierror.ErrorResponse)
	CancelBooking(bookingId, subId string) apierror.ErrorResponse
	GetBooking(bookingId string) (*service.BookingResponse, apierror.ErrorResponse)
	GetMyBooking(bookingId, subId string) (*service.BookingResponse, apierror.ErrorResponse)
	GetBookings() ([]*service.BookingResponse, apierror.ErrorResponse)
	GetMyBookings(subId string) ([]*service.BookingResponse, apierror.ErrorResponse)
}

type DefaultBookingRoute struct {
	BookingService BookingService
}

func NewBookingDefault(bookingService BookingService) *DefaultBookingRoute {
	return &DefaultBookingRoute{BookingService: bookingService}
}

func (b *DefaultBookingRoute) BookMeeting(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	booking, apierr := b.BookingService.BookMeeting(c.Param("meetingId"), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (b *DefaultBookingRoute) CancelBooking(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := b.BookingService.CancelBooking(c.Param("id"), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (b *DefaultBookingRoute) GetBooking(c echo.Context) error {
	booking, apierr := b.BookingService.GetBooking(c.Param("id"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, booking)
}

func (b *DefaultBookingRoute) GetMyBooking(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	booking, apierr := b.BookingService.GetMyBooking(c.Param("id"), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, booking)
}

func (b *DefaultBookingRoute) GetBookings(c echo.Context) error {
	bookings, apierr := b.BookingService.GetBookings()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"bookings": bookings}
	return c.JSON(http.StatusOK, &resp)
}

func (b *DefaultBookingRoute) GetMyBookings(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	bookings, apierr := b.BookingService.GetMyBookings(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"bookings": bookings}
	return c.JSON(http.StatusOK, &resp)
}
