package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"mentoring/cmd/internal/domain/sqlite"
	"mentoring/cmd/internal/domain/sqlite/repository"
	cognitoclient "mentoring/cmd/internal/integration/aws/cognito"
	smtpmailer "mentoring/cmd/internal/integration/smtp"
	"mentoring/cmd/internal/routes"
	"mentoring/cmd/internal/service"
	"mentoring/cmd/internal/utils/validators"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	err := godotenv.Load()
	if err != nil {
		log.Fatal("failed to load .env file", err)
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Cognito client
	cogClient, err := cognitoclient.InitCognitoClient()
	if err != nil {
		log.Fatal("failed to initialize cognito client", err)
	}

	// Mailer for booking/cancellation notifications
	mailer, err := smtpmailer.InitMailer()
	if err != nil {
		log.Fatal("failed to initialize mailer", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, meetingRepo, bookingRepo, validate, cogClient)
	meetingService := service.NewMeetingService(meetingRepo, userRepo, validate)
	bookingService := service.NewBookingService(bookingRepo, meetingRepo, userRepo, mailer)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	meetingRoutes := routes.NewMeetingDefault(meetingService)
	bookingRoutes := routes.NewBookingDefault(bookingService)

	e := echo.New()
	e.Use(middleware.CORS())

	// Meetings
	e.GET("/api/meetings", meetingRoutes.GetMeetings)
	e.GET("/api/meetings/:id", meetingRoutes.GetMeeting)
	e.POST("/api/meetings", meetingRoutes.CreateMeetings)
	e.PUT("/api/meetings/:id", meetingRoutes.UpdateMeeting)
	e.DELETE("/api/meetings/:id", meetingRoutes.DeleteMeeting)

	// Bookings
	e.GET("/api/bookings", bookingRoutes.GetBookings)
	e.GET("/api/bookings/me", bookingRoutes.GetMyBookings)
	e.GET("/api/bookings/me/:id", bookingRoutes.GetMyBooking)
	e.GET("/api/bookings/:id", bookingRoutes.GetBooking)
	e.POST("/api/bookings/:meetingId", bookingRoutes.BookMeeting)
	e.DELETE("/api/bookings/:id", bookingRoutes.CancelBooking)

	// Users
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.POST("/api/users/login", userRoutes.CreateLogin)
	e.POST("/api/users/verify", userRoutes.VerifySignup)
	e.PUT("/api/users/@me", userRoutes.UpdateMe)
	e.DELETE("/api/users/:id", userRoutes.DeleteUser)

	err = e.Start(":6060")
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("isodate", validators.IsIsoDate)
	_ = validate.RegisterValidation("clock", validators.IsClock)
	_ = validate.RegisterValidation("quartermins", validators.IsQuarterAligned)
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}
