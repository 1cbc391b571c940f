package smtpmailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"

	"mentoring/cmd/internal/domain/entity"
)

// Mailer sends booking and cancellation mail over plain SMTP. It is
// the production implementation of service.Notifier.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

func InitMailer() (*Mailer, error) {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	if host == "" || port == "" || from == "" {
		return nil, errors.New("SMTP_HOST, SMTP_PORT and SMTP_FROM must be set")
	}

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	return &Mailer{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}, nil
}

func (m *Mailer) Notify(recipient string, meeting *entity.Meeting, info, subject string) error {
	body := fmt.Sprintf(
		"<h1>%s</h1>"+
			"<div><b>Meeting date:</b> %s</div>"+
			"<div><b>Meeting time:</b> %s-%s</div>",
		info, meeting.MeetingDate, meeting.StartTime, meeting.EndTime,
	)

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
			"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		m.from, recipient, subject, body,
	)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{recipient}, []byte(msg))
}
