package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"elivtory/inventory-api/config"

	"gopkg.in/gomail.v2"
)

type Mail struct {
	Subject  string
	HTMLBody string
	To       string
	From     string
	ReplyTo  string
}

type Mailer interface {
	Send(ctx context.Context, m *Mail) error
}

// SMTPMailer sends mails through the SMTP server from the mail config
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(c config.Mail) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(c.Host, c.Port, c.Username, c.Password),
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m *Mail) error {
	if m.To == "" {
		return errors.New("no recipient provided")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	msg.SetBody("text/html", m.HTMLBody)

	// gomail has no context support, so the send runs in the background and
	// is abandoned when ctx is done
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail, %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send mail, %w", ctx.Err())
	}
}

func resetMail(name, resetURL string, ttl time.Duration) string {
	u := html.EscapeString(resetURL)

	return fmt.Sprintf(`<h1>Hello %s</h1>
<p>Please use the url below to reset your password</p>
<p>This reset link is valid only for %d minutes.</p>

<a href="%s" clicktracking=off>%s</a>

<p>Regards...</p>
<p>Greetings</p>`, html.EscapeString(name), int(ttl.Minutes()), u, u)
}

func contactMail(name, email, message string) string {
	return fmt.Sprintf(`<p>%s</p>
<p>Sent by %s &lt;%s&gt;</p>`, html.EscapeString(message), html.EscapeString(name), html.EscapeString(email))
}
