package service

import (
	"context"
	"strings"

	"elivtory/inventory-api/config"
	"elivtory/inventory-api/internal/model"
)

// Contact forwards messages from logged in users to the support inbox
type Contact struct {
	cfg    *config.Config
	mailer Mailer
}

func NewContact(cfg *config.Config, mailer Mailer) *Contact {
	return &Contact{cfg: cfg, mailer: mailer}
}

func (c *Contact) Send(ctx context.Context, user *model.User, subject, message string) error {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)

	if subject == "" || message == "" {
		return newError(ErrValidation, "Please add subject and message")
	}

	to := c.cfg.Mail.SupportAddress
	if to == "" {
		to = c.cfg.Mail.From
	}

	err := c.mailer.Send(ctx, &Mail{
		Subject:  subject,
		HTMLBody: contactMail(user.Name, user.Email, message),
		To:       to,
		From:     c.cfg.Mail.From,
		ReplyTo:  user.Email,
	})
	if err != nil {
		return wrapError(ErrEmailDelivery, "Email not sent, please try again", err)
	}

	return nil
}
