package email

import (
	"context"
	"fmt"
	"net/smtp"

	"conference-backend/pkg/logger"
)

type ConfirmationEmailData struct {
	Email          string
	ConferenceName string
	City           string
	StartDate      string
}

type EmailService interface {
	SendConferenceConfirmation(ctx context.Context, data ConfirmationEmailData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendConferenceConfirmation(ctx context.Context, data ConfirmationEmailData) error {
	subject := "You created a new conference!"
	body := fmt.Sprintf(`Hi,

You have created the following conference:

	%s
	%s, starting %s

See you there!`, data.ConferenceName, data.City, data.StartDate)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg)
	if err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
