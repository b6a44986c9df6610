// Package sender содержит сервис отправки почтовых напоминаний о предстоящих
// списаниях. Сообщения приходят из очереди напоминаний в формате JSON.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/lib/smtp"
	"github.com/trakio/trakio/internal/models"
)

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.Transporter
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.Transporter, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendRenewalReminder разбирает сообщение очереди и отправляет письмо
// о предстоящем списании.
func (s *SenderService) SendRenewalReminder(body []byte) error {
	const op = "services.sender.SendRenewalReminder"
	var reminder models.RenewalReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("Upcoming renewal: %s", reminder.Name)
	bodyText := fmt.Sprintf(
		"Hi,\n\nYour subscription %s renews on %s for %s %s.\nThat works out to %s %s per month.\n\n— Trakio",
		reminder.Name, reminder.RenewsOn, reminder.Price, reminder.Currency,
		reminder.MonthlyRate, reminder.Currency)

	return s.sendEmail([]string{reminder.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return client.Quit()
}
