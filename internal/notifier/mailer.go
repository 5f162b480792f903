package notifier

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// sendTimeout bounds the whole SMTP conversation. gomail only bounds the
// TCP dial, so a server that stalls after connect would otherwise hang a
// pipeline worker forever. Var so tests can shorten it.
var sendTimeout = 20 * time.Second

// Mailer sends one HTML email. Tests substitute a fake.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer is the gomail-backed Mailer.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer returns nil when SMTP credentials are not configured; the
// dispatcher treats a nil mailer as "email disabled" and only logs.
func NewSMTPMailer(host string, port int, username, password, from string, logger *zap.Logger) *SMTPMailer {
	if host == "" || username == "" || password == "" {
		logger.Warn("SMTP not configured, email notifications will be skipped")
		return nil
	}
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

// Verify checks the SMTP connection at startup. Failure is logged only.
func (m *SMTPMailer) Verify() bool {
	closer, err := m.dialer.Dial()
	if err != nil {
		m.logger.Error("SMTP connection check failed", zap.Error(err))
		return false
	}
	_ = closer.Close()
	m.logger.Info("SMTP connection verified")
	return true
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.dialer.DialAndSend(msg)
	}()
	select {
	case err := <-errCh:
		return err
	case <-time.After(sendTimeout):
		return fmt.Errorf("smtp send to %v timed out after %s", to, sendTimeout)
	}
}
