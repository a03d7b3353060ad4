package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// MailService delivers one-time codes over SMTP. When no host is configured
// the code is logged instead, which keeps local development working without
// a mail server.
type MailService struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewMailService creates a new MailService.
func NewMailService(host, port, user, pass, from string) *MailService {
	return &MailService{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a plain text message to the recipient.
func (s *MailService) Send(to, subject, body string) error {
	if s.host == "" {
		log.Printf("[Mail] SMTP not configured, skipping mail to %s: %s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := s.host + ":" + s.port
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("[Mail] Failed to send mail to %s: %v", to, err)
		return err
	}

	return nil
}

// SendOTP mails a verification code, falling back to a log line when SMTP
// is not configured so the code is still reachable in development.
func (s *MailService) SendOTP(to, code string, expiresMinutes int) error {
	if s.host == "" {
		log.Printf("[Mail] OTP for %s: %s", to, code)
		return nil
	}

	body := fmt.Sprintf(
		"Welcome to Sampoornam Foods\n\nYour verification code is: %s\nThis code expires in %d minutes.",
		code, expiresMinutes,
	)
	return s.Send(to, "Account Verification OTP - Sampoornam Foods", body)
}
