// Package mailer delivers password reset emails.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Sender delivers one plain text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

const resetSubject = "Lightning Pass - reset password"

// ResetEmail renders the reset message carrying token.
func ResetEmail(token string) (subject, body string) {
	body = "You have requested to reset your password in Lightning Pass.\n" +
		"Please enter the reset token below into the application.\n\n" +
		token + "\n\n" +
		"If you did not make this request, ignore this email and no changes will be made to your account."
	return resetSubject, body
}

// SendReset renders and sends the reset message. Delivery errors are
// returned to the caller.
func SendReset(ctx context.Context, s Sender, to, token string) error {
	subject, body := ResetEmail(token)
	if err := s.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// SMTPSender sends through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// Send gives up waiting when ctx is done. net/smtp has no context support,
// so the dial may still finish in the background.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("invalid header value")
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	msg := buildMessage(s.from, to, subject, body)

	errc := make(chan error, 1)
	go func() {
		errc <- s.sendMail(addr, auth, s.from, []string{to}, msg)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
