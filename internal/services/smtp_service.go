package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/barelands/server/internal/config"
	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
)

// MailService sends inquiry notification emails. When no SMTP password is
// configured the service runs in simulated mode: sends are logged but no
// network connection is made, so local development works without secrets.
type MailService struct {
	cfg config.Mail
}

// NewMailService creates a new mail service
func NewMailService(cfg config.Mail) *MailService {
	if cfg.Password == "" {
		observability.Warnf("EMAIL_PASSWORD not set; emails will be simulated")
	}
	return &MailService{cfg: cfg}
}

// Simulated reports whether the service logs sends instead of delivering them
func (s *MailService) Simulated() bool {
	return s.cfg.Password == ""
}

// SendInquiryNotification emails the site owner about a new contact or print
// inquiry. The Reply-To header points at the submitter so replies go straight
// back to them.
func (s *MailService) SendInquiryNotification(ctx context.Context, inquiry *models.Inquiry) error {
	data := inquiryEmailData{
		Kind:       inquiry.Kind,
		Name:       inquiry.Name,
		Email:      inquiry.Email,
		Subject:    inquiry.Subject,
		Message:    inquiry.Message,
		ReceivedAt: inquiry.ReceivedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}

	tmpl, err := template.New("inquiry").Parse(inquiryEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse inquiry email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute inquiry email template: %w", err)
	}

	subject := fmt.Sprintf("New contact form submission: %s", inquiry.Subject)
	if inquiry.Kind == models.InquiryKindPrint {
		subject = fmt.Sprintf("New print inquiry: %s", inquiry.Subject)
	}

	return s.sendEmail(ctx, s.cfg.ToAddress, inquiry.Email, subject, body.String())
}

// sendEmail is the internal helper that performs the actual SMTP sending
func (s *MailService) sendEmail(ctx context.Context, to, replyTo, subject, htmlBody string) error {
	if s.Simulated() {
		observability.WithFields(map[string]interface{}{
			"to":      to,
			"subject": subject,
		}).Info("Simulated email send")
		// Mimic the latency of a real send so callers exercise the same path
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	if to == "" {
		return fmt.Errorf("no contact address configured")
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress)
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Reply-To":     replyTo,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var msg bytes.Buffer
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseTLS && s.cfg.Port == 465 {
		return s.sendWithTLS(addr, auth, to, msg.Bytes())
	}

	// SendMail negotiates STARTTLS when the server offers it
	return smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{to}, msg.Bytes())
}

// sendWithTLS sends email over an implicit TLS connection
func (s *MailService) sendWithTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	tlsConfig := &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.SkipVerify,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.cfg.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send DATA command: %w", err)
	}

	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}

	return nil
}
