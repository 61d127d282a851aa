package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"partnerz-backend/config"
)

var ErrNotConfigured = errors.New("email: SMTP not configured")

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// PartnershipRequestData fills the connect request notification.
type PartnershipRequestData struct {
	RecipientName string
	RequesterName string
	RequesterRole string // "SaaS company" or "affiliate partner"
	ReviewURL     string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		send:      smtp.SendMail,
	}
}

var partnershipRequestTemplate = template.Must(template.New("partnership_request").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New partnership request</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1E3A5F; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; padding: 10px 20px; background: #1E3A5F; color: white; text-decoration: none; border-radius: 4px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New partnership request</h1>
        </div>
        <div class="content">
            <p>Hi {{if .RecipientName}}{{.RecipientName}}{{else}}there{{end}},</p>
            <p><strong>{{.RequesterName}}</strong> ({{.RequesterRole}}) wants to partner with you on Partnerz.ai.</p>
            <p><a class="button" href="{{.ReviewURL}}">Review request</a></p>
        </div>
        <div class="footer">
            <p>You received this email because you have an account on Partnerz.ai.</p>
        </div>
    </div>
</body>
</html>`))

// SendPartnershipRequest tells the counterpart about a pending connect request
func (s *EmailService) SendPartnershipRequest(to string, data PartnershipRequestData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	if err := partnershipRequestTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := headerSafe(fmt.Sprintf("%s wants to partner with you", data.RequesterName))
	to = headerSafe(to)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

var headerReplacer = strings.NewReplacer("\r", "", "\n", "")

// headerSafe strips line breaks so user-supplied names cannot add headers.
func headerSafe(v string) string {
	return headerReplacer.Replace(v)
}
