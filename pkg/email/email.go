package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"marketing-site/internal/domain"
)

// Config holds SMTP settings. Host, Username and Password are all needed
// for the service to send anything.
type Config struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string // verified sender, may differ from the SMTP login
	ToEmail   string
	SiteName  string
}

// EmailService notifies site staff about new contact submissions via SMTP
type EmailService struct {
	cfg  Config
	tmpl *template.Template
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(cfg Config) *EmailService {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}
	return &EmailService{
		cfg:  cfg,
		tmpl: template.Must(template.New("contact").Parse(contactEmailTemplate)),
		send: smtp.SendMail,
	}
}

// contactEmailTemplate is the HTML template for contact notification emails
const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #667eea; color: white; padding: 20px; text-align: center; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #667eea; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Contact Form Submission</h1></div>
        <div class="field">
            <div class="label">From:</div>
            <div>{{.Name}} ({{.Email}})</div>
        </div>
        {{with .Subject}}<div class="field">
            <div class="label">Subject:</div>
            <div>{{.}}</div>
        </div>{{end}}
        <div class="field">
            <div class="label">Message:</div>
            <div class="message-box">{{.Message}}</div>
        </div>
        <div class="footer">
            <p>Sent from the {{.SiteName}} contact form. Reply to {{.Email}}.</p>
        </div>
    </div>
</body>
</html>`

type templateData struct {
	domain.ContactSubmission
	SiteName string
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

// NotifyContact mails the submission to the configured recipient.
// net/smtp has no context support, so ctx is only checked before dialing.
func (s *EmailService) NotifyContact(ctx context.Context, c *domain.ContactSubmission) error {
	if !s.IsConfigured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildMessage(c)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.FromEmail, []string{s.cfg.ToEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(c *domain.ContactSubmission) ([]byte, error) {
	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, templateData{ContactSubmission: *c, SiteName: s.cfg.SiteName}); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Contact Form: " + c.Name
	if c.Subject != "" {
		subject = "Contact Form: " + c.Subject
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.ToEmail)
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", headerValue(c.Email))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// headerValue strips line breaks so visitor input cannot add headers
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
