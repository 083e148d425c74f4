// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"estatehub/internal/config"
)

type IMailService interface {
	SendMailToNotifyUser(
		to, subject, body, ctaText, ctaURL string,
	) error
	SendMailToResetPassword(email, token string) error
	SendInquiryNotification(to string, inquiry InquiryMail) error
}

// SMTPConfig holds SMTP + branding config. UseSSL selects implicit TLS
// (port 465); otherwise STARTTLS is attempted (port 587).
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool

	AppName    string
	AppBaseURL string
}

func SMTPConfigFrom(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		FromName:   cfg.SMTP.FromName,
		UseSSL:     cfg.SMTP.UseSSL,
		RequireTLS: !cfg.IsDevelopment(),
		AppName:    cfg.SMTP.FromName,
		AppBaseURL: cfg.Server.PublicBaseURL,
	}
}

// InquiryMail is what a buyer submitted about a listing.
type InquiryMail struct {
	ListingID    string
	ListingTitle string
	Name         string
	Email        string
	Phone        string
	Message      string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
	// sendFn delivers a rendered message; tests replace it.
	sendFn func(to string, msg []byte) error
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	htmlTpl, err := template.New("mailHTML").Parse(baseHTMLTemplate)
	if err != nil {
		return nil, err
	}
	textTpl, err := texttemplate.New("mailText").Parse(plainTextTemplate)
	if err != nil {
		return nil, err
	}

	s := &smtpMailService{
		cfg:     cfg,
		htmlTpl: htmlTpl,
		textTpl: textTpl,
	}
	s.sendFn = s.deliver
	return s, nil
}

// ------------------- Public API -------------------

// SendMailToNotifyUser sends a plain notice. A ctaURL starting with "/" is
// resolved against the app base URL.
func (s *smtpMailService) SendMailToNotifyUser(
	to, subject, body, ctaText, ctaURL string,
) error {
	if strings.HasPrefix(ctaURL, "/") {
		ctaURL = strings.TrimRight(s.cfg.AppBaseURL, "/") + ctaURL
	}
	return s.sendTemplated(to, EmailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: ctaURL,
		ButtonTxt: ctaText,
	})
}

func (s *smtpMailService) SendMailToResetPassword(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		strings.TrimRight(s.cfg.AppBaseURL, "/"), url.QueryEscape(token), url.QueryEscape(to))

	return s.sendTemplated(to, EmailData{
		Title:     "Reset your password",
		Intro:     "We received a request to reset your password. The link below is valid for 15 minutes. If you didn't request this, you can ignore this email.",
		ButtonURL: link,
		ButtonTxt: "Reset Password",
	})
}

func (s *smtpMailService) SendInquiryNotification(to string, inq InquiryMail) error {
	link := fmt.Sprintf("%s/listings/%s", strings.TrimRight(s.cfg.AppBaseURL, "/"), url.PathEscape(inq.ListingID))

	details := []string{"From: " + inq.Name + " <" + inq.Email + ">"}
	if inq.Phone != "" {
		details = append(details, "Phone: "+inq.Phone)
	}

	return s.sendTemplated(to, EmailData{
		Title:     "New inquiry about " + inq.ListingTitle,
		Intro:     "A buyer has sent a message about your listing.",
		Details:   details,
		Quote:     inq.Message,
		ButtonURL: link,
		ButtonTxt: "View listing",
	})
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	Details   []string
	Quote     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f4f6f8; color: #1f2933; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 32px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e4e7eb; }
    .header { padding: 24px 32px; background: #0b5d3b; color: #ffffff; font-weight: 700; font-size: 20px; letter-spacing: 0.4px; }
    .content { padding: 32px; }
    h1 { margin: 0 0 16px; font-size: 24px; }
    p { margin: 0 0 16px; line-height: 1.6; }
    .details p { margin: 0 0 4px; color: #52606d; }
    blockquote { margin: 16px 0; padding: 12px 16px; border-left: 4px solid #0b5d3b; background: #f0f7f4; white-space: pre-wrap; }
    .btn { display: inline-block; padding: 12px 24px; background: #0b5d3b; color: #ffffff !important; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .muted { color: #7b8794; font-size: 13px; word-break: break-all; }
    .footer { padding: 16px 32px; color: #7b8794; font-size: 13px; text-align: center; border-top: 1px solid #e4e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="content">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .Details}}<div class="details">{{range .Details}}<p>{{.}}</p>{{end}}</div>{{end}}
      {{if .Quote}}<blockquote>{{.Quote}}</blockquote>{{end}}
      {{if .ButtonURL}}
        <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
        <p class="muted">If the button doesn't work, open this link: {{.ButtonURL}}</p>
      {{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{range .Details}}
{{.}}{{end}}
{{if .Quote}}
"{{.Quote}}"
{{end}}
{{if .ButtonURL}}Open this link:
{{.ButtonURL}}
{{end}}
-- {{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) sendTemplated(to string, data EmailData) error {
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()

	html, text, err := s.renderEmail(data)
	if err != nil {
		return err
	}
	return s.sendFn(to, s.buildMessage(to, data.Title, html, text))
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) deliver(to string, msg []byte) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsCfg)
	} else {
		conn, err = (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}
