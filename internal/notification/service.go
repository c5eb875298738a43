// Package notification emails quote confirmations to the submitting contact.
package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/storage"
)

// ErrNotConfigured is returned by SendEmail when no enabled config exists.
var ErrNotConfigured = errors.New("email not configured or disabled")

type sendFunc func(cfg *storage.EmailConfig, to, subject, htmlBody, textBody string) error

type Service struct {
	storage  storage.Storage
	fallback *storage.EmailConfig
	log      *zap.Logger
	send     sendFunc
}

// NewService returns a Service reading its provider config from storage.
// fallback, when non-nil, is used while storage holds no config.
func NewService(s storage.Storage, fallback *storage.EmailConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Service{storage: s, fallback: fallback, log: log}
	svc.send = svc.dispatch
	return svc
}

// EnvConfig builds a SendGrid config from an API key and sender address.
// It returns nil when either is empty.
func EnvConfig(apiKey, from string) *storage.EmailConfig {
	if apiKey == "" || from == "" {
		return nil
	}
	return &storage.EmailConfig{
		ID:          "env",
		Provider:    "sendgrid",
		APIKey:      apiKey,
		FromAddress: from,
		FromName:    "Quote Manager",
		Enabled:     true,
	}
}

func (s *Service) GetConfig(ctx context.Context) (*storage.EmailConfig, error) {
	cfg, err := s.storage.GetEmailConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return s.fallback, nil
	}
	return cfg, nil
}

func (s *Service) SaveConfig(ctx context.Context, cfg storage.EmailConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	return s.storage.SaveEmailConfig(ctx, cfg)
}

func (s *Service) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return err
	}
	if cfg == nil || !cfg.Enabled {
		return ErrNotConfigured
	}
	return s.send(cfg, to, subject, htmlBody, textBody)
}

// TestConfig sends a test message with cfg without saving it.
func (s *Service) TestConfig(ctx context.Context, cfg storage.EmailConfig, to string) error {
	body := "Ceci est un message de test du gestionnaire de devis."
	return s.send(&cfg, to, "Test email", "<p>"+body+"</p>", body)
}

func (s *Service) dispatch(cfg *storage.EmailConfig, to, subject, htmlBody, textBody string) error {
	switch cfg.Provider {
	case "smtp":
		return sendSMTP(cfg, to, subject, htmlBody)
	case "sendgrid":
		return sendSendgrid(cfg, to, subject, htmlBody, textBody)
	default:
		return fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// NotifySubmission emails the quote summary to the submission's contact.
// Missing contact address or disabled email is not an error.
func (s *Service) NotifySubmission(ctx context.Context, sub storage.Submission) error {
	if sub.ContactEmail == "" {
		return nil
	}
	subject, htmlBody, textBody, err := renderSubmission(sub)
	if err != nil {
		return err
	}
	err = s.SendEmail(ctx, sub.ContactEmail, subject, htmlBody, textBody)
	if errors.Is(err, ErrNotConfigured) {
		s.log.Debug("email disabled, skipping submission notice", zap.String("submission", sub.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("send submission notice: %w", err)
	}
	s.log.Info("submission notice sent", zap.String("submission", sub.ID))
	return nil
}

// summaryView is the subset of a stored summary the email shows.
type summaryView struct {
	CatalogName string   `json:"catalog_name"`
	Currency    string   `json:"currency"`
	Geographic  []string `json:"geographic"`
	Activities  []string `json:"activities"`
	Term        string   `json:"term"`
	Breakdown   struct {
		GeographicSubtotal string `json:"geographic_subtotal"`
		ActivitySubtotal   string `json:"activity_subtotal"`
		BundleDiscount     string `json:"bundle_discount"`
		TermDiscount       string `json:"term_discount"`
		Total              string `json:"total"`
	} `json:"breakdown"`
}

var submissionTmpl = template.Must(template.New("submission").Parse(`<p>Bonjour {{.Name}},</p>
<p>Votre demande de devis {{.ID}} ({{.Summary.CatalogName}}) a bien été enregistrée.</p>
<table>
<tr><td>Départements</td><td>{{range $i, $c := .Summary.Geographic}}{{if $i}}, {{end}}{{$c}}{{end}}</td></tr>
<tr><td>Activités</td><td>{{range $i, $a := .Summary.Activities}}{{if $i}}, {{end}}{{$a}}{{end}}</td></tr>
<tr><td>Sous-total zones</td><td>{{.Summary.Breakdown.GeographicSubtotal}} {{.Summary.Currency}}</td></tr>
<tr><td>Sous-total activités</td><td>{{.Summary.Breakdown.ActivitySubtotal}} {{.Summary.Currency}}</td></tr>
<tr><td>Remise pack</td><td>-{{.Summary.Breakdown.BundleDiscount}} {{.Summary.Currency}}</td></tr>
<tr><td>Remise engagement</td><td>-{{.Summary.Breakdown.TermDiscount}} {{.Summary.Currency}}</td></tr>
<tr><td><b>Total ({{.Summary.Term}})</b></td><td><b>{{.Summary.Breakdown.Total}} {{.Summary.Currency}}</b></td></tr>
</table>`))

func renderSubmission(sub storage.Submission) (subject, htmlBody, textBody string, err error) {
	var sum summaryView
	if err := json.Unmarshal(sub.Payload, &sum); err != nil {
		return "", "", "", fmt.Errorf("decode submission payload: %w", err)
	}
	if sum.Currency == "" {
		sum.Currency = "EUR"
	}
	name := sub.ContactName
	if name == "" {
		name = sub.ContactEmail
	}

	var buf bytes.Buffer
	if err := submissionTmpl.Execute(&buf, struct {
		ID      string
		Name    string
		Summary summaryView
	}{sub.ID, name, sum}); err != nil {
		return "", "", "", fmt.Errorf("render submission notice: %w", err)
	}

	subject = fmt.Sprintf("Votre devis %s : %s %s", sum.CatalogName, sub.Total, sum.Currency)
	textBody = fmt.Sprintf("Devis %s enregistré. Total (%s) : %s %s", sub.ID, sub.Term, sub.Total, sum.Currency)
	return subject, buf.String(), textBody, nil
}

func sendSMTP(cfg *storage.EmailConfig, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", cfg.FromName, cfg.FromAddress, to, subject, body))

	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return err
		}
	}
	if cfg.Username != "" && cfg.Password != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(cfg.FromAddress); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func sendSendgrid(cfg *storage.EmailConfig, to, subject, htmlBody, textBody string) error {
	from := mail.NewEmail(cfg.FromName, cfg.FromAddress)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, textBody, htmlBody)
	client := sendgrid.NewSendClient(cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}
