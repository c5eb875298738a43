package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bher20/quotemanager/internal/storage"
)

type sent struct {
	to, subject, html, text string
}

func newTestService(t *testing.T, fallback *storage.EmailConfig) (*Service, *[]sent) {
	t.Helper()
	var out []sent
	svc := NewService(storage.NewMemory(), fallback, nil)
	svc.send = func(_ *storage.EmailConfig, to, subject, html, text string) error {
		out = append(out, sent{to, subject, html, text})
		return nil
	}
	return svc, &out
}

func submission() storage.Submission {
	return storage.Submission{
		ID:           "sub-1",
		Term:         "monthly",
		Total:        "8070",
		ContactName:  "Ada",
		ContactEmail: "ada@example.com",
		Payload: []byte(`{"catalog_name":"Construction","currency":"EUR","geographic":["75","92"],
			"activities":["gros-oeuvre"],"term":"monthly","breakdown":{"total":"8070","bundle_discount":"570"}}`),
	}
}

func TestNotifySubmission_Disabled(t *testing.T) {
	svc, out := newTestService(t, nil)
	if err := svc.NotifySubmission(context.Background(), submission()); err != nil {
		t.Fatalf("disabled email must be a no-op, got %v", err)
	}
	if len(*out) != 0 {
		t.Errorf("nothing should have been sent")
	}
}

func TestNotifySubmission_Renders(t *testing.T) {
	svc, out := newTestService(t, EnvConfig("key", "devis@example.com"))
	if err := svc.NotifySubmission(context.Background(), submission()); err != nil {
		t.Fatalf("NotifySubmission: %v", err)
	}
	if len(*out) != 1 {
		t.Fatalf("sent %d emails, want 1", len(*out))
	}
	m := (*out)[0]
	if m.to != "ada@example.com" {
		t.Errorf("to = %q", m.to)
	}
	if !strings.Contains(m.subject, "8070 EUR") {
		t.Errorf("subject = %q", m.subject)
	}
	for _, want := range []string{"Bonjour Ada", "75, 92", "gros-oeuvre", "-570 EUR"} {
		if !strings.Contains(m.html, want) {
			t.Errorf("html body missing %q:\n%s", want, m.html)
		}
	}
}

func TestNotifySubmission_NoContact(t *testing.T) {
	svc, out := newTestService(t, EnvConfig("key", "devis@example.com"))
	sub := submission()
	sub.ContactEmail = ""
	if err := svc.NotifySubmission(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*out) != 0 {
		t.Errorf("no email expected without a contact address")
	}
}

func TestStoredConfigOverridesFallback(t *testing.T) {
	svc, _ := newTestService(t, EnvConfig("key", "devis@example.com"))
	ctx := context.Background()
	if err := svc.SaveConfig(ctx, storage.EmailConfig{Provider: "smtp", Host: "mail", Port: 25, FromAddress: "x@example.com"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	cfg, err := svc.GetConfig(ctx)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Provider != "smtp" || cfg.ID == "" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if err := svc.SendEmail(ctx, "a@example.com", "s", "h", "t"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("stored disabled config must win over fallback, got %v", err)
	}
}

func TestEnvConfig(t *testing.T) {
	if EnvConfig("", "a@example.com") != nil || EnvConfig("k", "") != nil {
		t.Errorf("incomplete env config must be nil")
	}
}
