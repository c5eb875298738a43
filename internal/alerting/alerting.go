// Package alerting posts webhook alerts when background jobs keep failing.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AlertConfig holds alerting configuration.
type AlertConfig struct {
	// WebhookURL is a generic webhook endpoint (Slack, Discord, or custom)
	WebhookURL string
	// WebhookType determines the payload format: "slack", "discord", or "generic"
	WebhookType string
	// Enabled controls whether alerts are sent
	Enabled bool
	// MinFailuresBeforeAlert is the number of consecutive failures of a job before alerting
	MinFailuresBeforeAlert int
	// Timeout for HTTP requests
	Timeout time.Duration
}

// NewAlertConfig derives a config from a webhook URL, detecting the payload
// format from the host when webhookType is empty.
func NewAlertConfig(webhookURL, webhookType string, minFailures int) AlertConfig {
	cfg := AlertConfig{
		WebhookURL:             webhookURL,
		WebhookType:            webhookType,
		Enabled:                webhookURL != "",
		MinFailuresBeforeAlert: minFailures,
		Timeout:                10 * time.Second,
	}
	if cfg.MinFailuresBeforeAlert < 1 {
		cfg.MinFailuresBeforeAlert = 1
	}
	if cfg.WebhookType == "" {
		switch {
		case strings.Contains(webhookURL, "slack.com"):
			cfg.WebhookType = "slack"
		case strings.Contains(webhookURL, "discord.com"):
			cfg.WebhookType = "discord"
		default:
			cfg.WebhookType = "generic"
		}
	}
	return cfg
}

// Alerter sends alerts to configured webhooks.
type Alerter struct {
	cfg    AlertConfig
	client *http.Client
	log    *zap.Logger

	mu       sync.Mutex
	failures map[string]int
}

// NewAlerter creates a new alerter instance.
func NewAlerter(cfg AlertConfig, log *zap.Logger) *Alerter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Alerter{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log.Named("alerting"),
		failures: make(map[string]int),
	}
}

// JobAlert describes a job that has failed repeatedly.
type JobAlert struct {
	JobName             string
	ConsecutiveFailures int
	Error               string
	Duration            time.Duration
	Timestamp           time.Time
}

// RecordRun tracks consecutive failures per job and sends an alert when a
// job reaches the threshold. A success resets the count.
func (a *Alerter) RecordRun(ctx context.Context, job string, dur time.Duration, runErr error) error {
	a.mu.Lock()
	if runErr == nil {
		delete(a.failures, job)
		a.mu.Unlock()
		return nil
	}
	a.failures[job]++
	n := a.failures[job]
	a.mu.Unlock()

	if n != a.cfg.MinFailuresBeforeAlert {
		return nil
	}
	return a.Send(ctx, JobAlert{
		JobName:             job,
		ConsecutiveFailures: n,
		Error:               runErr.Error(),
		Duration:            dur,
		Timestamp:           time.Now().UTC(),
	})
}

// Send posts one alert.
func (a *Alerter) Send(ctx context.Context, alert JobAlert) error {
	if !a.cfg.Enabled {
		a.log.Debug("alerts disabled, skipping", zap.String("job", alert.JobName))
		return nil
	}

	var payload []byte
	var err error
	switch a.cfg.WebhookType {
	case "slack":
		payload, err = buildSlackPayload(alert)
	case "discord":
		payload, err = buildDiscordPayload(alert)
	default:
		payload, err = buildGenericPayload(alert)
	}
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	a.log.Info("alert sent", zap.String("job", alert.JobName), zap.Int("failures", alert.ConsecutiveFailures))
	return nil
}

func buildSlackPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]string{
					"type": "plain_text",
					"text": fmt.Sprintf(":x: Job failing: %s", alert.JobName),
				},
			},
			{
				"type": "section",
				"fields": []map[string]string{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Consecutive failures:*\n%d", alert.ConsecutiveFailures)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Duration:*\n%s", alert.Duration.Round(time.Millisecond))},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Timestamp:*\n%s", alert.Timestamp.Format(time.RFC3339))},
				},
			},
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Error:*\n```%s```", alert.Error),
				},
			},
		},
	}
	return json.Marshal(payload)
}

func buildDiscordPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{
			{
				"title":       fmt.Sprintf("Job failing: %s", alert.JobName),
				"description": alert.Error,
				"color":       16711680, // red
				"fields": []map[string]interface{}{
					{"name": "Consecutive failures", "value": fmt.Sprintf("%d", alert.ConsecutiveFailures), "inline": true},
					{"name": "Duration", "value": alert.Duration.Round(time.Millisecond).String(), "inline": true},
				},
				"timestamp": alert.Timestamp.Format(time.RFC3339),
			},
		},
	}
	return json.Marshal(payload)
}

func buildGenericPayload(alert JobAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"alert_type":           "job_failure",
		"job_name":             alert.JobName,
		"consecutive_failures": alert.ConsecutiveFailures,
		"error":                alert.Error,
		"duration_ms":          alert.Duration.Milliseconds(),
		"timestamp":            alert.Timestamp.Format(time.RFC3339),
	}
	return json.Marshal(payload)
}
