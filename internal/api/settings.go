package api

import (
	"net/http"
	"strings"

	"github.com/bher20/quotemanager/internal/cron"
	"github.com/bher20/quotemanager/internal/storage"
)

// RefreshIntervalRequest sets the catalog refresh interval.
type RefreshIntervalRequest struct {
	Interval string `json:"interval"`
}

// EmailConfigRequest is the writable form of storage.EmailConfig. Empty
// secrets keep the stored value.
type EmailConfigRequest struct {
	Provider    string `json:"provider"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	APIKey      string `json:"api_key,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// EmailTestRequest sends a test message to To.
type EmailTestRequest struct {
	EmailConfigRequest
	To string `json:"to"`
}

func (req EmailConfigRequest) apply(cfg storage.EmailConfig) storage.EmailConfig {
	cfg.Provider = req.Provider
	cfg.Host = req.Host
	cfg.Port = req.Port
	cfg.Username = req.Username
	cfg.FromAddress = req.FromAddress
	cfg.FromName = req.FromName
	cfg.Enabled = req.Enabled
	if req.Password != "" {
		cfg.Password = req.Password
	}
	if req.APIKey != "" {
		cfg.APIKey = req.APIKey
	}
	return cfg
}

func validProvider(p string) bool {
	return p == "smtp" || p == "sendgrid"
}

// getRefreshInterval returns the stored refresh interval override
// @Summary Get the catalog refresh interval
// @Tags settings
// @Produce json
// @Success 200 {object} RefreshIntervalRequest
// @Router /api/v1/settings/refresh-interval [get]
func (s *server) getRefreshInterval(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "settings are not stored")
		return
	}
	val, err := s.store.GetSetting(r.Context(), cron.RefreshIntervalSetting)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshIntervalRequest{Interval: val})
}

// putRefreshInterval stores a new refresh interval; the worker picks it up within a minute
// @Summary Set the catalog refresh interval
// @Tags settings
// @Accept json
// @Produce json
// @Param request body RefreshIntervalRequest true "Seconds or cron expression"
// @Success 200 {object} RefreshIntervalRequest
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/settings/refresh-interval [put]
func (s *server) putRefreshInterval(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "settings are not stored")
		return
	}
	var req RefreshIntervalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Interval = strings.TrimSpace(req.Interval)
	if _, err := cron.ParseInterval(req.Interval); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.SetSetting(r.Context(), cron.RefreshIntervalSetting, req.Interval); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// getEmailConfig returns the email provider configuration without secrets
// @Summary Get email settings
// @Tags settings
// @Produce json
// @Success 200 {object} storage.EmailConfig
// @Router /api/v1/settings/email [get]
func (s *server) getEmailConfig(w http.ResponseWriter, r *http.Request) {
	if s.notif == nil {
		writeError(w, http.StatusNotFound, "email is not available")
		return
	}
	cfg, err := s.notif.GetConfig(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if cfg == nil {
		cfg = &storage.EmailConfig{}
	}
	writeJSON(w, http.StatusOK, cfg)
}

// putEmailConfig saves the email provider configuration
// @Summary Update email settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body EmailConfigRequest true "Email settings"
// @Success 200 {object} storage.EmailConfig
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/settings/email [put]
func (s *server) putEmailConfig(w http.ResponseWriter, r *http.Request) {
	if s.notif == nil {
		writeError(w, http.StatusNotFound, "email is not available")
		return
	}
	var req EmailConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validProvider(req.Provider) {
		writeError(w, http.StatusUnprocessableEntity, "provider must be smtp or sendgrid")
		return
	}

	current, err := s.notif.GetConfig(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	var base storage.EmailConfig
	if current != nil && current.ID != "env" {
		base = *current
	}
	cfg := req.apply(base)
	if err := s.notif.SaveConfig(r.Context(), cfg); err != nil {
		s.writeErr(w, err)
		return
	}
	saved, err := s.notif.GetConfig(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// testEmailConfig sends a test email with the given settings
// @Summary Send a test email
// @Tags settings
// @Accept json
// @Param request body EmailTestRequest true "Settings and recipient"
// @Success 204
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/settings/email/test [post]
func (s *server) testEmailConfig(w http.ResponseWriter, r *http.Request) {
	if s.notif == nil {
		writeError(w, http.StatusNotFound, "email is not available")
		return
	}
	var req EmailTestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || !validProvider(req.Provider) {
		writeError(w, http.StatusUnprocessableEntity, "to and a valid provider are required")
		return
	}
	if err := s.notif.TestConfig(r.Context(), req.apply(storage.EmailConfig{}), req.To); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
