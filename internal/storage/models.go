package storage

import "time"

// CatalogRecord stores a catalog as an opaque JSON payload.
type CatalogRecord struct {
	Key       string    `json:"key" gorm:"primaryKey;column:key"`
	Name      string    `json:"name" gorm:"column:name"`
	Vertical  string    `json:"vertical" gorm:"column:vertical"`
	Payload   []byte    `json:"payload" gorm:"column:payload"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (CatalogRecord) TableName() string { return "catalogs" }

// Submission is a confirmed quote summary handed off to the platform.
type Submission struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id"`
	SessionID    string    `json:"session_id" gorm:"column:session_id"`
	CatalogKey   string    `json:"catalog_key" gorm:"column:catalog_key"`
	Term         string    `json:"term" gorm:"column:term"`
	Total        string    `json:"total" gorm:"column:total"`
	ContactName  string    `json:"contact_name,omitempty" gorm:"column:contact_name"`
	ContactEmail string    `json:"contact_email,omitempty" gorm:"column:contact_email"`
	Payload      []byte    `json:"payload" gorm:"column:payload"`
	SubmittedAt  time.Time `json:"submitted_at" gorm:"column:submitted_at"`
}

func (Submission) TableName() string { return "submissions" }

// Setting is a key/value override for runtime configuration.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Setting) TableName() string { return "settings" }

// ScheduledJob records the last run of a background job.
type ScheduledJob struct {
	Name           string    `gorm:"primaryKey;column:name"`
	LastRunAt      time.Time `gorm:"column:last_run_at"`
	LastDurationMs int64     `gorm:"column:last_duration_ms"`
	LastSuccess    int       `gorm:"column:last_success"`
	LastError      string    `gorm:"column:last_error"`
}

func (ScheduledJob) TableName() string { return "scheduled_jobs" }

// EmailConfig holds configuration for email notifications.
type EmailConfig struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id"`
	Provider    string    `json:"provider" gorm:"column:provider"` // "smtp", "sendgrid"
	Host        string    `json:"host,omitempty" gorm:"column:host"`
	Port        int       `json:"port,omitempty" gorm:"column:port"`
	Username    string    `json:"username,omitempty" gorm:"column:username"`
	Password    string    `json:"-" gorm:"column:password"`
	FromAddress string    `json:"from_address" gorm:"column:from_address"`
	FromName    string    `json:"from_name" gorm:"column:from_name"`
	APIKey      string    `json:"-" gorm:"column:api_key"` // For Sendgrid
	Enabled     bool      `json:"enabled" gorm:"column:enabled"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (EmailConfig) TableName() string { return "email_config" }
