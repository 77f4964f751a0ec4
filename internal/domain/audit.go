package domain

import "time"

// AuditLog represents an audit log entry for tracking account and task actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth = "auth"
	AuditCategoryTask = "task"
)

// Audit actions
const (
	// Auth actions
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"

	// Task actions
	AuditActionTaskCreate = "task_create"
	AuditActionTaskUpdate = "task_update"
	AuditActionTaskToggle = "task_toggle"
	AuditActionTaskDelete = "task_delete"
)
