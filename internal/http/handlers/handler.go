package handlers

import (
	"routine_tracker/internal/service"
)

type Handler struct {
	Tasks        *service.TaskService
	Auth         *service.AuthService
	Audit        *service.AuditService
	CookieSecure bool
}

func NewHandler(tasks *service.TaskService, auth *service.AuthService, audit *service.AuditService, cookieSecure bool) *Handler {
	return &Handler{
		Tasks:        tasks,
		Auth:         auth,
		Audit:        audit,
		CookieSecure: cookieSecure,
	}
}
