package handlers

import (
	"fmt"
	"net/http"

	"routine_tracker/internal/domain"
	"routine_tracker/internal/http/middleware"
	"routine_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func userResponse(u *domain.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"date_joined": u.CreatedAt,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, session, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}, requestInfo(c))
	if err != nil {
		respondError(c, err, "A user with that username already exists.")
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully! Welcome to Daily Routine Tracker.",
		"token":   session.Token,
		"user":    userResponse(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, session, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password, requestInfo(c))
	if err != nil {
		respondError(c, err, "")
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome back, %s!", user.Username),
		"token":   session.Token,
		"user":    userResponse(user),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Auth.Logout(c.Request.Context(), claims, requestInfo(c)); err != nil {
		respondError(c, err, "")
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out successfully."})
}

func (h *Handler) setSessionCookie(c *gin.Context, s *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, s.Token, int(h.Auth.SessionTTL().Seconds()), "/", "", h.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.CookieSecure, true)
}
