package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/components"
	"github.com/FACorreiaa/fraudguard-console/internal/app/domain"
	"github.com/FACorreiaa/fraudguard-console/internal/app/middleware"
	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
	"github.com/FACorreiaa/fraudguard-console/internal/app/session"
)

const (
	pageTitle = "Users - FraudGuard"
	navName   = "Users"
	listPath  = "/admin/users"
)

type Handler struct {
	*domain.BaseHandler
	service UserService
}

func NewHandler(base *domain.BaseHandler, service UserService) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *Handler) List(c *gin.Context) {
	role := models.Role(c.Query("role"))
	users, err := h.service.ListUsers(c.Request.Context(), role)
	if err != nil {
		h.RenderError(c, pageTitle, navName, err)
		return
	}
	h.RenderPage(c, pageTitle, navName, UsersPage(users, role, selfID(c)))
}

func (h *Handler) New(c *gin.Context) {
	h.RenderPage(c, "New user - FraudGuard", navName, UserForm(FormData{
		Input: models.UserInput{Role: models.RoleAnalyst, Enabled: true},
	}))
}

func (h *Handler) Edit(c *gin.Context) {
	u, err := h.service.GetUser(c.Request.Context(), models.ID(c.Param("id")))
	if err != nil {
		h.RenderError(c, pageTitle, navName, err)
		return
	}
	h.RenderPage(c, "Edit user - FraudGuard", navName, UserForm(FormData{
		ID: u.ID,
		Input: models.UserInput{
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			Enabled:  u.Enabled,
		},
	}))
}

func inputFrom(c *gin.Context) models.UserInput {
	return models.UserInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Role:     models.Role(c.PostForm("role")),
		Enabled:  c.PostForm("enabled") == "on" || c.PostForm("enabled") == "true",
	}
}

func (h *Handler) Create(c *gin.Context) {
	in := inputFrom(c)
	u, err := h.service.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.formError(c, FormData{Input: in}, err)
		return
	}
	h.Logger.Info("Admin created user",
		zap.String("by", session.Current(c).DisplayName()),
		zap.String("username", u.Username))
	h.backToList(c)
}

func (h *Handler) Update(c *gin.Context) {
	id := models.ID(c.Param("id"))
	in := inputFrom(c)
	if _, err := h.service.UpdateUser(c.Request.Context(), id, in); err != nil {
		h.formError(c, FormData{ID: id, Input: in}, err)
		return
	}
	h.backToList(c)
}

// formError re-renders the form with field messages, or a banner for
// backend failures. The password is never echoed back.
func (h *Handler) formError(c *gin.Context, data FormData, err error) {
	data.Input.Password = ""
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		data.Errors = fields
	case domain.StatusFor(err) == http.StatusUnauthorized:
		h.RenderError(c, pageTitle, navName, err)
		return
	default:
		data.Banner = &components.BannerProps{ID: "user-form-error", Type: components.BannerError, Message: domain.MessageFor(err)}
	}
	status := domain.StatusFor(err)
	if middleware.IsHTMX(c) {
		h.Render(c, status, UserForm(data))
		return
	}
	h.RenderPageStatus(c, status, pageTitle, navName, UserForm(data))
}

func (h *Handler) backToList(c *gin.Context) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", listPath)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

// selfID is the signed-in admin's own user id.
func selfID(c *gin.Context) models.ID {
	if s := session.Current(c); s != nil {
		return models.ID(strconv.FormatInt(s.UserID, 10))
	}
	return ""
}

// rowFeedback sends an error meant for a table row to the feedback area
// above the table instead.
func rowFeedback(c *gin.Context) {
	c.Header("HX-Retarget", "#user-feedback")
	c.Header("HX-Reswap", "innerHTML")
}

// Delete removes the row on success. Admins cannot delete themselves.
func (h *Handler) Delete(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if id == selfID(c) {
		rowFeedback(c)
		h.Render(c, http.StatusBadRequest, components.ErrorBanner("request-error", "You cannot delete your own account."))
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		rowFeedback(c)
		h.RenderError(c, pageTitle, navName, err)
		return
	}
	c.Status(http.StatusOK)
}

// Toggle flips the enabled flag and re-renders the row.
func (h *Handler) Toggle(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if id == selfID(c) {
		rowFeedback(c)
		h.Render(c, http.StatusBadRequest, components.ErrorBanner("request-error", "You cannot disable your own account."))
		return
	}
	u, err := h.service.ToggleUser(c.Request.Context(), id)
	if err != nil {
		rowFeedback(c)
		h.RenderError(c, pageTitle, navName, err)
		return
	}
	h.Render(c, http.StatusOK, UserRow(*u, false))
}

// CheckUsername answers the username field's availability hint.
func (h *Handler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		username = c.PostForm("username")
	}
	available, err := h.service.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		h.Logger.Warn("Username check failed", zap.Error(err))
		h.Render(c, http.StatusOK, UsernameHint(username, false, true))
		return
	}
	h.Render(c, http.StatusOK, UsernameHint(username, available, false))
}
