package handlers

import (
	"net/http"

	"OdontoSystem/apperrors"
	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth  *services.AuthService
	users services.UserService
}

func NewAuthHandler(auth *services.AuthService, users services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, result, http.StatusOK)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)
	if !ok {
		middlewares.HttpError(c, apperrors.Unauthorized("authentication required"))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) GetUserProfile(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, apperrors.Unauthorized("authentication required"))
		return
	}
	profile, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, profile, http.StatusOK)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, apperrors.Unauthorized("authentication required"))
		return
	}
	var input models.ChangePasswordInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), userID, input); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "password updated"}, http.StatusOK)
}

func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if !middlewares.BindJSON(c, &input) {
		return
	}
	if err := h.auth.SendResetCode(c.Request.Context(), input.Email); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "if the address belongs to an account, a reset code has been sent"}, http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input models.ResetPasswordInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), input); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "password updated"}, http.StatusOK)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, users, http.StatusOK)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var input models.NewUserInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, user, http.StatusCreated)
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	actorID, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	var input models.UserUpdateInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), actorID, c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, user, http.StatusOK)
}

// DeactivateUser disables an account; users are never deleted.
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	actorID, _ := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err := h.users.Deactivate(c.Request.Context(), actorID, c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
