package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a student self-registration request.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=80"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"nombre_completo" validate:"required"`
	Matricula string `json:"matricula" validate:"required"`
	CareerID  uint   `json:"carrera_id" validate:"required"`
	Phone     string `json:"celular"`
	AltEmail  string `json:"correo_alterno" validate:"omitempty,email"`
}

// ChangePasswordRequest rotates the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"password_actual" validate:"required"`
	NewPassword     string `json:"password_nueva" validate:"required,min=6"`
}

// ForgotPasswordRequest asks for a reset link by alternate email.
type ForgotPasswordRequest struct {
	Email string `json:"correo_alterno" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"password_nueva" validate:"required,min=6"`
}

// Login godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credenciales"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Register godoc
// @Summary Registrar un estudiante
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Datos del estudiante"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, token, err := h.authService.RegisterStudent(c.Request().Context(), service.RegisterStudentInput{
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		Matricula: req.Matricula,
		CareerID:  req.CareerID,
		Phone:     req.Phone,
		AltEmail:  req.AltEmail,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"mensaje":    "estudiante registrado correctamente",
		"estudiante": student,
		"token":      token,
	})
}

// Me godoc
// @Summary Usuario autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "token inválido",
			Code:  "INVALID_TOKEN",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"usuario_id": claims.UserID,
		"username":   claims.Username,
		"rol":        claims.Role,
	})
}

// ChangePassword godoc
// @Summary Cambiar la contraseña propia
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Contraseñas"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := auth.ClaimsFrom(c)
	if err := h.authService.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "contraseña actualizada"})
}

// ForgotPassword godoc
// @Summary Solicitar enlace de recuperación
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Correo alterno"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return httpError(err)
	}
	// same answer whether or not the email exists
	return c.JSON(http.StatusOK, map[string]string{
		"mensaje": "si el correo está registrado, recibirás un enlace de recuperación",
	})
}

// ResetPassword godoc
// @Summary Restablecer contraseña con token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token y contraseña nueva"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "contraseña restablecida"})
}
