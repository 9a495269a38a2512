package handler

import (
	"errors"
	"net/http"

	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /auth のAPI
type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	otpUC      *auth.OtpUsecase
	resetUC    *auth.PasswordResetUsecase
	googleUC   *auth.GoogleLoginUsecase
}

// DI
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	otpUC *auth.OtpUsecase,
	resetUC *auth.PasswordResetUsecase,
	googleUC *auth.GoogleLoginUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		otpUC:      otpUC,
		resetUC:    resetUC,
		googleUC:   googleUC,
	}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/send-otp/:phone", h.sendOtp)
	g.POST("/resend-otp/:phone", h.sendOtp)
	g.POST("/verify-otp", h.verifyOtp)
	g.POST("/admin/register", h.adminRegister)
	g.POST("/admin/login", h.adminLogin)
	g.POST("/google", h.googleLogin)
	g.POST("/forgot-password", h.forgotPassword)
	g.POST("/reset-password", h.resetPassword)
}

// authパッケージのエラーをHTTPステータスへ
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPhoneRequired),
		errors.Is(err, auth.ErrOtpExpired),
		errors.Is(err, auth.ErrOtpMismatch),
		errors.Is(err, auth.ErrInvalidResetToken):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrEmailAlreadyExists),
		errors.Is(err, auth.ErrPhoneAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidGoogleToken):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrNotVerified),
		errors.Is(err, auth.ErrUserDeactivated),
		errors.Is(err, auth.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func (h *AuthHandler) register(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) adminRegister(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.ExecuteAdmin(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) adminLogin(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.ExecuteAdmin(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) sendOtp(c echo.Context) error {
	phone := c.Param("phone")
	if phone == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone required"})
	}

	if err := h.otpUC.Send(c.Request().Context(), phone); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "otp sent"})
}

func (h *AuthHandler) verifyOtp(c echo.Context) error {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.otpUC.Verify(c.Request().Context(), req.Phone, req.Code); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "phone verified"})
}

func (h *AuthHandler) googleLogin(c echo.Context) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.googleUC.Execute(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.resetUC.Forgot(c.Request().Context(), req.Email); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "reset mail sent"})
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.resetUC.Reset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "password updated"})
}
