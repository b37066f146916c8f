package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Swarnab2026/colour-shop/internal/service"
	"github.com/Swarnab2026/colour-shop/pkg/logger"
)

// AdminHandler serves login and the one-time account bootstrap.
type AdminHandler struct {
	admins service.AdminService
}

// NewAdminHandler returns a handler backed by the given service.
func NewAdminHandler(admins service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// loginRequest carries the submitted admin credentials.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login verifies the credentials and confirms the username. No session or
// token is issued here.
func (h *AdminHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid login payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	username, err := h.admins.VerifyLogin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"username": username})
}

// Bootstrap creates the admin account once; re-runs are rejected.
func (h *AdminHandler) Bootstrap(c echo.Context) error {
	log := logger.FromContext(c)

	admin, err := h.admins.Bootstrap(c.Request().Context())
	if err != nil {
		log.Warn("Admin bootstrap rejected", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Admin account bootstrapped", zap.String("username", admin.Username))
	return c.JSON(http.StatusCreated, echo.Map{
		"username": admin.Username,
		"message":  "Admin account created",
	})
}
