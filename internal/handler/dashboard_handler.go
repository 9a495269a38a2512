package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ダッシュボードと監査ログのAPI（管理者のみ）
type DashboardHandler struct {
	dashboardUC *usecase.DashboardUsecase
	auditUC     *usecase.AuditLogUsecase
}

// DI
func NewDashboardHandler(
	dashboardUC *usecase.DashboardUsecase,
	auditUC *usecase.AuditLogUsecase,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC: dashboardUC,
		auditUC:     auditUC,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.GET("/admin/dashboard", h.summary, authMW, adminMW)
	e.GET("/admin/audit-logs", h.auditLogs, authMW, adminMW)
}

func (h *DashboardHandler) summary(c echo.Context) error {
	out, err := h.dashboardUC.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) auditLogs(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.auditUC.List(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
