package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// バリエーションのAPI。一覧は公開、CRUDは管理者のみ。
type VariantHandler struct {
	uc *usecase.VariantUsecase
}

// DI
func NewVariantHandler(uc *usecase.VariantUsecase) *VariantHandler {
	return &VariantHandler{uc: uc}
}

func (h *VariantHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.GET("/products/:id/variants", h.list)

	g := e.Group("/admin", authMW, adminMW)
	g.POST("/products/:id/variants", h.add)
	g.PUT("/variants/:id", h.update)
	g.DELETE("/variants/:id", h.delete)
	g.GET("/variants/low-stock", h.lowStock)
}

func (h *VariantHandler) list(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	out, err := h.uc.List(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VariantHandler) add(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req usecase.VariantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Add(c.Request().Context(), productID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *VariantHandler) update(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variant id"})
	}

	var req struct {
		Price decimal.Decimal `json:"price"`
		Stock int64           `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdatePriceStock(c.Request().Context(), variantID, req.Price, req.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VariantHandler) delete(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variant id"})
	}

	if err := h.uc.Delete(c.Request().Context(), variantID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "variant deleted"})
}

func (h *VariantHandler) lowStock(c echo.Context) error {
	threshold, _ := strconv.ParseInt(c.QueryParam("threshold"), 10, 64)

	out, err := h.uc.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
