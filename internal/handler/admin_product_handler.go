package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 商品の管理API（作成・更新・削除・CSV取込）
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.POST("/products", h.add, authMW, adminMW)
	e.PUT("/products/:id", h.update, authMW, adminMW)
	e.DELETE("/products/:id", h.delete, authMW, adminMW)
	e.POST("/products/bulk-upload", h.bulkUpload, authMW, adminMW)
}

// multipartから商品フィールドと画像を読む
func (h *AdminProductHandler) bindProductForm(c echo.Context) (usecase.ProductInput, error) {
	var in usecase.ProductInput

	in.Name = c.FormValue("name")
	in.Description = c.FormValue("description")
	in.SKU = c.FormValue("sku")
	in.Category = c.FormValue("category")
	in.SubCategory = c.FormValue("sub_category")

	if v := c.FormValue("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		in.Price = price
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid stock")
		}
		in.Stock = stock
	}

	form, err := c.MultipartForm()
	if err != nil {
		//画像なしのフォームも許す
		return in, nil
	}

	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid image")
		}
		defer f.Close()
		in.Images = append(in.Images, usecase.ImageUpload{
			Filename: fh.Filename,
			Reader:   f,
		})
	}
	return in, nil
}

func (h *AdminProductHandler) add(c echo.Context) error {
	in, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Add(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	in, err := h.bindProductForm(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// CSVファイル（field名: file）の一括取込
func (h *AdminProductHandler) bulkUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "csv file required"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer f.Close()

	out, err := h.uc.BulkUploadCSV(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
