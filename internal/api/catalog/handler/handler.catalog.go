// Package cataloghdl - handler HTTP cho domain catalog (sản phẩm và sản phẩm nổi bật).
package cataloghdl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	basehdl "ish_admin/internal/api/base/handler"
	basesvc "ish_admin/internal/api/base/service"
	catalogdto "ish_admin/internal/api/catalog/dto"
	catalogmodels "ish_admin/internal/api/catalog/models"
	catalogsvc "ish_admin/internal/api/catalog/service"
	"ish_admin/internal/common"
	"ish_admin/internal/global"
	"ish_admin/internal/logger"
	"ish_admin/internal/storage"
)

// CatalogHandler xử lý các route catalog: lấy danh sách flatten, thêm/xóa/sửa biến thể.
// Embed BaseHandler để có sẵn các route CRUD thô trên collection sản phẩm (admin).
type CatalogHandler struct {
	*basehdl.BaseHandler[catalogmodels.CategoryDocument, catalogdto.AddVariantInput, catalogdto.UpdateVariantInput]
	projector *catalogsvc.Projector
	writer    *catalogsvc.Writer
}

// NewCatalogHandler tạo CatalogHandler với BlobStore được inject từ init
func NewCatalogHandler(blobs storage.BlobStore) (*CatalogHandler, error) {
	productCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %v", common.ErrNotFound)
	}

	store := catalogsvc.NewMongoRecordStore()
	baseService := basesvc.NewBaseServiceMongo[catalogmodels.CategoryDocument](productCollection)

	return &CatalogHandler{
		BaseHandler: basehdl.NewBaseHandler[catalogmodels.CategoryDocument, catalogdto.AddVariantInput, catalogdto.UpdateVariantInput](baseService),
		projector:   catalogsvc.NewProjector(store, blobs),
		writer:      catalogsvc.NewWriter(store, blobs),
	}, nil
}

// HandleFetchProducts trả về danh sách sản phẩm đã flatten (một dòng một biến thể)
// @Router /api/fetchProducts [get]
func (h *CatalogHandler) HandleFetchProducts(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		rows, err := h.projector.Snapshot(c.Context(), global.MongoDB_ColNames.Products)
		h.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleFetchPopularProducts trả về danh sách sản phẩm nổi bật đã flatten
// @Router /api/fetchPopularProducts [get]
func (h *CatalogHandler) HandleFetchPopularProducts(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		rows, err := h.projector.Snapshot(c.Context(), global.MongoDB_ColNames.PopularProducts)
		h.HandleResponse(c, rows, err)
		return nil
	})
}

// HandleAddProduct thêm một biến thể sản phẩm.
// Nhận multipart/form-data (có file ảnh "image") hoặc JSON body.
// @Router /api/addProduct [post]
func (h *CatalogHandler) HandleAddProduct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input, err := h.parseAddVariantInput(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		doc, err := h.writer.AddVariant(c.Context(), global.MongoDB_ColNames.Products, input)
		if err == nil {
			logger.LogCatalog("add_variant", global.MongoDB_ColNames.Products, input.Category, c, nil)
		}
		h.HandleResponse(c, doc, err)
		return nil
	})
}

// HandleDeleteProduct xóa một biến thể theo synthetic id + model
// @Router /api/deleteProduct [post]
func (h *CatalogHandler) HandleDeleteProduct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.DeleteVariantInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		doc, err := h.writer.DeleteVariant(c.Context(), global.MongoDB_ColNames.Products, input.ID, input.Model)
		if err == nil {
			logger.LogCatalog("delete_variant", global.MongoDB_ColNames.Products, doc.Category, c, nil)
		}
		h.HandleResponse(c, doc, err)
		return nil
	})
}

// HandleUpdateProduct sửa tại chỗ các field của một biến thể
// @Router /api/updateProduct [put]
func (h *CatalogHandler) HandleUpdateProduct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.UpdateVariantInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		doc, err := h.writer.UpdateVariant(c.Context(), global.MongoDB_ColNames.Products, &input)
		if err == nil {
			logger.LogCatalog("update_variant", global.MongoDB_ColNames.Products, doc.Category, c, nil)
		}
		h.HandleResponse(c, doc, err)
		return nil
	})
}

// HandleAddPopularProduct thêm sản phẩm nổi bật (productid tự gán max+1, luôn tạo document mới)
// @Router /api/addPopularProduct [post]
func (h *CatalogHandler) HandleAddPopularProduct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		addInput, err := h.parseAddVariantInput(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		input := &catalogdto.AddPopularInput{
			Category:    addInput.Category,
			Model:       addInput.Model,
			Description: addInput.Description,
			Points:      addInput.Points,
			Price:       addInput.Price,
			Quantity:    addInput.Quantity,
			ImageData:   addInput.ImageData,
			ImageName:   addInput.ImageName,
			ImageURL:    addInput.ImageURL,
		}

		doc, err := h.writer.AddPopular(c.Context(), global.MongoDB_ColNames.PopularProducts, input)
		if err == nil {
			logger.LogCatalog("add_popular", global.MongoDB_ColNames.PopularProducts, input.Category, c, nil)
		}
		h.HandleResponse(c, doc, err)
		return nil
	})
}

// HandleDeletePopularProduct xóa một biến thể khỏi sản phẩm nổi bật
// @Router /api/deletePopularProduct [post]
func (h *CatalogHandler) HandleDeletePopularProduct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input catalogdto.DeleteVariantInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		doc, err := h.writer.DeleteVariant(c.Context(), global.MongoDB_ColNames.PopularProducts, input.ID, input.Model)
		if err == nil {
			logger.LogCatalog("delete_popular", global.MongoDB_ColNames.PopularProducts, doc.Category, c, nil)
		}
		h.HandleResponse(c, doc, err)
		return nil
	})
}

// parseAddVariantInput đọc AddVariantInput từ multipart form (kèm file ảnh) hoặc JSON body
func (h *CatalogHandler) parseAddVariantInput(c fiber.Ctx) (*catalogdto.AddVariantInput, error) {
	contentType := string(c.Request().Header.ContentType())

	var input catalogdto.AddVariantInput
	if strings.HasPrefix(contentType, "multipart/form-data") {
		input.Category = c.FormValue("category")
		input.Model = c.FormValue("model")
		input.Description = c.FormValue("description")
		input.Points = parseFormInt64(c.FormValue("points"))
		input.Price = parseFormFloat64(c.FormValue("price"))
		input.ProductID = parseFormInt64(c.FormValue("productid"))
		input.Quantity = parseFormInt64(c.FormValue("quantity"))
		input.ImageURL = c.FormValue("imageUrl")

		if file, err := c.FormFile("image"); err == nil && file != nil {
			f, err := file.Open()
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, "Không đọc được file ảnh", common.StatusBadRequest, err)
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, "Không đọc được file ảnh", common.StatusBadRequest, err)
			}
			input.ImageData = data
			input.ImageName = file.Filename
		}
	} else {
		if err := h.ParseRequestBody(c, &input); err != nil {
			return nil, err
		}
	}

	if err := global.Validate.Struct(&input); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return &input, nil
}

func parseFormInt64(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}

func parseFormFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
