package product

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productcatalog/internal/domain/upload"
	"productcatalog/internal/pkg/response"
)

const imageField = "image"

// Handler handles product HTTP requests
type Handler struct {
	service *Service
	baseURL string
}

// NewHandler creates product handler. baseURL prefixes derived image URLs.
func NewHandler(service *Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: baseURL}
}

// List handles GET /products
func (h *Handler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.JSON(c, http.StatusOK, NewProductListResponse(products, h.baseURL))
}

// Get handles GET /products/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, NewProductResponse(*p, h.baseURL))
}

// Create handles POST /products (multipart, image required)
func (h *Handler) Create(c *gin.Context) {
	image, ok := formImage(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req, image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, NewProductResponse(*p, h.baseURL))
}

// Update handles PUT /products/:id (multipart, image optional)
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	image, ok := formImage(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req, image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, NewProductResponse(*p, h.baseURL))
}

// Delete handles DELETE /products/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
	case errors.Is(err, ErrImageRequired):
		response.Error(c, http.StatusBadRequest, "IMAGE_REQUIRED", "Image file is required")
	case errors.Is(err, ErrInvalidPrice):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, err.Error(), map[string]string{"Price": "decimal"})
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid product fields", verr.Fields)
	case errors.Is(err, upload.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, err.Error())
	case errors.Is(err, upload.ErrEmptyFile), errors.Is(err, upload.ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
	default:
		response.Internal(c, err)
	}
}

// parseID reads :id. Anything that is not a positive integer cannot name a
// product, so it answers 404 like any other unknown id.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

// formImage returns the optional image file of the request.
func formImage(c *gin.Context) (*multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile(imageField)
	switch {
	case err == nil:
		return fileHeader, true
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, upload.ErrFileTooLarge.Error())
			return nil, false
		}
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart body")
		return nil, false
	}
}
