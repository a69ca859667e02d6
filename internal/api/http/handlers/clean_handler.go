package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/dto"
	"github.com/Zia-11/web-project/internal/clean"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// CleanHandler exposes the request-cleaning endpoints: query validation,
// HTML sanitization and file upload.
type CleanHandler struct {
	uploader *clean.Uploader
}

// NewCleanHandler constructs handler.
func NewCleanHandler(uploader *clean.Uploader) *CleanHandler {
	return &CleanHandler{uploader: uploader}
}

// ValidateQuery handles GET /clean/validate-query.
func (h *CleanHandler) ValidateQuery(c *fiber.Ctx) error {
	params, err := clean.ValidateQuery(c.Query("name"), c.Query("age"))
	if err != nil {
		return err
	}
	return c.JSON(params)
}

// Sanitize handles POST /clean/sanitize.
func (h *CleanHandler) Sanitize(c *fiber.Ctx) error {
	var req dto.SanitizeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RawHTML == "" {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"raw_html": {"this field is required"},
		}))
	}
	return c.JSON(dto.SanitizeResponse{CleanedText: clean.SanitizeHTML(req.RawHTML)})
}

// UploadFile handles POST /clean/upload-file.
func (h *CleanHandler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"file": {"this field is required"},
		}))
	}

	stored, err := h.uploader.Accept(header)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FileUploadResponse{
		FileURL: c.BaseURL() + stored.URL,
	})
}
