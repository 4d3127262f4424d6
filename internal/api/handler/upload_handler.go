package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// UploadHandler accepts menu images.
type UploadHandler struct {
	uploads ports.UploadService
	log     zerolog.Logger
}

func NewUploadHandler(uploads ports.UploadService, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log}
}

// Upload stores the multipart field "image" and returns its public URL.
//
// @Summary      Upload a menu image
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "JPEG, PNG, GIF or WebP, at most 5 MB"
// @Success      200    {object}  uploadResponse
// @Failure      400    {object}  uploadResponse
// @Failure      500    {object}  uploadResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Error: "No file uploaded"})
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open uploaded file")
		return c.JSON(http.StatusInternalServerError, uploadResponse{Error: "Internal server error during upload"})
	}
	defer f.Close()

	img, err := h.uploads.StoreImage(c.Request().Context(), f, fh.Size)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
			return c.JSON(http.StatusBadRequest, uploadResponse{Error: msg})
		}
		h.log.Error().Err(err).Msg("store uploaded image")
		return c.JSON(http.StatusInternalServerError, uploadResponse{Error: "Internal server error during upload"})
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		ImageURL: img.URL,
		Filename: img.Filename,
		Size:     img.Size,
		Type:     img.ContentType,
		Message:  "File uploaded successfully",
	})
}
