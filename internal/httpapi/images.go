package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/product"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

const imageField = "image"

type ImageUploader interface {
	UploadImage(ctx context.Context, userID string, img product.ImageUpload, body io.Reader) (string, error)
}

// ImageUploadHandler accepts one product picture as multipart field "image".
type ImageUploadHandler struct {
	Products ImageUploader
}

func NewImageUploadHandler(products ImageUploader) *ImageUploadHandler {
	return &ImageUploadHandler{Products: products}
}

func (h *ImageUploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if utils.GetUserRoleFromContext(ctx) != utils.RoleFarmer {
		utils.WriteJSONError(w, "only farmer accounts can upload product images", http.StatusForbidden)
		return
	}

	// a little headroom for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, product.MaxImageSize+(64<<10))
	if err := r.ParseMultipartForm(product.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteJSONError(w, product.ErrImageTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		utils.WriteJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		utils.WriteJSONError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.Products.UploadImage(ctx, userID, product.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, file)
	switch {
	case err == nil:
	case errors.Is(err, product.ErrInvalidImageType), errors.Is(err, product.ErrImageTooLarge):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, product.ErrStorageDisabled):
		utils.WriteJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	default:
		logger.FromCtx(ctx).Error("image upload failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to upload image", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
