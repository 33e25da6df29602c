package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"social-feed/internal/service"
)

const pictureField = "picture"

var pictureExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// savePicture stores the optional "picture" file of a multipart request and
// returns its key. Requests without a picture return an empty key.
func (h *Handler) savePicture(c *gin.Context) (string, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return "", nil
	}
	header, err := c.FormFile(pictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		if tooLarge := bodyTooLarge(err); tooLarge != nil {
			return "", tooLarge
		}
		return "", service.ValidationError("read picture: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := pictureExtensions[ext]; !ok {
		return "", service.ValidationError("picture must be a jpg, jpeg, png, gif or webp image")
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return "", service.ValidationError("picture exceeds %d bytes", h.maxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open picture: %w", err)
	}
	defer file.Close()

	key, err := h.storage.Save(c.Request.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}
	return key, nil
}

// discardPicture removes an upload whose owning record was never stored.
func (h *Handler) discardPicture(c *gin.Context, key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 10*time.Second)
	defer cancel()
	if err := h.storage.Delete(ctx, key); err != nil {
		h.logger.WithField("key", key).WithError(err).Warn("discard picture")
	}
}
