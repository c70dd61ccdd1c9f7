package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// formImageField is the multipart field every upload endpoint reads.
const formImageField = "image"

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Save(ctx context.Context, folder string, r io.Reader) (string, error)
}

// saveUpload stores the image posted in formImageField under folder.
func saveUpload(c *gin.Context, up Uploader, folder string) (string, error) {
	fh, err := c.FormFile(formImageField)
	if err != nil {
		return "", fmt.Errorf("missing %q file: %w", formImageField, err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return up.Save(c.Request.Context(), folder, f)
}
