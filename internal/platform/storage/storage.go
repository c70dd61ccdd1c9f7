package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/tool"
)

var (
	ErrTooLarge = errors.New("file exceeds the upload limit")
	ErrNotImage = errors.New("file is not an image")
)

// Folders used for the different upload kinds.
const (
	FolderServiceThumbnails = "service_thumbnails"
	FolderServiceImages     = "service_images"
	FolderSupplierLogos     = "supplier_logos"
	FolderIDCards           = "id_cards"
	FolderFaceIDs           = "face_ids"
	FolderPostImages        = "posts_images"
)

// Backend writes an object and returns the public URL it is served from.
type Backend interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Images validates uploads and hands them to a Backend.
type Images struct {
	backend  Backend
	maxBytes int64
	logger   *zap.SugaredLogger
}

func NewImages(backend Backend, maxBytes int64, l *zap.SugaredLogger) *Images {
	return &Images{backend: backend, maxBytes: maxBytes, logger: l}
}

// Save stores r under folder after checking its size and sniffed MIME type,
// and returns the URL of the stored file.
func (s *Images) Save(ctx context.Context, folder string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}
	key := path.Join(folder, tool.GenerateUUIDV7()+mt.Extension())
	url, err := s.backend.Put(ctx, key, data, mt.String())
	if err != nil {
		logctx.FromCtx(ctx, s.logger).Errorw("store upload failed", "key", key, "err", err)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return url, nil
}

func newBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3(ctx, cfg.Storage.S3)
	case config.StorageDriverLocal, "":
		return NewLocal(cfg.Storage.LocalDir, cfg.Storage.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func New(l *zap.SugaredLogger, cfg *config.Config) (*Images, error) {
	b, err := newBackend(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	l.Infow("media storage ready", "driver", cfg.Storage.Driver)
	return NewImages(b, cfg.Server.MaxUploadBytes, l), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
