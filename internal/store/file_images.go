// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/nfnt/resize"
)

// thumbnailFileName is the fixed name of the generated thumbnail inside the
// image's thumbnail directory.
const thumbnailFileName = "thumbnail.jpg"

const thumbnailQuality = 85

// ErrNotAnImage is returned when the uploaded bytes cannot be decoded as a
// supported image format.
var ErrNotAnImage = errors.New("payload is not a decodable image")

// fileImageStorage stores originals and thumbnails on the local filesystem:
//
//	<base>/<image_id>/<file_name>
//	<base>/<image_id>/thumbnail/thumbnail.jpg
type fileImageStorage struct {
	baseDir       string
	thumbnailSize uint
	logger        *logger.Logger
}

// NewFileImageStorage prepares the base directory and returns an
// [ImageFileStorage] writing beneath it.
func NewFileImageStorage(cfg config.Files, logger *logger.Logger) (ImageFileStorage, error) {
	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		return nil, fmt.Errorf("preparing image directory %q: %w", cfg.ImageDir, err)
	}

	logger.Debug().Str("image_dir", cfg.ImageDir).Msg("creating file image storage")
	return &fileImageStorage{
		baseDir:       cfg.ImageDir,
		thumbnailSize: cfg.ThumbnailSize,
		logger:        logger,
	}, nil
}

// SaveImageFiles decodes the upload, writes the original bytes and a JPEG
// thumbnail whose longer side is capped at the configured size. On any
// failure the image directory is removed so a half-written upload never
// survives.
func (s *fileImageStorage) SaveImageFiles(ctx context.Context, imageID int64, fileName string, data []byte) error {
	log := logger.FromContext(ctx)

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}

	imageDir := s.imageDir(imageID)
	thumbnailDir := filepath.Join(imageDir, "thumbnail")
	if err := os.MkdirAll(thumbnailDir, 0o755); err != nil {
		log.Err(err).Str("func", "*fileImageStorage.SaveImageFiles").Msg("failed to create image directory")
		return fmt.Errorf("creating image directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(imageDir, fileName), data, 0o644); err != nil {
		log.Err(err).Str("func", "*fileImageStorage.SaveImageFiles").Msg("failed to write original file")
		s.removeImageDir(imageID)
		return fmt.Errorf("writing original file: %w", err)
	}

	thumbnail := resize.Thumbnail(s.thumbnailSize, s.thumbnailSize, decoded, resize.Lanczos3)

	out, err := os.Create(filepath.Join(thumbnailDir, thumbnailFileName))
	if err != nil {
		log.Err(err).Str("func", "*fileImageStorage.SaveImageFiles").Msg("failed to create thumbnail file")
		s.removeImageDir(imageID)
		return fmt.Errorf("creating thumbnail file: %w", err)
	}

	if err := jpeg.Encode(out, thumbnail, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		out.Close()
		log.Err(err).Str("func", "*fileImageStorage.SaveImageFiles").Msg("failed to encode thumbnail")
		s.removeImageDir(imageID)
		return fmt.Errorf("encoding thumbnail: %w", err)
	}

	if err := out.Close(); err != nil {
		s.removeImageDir(imageID)
		return fmt.Errorf("closing thumbnail file: %w", err)
	}

	log.Debug().
		Str("func", "*fileImageStorage.SaveImageFiles").
		Int64("image_id", imageID).
		Str("format", format).
		Msg("image files saved")

	return nil
}

// DeleteImageFiles removes the image's directory tree. Missing directories
// are not an error.
func (s *fileImageStorage) DeleteImageFiles(imageID int64) error {
	if err := os.RemoveAll(s.imageDir(imageID)); err != nil {
		return fmt.Errorf("removing image directory: %w", err)
	}
	return nil
}

func (s *fileImageStorage) ImageFilePath(imageID int64, fileName string) string {
	return filepath.Join(s.imageDir(imageID), fileName)
}

func (s *fileImageStorage) ThumbnailPath(imageID int64) string {
	return filepath.Join(s.imageDir(imageID), "thumbnail", thumbnailFileName)
}

func (s *fileImageStorage) imageDir(imageID int64) string {
	return filepath.Join(s.baseDir, strconv.FormatInt(imageID, 10))
}

func (s *fileImageStorage) removeImageDir(imageID int64) {
	if err := os.RemoveAll(s.imageDir(imageID)); err != nil {
		s.logger.Warn().Err(err).Int64("image_id", imageID).Msg("failed to clean up image directory")
	}
}
