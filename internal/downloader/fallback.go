package downloader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/storage"
)

const fallbackSize = 256

// FallbackReference returns the public reference of the placeholder image,
// rendering it into the images directory on first use.
func (q *Queue) FallbackReference(ctx context.Context) (string, error) {
	q.fallbackMu.Lock()
	ref := q.fallbackRef
	q.fallbackMu.Unlock()
	if ref != "" {
		return ref, nil
	}

	v, err, _ := q.fallbackGroup.Do(constants.FallbackImageName, func() (any, error) {
		path := filepath.Join(q.opts.ImagesDir, constants.FallbackImageName)
		if size, err := storage.FileSize(path); err != nil || size == 0 {
			data, err := renderFallback()
			if err != nil {
				return "", err
			}
			if err := storage.WriteFileAtomic(path, data); err != nil {
				return "", err
			}
			q.logger.Info("Fallback image written", "path", path)
		}

		ref := q.opts.URLPrefix + constants.FallbackImageName
		q.fallbackMu.Lock()
		q.fallbackRef = ref
		q.fallbackMu.Unlock()
		return ref, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (q *Queue) fallback(ctx context.Context) Result {
	ref, err := q.FallbackReference(ctx)
	if err != nil {
		q.logger.Error("Failed to prepare fallback image", "error", err)
		return Result{Fallback: true}
	}
	return Result{Reference: ref, Fallback: true}
}

// renderFallback draws a warm diagonal gradient.
func renderFallback() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, fallbackSize, fallbackSize))
	for y := range fallbackSize {
		for x := range fallbackSize {
			t := (x + y) * 255 / (2 * (fallbackSize - 1))
			img.Set(x, y, color.RGBA{
				R: uint8(200 + t*55/255),
				G: uint8(120 + t*60/255),
				B: uint8(60 + (x*y)%40),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
