// Package tesseract runs the Tesseract OCR engine through gosseract.
// Images are lightly preprocessed with imaging before recognition.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/mmynk/billscan/internal/ocr"
)

// Options configure the engine.
type Options struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string
	// MinHeight upscales shorter images; small text recognises poorly.
	MinHeight int
}

// Engine implements ocr.Recognizer.
type Engine struct {
	opts Options
}

var _ ocr.Recognizer = (*Engine)(nil)

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.MinHeight == 0 {
		opts.MinHeight = 1200
	}
	return &Engine{opts: opts}
}

// Recognize preprocesses the image and returns the recognised text.
// The engine is stateless between calls and safe for concurrent use.
func (e *Engine) Recognize(ctx context.Context, img []byte, opts ocr.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prepared, err := e.preprocess(img, opts.Crop)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.opts.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.Mode)); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	slog.Debug("Tesseract finished", "mode", int(opts.Mode), "chars", len(text))
	return text, nil
}

// preprocess decodes, crops, converts to grayscale and upscales short images,
// then re-encodes as PNG for Tesseract.
func (e *Engine) preprocess(data []byte, crop *image.Rectangle) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if crop != nil {
		rect := crop.Intersect(img.Bounds())
		if rect.Empty() {
			return nil, fmt.Errorf("%w: %v is outside image bounds %v", ocr.ErrInvalidCrop, *crop, img.Bounds())
		}
		img = imaging.Crop(img, rect)
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < e.opts.MinHeight {
		gray = imaging.Resize(gray, 0, e.opts.MinHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
