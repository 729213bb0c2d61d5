// Package ocr defines the boundary with the text-recognition engine and a
// memoizing cache in front of it.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

// Mode selects the engine's page segmentation strategy.
type Mode int

const (
	// ModeColumn treats the image as a single column of variable-size text.
	// Works best for most receipts.
	ModeColumn Mode = 4
	// ModeBlock treats the image as one uniform block of text. Sometimes
	// gives better results on tightly printed receipts.
	ModeBlock Mode = 6
)

// DefaultMode is used unless the caller asks for the alternate mode.
const DefaultMode = ModeColumn

var (
	ErrEmptyImage  = errors.New("image is empty")
	ErrInvalidCrop = errors.New("invalid crop rectangle")
)

// ModeFor maps the "alternate mode" toggle to a Mode.
func ModeFor(alternate bool) Mode {
	if alternate {
		return ModeBlock
	}
	return DefaultMode
}

// Alternate returns the other supported mode.
func (m Mode) Alternate() Mode {
	if m == ModeBlock {
		return ModeColumn
	}
	return ModeBlock
}

// ParseMode validates a numeric mode.
func ParseMode(n int) (Mode, error) {
	switch Mode(n) {
	case ModeColumn, ModeBlock:
		return Mode(n), nil
	}
	return 0, fmt.Errorf("unsupported OCR mode %d (want %d or %d)", n, ModeColumn, ModeBlock)
}

// Options control a single recognition.
type Options struct {
	Mode Mode
	// Crop limits recognition to the line-item area of the photo.
	// Nil means the whole image.
	Crop *image.Rectangle
}

// Validate checks the mode and that a crop, if set, is non-empty and starts
// inside the positive quadrant.
func (o Options) Validate() error {
	if _, err := ParseMode(int(o.Mode)); err != nil {
		return err
	}
	if o.Crop == nil {
		return nil
	}
	if o.Crop.Empty() || o.Crop.Min.X < 0 || o.Crop.Min.Y < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidCrop, *o.Crop)
	}
	return nil
}

// Recognizer turns an encoded image into raw text with '\n' line breaks.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, opts Options) (string, error)
}

// Clean trims surrounding whitespace from recognizer output. No other
// preprocessing is applied; the user edits the text before it is parsed.
func Clean(text string) string {
	return strings.TrimSpace(text)
}
