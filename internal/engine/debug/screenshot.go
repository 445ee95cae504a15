package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ScreenshotCapture writes framebuffer captures as PNG or BMP files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string
	now       func() time.Time
	taken     int
}

// NewScreenshotCapture creates a new screenshot capture handler. format is
// "png" or "bmp"; anything else falls back to png.
func NewScreenshotCapture(outputDir, prefix, format string) *ScreenshotCapture {
	format = strings.ToLower(format)
	if format != "bmp" {
		format = "png"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// CaptureFromPixels saves raw RGBA pixel data read from OpenGL.
// pixels should hold width*height*4 bytes.
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := sc.encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding %s: %w", strings.ToUpper(sc.format), err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	sc.taken++
	return filename, nil
}

// GenerateFilename returns the path the next capture will be written to.
// A running counter keeps captures within the same second apart.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%03d.%s", sc.prefix, timestamp, sc.taken, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

func (sc *ScreenshotCapture) encode(w io.Writer, img image.Image) error {
	if sc.format == "bmp" {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}
