package loaders

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
)

// WebPExporter writes snapshots of decoded images as lossless WebP.
type WebPExporter struct{}

// Export encodes img into dir as <source stem>-<uuid>.webp and returns the
// path written.
func (we *WebPExporter) Export(dir, srcPath string, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	outPath := filepath.Join(dir, fmt.Sprintf("%s-%s.webp", stem, uuid.NewString()))

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("webp encode %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}
