package review

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendhq/tend/internal/errors"
)

// Export writes the rendered report into dir and returns the final path.
// The file is written to a temp name first and renamed into place so a
// failed write never clobbers an earlier report.
func Export(dir string, d Data, format Format) (string, error) {
	content, err := Render(d, format)
	if err != nil {
		return "", err
	}

	ext := "md"
	if format == FormatHTML {
		ext = "html"
	}
	name := fmt.Sprintf("review-%s.%s", d.WindowEnd.Format("2006-01-02"), ext)
	finalPath := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.NewInternal(fmt.Errorf("creating reports directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", errors.NewInternal(fmt.Errorf("generating temp file name: %w", err))
	}
	tempPath := finalPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, []byte(content), 0600); err != nil {
		return "", errors.NewInternal(fmt.Errorf("writing report: %w", err))
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", errors.NewInternal(fmt.Errorf("finalizing report: %w", err))
	}
	return finalPath, nil
}
