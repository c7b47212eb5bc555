package llm

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/labelsense/labelsense/constants"
)

// ReadAsDataURL reads a local image file and returns it as a
// data:<mime>;base64,... URI plus the detected MIME type.
func ReadAsDataURL(path string) (string, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	mt := constants.MimeForExt(filepath.Ext(path))
	data := base64.StdEncoding.EncodeToString(b)
	return "data:" + mt + ";base64," + data, mt, nil
}

// EncodeDataURL wraps already-read image bytes as a data URI.
func EncodeDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
