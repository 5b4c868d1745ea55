package util

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ValidateMimeType sniffs the first 512 bytes of reader and checks them
// against allowedTypes, which may be prefixes like "image/" or full types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, fmt.Errorf("%w: %s", ErrUnsupportedFile, mimeType)
}

// HasImageExtension reports whether name ends in one of AllowedImageExtensions.
func HasImageExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
