package util

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseImageDataURL decodes a base64 image data URL, returning the content
// type, the file extension implied by it, and the decoded bytes.
func ParseImageDataURL(dataURL string) (string, string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", "", nil, fmt.Errorf("util: invalid data URL %q", dataURL)
	}
	ct, contents, ok := strings.Cut(rest, ";")
	if !ok {
		return "", "", nil, fmt.Errorf("util: invalid data URL %q", dataURL)
	}

	ext, ok := strings.CutPrefix(ct, "image/")
	if !ok {
		return "", "", nil, fmt.Errorf("util: only image data URLs supported, got %q", ct)
	}

	b64, ok := strings.CutPrefix(contents, "base64,")
	if !ok {
		return "", "", nil, fmt.Errorf("util: only base64 data URLs supported, got %q", dataURL)
	}
	bytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", "", nil, fmt.Errorf("util: decoding base64 data URL: %w", err)
	}
	return ct, ext, bytes, nil
}
