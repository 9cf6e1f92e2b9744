package ai

import (
	"github.com/gabriel-vasile/mimetype"
)

// supportedImageTypes are the inline image types Gemini accepts.
var supportedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/heic",
	"image/heif",
}

// DetectImageType sniffs data and returns its media type when it is one of
// the supported image formats.
func DetectImageType(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	mt := mimetype.Detect(data)
	for _, allowed := range supportedImageTypes {
		if mt.Is(allowed) {
			return allowed, true
		}
	}
	return mt.String(), false
}
