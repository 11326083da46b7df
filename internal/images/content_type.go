package images

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackContentType = "application/octet-stream"

// allowedContentTypes is the fixed set of image types the vendor accepts.
// A sniffed type outside this set is never sent.
var allowedContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// extensionContentTypes backs up content sniffing for files whose bytes
// don't identify them (SVG without an XML prolog, truncated files).
var extensionContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// ResolveContentType picks the content type for an upload: the sniffed
// MIME type when it is on the allow-list, else the lower-cased file
// extension against a fixed map, else application/octet-stream.
func ResolveContentType(path string) string {
	if mtype, err := mimetype.DetectFile(path); err == nil {
		// mimetype appends parameters to some types (e.g. charset);
		// compare on the bare type
		detected := strings.Split(mtype.String(), ";")[0]
		if allowedContentTypes[detected] {
			return detected
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct
	}
	return fallbackContentType
}
