package images

import "encoding/json"

// UploadInput carries an upload that already passed local validation.
// MetadataJSON is the serialized form whose size was checked by the
// validator; an empty slice means no metadata part is sent.
type UploadInput struct {
	FilePath          string
	ContentType       string
	ID                string
	RequireSignedURLs bool
	MetadataJSON      []byte
}

// ImageRecord is the minimal projection of the vendor's result payload.
// Missing fields are tolerated so vendor schema drift never hard-fails.
type ImageRecord struct {
	ID                string            `json:"id"`
	Variants          []string          `json:"variants"`
	Uploaded          string            `json:"uploaded"`
	RequireSignedURLs bool              `json:"requireSignedURLs"`
	Metadata          map[string]string `json:"meta,omitempty"`
}

// URL returns the public-access URL: the first variant by convention.
// The vendor does not guarantee the first variant is the public one.
func (r *ImageRecord) URL() string {
	if len(r.Variants) > 0 {
		return r.Variants[0]
	}
	return ""
}

// ImageList holds one page of the vendor's listing, entries passed
// through verbatim.
type ImageList struct {
	Images []json.RawMessage
	Count  int
}

// apiEnvelope is the uniform Cloudflare response wrapper shared by all
// operations.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type listResult struct {
	Images []json.RawMessage `json:"images"`
}
