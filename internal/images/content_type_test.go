package images

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     string
	}{
		{
			name:     "sniffed PNG",
			fileName: "pixel.png",
			data:     minimalPNG,
			want:     "image/png",
		},
		{
			name:     "PNG bytes behind wrong extension still sniffed",
			fileName: "pixel.dat",
			data:     minimalPNG,
			want:     "image/png",
		},
		{
			name:     "sniffed GIF",
			fileName: "anim.gif",
			data:     []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"),
			want:     "image/gif",
		},
		{
			name:     "unsniffable bytes fall back to extension map",
			fileName: "drawing.svg",
			data:     []byte("not really an image"),
			want:     "image/svg+xml",
		},
		{
			name:     "upper-cased extension is normalized",
			fileName: "photo.JPG",
			data:     []byte("junk"),
			want:     "image/jpeg",
		},
		{
			name:     "text file outside allow-list",
			fileName: "notes.txt",
			data:     []byte("plain text"),
			want:     "application/octet-stream",
		},
		{
			name:     "empty file with unknown extension",
			fileName: "mystery.bin",
			data:     nil,
			want:     "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.fileName)
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			got := ResolveContentType(path)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}

			// Whatever the outcome, it must come from the fixed set
			if got != fallbackContentType && !allowedContentTypes[got] {
				t.Errorf("Resolved type %s is outside the allow-list", got)
			}
		})
	}
}

func TestResolveContentType_MissingFile(t *testing.T) {
	got := ResolveContentType(filepath.Join(t.TempDir(), "nope.png"))
	if got != "image/png" {
		t.Errorf("Expected extension fallback for unreadable file, got %s", got)
	}
}

func TestImageRecord_URL(t *testing.T) {
	record := &ImageRecord{Variants: []string{"https://a/b", "https://a/c"}}
	if record.URL() != "https://a/b" {
		t.Errorf("Expected first variant, got %s", record.URL())
	}

	empty := &ImageRecord{}
	if empty.URL() != "" {
		t.Errorf("Expected empty URL for record without variants, got %s", empty.URL())
	}
}
