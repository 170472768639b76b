package item

import (
	"bytes"
	"image"
	"net/url"
	"strings"

	// Clipboard images arrive in whatever format the source app wrote, so
	// register the common decoders up front.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Snapshot holds every clipboard representation read in a single pass.
// Absent representations are zero-valued.
type Snapshot struct {
	Image []byte
	Text  string
	URL   string
	Files []string
}

// Payload is the classified result of a snapshot. Image payloads carry the
// raw bytes so the caller can persist them to the blob store.
type Payload struct {
	Kind    Kind
	Content string
	Image   []byte
}

// Classify reduces a snapshot to at most one typed payload.
//
// When multiple representations are present the first match in the order
// image, text, URL, file list wins. Image bytes that do not decode abandon
// the capture entirely rather than falling through to a weaker
// representation. Text, URL, and file payloads that are empty after trimming
// produce nothing.
func Classify(snap Snapshot) (Payload, bool) {
	if len(snap.Image) > 0 {
		if _, _, err := image.DecodeConfig(bytes.NewReader(snap.Image)); err != nil {
			return Payload{}, false
		}
		return Payload{
			Kind:    KindImage,
			Content: "Image (" + ByteCount(int64(len(snap.Image))) + ")",
			Image:   snap.Image,
		}, true
	}

	if trimmed := strings.TrimSpace(snap.Text); trimmed != "" {
		if isURL(trimmed) {
			return Payload{Kind: KindURL, Content: trimmed}, true
		}
		// Keep the original text, trimming is only for the emptiness check.
		return Payload{Kind: KindText, Content: snap.Text}, true
	}

	if trimmed := strings.TrimSpace(snap.URL); trimmed != "" {
		return Payload{Kind: KindURL, Content: trimmed}, true
	}

	paths := make([]string, 0, len(snap.Files))
	for _, p := range snap.Files {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) > 0 {
		return Payload{Kind: KindFile, Content: strings.Join(paths, "\n")}, true
	}

	return Payload{}, false
}

// isURL reports whether s is a single absolute URL token.
func isURL(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "file":
		return true
	}
	return false
}
