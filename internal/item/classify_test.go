package item

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// pngBytes encodes a small solid-color PNG for classifier tests
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// TestClassify_Priority tests that image wins over weaker representations
func TestClassify_Priority(t *testing.T) {
	img := pngBytes(t, 4, 4)

	snap := Snapshot{
		Image: img,
		Text:  "also has text",
		URL:   "https://example.com",
		Files: []string{"/tmp/a.txt"},
	}

	p, ok := Classify(snap)
	if !ok {
		t.Fatal("Classify() returned no payload")
	}
	if p.Kind != KindImage {
		t.Errorf("expected kind=image, got %s", p.Kind)
	}
	if !bytes.Equal(p.Image, img) {
		t.Error("expected payload to carry the raw image bytes")
	}
	want := "Image (" + ByteCount(int64(len(img))) + ")"
	if p.Content != want {
		t.Errorf("expected content=%q, got %q", want, p.Content)
	}
}

// TestClassify_UndecodableImage tests that bad image bytes abandon the capture
func TestClassify_UndecodableImage(t *testing.T) {
	snap := Snapshot{
		Image: []byte("not an image at all"),
		Text:  "fallback text that must not be used",
	}

	if p, ok := Classify(snap); ok {
		t.Errorf("expected no payload for undecodable image, got kind=%s", p.Kind)
	}
}

// TestClassify_Text tests text classification and URL detection
func TestClassify_Text(t *testing.T) {
	tests := []struct {
		name        string
		snap        Snapshot
		wantOK      bool
		wantKind    Kind
		wantContent string
	}{
		{
			name:        "plain text keeps original bytes",
			snap:        Snapshot{Text: "  hello world \n"},
			wantOK:      true,
			wantKind:    KindText,
			wantContent: "  hello world \n",
		},
		{
			name:        "lone url upgrades to url kind",
			snap:        Snapshot{Text: "https://go.dev/blog/slog\n"},
			wantOK:      true,
			wantKind:    KindURL,
			wantContent: "https://go.dev/blog/slog",
		},
		{
			name:        "url inside sentence stays text",
			snap:        Snapshot{Text: "see https://go.dev for details"},
			wantOK:      true,
			wantKind:    KindText,
			wantContent: "see https://go.dev for details",
		},
		{
			name:   "whitespace only text rejected",
			snap:   Snapshot{Text: " \t\n"},
			wantOK: false,
		},
		{
			name:        "url representation used when text absent",
			snap:        Snapshot{URL: " https://example.com/path "},
			wantOK:      true,
			wantKind:    KindURL,
			wantContent: "https://example.com/path",
		},
		{
			name:        "text beats url representation",
			snap:        Snapshot{Text: "plain", URL: "https://example.com"},
			wantOK:      true,
			wantKind:    KindText,
			wantContent: "plain",
		},
		{
			name:   "empty url representation rejected",
			snap:   Snapshot{URL: ""},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Classify(tt.snap)
			if ok != tt.wantOK {
				t.Fatalf("Classify() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if p.Kind != tt.wantKind {
				t.Errorf("expected kind=%s, got %s", tt.wantKind, p.Kind)
			}
			if p.Content != tt.wantContent {
				t.Errorf("expected content=%q, got %q", tt.wantContent, p.Content)
			}
		})
	}
}

// TestClassify_Files tests file list classification
func TestClassify_Files(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		wantOK      bool
		wantContent string
	}{
		{
			name:        "paths joined by newline",
			files:       []string{"/tmp/a.txt", "/tmp/b.txt"},
			wantOK:      true,
			wantContent: "/tmp/a.txt\n/tmp/b.txt",
		},
		{
			name:        "blank entries dropped",
			files:       []string{"", "  ", "/tmp/a.txt"},
			wantOK:      true,
			wantContent: "/tmp/a.txt",
		},
		{
			name:   "all blank rejected",
			files:  []string{"", "  "},
			wantOK: false,
		},
		{
			name:   "empty list rejected",
			files:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Classify(Snapshot{Files: tt.files})
			if ok != tt.wantOK {
				t.Fatalf("Classify() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if p.Kind != KindFile {
				t.Errorf("expected kind=file, got %s", p.Kind)
			}
			if p.Content != tt.wantContent {
				t.Errorf("expected content=%q, got %q", tt.wantContent, p.Content)
			}
		})
	}
}

// TestClassify_Empty tests the fully empty snapshot
func TestClassify_Empty(t *testing.T) {
	if p, ok := Classify(Snapshot{}); ok {
		t.Errorf("expected no payload for empty snapshot, got kind=%s", p.Kind)
	}
}
