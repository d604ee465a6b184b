package util

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareScanImage(t *testing.T) {
	out, err := PrepareScanImage(bytes.NewReader(pngOf(t, 400, 100)), 200)
	if err != nil {
		t.Fatalf("PrepareScanImage() error = %v", err)
	}
	if out.Width != 200 || out.Height != 50 {
		t.Errorf("size = %dx%d, want 200x50", out.Width, out.Height)
	}
	if out.ContentType != "image/jpeg" || out.Ext != ".jpg" {
		t.Errorf("content type = %s %s", out.ContentType, out.Ext)
	}

	small, err := PrepareScanImage(bytes.NewReader(pngOf(t, 20, 10)), 200)
	if err != nil || small.Width != 20 {
		t.Errorf("small image = %+v, %v", small, err)
	}

	if _, err = PrepareScanImage(bytes.NewReader([]byte("%PDF-1.4 not an image")), 200); err != ErrNotImage {
		t.Errorf("pdf err = %v, want %v", err, ErrNotImage)
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		raw  string
		want []uint64
		ok   bool
	}{
		{"", nil, true},
		{"1,2, 3", []uint64{1, 2, 3}, true},
		{"4,,4", []uint64{4}, true},
		{"1,x", nil, false},
		{"0", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseIDList(tt.raw)
		if ok != tt.ok || len(got) != len(tt.want) {
			t.Errorf("ParseIDList(%q) = %v, %v", tt.raw, got, ok)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseIDList(%q)[%d] = %d, want %d", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

type sample struct {
	Name string `validate:"required,max=5"`
}

func TestValidateDTO(t *testing.T) {
	if err := ValidateDTO(&sample{Name: "ok"}); err != nil {
		t.Errorf("valid dto err = %v", err)
	}
	if err := ValidateDTO(&sample{Name: "too long"}); err == nil {
		t.Error("expected validation error")
	}
}
