package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNoopDefaultEngine(t *testing.T) {
	engine := DefaultEngine()
	if engine.Name() != "noop" {
		t.Fatalf("unexpected default engine: %s", engine.Name())
	}

	dir := t.TempDir()
	hocrPath := filepath.Join(dir, "out.hocr")
	textPath := filepath.Join(dir, "out.txt")

	if err := engine.GenerateHOCR(context.Background(), "ignored.png", hocrPath, textPath); err != nil {
		t.Fatalf("GenerateHOCR() error = %v", err)
	}
	markup, err := os.ReadFile(hocrPath)
	if err != nil {
		t.Fatalf("read hocr output: %v", err)
	}
	if !strings.Contains(string(markup), "ocr_page") {
		t.Fatalf("expected empty page container, got:\n%s", markup)
	}
	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("read text output: %v", err)
	}
	if len(text) != 0 {
		t.Fatalf("expected empty transcript, got %q", text)
	}

	if err := engine.GeneratePDF(context.Background(), "in.png", "out.pdf", "out.txt"); !errors.Is(err, ErrPDFUnsupported) {
		t.Fatalf("GeneratePDF() error = %v, want ErrPDFUnsupported", err)
	}

	orientation, err := engine.Orientation(context.Background(), "in.png")
	if err != nil {
		t.Fatalf("Orientation() error = %v", err)
	}
	if orientation.Angle != 0 || orientation.Confidence != 0 {
		t.Fatalf("unexpected orientation: %+v", orientation)
	}
}

func TestSetDefaultEngine(t *testing.T) {
	original := DefaultEngine()
	defer SetDefaultEngine(original)

	custom := &noopEngine{}
	SetDefaultEngine(custom)
	if DefaultEngine() != Engine(custom) {
		t.Fatalf("default engine was not replaced")
	}
}
