package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/cwhispergo13-cmyk/pdf-ocr-service/hocr"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the engine used when the host pipeline does not
// configure one explicitly.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the engine returned by DefaultEngine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// noopEngine recognizes nothing: every page comes back with no detected text.
type noopEngine struct{}

func (n noopEngine) Name() string { return "noop" }

func (n noopEngine) Version() string { return "0" }

func (n noopEngine) Languages() []string { return nil }

func (n noopEngine) Orientation(ctx context.Context, inputFile string) (Orientation, error) {
	return Orientation{}, nil
}

func (n noopEngine) GenerateHOCR(ctx context.Context, inputFile, outputHOCR, outputText string) error {
	if err := os.WriteFile(outputHOCR, []byte(hocr.EmptyDocument()), 0o644); err != nil {
		return fmt.Errorf("write hocr output: %w", err)
	}
	if err := os.WriteFile(outputText, nil, 0o644); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	return nil
}

func (n noopEngine) GeneratePDF(ctx context.Context, inputFile, outputPDF, outputText string) error {
	return ErrPDFUnsupported
}
