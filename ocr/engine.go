package ocr

import (
	"context"
	"errors"
)

// ErrPDFUnsupported is returned by engines that can only produce a searchable
// text layer through the hOCR path. Callers must route through GenerateHOCR.
var ErrPDFUnsupported = errors.New("direct PDF generation is not supported; use GenerateHOCR")

// Orientation reports detected page rotation. Angle is in degrees clockwise;
// Confidence is in [0,1]. Engines without orientation detection return the
// zero value, which callers must not use for skew correction.
type Orientation struct {
	Angle      int
	Confidence float64
}

// Engine is the capability surface a host OCR orchestrator consumes.
type Engine interface {
	// Name returns the fixed human-readable engine identity.
	Name() string
	// Version returns the fixed engine version string.
	Version() string
	// Languages returns the language codes the engine advertises.
	Languages() []string
	// Orientation probes page rotation for the image at inputFile.
	Orientation(ctx context.Context, inputFile string) (Orientation, error)
	// GenerateHOCR recognizes the image at inputFile and writes an hOCR
	// document and a plain-text transcript to the given paths. A page with
	// no detected text is a success: a minimal empty document and an empty
	// transcript are written.
	GenerateHOCR(ctx context.Context, inputFile, outputHOCR, outputText string) error
	// GeneratePDF produces a searchable PDF directly. Engines that only
	// support the hOCR-mediated path return ErrPDFUnsupported.
	GeneratePDF(ctx context.Context, inputFile, outputPDF, outputText string) error
}
