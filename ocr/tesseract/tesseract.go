// Package tesseract implements the OCR engine contract with the gosseract
// Tesseract bindings, giving the pipeline a local engine that needs no
// network access or credential.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/cwhispergo13-cmyk/pdf-ocr-service/hocr"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/ocr"
)

const (
	engineName    = "Tesseract"
	engineVersion = "gosseract/2.4"
)

var _ ocr.Engine = (*Engine)(nil)

// Engine runs OCR locally through Tesseract.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// Option configures the engine.
type Option func(*Engine)

// WithLanguages sets the trained-data languages passed to Tesseract.
func WithLanguages(langs ...string) Option {
	return func(e *Engine) { e.languages = append([]string(nil), langs...) }
}

// New constructs a Tesseract-backed engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		languages:     []string{"eng"},
		clientFactory: gosseract.NewClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return engineName }

func (e *Engine) Version() string { return engineVersion }

// Languages returns the configured trained-data languages.
func (e *Engine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// Orientation detection is not implemented.
func (e *Engine) Orientation(ctx context.Context, inputFile string) (ocr.Orientation, error) {
	return ocr.Orientation{}, nil
}

// GeneratePDF is not supported; only the hOCR-mediated path is available.
func (e *Engine) GeneratePDF(ctx context.Context, inputFile, outputPDF, outputText string) error {
	return ocr.ErrPDFUnsupported
}

// GenerateHOCR recognizes the image at inputFile and writes the hOCR document
// and plain-text transcript to the given paths. Word boxes are folded into a
// single synthetic block and paragraph; Tesseract's own layout segmentation
// is not carried through.
func (e *Engine) GenerateHOCR(ctx context.Context, inputFile, outputHOCR, outputText string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(inputFile); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return fmt.Errorf("word boxes: %w", err)
	}

	if len(boxes) == 0 || plain == "" {
		if err := os.WriteFile(outputHOCR, []byte(hocr.EmptyDocument()), 0o644); err != nil {
			return fmt.Errorf("write hocr output: %w", err)
		}
		if err := os.WriteFile(outputText, nil, 0o644); err != nil {
			return fmt.Errorf("write text output: %w", err)
		}
		return nil
	}

	width, height := imageSize(inputFile)
	page := buildPage(width, height, boxes)
	markup := hocr.Generate(page,
		hocr.WithTitle("Tesseract OCR"),
		hocr.WithLanguage(firstLanguage(e.languages)),
	)

	if err := os.WriteFile(outputText, []byte(plain), 0o644); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	if err := os.WriteFile(outputHOCR, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write hocr output: %w", err)
	}
	return nil
}

// buildPage folds Tesseract word boxes into the detection tree consumed by
// the transcoder: one block holding one paragraph holding every word.
func buildPage(width, height int, boxes []gosseract.BoundingBox) hocr.Page {
	if len(boxes) == 0 {
		return hocr.Page{Width: width, Height: height}
	}

	words := make([]hocr.Word, 0, len(boxes))
	minX, minY := boxes[0].Box.Min.X, boxes[0].Box.Min.Y
	maxX, maxY := boxes[0].Box.Max.X, boxes[0].Box.Max.Y
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		words = append(words, hocr.Word{
			BoundingBox: quad(b.Box.Min.X, b.Box.Min.Y, b.Box.Max.X, b.Box.Max.Y),
			Symbols:     []hocr.Symbol{{Text: b.Word, Confidence: &conf}},
		})
		if b.Box.Min.X < minX {
			minX = b.Box.Min.X
		}
		if b.Box.Min.Y < minY {
			minY = b.Box.Min.Y
		}
		if b.Box.Max.X > maxX {
			maxX = b.Box.Max.X
		}
		if b.Box.Max.Y > maxY {
			maxY = b.Box.Max.Y
		}
	}

	bounds := quad(minX, minY, maxX, maxY)
	return hocr.Page{
		Width:  width,
		Height: height,
		Blocks: []hocr.Block{{
			BoundingBox: bounds,
			Paragraphs: []hocr.Paragraph{{
				BoundingBox: bounds,
				Words:       words,
			}},
		}},
	}
}

func quad(x1, y1, x2, y2 int) hocr.BoundingBox {
	return hocr.BoundingBox{Vertices: []hocr.Vertex{
		{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
	}}
}

// imageSize reads the pixel dimensions of the input image. Zero values are
// returned when the format is not recognized; the transcoder falls back to a
// unit page box in that case.
func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
