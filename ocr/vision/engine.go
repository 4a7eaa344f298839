// Package vision implements the OCR engine contract on top of the Google
// Cloud Vision images:annotate REST endpoint. One blocking HTTPS POST per
// invocation; the structured detection result is transcoded to hOCR for the
// downstream PDF text-layer embedder.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cwhispergo13-cmyk/pdf-ocr-service/hocr"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/observability"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/ocr"
)

const (
	// DefaultEndpoint is the annotate URL queried when no override is set.
	DefaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	// APIKeyEnv names the environment variable holding the API credential.
	APIKeyEnv = "GOOGLE_VISION_API_KEY"

	engineName    = "Google Cloud Vision API"
	engineVersion = "1.0.0"

	defaultTimeout = 120 * time.Second
)

// ErrMissingAPIKey reports an absent credential. It is returned before any
// file or network I/O is attempted.
var ErrMissingAPIKey = errors.New("GOOGLE_VISION_API_KEY environment variable is not set")

var _ ocr.Engine = (*Engine)(nil)

// Engine performs document text detection through the Vision REST API.
// Invocations are independent and share no mutable state; the engine is safe
// for concurrent use.
type Engine struct {
	apiKey        string
	endpoint      string
	httpClient    *http.Client
	timeout       time.Duration
	languageHints []string
	docLanguage   string
	logger        observability.Logger
	tracer        observability.Tracer
}

// Option configures the engine.
type Option func(*Engine)

// WithAPIKey sets the credential explicitly instead of reading it from the
// environment on each invocation.
func WithAPIKey(key string) Option {
	return func(e *Engine) { e.apiKey = key }
}

// WithEndpoint overrides the annotate endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(e *Engine) { e.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for the annotate call.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.httpClient = client }
}

// WithTimeout overrides the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) { e.timeout = timeout }
}

// WithLanguageHints replaces the language hints sent with each annotate
// request. The first hint also becomes the document language attribute on
// generated markup.
func WithLanguageHints(hints ...string) Option {
	return func(e *Engine) {
		e.languageHints = append([]string(nil), hints...)
		if len(hints) > 0 {
			e.docLanguage = hints[0]
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger observability.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTracer sets the tracer used around the annotate call.
func WithTracer(tracer observability.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// New constructs a Vision-backed engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		endpoint:      DefaultEndpoint,
		httpClient:    http.DefaultClient,
		timeout:       defaultTimeout,
		languageHints: []string{"ko", "en"},
		docLanguage:   "ko",
		logger:        observability.NopLogger{},
		tracer:        observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return engineName }

func (e *Engine) Version() string { return engineVersion }

// Languages returns the codes the engine is advertised for. Note that the
// annotate request carries the configured language hints, which default to a
// narrower set than the advertised one.
func (e *Engine) Languages() []string {
	return []string{"eng", "kor", "jpn", "chi_sim", "chi_tra"}
}

// Orientation detection is not implemented; the zero angle and confidence
// tell callers not to apply skew correction based on this engine.
func (e *Engine) Orientation(ctx context.Context, inputFile string) (ocr.Orientation, error) {
	return ocr.Orientation{}, nil
}

// GeneratePDF is not supported; only the hOCR-mediated path is available.
func (e *Engine) GeneratePDF(ctx context.Context, inputPDF, outputPDF, outputText string) error {
	return ocr.ErrPDFUnsupported
}

// GenerateHOCR reads the image at inputFile, submits it for document text
// detection, and writes the hOCR document and plain-text transcript to the
// given paths. No outputs are written on failure. A response with no
// detected pages is a success and produces a minimal empty document plus an
// empty transcript.
func (e *Engine) GenerateHOCR(ctx context.Context, inputFile, outputHOCR, outputText string) error {
	key := e.apiKey
	if key == "" {
		key = os.Getenv(APIKeyEnv)
	}
	if key == "" {
		return ErrMissingAPIKey
	}

	image, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("read input image: %w", err)
	}

	det, err := e.annotate(ctx, image, key)
	if err != nil {
		return err
	}

	if det.page == nil {
		e.logger.Info("no text detected", observability.String("input", inputFile))
		if err := os.WriteFile(outputHOCR, []byte(hocr.EmptyDocument()), 0o644); err != nil {
			return fmt.Errorf("write hocr output: %w", err)
		}
		if err := os.WriteFile(outputText, nil, 0o644); err != nil {
			return fmt.Errorf("write text output: %w", err)
		}
		return nil
	}

	markup := hocr.Generate(*det.page,
		hocr.WithTitle("Google Vision OCR"),
		hocr.WithLanguage(e.docLanguage),
	)
	if err := os.WriteFile(outputText, []byte(det.text), 0o644); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	if err := os.WriteFile(outputHOCR, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write hocr output: %w", err)
	}

	e.logger.Info("generated hocr",
		observability.String("input", inputFile),
		observability.Int("blocks", len(det.page.Blocks)),
		observability.Int("text_bytes", len(det.text)),
	)
	return nil
}
