package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cwhispergo13-cmyk/pdf-ocr-service/hocr"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/observability"
)

// annotateRequest is the images:annotate POST body.
type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image        imagePayload  `json:"image"`
	Features     []feature     `json:"features"`
	ImageContext *imageContext `json:"imageContext,omitempty"`
}

type imagePayload struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

// annotateResponse is the images:annotate reply envelope.
type annotateResponse struct {
	Responses []annotateResult `json:"responses"`
}

type annotateResult struct {
	Error              *rpcStatus          `json:"error,omitempty"`
	FullTextAnnotation *fullTextAnnotation `json:"fullTextAnnotation,omitempty"`
}

type rpcStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type fullTextAnnotation struct {
	Pages []hocr.Page `json:"pages"`
	Text  string      `json:"text"`
}

// TransportError reports a non-success HTTP status from the annotate call.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vision api: unexpected status %s", e.Status)
}

// ServiceError reports an application-level error embedded in an otherwise
// successful annotate response. Message carries the service's own text.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("vision api error: %s", e.Message)
}

// detection is the tagged outcome of one annotate call: either the first
// detected page plus the full transcript, or no page at all. Service-reported
// errors surface as *ServiceError instead.
type detection struct {
	page *hocr.Page
	text string
}

func (e *Engine) annotate(ctx context.Context, image []byte, key string) (detection, error) {
	ctx, span := e.tracer.StartSpan(ctx, "vision.annotate")
	defer span.Finish()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body := annotateRequest{
		Requests: []annotateEntry{{
			Image:        imagePayload{Content: base64.StdEncoding.EncodeToString(image)},
			Features:     []feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: &imageContext{LanguageHints: e.languageHints},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return detection{}, fmt.Errorf("encode annotate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.endpoint+"?key="+url.QueryEscape(key), bytes.NewReader(payload))
	if err != nil {
		return detection{}, fmt.Errorf("build annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	e.logger.Debug("annotate request", observability.Int("bytes", len(payload)))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		span.SetError(err)
		return detection{}, fmt.Errorf("annotate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		terr := &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
		span.SetError(terr)
		return detection{}, terr
	}

	var decoded annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return detection{}, fmt.Errorf("decode annotate response: %w", err)
	}
	if len(decoded.Responses) == 0 {
		return detection{}, nil
	}

	result := decoded.Responses[0]
	if result.Error != nil {
		msg := result.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		serr := &ServiceError{Code: result.Error.Code, Message: msg}
		span.SetError(serr)
		return detection{}, serr
	}
	if result.FullTextAnnotation == nil || len(result.FullTextAnnotation.Pages) == 0 {
		return detection{}, nil
	}

	// Only the first page is consumed; the engine is invoked once per
	// single-page image.
	page := result.FullTextAnnotation.Pages[0]
	return detection{page: &page, text: result.FullTextAnnotation.Text}, nil
}
