package hocr

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseDocumentReadError(t *testing.T) {
	wantErr := errors.New("boom")
	if _, err := ParseDocument(iotest.ErrReader(wantErr)); !errors.Is(err, wantErr) {
		t.Fatalf("ParseDocument() error = %v, want %v", err, wantErr)
	}
}

func TestParseDocumentIgnoresForeignElements(t *testing.T) {
	markup := `<html><body>
		<div class="ocr_page" id="page_1" title="bbox 0 0 10 10; ppageno 0">
			<p class="not_ocr">ignored</p>
			<span class="ocrx_word" id="word_1" title="bbox 1 2 3 4; x_wconf 77">hi</span>
		</div>
	</body></html>`

	doc, err := ParseDocument(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	word := doc.ByClass(ClassWord)[0]
	if conf, ok := word.WordConfidence(); !ok || conf != 77 {
		t.Fatalf("word confidence = %d (ok=%v), want 77", conf, ok)
	}
}

func TestNodeTitleHelpersMissingProperties(t *testing.T) {
	n := Node{Title: "ppageno 0"}
	if _, _, _, _, ok := n.BBox(); ok {
		t.Fatalf("expected no bbox")
	}
	if _, ok := n.WordConfidence(); ok {
		t.Fatalf("expected no confidence")
	}
}
