package hocr

import (
	"fmt"
	"strings"
)

// hOCR class names used for positioned elements.
const (
	ClassPage      = "ocr_page"
	ClassBlock     = "ocr_carea"
	ClassParagraph = "ocr_par"
	ClassLine      = "ocr_line"
	ClassWord      = "ocrx_word"
)

// defaultSymbolConfidence is assumed when the service omits a per-symbol value.
const defaultSymbolConfidence = 0.9

// Vertex is one corner of a bounding quadrilateral in pixel coordinates.
type Vertex struct {
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
}

// BoundingBox is the quadrilateral enclosing a detected region. Services
// report four corners in clockwise order starting at the top left.
type BoundingBox struct {
	Vertices []Vertex `json:"vertices"`
}

// bbox renders the "x1 y1 x2 y2" form used in hOCR title attributes, taken
// from the first and third corners. Fewer than four corners degenerates to
// the zero box; negative coordinates clamp to zero.
func (b BoundingBox) bbox() string {
	if len(b.Vertices) < 4 {
		return "0 0 0 0"
	}
	return fmt.Sprintf("%d %d %d %d",
		clamp(b.Vertices[0].X), clamp(b.Vertices[0].Y),
		clamp(b.Vertices[2].X), clamp(b.Vertices[2].Y))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Symbol is a single recognized glyph. Confidence is in [0,1]; nil means the
// service omitted the value.
type Symbol struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Word groups the symbols of one recognized token.
type Word struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	Symbols     []Symbol    `json:"symbols"`
}

// text concatenates the word's symbol texts in order.
func (w Word) text() string {
	var sb strings.Builder
	for _, s := range w.Symbols {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// score is the word confidence on the 0-100 scale: the truncated mean of the
// symbol confidences, or 90 for a word without symbols.
func (w Word) score() int {
	if len(w.Symbols) == 0 {
		return 90
	}
	var sum float64
	for _, s := range w.Symbols {
		c := defaultSymbolConfidence
		if s.Confidence != nil {
			c = *s.Confidence
		}
		sum += c
	}
	return int(sum / float64(len(w.Symbols)) * 100)
}

// Paragraph groups the words of one detected paragraph.
type Paragraph struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	Words       []Word      `json:"words"`
}

// Block is a top-level layout region on a page.
type Block struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	Paragraphs  []Paragraph `json:"paragraphs"`
}

// Page is the root of one page's detection tree. Width and Height are in
// pixels; zero values fall back to 1 when sizing the document bounding box.
type Page struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Blocks []Block `json:"blocks"`
}

// GenerateOption adjusts document-level attributes of the generated markup.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	title string
	lang  string
}

// WithTitle sets the document title element.
func WithTitle(title string) GenerateOption {
	return func(c *generateConfig) { c.title = title }
}

// WithLanguage sets the xml:lang/lang attributes on the document element.
// Empty means no language attributes are emitted.
func WithLanguage(lang string) GenerateOption {
	return func(c *generateConfig) { c.lang = lang }
}

// Generate renders one detected page as a complete hOCR document.
//
// Each block becomes an ocr_carea, each paragraph an ocr_par holding exactly
// one synthetic ocr_line that shares the paragraph box (the detection tree
// has no native line grouping). Words whose concatenated symbol text is
// whitespace-only are skipped without consuming an id. The four id counters
// (block, paragraph, line, word) run independently in document order
// starting at 1.
func Generate(p Page, opts ...GenerateOption) string {
	cfg := generateConfig{title: "OCR Output"}
	for _, opt := range opts {
		opt(&cfg)
	}

	width, height := p.Width, p.Height
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}

	htmlOpen := `<html xmlns="http://www.w3.org/1999/xhtml">`
	if cfg.lang != "" {
		htmlOpen = fmt.Sprintf(`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="%s" lang="%s">`, cfg.lang, cfg.lang)
	}

	lines := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"`,
		`  "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`,
		htmlOpen,
		"<head>",
		"  <title>" + escape(cfg.title) + "</title>",
		`  <meta http-equiv="Content-Type" content="text/html; charset=utf-8" />`,
		"</head>",
		"<body>",
		fmt.Sprintf(`  <div class="%s" id="page_1" title="bbox 0 0 %d %d; ppageno 0">`, ClassPage, width, height),
	}

	blockID, parID, lineID, wordID := 0, 0, 0, 0
	for _, block := range p.Blocks {
		blockID++
		lines = append(lines, fmt.Sprintf(`    <div class="%s" id="block_%d" title="bbox %s">`,
			ClassBlock, blockID, block.BoundingBox.bbox()))

		for _, par := range block.Paragraphs {
			parID++
			parBox := par.BoundingBox.bbox()
			lines = append(lines, fmt.Sprintf(`      <p class="%s" id="par_%d" title="bbox %s">`,
				ClassParagraph, parID, parBox))

			lineID++
			lines = append(lines, fmt.Sprintf(`        <span class="%s" id="line_%d" title="bbox %s">`,
				ClassLine, lineID, parBox))

			for _, word := range par.Words {
				text := word.text()
				if strings.TrimSpace(text) == "" {
					continue
				}
				wordID++
				lines = append(lines, fmt.Sprintf(`          <span class="%s" id="word_%d" title="bbox %s; x_wconf %d">%s</span>`,
					ClassWord, wordID, word.BoundingBox.bbox(), word.score(), escape(text)))
			}

			lines = append(lines, "        </span>", "      </p>")
		}
		lines = append(lines, "    </div>")
	}

	lines = append(lines, "  </div>", "</body>", "</html>")
	return strings.Join(lines, "\n")
}

// EmptyDocument returns the minimal valid document emitted when a page
// contains no detected text.
func EmptyDocument() string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"` + "\n" +
		`  "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">` + "\n" +
		`<html xmlns="http://www.w3.org/1999/xhtml">` + "\n" +
		`<head><title>Empty</title></head>` + "\n" +
		`<body><div class="ocr_page" title="bbox 0 0 1 1"></div></body>` + "\n" +
		`</html>`
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escape rewrites the four markup-reserved characters; everything else
// passes through untouched.
func escape(s string) string {
	return escaper.Replace(s)
}
