package hocr

import (
	"strings"
	"testing"
)

func confPtr(v float64) *float64 { return &v }

func wordFromString(text string, conf float64, box BoundingBox) Word {
	symbols := make([]Symbol, 0, len(text))
	for _, r := range text {
		symbols = append(symbols, Symbol{Text: string(r), Confidence: confPtr(conf)})
	}
	return Word{BoundingBox: box, Symbols: symbols}
}

func quad(x1, y1, x2, y2 int) BoundingBox {
	return BoundingBox{Vertices: []Vertex{
		{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
	}}
}

func parseGenerated(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc
}

func TestGenerateHierarchy(t *testing.T) {
	page := Page{
		Width:  600,
		Height: 800,
		Blocks: []Block{{
			BoundingBox: quad(0, 0, 600, 100),
			Paragraphs: []Paragraph{{
				BoundingBox: quad(10, 10, 590, 90),
				Words: []Word{
					wordFromString("Hello", 0.95, quad(10, 10, 100, 40)),
					wordFromString("World", 0.95, quad(110, 10, 200, 40)),
				},
			}},
		}},
	}

	doc := parseGenerated(t, Generate(page))

	wantClasses := []string{ClassPage, ClassBlock, ClassParagraph, ClassLine, ClassWord, ClassWord}
	wantIDs := []string{"page_1", "block_1", "par_1", "line_1", "word_1", "word_2"}
	if len(doc.Nodes) != len(wantClasses) {
		t.Fatalf("expected %d nodes, got %d", len(wantClasses), len(doc.Nodes))
	}
	for i, n := range doc.Nodes {
		if n.Class != wantClasses[i] {
			t.Fatalf("node %d: class = %q, want %q", i, n.Class, wantClasses[i])
		}
		if n.ID != wantIDs[i] {
			t.Fatalf("node %d: id = %q, want %q", i, n.ID, wantIDs[i])
		}
	}

	words := doc.ByClass(ClassWord)
	if words[0].Text != "Hello" || words[1].Text != "World" {
		t.Fatalf("unexpected word texts: %q, %q", words[0].Text, words[1].Text)
	}

	x1, y1, x2, y2, ok := doc.ByClass(ClassPage)[0].BBox()
	if !ok || x1 != 0 || y1 != 0 || x2 != 600 || y2 != 800 {
		t.Fatalf("unexpected page bbox: %d %d %d %d (ok=%v)", x1, y1, x2, y2, ok)
	}

	// The synthetic line shares the paragraph box.
	lx1, ly1, lx2, ly2, _ := doc.ByClass(ClassLine)[0].BBox()
	px1, py1, px2, py2, _ := doc.ByClass(ClassParagraph)[0].BBox()
	if lx1 != px1 || ly1 != py1 || lx2 != px2 || ly2 != py2 {
		t.Fatalf("line bbox %d %d %d %d differs from paragraph bbox %d %d %d %d",
			lx1, ly1, lx2, ly2, px1, py1, px2, py2)
	}
}

func TestGenerateSkipsBlankWords(t *testing.T) {
	blank := Word{
		BoundingBox: quad(0, 0, 5, 5),
		Symbols:     []Symbol{{Text: " "}, {Text: "\t"}},
	}
	page := Page{
		Width:  100,
		Height: 100,
		Blocks: []Block{{
			Paragraphs: []Paragraph{{
				Words: []Word{
					wordFromString("Hello", 0.9, quad(0, 0, 40, 10)),
					blank,
					wordFromString("World", 0.9, quad(50, 0, 90, 10)),
				},
			}},
		}},
	}

	doc := parseGenerated(t, Generate(page))
	words := doc.ByClass(ClassWord)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	// The skipped word must not consume an id slot.
	if words[0].ID != "word_1" || words[1].ID != "word_2" {
		t.Fatalf("unexpected word ids: %q, %q", words[0].ID, words[1].ID)
	}
	if words[1].Text != "World" {
		t.Fatalf("unexpected second word: %q", words[1].Text)
	}
}

func TestBoundingBoxString(t *testing.T) {
	cases := []struct {
		name string
		box  BoundingBox
		want string
	}{
		{"four corners", BoundingBox{Vertices: []Vertex{{0, 0}, {10, 0}, {10, 5}, {0, 5}}}, "0 0 10 5"},
		{"too few corners", BoundingBox{Vertices: []Vertex{{0, 0}, {10, 0}}}, "0 0 0 0"},
		{"no corners", BoundingBox{}, "0 0 0 0"},
		{"negative clamps", BoundingBox{Vertices: []Vertex{{-3, -1}, {10, 0}, {10, 5}, {0, 5}}}, "0 0 10 5"},
	}
	for _, tc := range cases {
		if got := tc.box.bbox(); got != tc.want {
			t.Fatalf("%s: bbox() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestWordScore(t *testing.T) {
	averaged := Word{Symbols: []Symbol{
		{Text: "a", Confidence: confPtr(0.8)},
		{Text: "b", Confidence: confPtr(1.0)},
	}}
	if got := averaged.score(); got != 90 {
		t.Fatalf("averaged score = %d, want 90", got)
	}

	empty := Word{}
	if got := empty.score(); got != 90 {
		t.Fatalf("empty-word score = %d, want 90", got)
	}

	defaulted := Word{Symbols: []Symbol{{Text: "x"}}}
	if got := defaulted.score(); got != 90 {
		t.Fatalf("defaulted score = %d, want 90", got)
	}

	low := Word{Symbols: []Symbol{{Text: "y", Confidence: confPtr(0.5)}}}
	if got := low.score(); got != 50 {
		t.Fatalf("low score = %d, want 50", got)
	}
}

func TestGenerateEscapesReservedCharacters(t *testing.T) {
	word := Word{
		BoundingBox: quad(0, 0, 10, 10),
		Symbols: []Symbol{
			{Text: "a&b"}, {Text: `<c>`}, {Text: `"d"`},
		},
	}
	page := Page{Width: 20, Height: 20, Blocks: []Block{{
		Paragraphs: []Paragraph{{Words: []Word{word}}},
	}}}

	markup := Generate(page)
	if !strings.Contains(markup, `a&amp;b&lt;c&gt;&quot;d&quot;`) {
		t.Fatalf("reserved characters not escaped:\n%s", markup)
	}

	// The HTML parser resolves the entities back to the original text.
	doc := parseGenerated(t, markup)
	if got := doc.ByClass(ClassWord)[0].Text; got != `a&b<c>"d"` {
		t.Fatalf("round-tripped text = %q", got)
	}
}

func TestGenerateWordConfidenceTitle(t *testing.T) {
	page := Page{Width: 20, Height: 20, Blocks: []Block{{
		Paragraphs: []Paragraph{{Words: []Word{
			{BoundingBox: quad(0, 0, 10, 5), Symbols: []Symbol{
				{Text: "h", Confidence: confPtr(0.8)},
				{Text: "i", Confidence: confPtr(1.0)},
			}},
		}}},
	}}}

	doc := parseGenerated(t, Generate(page))
	word := doc.ByClass(ClassWord)[0]
	conf, ok := word.WordConfidence()
	if !ok || conf != 90 {
		t.Fatalf("word confidence = %d (ok=%v), want 90", conf, ok)
	}
	x1, y1, x2, y2, ok := word.BBox()
	if !ok || x1 != 0 || y1 != 0 || x2 != 10 || y2 != 5 {
		t.Fatalf("word bbox = %d %d %d %d (ok=%v)", x1, y1, x2, y2, ok)
	}
}

func TestGenerateDefaultsPageSize(t *testing.T) {
	doc := parseGenerated(t, Generate(Page{}))
	_, _, x2, y2, ok := doc.ByClass(ClassPage)[0].BBox()
	if !ok || x2 != 1 || y2 != 1 {
		t.Fatalf("default page bbox extent = %d %d, want 1 1", x2, y2)
	}
}

func TestGenerateEmptyContainers(t *testing.T) {
	page := Page{
		Width:  50,
		Height: 50,
		Blocks: []Block{
			{BoundingBox: quad(0, 0, 50, 20)},
			{BoundingBox: quad(0, 20, 50, 40), Paragraphs: []Paragraph{{BoundingBox: quad(0, 20, 50, 40)}}},
		},
	}

	doc := parseGenerated(t, Generate(page))
	if got := len(doc.ByClass(ClassBlock)); got != 2 {
		t.Fatalf("expected 2 blocks, got %d", got)
	}
	if got := len(doc.ByClass(ClassParagraph)); got != 1 {
		t.Fatalf("expected 1 paragraph, got %d", got)
	}
	if got := len(doc.ByClass(ClassLine)); got != 1 {
		t.Fatalf("expected 1 line, got %d", got)
	}
	if got := len(doc.ByClass(ClassWord)); got != 0 {
		t.Fatalf("expected no words, got %d", got)
	}
}

func TestGenerateOptions(t *testing.T) {
	markup := Generate(Page{}, WithTitle("Google Vision OCR"), WithLanguage("ko"))
	if !strings.Contains(markup, "<title>Google Vision OCR</title>") {
		t.Fatalf("title not applied:\n%s", markup)
	}
	if !strings.Contains(markup, `xml:lang="ko" lang="ko"`) {
		t.Fatalf("language attributes not applied:\n%s", markup)
	}

	plain := Generate(Page{})
	if strings.Contains(plain, "xml:lang") {
		t.Fatalf("unexpected language attributes:\n%s", plain)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := parseGenerated(t, EmptyDocument())
	pages := doc.ByClass(ClassPage)
	if len(pages) != 1 {
		t.Fatalf("expected 1 page container, got %d", len(pages))
	}
	x1, y1, x2, y2, ok := pages[0].BBox()
	if !ok || x1 != 0 || y1 != 0 || x2 != 1 || y2 != 1 {
		t.Fatalf("empty page bbox = %d %d %d %d (ok=%v)", x1, y1, x2, y2, ok)
	}
	if got := len(doc.ByClass(ClassWord)); got != 0 {
		t.Fatalf("empty document contains %d words", got)
	}
}
