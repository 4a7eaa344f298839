// Package hocr models the hierarchical text-detection tree returned by OCR
// services (page → block → paragraph → word → symbol) and renders it as an
// hOCR document, the HTML-based convention PDF text-layer embedders consume.
// Generation is a pure tree-to-text transform with no I/O; a small parser is
// provided for inspecting generated documents.
package hocr
