package ocr

// Package ocr defines the contract third-party OCR engines expose to a host
// PDF text-layer pipeline: identity, advertised languages, an orientation
// probe, and the two generation entry points. The interface is intentionally
// small and transport-agnostic so engines can be backed by local binaries,
// native libraries, or remote APIs without leaking provider-specific concerns
// into callers.
