package ocr

// Package ocr defines abstraction layers for plugging third-party OCR engines
// (for example, Tesseract) into the degradation pipeline. Degraded pages are
// recognized and scored against the text that was laid out on them, which
// turns "still readable" from a visual judgement into a number. The
// interfaces are small and transport-agnostic so engines can be backed by
// local binaries, native libraries, or remote APIs.
