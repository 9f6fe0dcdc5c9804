//go:build tesseract

package main

// Linking the tesseract package registers it as the default OCR engine for
// --verify. It is behind a build tag so plain builds do not need the native
// Tesseract libraries.
import _ "github.com/wudi/photocopy/ocr/tesseract"
