// Package deckparse converts PDF pitch decks into structured startup
// profiles. It extracts text through a chain of increasingly expensive
// strategies (native text layer, per-page OCR, full-document OCR, an
// external text-extraction command, and a metadata-only fallback) and
// sends the result to a language model for structured field extraction.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fitz/, tesseract/, gemini/).
package deckparse
