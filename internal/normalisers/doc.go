// Package normalisers provides text normalisation and per-format
// extraction for ingested files. Each format lives in its own
// subpackage implementing the driven.Extractor port; the registry picks
// one by filename extension.
package normalisers
