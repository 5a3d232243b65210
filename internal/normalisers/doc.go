// Package normalisers provides text extraction from uploaded documents.
//
// Each normaliser handles a set of file extensions and produces page text
// for the chunking pipeline. The Registry routes an upload to the right
// normaliser by its detected extension.
package normalisers
