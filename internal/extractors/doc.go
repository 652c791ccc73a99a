// Package extractors provides the TextExtractor registry and wires the
// built-in extractors, one sub-package per file kind:
//
//   - plaintext: .txt, .text, .md, .csv, .log
//   - pdf: .pdf
//   - docx: .docx
//   - msdoc: .doc (Word 97-2003)
//   - spreadsheet: .xlsx, .xlsm, .xls
//
// Dispatch is on the lower-cased extension of the declared file name.
// Unsupported extensions extract to "" without error.
package extractors
