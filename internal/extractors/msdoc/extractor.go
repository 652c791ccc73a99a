// Package msdoc extracts legacy Word 97-2003 binary documents.
//
// The text lives in the WordDocument stream of an OLE compound file and is
// located through the piece table (CLX) stored in the 0Table or 1Table stream.
package msdoc

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

const (
	streamWordDocument = "WordDocument"
	streamTable0       = "0Table"
	streamTable1       = "1Table"

	wordIdent = 0xA5EC

	flagEncrypted    = 0x0100
	flagWhichTblStm  = 0x0200
	fcCompressedFlag = 0x40000000

	// fcClxIndex is the position of fcClx/lcbClx in FibRgFcLcb97.
	fcClxIndex = 33
)

var (
	errNotWordDocument = errors.New("not a Word 97-2003 document")
	errEncrypted       = errors.New("document is encrypted")
	errTruncated       = errors.New("truncated structure")
	errNoPieceTable    = errors.New("piece table not found")
)

// Extractor handles DOC documents.
type Extractor struct{}

// New creates a new DOC extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".doc"}
}

// Extract returns the main document text. Field codes are dropped and
// field results kept.
func (e *Extractor) Extract(_ context.Context, content []byte, fileName string) (string, error) {
	streams, err := readStreams(content)
	if err != nil {
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}

	text, err := parseWordDocument(streams[streamWordDocument], streams[streamTable0], streams[streamTable1])
	if err != nil {
		return "", &domain.ExtractionError{FileName: fileName, Err: err}
	}
	return text, nil
}

// readStreams returns the WordDocument and table streams of a compound file.
func readStreams(content []byte) (map[string][]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening compound file: %w", err)
	}

	streams := make(map[string][]byte)
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading compound file: %w", err)
		}

		switch entry.Name {
		case streamWordDocument, streamTable0, streamTable1:
			buf := make([]byte, entry.Size)
			if _, err := io.ReadFull(entry, buf); err != nil {
				return nil, fmt.Errorf("reading %s stream: %w", entry.Name, err)
			}
			streams[entry.Name] = buf
		}
	}

	if streams[streamWordDocument] == nil {
		return nil, errNotWordDocument
	}
	return streams, nil
}

// fib holds the File Information Block fields needed to find the text.
type fib struct {
	table   string
	ccpText uint32
	fcClx   uint32
	lcbClx  uint32
}

func readFIB(wd []byte) (fib, error) {
	if len(wd) < 0x22 {
		return fib{}, errTruncated
	}
	if binary.LittleEndian.Uint16(wd) != wordIdent {
		return fib{}, errNotWordDocument
	}

	flags := binary.LittleEndian.Uint16(wd[0x0A:])
	if flags&flagEncrypted != 0 {
		return fib{}, errEncrypted
	}

	f := fib{table: streamTable0}
	if flags&flagWhichTblStm != 0 {
		f.table = streamTable1
	}

	// FibBase is 32 bytes, followed by three counted arrays.
	pos := 0x20
	csw, ok := u16(wd, pos)
	if !ok {
		return fib{}, errTruncated
	}
	pos += 2 + int(csw)*2

	cslw, ok := u16(wd, pos)
	if !ok {
		return fib{}, errTruncated
	}
	rgLw := pos + 2
	pos = rgLw + int(cslw)*4

	if f.ccpText, ok = u32(wd, rgLw+0x0C); !ok {
		return fib{}, errTruncated
	}

	cbRgFcLcb, ok := u16(wd, pos)
	if !ok || cbRgFcLcb <= fcClxIndex {
		return fib{}, errTruncated
	}
	pair := pos + 2 + fcClxIndex*8
	if f.fcClx, ok = u32(wd, pair); !ok {
		return fib{}, errTruncated
	}
	if f.lcbClx, ok = u32(wd, pair+4); !ok {
		return fib{}, errTruncated
	}
	return f, nil
}

// piece is one entry of the piece table.
type piece struct {
	cpStart, cpEnd uint32
	fc             uint32
	compressed     bool
}

// readPieceTable parses the CLX: optional Prc entries, then one Pcdt.
func readPieceTable(clx []byte) ([]piece, error) {
	pos := 0
	for pos < len(clx) && clx[pos] == 0x01 {
		cb, ok := u16(clx, pos+1)
		if !ok {
			return nil, errTruncated
		}
		pos += 3 + int(cb)
	}
	if pos >= len(clx) || clx[pos] != 0x02 {
		return nil, errNoPieceTable
	}

	lcb, ok := u32(clx, pos+1)
	if !ok || lcb < 4 {
		return nil, errTruncated
	}
	start := pos + 5
	if start+int(lcb) > len(clx) {
		return nil, errTruncated
	}
	plc := clx[start : start+int(lcb)]

	// n+1 character positions followed by n 8-byte piece descriptors.
	n := (len(plc) - 4) / 12
	pieces := make([]piece, 0, n)
	for i := 0; i < n; i++ {
		cpStart := binary.LittleEndian.Uint32(plc[i*4:])
		cpEnd := binary.LittleEndian.Uint32(plc[(i+1)*4:])
		pcd := 4*(n+1) + i*8
		fc := binary.LittleEndian.Uint32(plc[pcd+2:])
		pieces = append(pieces, piece{
			cpStart:    cpStart,
			cpEnd:      cpEnd,
			fc:         fc &^ fcCompressedFlag,
			compressed: fc&fcCompressedFlag != 0,
		})
	}
	return pieces, nil
}

// parseWordDocument decodes the main document text.
func parseWordDocument(wd, table0, table1 []byte) (string, error) {
	f, err := readFIB(wd)
	if err != nil {
		return "", err
	}

	table := table0
	if f.table == streamTable1 {
		table = table1
	}
	if table == nil {
		return "", fmt.Errorf("%s stream missing", f.table)
	}

	end := uint64(f.fcClx) + uint64(f.lcbClx)
	if f.lcbClx == 0 || end > uint64(len(table)) {
		return "", errNoPieceTable
	}
	pieces, err := readPieceTable(table[int(f.fcClx):int(end)])
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, p := range pieces {
		if p.cpStart >= f.ccpText {
			break
		}
		cpEnd := p.cpEnd
		if cpEnd > f.ccpText {
			cpEnd = f.ccpText
		}
		if cpEnd <= p.cpStart {
			continue
		}

		text, err := decodePiece(wd, p, int(cpEnd-p.cpStart))
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}

	return cleanText(b.String()), nil
}

func decodePiece(wd []byte, p piece, chars int) (string, error) {
	if p.compressed {
		start := int(p.fc / 2)
		if start+chars > len(wd) {
			return "", errTruncated
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(wd[start : start+chars])
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	start := int(p.fc)
	if start+chars*2 > len(wd) {
		return "", errTruncated
	}
	units := make([]uint16, chars)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(wd[start+i*2:])
	}
	return string(utf16.Decode(units)), nil
}

// cleanText maps Word control characters to plain text.
func cleanText(s string) string {
	var b strings.Builder
	// One entry per open field: true while in the field code, false in its result.
	var fields []bool

	for _, r := range s {
		switch r {
		case 0x13:
			fields = append(fields, true)
			continue
		case 0x14:
			if len(fields) > 0 {
				fields[len(fields)-1] = false
			}
			continue
		case 0x15:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if inFieldCode(fields) {
			continue
		}

		switch {
		case r == '\r', r == 0x0B, r == 0x0C, r == 0x0E:
			b.WriteByte('\n')
		case r == 0x07:
			b.WriteByte('\t')
		case r == '\t', r == '\n':
			b.WriteRune(r)
		case r < 0x20:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "\n\t")
}

func inFieldCode(fields []bool) bool {
	for _, code := range fields {
		if code {
			return true
		}
	}
	return false
}

func u16(b []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b[off:]), true
}

func u32(b []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}
