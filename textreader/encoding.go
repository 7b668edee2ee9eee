package textreader

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/hupe1980/zunderbolt/integer"
)

// Encoding identifies the text encoding of a source.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case UTF32LE:
		return "UTF-32LE"
	case UTF32BE:
		return "UTF-32BE"
	default:
		return "unknown"
	}
}

// UnitSize returns the size in bytes of one code unit.
func (e Encoding) UnitSize() int {
	switch e {
	case UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	default:
		return 1
	}
}

// BOM returns the byte order mark of the encoding.
func (e Encoding) BOM() []byte {
	switch e {
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	case UTF32LE:
		return []byte{0xFF, 0xFE, 0x00, 0x00}
	case UTF32BE:
		return []byte{0x00, 0x00, 0xFE, 0xFF}
	default:
		return []byte{0xEF, 0xBB, 0xBF}
	}
}

func (e Encoding) textEncoding() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	default:
		return unicode.UTF8
	}
}

// newline returns the encoded line feed.
func (e Encoding) newline() []byte {
	switch e {
	case UTF16LE:
		return []byte{0x0A, 0x00}
	case UTF16BE:
		return []byte{0x00, 0x0A}
	case UTF32LE:
		return []byte{0x0A, 0x00, 0x00, 0x00}
	case UTF32BE:
		return []byte{0x00, 0x00, 0x00, 0x0A}
	default:
		return []byte{0x0A}
	}
}

const bomMark = 0xFEFF

// DetectBOM inspects up to four leading bytes. UTF-32 marks are checked
// before UTF-16 since the UTF-32LE mark starts with the UTF-16LE one.
// It returns the encoding and the length of the mark, or UTF8 and 0 when
// there is none.
func DetectBOM(head []byte) (Encoding, int) {
	var word [4]byte
	copy(word[:], head)
	v32 := binary.LittleEndian.Uint32(word[:])
	v16 := uint16(v32)

	switch {
	case len(head) >= 4 && v32 == bomMark:
		return UTF32LE, 4
	case len(head) >= 4 && v32 == integer.SwapEndianness(uint32(bomMark)):
		return UTF32BE, 4
	case len(head) >= 2 && v16 == bomMark:
		return UTF16LE, 2
	case len(head) >= 2 && v16 == integer.SwapEndianness(uint16(bomMark)):
		return UTF16BE, 2
	case len(head) >= 3 && bytes.Equal(head[:3], UTF8.BOM()):
		return UTF8, 3
	default:
		return UTF8, 0
	}
}
