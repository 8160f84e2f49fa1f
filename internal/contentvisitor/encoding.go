package contentvisitor

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText applies spec.md §4.4 step 3's encoding policy: "auto"
// sniffs a leading BOM (UTF-8/UTF-16-LE/BE) and transcodes accordingly;
// "none" passes bytes through unchanged; "utf-16le" and "utf-16be" are
// applied unconditionally, without looking for a BOM. Any other
// encoding name is not transcoded: the bytes pass through unchanged and
// no error is returned. Transcoding uses stdlib unicode/utf16 —
// golang.org/x/text appears in the example pack only as another
// repo's transitive, unimported dependency, not as a library any
// example actually calls for text transcoding, so it is not a genuine
// wiring target here (DESIGN.md).
func decodeText(data []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "", "auto":
		switch {
		case bytes.HasPrefix(data, bomUTF8):
			return data[len(bomUTF8):], nil
		case bytes.HasPrefix(data, bomUTF16LE):
			return decodeUTF16(data[len(bomUTF16LE):], binary.LittleEndian), nil
		case bytes.HasPrefix(data, bomUTF16BE):
			return decodeUTF16(data[len(bomUTF16BE):], binary.BigEndian), nil
		default:
			return data, nil
		}
	case "none":
		return data, nil
	case "utf-16le":
		return decodeUTF16(data, binary.LittleEndian), nil
	case "utf-16be":
		return decodeUTF16(data, binary.BigEndian), nil
	default:
		return data, nil
	}
}

func decodeUTF16(data []byte, order binary.ByteOrder) []byte {
	n := len(data) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = order.Uint16(data[i*2 : i*2+2])
	}
	return []byte(string(utf16.Decode(units)))
}
