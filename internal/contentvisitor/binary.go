package contentvisitor

import "bytes"

// binarySampleSize mirrors the teacher's indexing.BinaryDetector
// (512-byte leading sample), though spec.md §4.4 step 2 narrows the
// detection rule itself down to a NUL check rather than the teacher's
// magic-number database — the core here never needs to guess a file's
// language/format, only whether it is safe to treat as text.
const binarySampleSize = 512

// containsNUL reports whether a NUL byte appears in the leading sample
// of data, spec.md §4.4 step 2's binary-detection primitive.
func containsNUL(data []byte) bool {
	n := len(data)
	if n > binarySampleSize {
		n = binarySampleSize
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}
