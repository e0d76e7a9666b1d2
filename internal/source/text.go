package source

import (
	"bytes"
	"sort"

	"fortio.org/safecast"
)

// normalizeCRLF replaces every "\r\n" with "\n"; lone '\r' bytes stay.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(err)
		}
		out = append(out, off)
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[line-1] + 1
	n, err := safecast.Conv[uint32](line)
	if err != nil {
		panic(err)
	}
	return LineCol{Line: n + 1, Col: off - lineStart + 1}
}
