/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package postproc

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BinaryQuarantineMessage replaces the entire stream when a NUL byte is
// found in the first 8KiB (spec.md §8 property 7).
const BinaryQuarantineMessage = "[rga: binary data]"

const sniffWindow = 8 * 1024

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewEncodingNormalizer peeks the first 8KiB of src: a NUL byte anywhere
// in that window replaces the whole stream with BinaryQuarantineMessage;
// otherwise a leading UTF-8 BOM is stripped and a leading UTF-16 BOM
// triggers transcoding to UTF-8, matching spec.md §4.7's "design slot".
func NewEncodingNormalizer(src io.Reader) io.Reader {
	br := bufio.NewReaderSize(src, sniffWindow)

	peek, _ := br.Peek(sniffWindow)
	if bytes.IndexByte(peek, 0x00) >= 0 {
		return bytes.NewReader([]byte(BinaryQuarantineMessage))
	}

	switch {
	case bytes.HasPrefix(peek, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br
	case bytes.HasPrefix(peek, bomUTF16LE):
		_, _ = br.Discard(len(bomUTF16LE))
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case bytes.HasPrefix(peek, bomUTF16BE):
		_, _ = br.Discard(len(bomUTF16BE))
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	default:
		return br
	}
}
