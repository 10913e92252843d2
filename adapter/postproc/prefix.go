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

import "io"

// PrefixReader emits prefix once at the start of the stream, then again
// after every '\n'. With prefix == "" this is the identity transform
// (spec.md §8 property 5).
type PrefixReader struct {
	src     io.Reader
	prefix  []byte
	started bool
	buf     []byte
	srcErr  error
	scratch [32 * 1024]byte
}

// NewPrefixReader wraps src, injecting prefix at stream start and after
// every newline.
func NewPrefixReader(src io.Reader, prefix string) *PrefixReader {
	return &PrefixReader{src: src, prefix: []byte(prefix)}
}

func (p *PrefixReader) Read(out []byte) (int, error) {
	for len(p.buf) == 0 {
		if p.srcErr != nil {
			return 0, p.srcErr
		}

		n, err := p.src.Read(p.scratch[:])
		if n > 0 {
			if !p.started {
				p.buf = append(p.buf, p.prefix...)
				p.started = true
			}
			for _, b := range p.scratch[:n] {
				p.buf = append(p.buf, b)
				if b == '\n' {
					p.buf = append(p.buf, p.prefix...)
				}
			}
		}
		if err != nil {
			p.srcErr = err
		}
	}

	n := copy(out, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}
