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
	"fmt"
	"io"
)

// formFeed is the ASCII form-feed byte (0x0C) treated as a page separator.
const formFeed = 0x0C

// PageBreakReader maintains a 1-based page counter: every form feed both
// increments the counter and begins a new output line (the form feed
// itself is dropped, not copied to output); every line — including lines
// created by a form feed — is prefixed "Page N:" followed by linePrefix.
type PageBreakReader struct {
	src        io.Reader
	linePrefix string
	page       int
	started    bool
	buf        []byte
	srcErr     error
	scratch    [32 * 1024]byte
}

// NewPageBreakReader wraps src with page-break numbering; linePrefix is
// the already-accumulated archive line prefix, appended after "Page N:".
func NewPageBreakReader(src io.Reader, linePrefix string) *PageBreakReader {
	return &PageBreakReader{src: src, linePrefix: linePrefix, page: 1}
}

func (p *PageBreakReader) pageTag() []byte {
	return []byte(fmt.Sprintf("Page %d:%s", p.page, p.linePrefix))
}

func (p *PageBreakReader) Read(out []byte) (int, error) {
	for len(p.buf) == 0 {
		if p.srcErr != nil {
			return 0, p.srcErr
		}

		n, err := p.src.Read(p.scratch[:])
		if n > 0 {
			if !p.started {
				p.buf = append(p.buf, p.pageTag()...)
				p.started = true
			}
			for _, b := range p.scratch[:n] {
				switch b {
				case '\n':
					p.buf = append(p.buf, '\n')
					p.buf = append(p.buf, p.pageTag()...)
				case formFeed:
					p.page++
					p.buf = append(p.buf, '\n')
					p.buf = append(p.buf, p.pageTag()...)
				default:
					p.buf = append(p.buf, b)
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
