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

package concat

import (
	"io"

	"github.com/nabbar/rga/adapter"
)

// Recurse re-preprocesses one child AdaptInfo and returns a reader over
// its fully-resolved plain text. preproc.Engine.Recurse satisfies this;
// it is taken as a function here rather than an interface import to keep
// concat free of a dependency on preproc (preproc depends on concat, not
// the reverse).
type Recurse func(info adapter.AdaptInfo) (io.ReadCloser, error)

// Reader flattens seq into one continuous stream. Only one inner reader
// is ever open at a time; the next child is not pulled from seq (and not
// recursed into) until the previous one reaches EOF.
type Reader struct {
	seq     adapter.Seq
	recurse Recurse
	cur     io.ReadCloser
	err     error
	done    bool
}

// New returns a Reader over seq. recurse must not be nil.
func New(seq adapter.Seq, recurse Recurse) *Reader {
	return &Reader{seq: seq, recurse: recurse}
}

// Read implements io.Reader. After an error from a child or from seq
// itself, the Reader is poisoned: every subsequent Read returns that
// same error.
func (r *Reader) Read(p []byte) (int, error) {
	for {
		if r.err != nil {
			return 0, r.err
		}
		if r.done {
			return 0, io.EOF
		}

		if r.cur == nil {
			if !r.seq.Next() {
				if err := r.seq.Err(); err != nil {
					r.err = err
					return 0, err
				}
				r.done = true
				return 0, io.EOF
			}

			rc, err := r.recurse(r.seq.Value())
			if err != nil {
				r.err = err
				return 0, err
			}
			r.cur = rc
		}

		n, err := r.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			_ = r.cur.Close()
			r.cur = nil
			continue
		}
		if err != nil {
			_ = r.cur.Close()
			r.cur = nil
			r.err = err
			return 0, err
		}
		// n == 0, err == nil: loop to ask the same inner reader again.
	}
}

// Close releases the current inner reader, if any, and stops pulling
// further children. It does not drain the underlying Seq.
func (r *Reader) Close() error {
	r.done = true
	if r.cur != nil {
		err := r.cur.Close()
		r.cur = nil
		return err
	}
	return nil
}
