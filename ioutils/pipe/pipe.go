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

package pipe

import (
	"io"
	"sync"
)

// chunk is one unit handed from Write to Read: either bytes, or a
// terminal error (EOF included) that the consumer must observe instead of
// any bytes.
type chunk struct {
	p   []byte
	err error
}

// Writer is the producer half of a pipe. Every Write blocks until a
// Reader is ready to receive it (unbuffered handoff — capacity 0 is
// acceptable per spec), which keeps a slow consumer from letting an
// unbounded backlog build up in memory.
type Writer struct {
	ch     chan chunk
	closed chan struct{}
	once   sync.Once
}

// Reader is the consumer half. Read blocks until the matching Writer
// sends a chunk or is closed.
type Reader struct {
	ch      chan chunk
	closed  chan struct{}
	once    sync.Once
	pending []byte
	err     error
}

// New returns a connected (Reader, Writer) pair.
func New() (*Reader, *Writer) {
	ch := make(chan chunk)
	closed := make(chan struct{})
	return &Reader{ch: ch, closed: closed}, &Writer{ch: ch, closed: closed}
}

// Write sends p to the Reader. It blocks until the Reader consumes it (or
// is closed first, in which case it returns ErrBrokenPipe).
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	buf := make([]byte, len(p))
	copy(buf, p)

	select {
	case w.ch <- chunk{p: buf}:
		return len(p), nil
	case <-w.closed:
		return 0, ErrBrokenPipe
	}
}

// Fail delivers err to the Reader's next Read instead of any further
// bytes, then ends the stream. Calling Fail with a nil error is equivalent
// to CloseWriter.
func (w *Writer) Fail(err error) error {
	if err == nil {
		err = io.EOF
	}
	select {
	case w.ch <- chunk{err: err}:
	case <-w.closed:
		return ErrBrokenPipe
	}
	w.once.Do(func() { close(w.ch) })
	return nil
}

// Close ends the stream normally: the Reader observes io.EOF after
// draining whatever was already in flight.
func (w *Writer) Close() error {
	w.once.Do(func() { close(w.ch) })
	return nil
}

// Read implements io.Reader. A single Write may be split across multiple
// Read calls if p is smaller than the chunk.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil && len(r.pending) == 0 {
		return 0, r.err
	}

	for len(r.pending) == 0 {
		c, ok := <-r.ch
		if !ok {
			r.err = io.EOF
			return 0, r.err
		}
		if c.err != nil {
			r.err = c.err
			return 0, r.err
		}
		r.pending = c.p
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Close drops the reader side. Any Writer blocked in Write or Fail
// unblocks with ErrBrokenPipe, and future Writes fail the same way.
func (r *Reader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}
