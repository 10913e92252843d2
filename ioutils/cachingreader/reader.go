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

package cachingreader

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// OnFinish is called exactly once, after the last byte of the wrapped
// reader has been observed by the caller, with the total uncompressed
// byte count and the finished compressed blob — only when the tee never
// exceeded MaxBlobLen. It is never called if the cap was exceeded or the
// underlying reader returned a non-EOF error.
type OnFinish func(uncompressedLen int64, compressed []byte)

// Reader tees src into a zstd encoder as it is read, subject to a cap on
// the compressed size.
type Reader struct {
	src         io.Reader
	maxBlobLen  int64
	onFinish    OnFinish
	buf         *bytes.Buffer
	enc         *zstd.Encoder
	uncompLen   int64
	capExceeded bool
	finished    bool
}

// New wraps src with a caching tee. level is the zstd compression level
// (1-22, per spec.md's --rga-cache-compression-level); maxBlobLen caps the
// compressed size in bytes. onFinish may be nil (disables the commit,
// equivalent to running with caching off while keeping the same shape).
func New(src io.Reader, level int, maxBlobLen int64, onFinish OnFinish) (*Reader, error) {
	buf := &bytes.Buffer{}
	enc, err := zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	return &Reader{
		src:        src,
		maxBlobLen: maxBlobLen,
		onFinish:   onFinish,
		buf:        buf,
		enc:        enc,
	}, nil
}

// Read implements io.Reader. Every byte that flows to the caller is also
// fed to the zstd encoder, unless the cap has already tripped.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.uncompLen += int64(n)
		if !r.capExceeded && r.enc != nil {
			if _, werr := r.enc.Write(p[:n]); werr != nil {
				r.dropEncoder()
			} else if int64(r.buf.Len()) > r.maxBlobLen {
				r.dropEncoder()
			}
		}
	}

	if err == io.EOF {
		r.finish()
	}

	return n, err
}

func (r *Reader) dropEncoder() {
	if r.enc != nil {
		_ = r.enc.Close()
		r.enc = nil
	}
	r.buf = nil
	r.capExceeded = true
}

func (r *Reader) finish() {
	if r.finished {
		return
	}
	r.finished = true

	if r.capExceeded || r.enc == nil {
		return
	}

	if err := r.enc.Close(); err != nil {
		r.capExceeded = true
		return
	}

	if int64(r.buf.Len()) > r.maxBlobLen {
		return
	}

	if r.onFinish != nil {
		r.onFinish(r.uncompLen, r.buf.Bytes())
	}
}

// DecodeCached returns a reader over blob, the exact inverse of the
// encoder this package's Reader uses — for the cache-hit path (§4.8 step
// 6: "return a zstd-decoder over the cached blob").
func DecodeCached(blob []byte) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	return zstdDecoderCloser{zr}, nil
}

type zstdDecoderCloser struct {
	*zstd.Decoder
}

func (z zstdDecoderCloser) Close() error {
	z.Decoder.Close()
	return nil
}
