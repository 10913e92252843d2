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

package writing

import (
	"io"

	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/ioutils/pipe"
)

// ProduceFunc is the push-side body: it writes the converted output of
// info to w and returns any error (io.EOF is not special-cased — a nil
// return just ends the stream cleanly).
type ProduceFunc func(w io.Writer, info adapter.AdaptInfo) error

// Base is an adapter.Adapter whose conversion logic is expressed as a
// ProduceFunc instead of an external process. It never recurses.
type Base struct {
	meta    adapter.Meta
	produce ProduceFunc
}

// New returns a writing adapter base.
func New(meta adapter.Meta, produce ProduceFunc) *Base {
	meta.Recurses = false
	return &Base{meta: meta, produce: produce}
}

func (b *Base) Meta() adapter.Meta {
	return b.meta
}

// Adapt starts produce in its own goroutine against one end of an
// in-memory pipe and returns the other end as the single child
// AdaptInfo's Inp. info.Inp, if any, is closed once produce returns —
// callers that need to read it themselves should do so inside produce.
func (b *Base) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	r, w := pipe.New()

	go func() {
		err := b.produce(w, info)
		if info.Inp != nil {
			_ = info.Inp.Close()
		}
		if err != nil {
			_ = w.Fail(err)
			return
		}
		_ = w.Close()
	}()

	out := info
	out.Inp = r

	return adapter.NewSliceSeq(out), nil
}
