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

package builtin

import (
	"github.com/nabbar/rga/adapter"
)

// passthrough is the identity adapter: its Adapt leaves info.Inp
// untouched, so a seq.Next() of it hands the engine the raw bytes to
// prefix-wrap the ordinary way. Neither of the two built-ins below is
// ever chosen by the matcher in normal operation — "postproc-prefix" has
// no matchers at all (the engine calls its own applyFallbackPostproc
// directly rather than dispatching through the registry for it), and
// "postproc-pagebreaks" matches only a synthetic extension nothing in
// this port tags a file with. Both stay registered so --rga-list-adapters
// and --rga-adapters selection expressions can still name them, matching
// the declaration-order list spec.md §4.1 gives.
type passthrough struct {
	meta adapter.Meta
}

func (p *passthrough) Meta() adapter.Meta {
	return p.meta
}

func (p *passthrough) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	return adapter.NewSliceSeq(info), nil
}

// NewPostprocPrefix is the "postproc-prefix" built-in named in spec.md's
// declaration-order list. It never auto-matches; the engine's no-match
// fallback applies the same encoding+prefix treatment directly.
func NewPostprocPrefix() adapter.Adapter {
	return &passthrough{meta: adapter.Meta{
		Name:        "postproc-prefix",
		Version:     1,
		Description: "passthrough; the engine applies line-prefix postproc to it directly",
	}}
}

// NewPostprocPageBreaks is the "postproc-pagebreaks" built-in, selectable
// explicitly via --rga-adapters=+postproc-pagebreaks for a file whose
// content uses form feeds as page delimiters but that no other adapter
// recognizes.
func NewPostprocPageBreaks() adapter.Adapter {
	return &passthrough{meta: adapter.Meta{
		Name:         "postproc-pagebreaks",
		Version:      1,
		Description:  "passthrough; selectable for content with form-feed page delimiters",
		FastMatchers: []string{"asciipagebreaks"},
	}}
}
