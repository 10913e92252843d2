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

package adapter

import (
	"io"

	libcfg "github.com/nabbar/rga/rgaconfig"
)

// AdaptInfo is the per-file record that flows through the pipeline. An
// AdaptInfo owns Inp linearly: exactly one reader is ever taken from it,
// by the caller that receives it (the concat reader or a terminal
// consumer). Never read Inp from two places.
type AdaptInfo struct {
	// FilepathHint is used for matching and for the line-prefix display;
	// it need not exist on disk (e.g. an archive member's internal path).
	FilepathHint string
	// IsRealFile is true iff FilepathHint names an actual readable path.
	// Adapters that require random access or a file descriptor (sqlite,
	// ffmpeg, pdfpages) must refuse when this is false.
	IsRealFile bool
	// ArchiveRecursionDepth counts how many archive adapters produced
	// this AdaptInfo as a descendant. The root file starts at 0.
	ArchiveRecursionDepth int
	// Inp is the byte stream owned by this AdaptInfo. Read it exactly
	// once, then Close it.
	Inp io.ReadCloser
	// LinePrefix accumulates archive member path segments; it is
	// prepended to every output line by postproc.
	LinePrefix string
	// Config is the frozen, process-wide configuration record.
	Config *libcfg.Config
	// Postprocess, when true, tells the engine the line-prefix wrap has
	// already been applied to this stream upstream and must not be
	// applied again — either in the no-adapter-matched fallback or
	// around a non-recursing adapter's own converted output. Defaults to
	// false, the common case: nothing has prefixed this content yet.
	Postprocess bool
	// ForceAccurate overrides config.Accurate for just this AdaptInfo's
	// matcher pass. The mbox adapter sets this on every child it emits,
	// per spec.md §4.6: MIME accuracy is forced on for mbox children
	// regardless of the top-level --rga-accurate flag.
	ForceAccurate bool
}

// MatchReason records which matcher fired and why, so an adapter can log
// or branch on whether it was picked by extension or by detected MIME.
type MatchReason struct {
	Matcher Matcher
	// Mime is the MIME type actually detected, set only when Matcher.Kind
	// is Mime.
	Mime string
}

// Adapter is the contract every converter satisfies. Adapt returns a lazy
// sequence of child AdaptInfos: the caller must fully consume (or close)
// each one before asking for the next, because children may share the
// parent's underlying byte source (archive members in particular).
//
// A non-recursing adapter (ordinary converters) always yields exactly one
// AdaptInfo before its Next returns false. A recursing adapter (archives)
// yields zero or more.
type Adapter interface {
	// Meta returns this adapter's static metadata.
	Meta() Meta
	// Adapt begins converting the given AdaptInfo and returns a sequence
	// to pull children from. info.Inp is consumed by Adapt or by the
	// returned Seq — never by both.
	Adapt(info AdaptInfo, reason MatchReason) (Seq, error)
}

// Seq is a pull-based, single-owner sequence of AdaptInfo values. It is
// the Go expression of the "lazy sequence" design note: callers drive it
// with Next/Value/Err rather than the adapter recursing into the engine
// on the call stack, which keeps stack depth independent of container
// nesting depth.
type Seq interface {
	// Next advances to the next AdaptInfo, returning false at the end of
	// the sequence or after an error (check Err to distinguish the two).
	// The previous Value must be fully read or Closed before calling Next.
	Next() bool
	// Value returns the AdaptInfo most recently advanced to by Next.
	Value() AdaptInfo
	// Err returns the error that stopped the sequence, if any.
	Err() error
}

// SliceSeq adapts a pre-built slice of AdaptInfo into a Seq, for adapters
// whose entire output set is known up front (e.g. a single-member
// passthrough or a fully-buffered archive listing).
type SliceSeq struct {
	items []AdaptInfo
	pos   int
	err   error
}

func NewSliceSeq(items ...AdaptInfo) *SliceSeq {
	return &SliceSeq{items: items, pos: -1}
}

func (s *SliceSeq) Next() bool {
	if s.err != nil {
		return false
	}
	s.pos++
	return s.pos < len(s.items)
}

func (s *SliceSeq) Value() AdaptInfo {
	if s.pos < 0 || s.pos >= len(s.items) {
		return AdaptInfo{}
	}
	return s.items[s.pos]
}

func (s *SliceSeq) Err() error {
	return s.err
}

// FuncSeq adapts a pull closure into a Seq — the shape most archive
// adapters use, since they pull one header/entry at a time from an
// underlying archive/tar or archive/zip reader.
type FuncSeq struct {
	next func() (AdaptInfo, bool, error)
	cur  AdaptInfo
	err  error
}

func NewFuncSeq(next func() (AdaptInfo, bool, error)) *FuncSeq {
	return &FuncSeq{next: next}
}

func (s *FuncSeq) Next() bool {
	if s.err != nil {
		return false
	}
	v, ok, err := s.next()
	if err != nil {
		s.err = err
		return false
	}
	if !ok {
		return false
	}
	s.cur = v
	return true
}

func (s *FuncSeq) Value() AdaptInfo {
	return s.cur
}

func (s *FuncSeq) Err() error {
	return s.err
}
