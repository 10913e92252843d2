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
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileMeta is the matcher's input: the filename as seen by the caller
// (which may be lossy, e.g. non-UTF8 on some platforms) and, in accurate
// mode, the MIME type detected from the file's leading bytes.
type FileMeta struct {
	LossyFilename string
	Mimetype      string
}

// candidate is one compiled matcher tied back to the adapter it belongs
// to and its position in registry order (used for the tie-break).
type candidate struct {
	re    *regexp.Regexp
	kind  MatcherKind
	value string
	name  string
	order int
	keep  bool // KeepFastMatchersIfAccurate
}

// CompiledMatcher holds the two regex sets built from an adapter
// registry's active set: one from file extensions, one from MIME types.
// Compiling once and reusing it across many Match calls is the reason
// this type exists separately from Registry — the spec calls this a
// startup-time, fatal-on-error step (§7).
type CompiledMatcher struct {
	ext  []candidate
	mime []candidate
}

// Compile builds a CompiledMatcher from the active adapters of r, in
// registry order. A malformed matcher value is a startup error per §7.
func Compile(r *Registry) (*CompiledMatcher, error) {
	cm := &CompiledMatcher{}

	for i, a := range r.Active() {
		meta := a.Meta()
		for _, ext := range meta.FastMatchers {
			re, err := regexp.Compile(`(?i).*\.` + regexp.QuoteMeta(ext) + `$`)
			if err != nil {
				return nil, fmt.Errorf("compiling extension matcher %q for adapter %s: %w", ext, meta.Name, err)
			}
			cm.ext = append(cm.ext, candidate{re: re, kind: Extension, value: ext, name: meta.Name, order: i, keep: meta.KeepFastMatchersIfAccurate})
		}
		for _, mt := range meta.SlowMatchers {
			re, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(mt) + `$`)
			if err != nil {
				return nil, fmt.Errorf("compiling mime matcher %q for adapter %s: %w", mt, meta.Name, err)
			}
			cm.mime = append(cm.mime, candidate{re: re, kind: Mime, value: mt, name: meta.Name, order: i})
		}
	}

	return cm, nil
}

// Warning is emitted by Match when more than one adapter's matcher fired
// for the same file; the earliest-registered adapter wins but every
// candidate is reported so the ambiguity is visible.
type Warning struct {
	File       string
	Candidates []string
}

func (w Warning) String() string {
	return fmt.Sprintf("multiple adapters matched %s: %v (using the first)", w.File, w.Candidates)
}

// Match resolves a FileMeta to at most one (adapter name, MatchReason)
// pair, honoring fast vs. accurate mode. It never consults r directly —
// Compile must be called again whenever the active adapter set changes.
//
// accurate=false: only extension matchers run (fast mode).
// accurate=true: MIME matchers run against fm.Mimetype; extension
// matchers also run for adapters whose KeepFastMatchersIfAccurate is set.
//
// Returns ("", MatchReason{}, false, nil) when nothing fired.
func (cm *CompiledMatcher) Match(fm FileMeta, accurate bool) (string, MatchReason, bool, *Warning) {
	type hit struct {
		name  string
		order int
		mr    MatchReason
	}
	var hits []hit

	if accurate && fm.Mimetype != "" {
		for _, c := range cm.mime {
			if c.re.MatchString(fm.Mimetype) {
				hits = append(hits, hit{name: c.name, order: c.order, mr: MatchReason{Matcher: Matcher{Kind: Mime, Value: c.value}, Mime: fm.Mimetype}})
			}
		}
	}

	for _, c := range cm.ext {
		if accurate && !c.keep {
			// In accurate mode, plain extension matchers stand down in
			// favor of MIME matchers; only KeepFastMatchersIfAccurate
			// adapters also get a shot via extension.
			continue
		}
		if c.re.MatchString(fm.LossyFilename) {
			hits = append(hits, hit{name: c.name, order: c.order, mr: MatchReason{Matcher: Matcher{Kind: Extension, Value: c.value}}})
		}
	}

	if len(hits) == 0 {
		return "", MatchReason{}, false, nil
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h.order < best.order {
			best = h
		}
	}

	var warn *Warning
	if len(hits) > 1 {
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.name
		}
		warn = &Warning{File: fm.LossyFilename, Candidates: names}
	}

	return best.name, best.mr, true, warn
}

// DetectMime sniffs the MIME type of the first 8KiB of b, the accurate-
// mode detection step §4.2 and §4.8 both call for.
func DetectMime(b []byte) string {
	return mimetype.Detect(b).String()
}

// NormalizeExtension lowercases and strips a leading dot, matching the
// "lowercase, without dot" convention FastMatchers values use.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
