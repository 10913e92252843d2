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

// MatcherKind distinguishes a fast filename-extension matcher from a slow
// MIME-type matcher.
type MatcherKind uint8

const (
	// Extension matches on the lowercase, dot-free filename extension.
	Extension MatcherKind = iota
	// Mime matches on the MIME type detected from the first 8KiB.
	Mime
)

// Matcher is one candidate rule an adapter registers itself under.
type Matcher struct {
	Kind  MatcherKind
	Value string
}

// Meta describes one registered adapter: its identity, its matchers, and
// the flags that change how the registry and the matcher treat it.
type Meta struct {
	// Name uniquely identifies the adapter across the registry.
	Name string
	// Version is bumped whenever the adapter's output format changes;
	// bumping it invalidates every cache entry keyed under this adapter.
	Version int
	// Description is a one-line human summary, shown by --rga-list-adapters.
	Description string
	// FastMatchers are lowercase, dot-free file extensions.
	FastMatchers []string
	// SlowMatchers are MIME type strings, consulted only in accurate mode.
	SlowMatchers []string
	// Recurses is true for adapters that emit child AdaptInfos (archives).
	// It changes how the cache key is computed — see preproc.CacheKey.
	Recurses bool
	// KeepFastMatchersIfAccurate: in accurate mode, also accept an
	// extension match for this adapter even though a MIME matcher fired
	// for some other adapter or none at all.
	KeepFastMatchersIfAccurate bool
	// DisabledByDefault adapters only run if the user opts in with
	// "+name" in --rga-adapters.
	DisabledByDefault bool
}

// Matchers returns every Matcher this adapter's metadata describes, fast
// ones first, in declaration order — the order matcher compilation and
// tie-break warnings rely on.
func (m Meta) Matchers() []Matcher {
	out := make([]Matcher, 0, len(m.FastMatchers)+len(m.SlowMatchers))
	for _, e := range m.FastMatchers {
		out = append(out, Matcher{Kind: Extension, Value: e})
	}
	for _, t := range m.SlowMatchers {
		out = append(out, Matcher{Kind: Mime, Value: t})
	}
	return out
}
