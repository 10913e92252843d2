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

package preproc

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/adapter/postproc"
	"github.com/nabbar/rga/ioutils/cachingreader"
	"github.com/nabbar/rga/ioutils/concat"
	liblog "github.com/nabbar/rga/logger"
	"github.com/nabbar/rga/preproccache"
)

const minBufferSize = 64 * 1024
const mimeSniffWindow = 8 * 1024

// maxArchiveReachedMessage is appended (with the current line prefix) in
// place of descending further, per spec.md §4.8 step 1.
const maxArchiveReachedMessage = "[rga: max archive recursion reached]"

// Engine ties the registry, the compiled matcher, the frozen config and
// an optional cache store into the single entry point the CLI and the
// concat reader both call: Recurse.
type Engine struct {
	registry *adapter.Registry
	matcher  *adapter.CompiledMatcher
	cache    preproccache.Store
	log      liblog.Logger
}

// New builds an Engine. cache may be nil (caching layer entirely absent,
// as if --rga-no-cache were set); log may be nil (no logging).
func New(registry *adapter.Registry, matcher *adapter.CompiledMatcher, cache preproccache.Store, log liblog.Logger) *Engine {
	return &Engine{registry: registry, matcher: matcher, cache: cache, log: log}
}

func (e *Engine) debugf(msg string, args ...interface{}) {
	if e.log != nil {
		e.log.Debug(msg, nil, args...)
	}
}

func (e *Engine) errorf(msg string, args ...interface{}) {
	if e.log != nil {
		e.log.Error(msg, nil, args...)
	}
}

// Recurse runs the full engine pipeline on info and returns a single
// reader over its resolved plain text. It is the function concat.Reader
// calls for every child AdaptInfo a recursing adapter yields, which is
// how nested archives auto-descend through the whole engine rather than
// just the matcher.
func (e *Engine) Recurse(info adapter.AdaptInfo) (io.ReadCloser, error) {
	cfg := info.Config

	// Step 1: archive recursion depth guard.
	if info.ArchiveRecursionDepth >= cfg.MaxArchiveRecursion {
		e.debugf("max archive recursion reached at depth %d for %s", info.ArchiveRecursionDepth, info.FilepathHint)
		if info.Inp != nil {
			_ = info.Inp.Close()
		}
		msg := info.LinePrefix + maxArchiveReachedMessage
		return io.NopCloser(strings.NewReader(msg)), nil
	}

	// Step 2: buffered reader, >= 64KiB.
	br := bufio.NewReaderSize(info.Inp, minBufferSize)

	// Step 3: accurate-mode MIME peek.
	accurate := cfg.Accurate || info.ForceAccurate
	mime := ""
	if accurate {
		peek, _ := br.Peek(mimeSniffWindow)
		if len(peek) > 0 {
			mime = adapter.DetectMime(peek)
		}
	}

	// Step 4: matcher.
	name, reason, found, warn := e.matcher.Match(adapter.FileMeta{
		LossyFilename: info.FilepathHint,
		Mimetype:      mime,
	}, accurate)
	if warn != nil {
		e.debugf("ambiguous adapter match: %s", warn.String())
	}

	bufInfo := info
	bufInfo.Inp = wrapReader(br, info.Inp)

	if !found {
		// spec.md §4.2: passthrough is only allowed inside an archive or
		// under accurate mode; a real top-level file that matches nothing
		// is a hard failure, not a silent passthrough.
		if !info.IsRealFile || accurate {
			if info.Postprocess {
				e.debugf("no adapter matched %s, already postproc'd upstream", info.FilepathHint)
				return bufInfo.Inp, nil
			}
			e.debugf("no adapter matched %s, using passthrough", info.FilepathHint)
			return e.applyFallbackPostproc(bufInfo), nil
		}
		_ = bufInfo.Inp.Close()
		return nil, adapter.WrapError("", info.FilepathHint, ErrorNoAdapter.Error(nil))
	}

	a, _ := e.registry.Get(name)
	if a == nil {
		return nil, adapter.WrapError(name, info.FilepathHint, ErrorNoAdapter.Error(nil))
	}
	e.debugf("matched adapter %s for %s (reason=%v)", name, info.FilepathHint, reason)

	meta := a.Meta()

	// Steps 5-7: cache key, hit/miss dispatch.
	if e.cache != nil && info.IsRealFile && !cfg.NoCache {
		return e.runCached(a, meta, bufInfo, reason)
	}

	return e.runUncached(a, meta, bufInfo, reason)
}

func (e *Engine) runUncached(a adapter.Adapter, meta adapter.Meta, info adapter.AdaptInfo, reason adapter.MatchReason) io.ReadCloser {
	seq, err := a.Adapt(info, reason)
	if err != nil {
		return errReader(err)
	}
	if meta.Recurses {
		// A recursing (archive) adapter's children must each re-enter the
		// full engine (the matcher runs again on every member, so a
		// nested .tar.gz auto-descends) — the concat reader drives that.
		return &concatCloser{r: concat.New(seq, e.Recurse)}
	}

	// A non-recursing adapter always yields exactly one child carrying
	// its converted output; that output is final and must not be
	// re-matched, only prefix-postproc'd (unless the adapter already
	// injected its own prefix and set Postprocess to skip the wrap, as
	// none of the built-in converters currently do).
	if !seq.Next() {
		if err := seq.Err(); err != nil {
			return errReader(err)
		}
		return io.NopCloser(strings.NewReader(""))
	}
	out := seq.Value()
	if out.Postprocess {
		return out.Inp
	}
	return e.applyPostproc(out)
}

func (e *Engine) runCached(a adapter.Adapter, meta adapter.Meta, info adapter.AdaptInfo, reason adapter.MatchReason) (io.ReadCloser, error) {
	cfg := info.Config
	bucket := preproccache.BucketName(meta.Name, meta.Version)

	key, kerr := e.computeKey(meta, info)
	if kerr != nil {
		e.errorf("cache key computation failed for %s: %v", info.FilepathHint, kerr)
		return e.runUncached(a, meta, info, reason), nil
	}

	if blob, ok, err := e.cache.Get(bucket, key); err == nil && ok {
		e.debugf("cache hit for %s in bucket %s", info.FilepathHint, bucket)
		return cachingreader.DecodeCached(blob)
	}
	e.debugf("cache miss for %s in bucket %s", info.FilepathHint, bucket)

	inner := e.runUncached(a, meta, info, reason)

	cr, err := cachingreader.New(inner, cfg.CacheCompressionLevel, cfg.CacheMaxBlobLen, func(uncompressedLen int64, compressed []byte) {
		if perr := e.cache.Put(bucket, key, compressed); perr != nil {
			// Errors during caching are swallowed with a warning: a
			// failure to cache must never corrupt what the caller
			// already received (spec.md §7 propagation policy).
			e.errorf("failed to commit cache entry for %s: %v", info.FilepathHint, perr)
		}
	})
	if err != nil {
		e.errorf("caching tee setup failed for %s: %v", info.FilepathHint, err)
		return inner, nil
	}

	return struct {
		io.Reader
		io.Closer
	}{Reader: cr, Closer: inner}, nil
}

func (e *Engine) computeKey(meta adapter.Meta, info adapter.AdaptInfo) ([]byte, error) {
	abs := info.FilepathHint
	if a, err := filepath.Abs(abs); err == nil {
		abs = filepath.Clean(a)
	}

	var modTime int64
	if st, err := os.Stat(info.FilepathHint); err == nil {
		modTime = st.ModTime().UnixNano()
	}

	if !meta.Recurses {
		return NonRecursingCacheKey(meta.Name, meta.Version, abs, modTime)
	}

	var active []AdapterVersion
	for _, act := range e.registry.Active() {
		m := act.Meta()
		active = append(active, AdapterVersion{Name: m.Name, Version: m.Version})
	}
	return RecursingCacheKey(active, abs, modTime)
}

// applyPostproc applies the encoding normalizer and line-prefix injector
// to info.Inp — the final, leaf-level byte stream for this AdaptInfo
// (either an unmatched passthrough file or a non-recursing adapter's
// converted output). Page-break numbering is deliberately not part of
// this generic wrap: it only makes sense for content that actually uses
// form feeds as page delimiters (pdftotext's output), so the poppler
// adapter applies it itself, before this wrap ever sees the bytes.
func (e *Engine) applyPostproc(info adapter.AdaptInfo) io.ReadCloser {
	base := info.Inp

	withEncoding := postproc.NewEncodingNormalizer(base)
	withPrefix := postproc.NewPrefixReader(withEncoding, info.LinePrefix)

	return &postprocCloser{r: withPrefix, c: base}
}

// applyFallbackPostproc is applyPostproc plus a trailing newline, for the
// "nothing matched, passthrough allowed" case only (spec.md §4.2).
func (e *Engine) applyFallbackPostproc(info adapter.AdaptInfo) io.ReadCloser {
	wrapped := e.applyPostproc(info)
	return &postprocCloser{r: io.MultiReader(wrapped, strings.NewReader("\n")), c: wrapped}
}

type postprocCloser struct {
	r io.Reader
	c io.Closer
}

func (p *postprocCloser) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p *postprocCloser) Close() error {
	if p.c != nil {
		return p.c.Close()
	}
	return nil
}

type concatCloser struct {
	r *concat.Reader
}

func (c *concatCloser) Read(b []byte) (int, error) { return c.r.Read(b) }
func (c *concatCloser) Close() error                { return c.r.Close() }

func wrapReader(br *bufio.Reader, orig io.ReadCloser) io.ReadCloser {
	return readCloser{r: br, c: orig}
}

type readCloser struct {
	r io.Reader
	c io.Closer
}

func (r readCloser) Read(b []byte) (int, error) { return r.r.Read(b) }
func (r readCloser) Close() error {
	if r.c != nil {
		return r.c.Close()
	}
	return nil
}

func errReader(err error) io.ReadCloser {
	return errReadCloser{err: err}
}

type errReadCloser struct{ err error }

func (e errReadCloser) Read([]byte) (int, error) { return 0, e.err }
func (e errReadCloser) Close() error              { return nil }
