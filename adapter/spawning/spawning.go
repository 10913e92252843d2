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

package spawning

import (
	"errors"
	"io"
	"os/exec"

	"github.com/nabbar/rga/adapter"
)

// ArgsFunc builds the argv for one invocation from the AdaptInfo being
// converted. The executable name itself is not included.
type ArgsFunc func(info adapter.AdaptInfo) []string

// OutputWrap transforms a spawned tool's raw stdout before it becomes the
// adapter's single AdaptInfo output — the hook the poppler adapter uses to
// run page-break numbering over pdftotext's form-feed-delimited text.
type OutputWrap func(io.Reader) io.Reader

// Base is an adapter.Adapter backed by one external binary. It never
// recurses (Meta().Recurses is always false for a Base) and always yields
// exactly one child AdaptInfo.
type Base struct {
	meta adapter.Meta
	exe  string
	args ArgsFunc
	wrap OutputWrap
}

// New returns a spawning adapter base. meta.Recurses is forced false:
// external tools in this pipeline are leaf converters. wrap is optional
// (pass none for the common case of using stdout verbatim).
func New(meta adapter.Meta, exe string, args ArgsFunc, wrap ...OutputWrap) *Base {
	meta.Recurses = false
	b := &Base{meta: meta, exe: exe, args: args}
	if len(wrap) > 0 {
		b.wrap = wrap[0]
	}
	return b
}

func (b *Base) Meta() adapter.Meta {
	return b.meta
}

// Adapt starts the external process, feeding it info.Inp on stdin from a
// background goroutine and handing the caller a reader over stdout. The
// child is only reaped (via Wait) when the returned stream is closed or
// fully drained, at which point a non-zero exit becomes
// adapter.ExternalToolFailed with the captured stderr tail.
func (b *Base) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	cmd := exec.Command(b.exe, b.args(info)...)

	stderr := newTailBuffer(64 * 1024)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, adapter.WrapError(b.meta.Name, info.FilepathHint, adapter.IO.Error(err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, adapter.WrapError(b.meta.Name, info.FilepathHint, adapter.IO.Error(err))
	}

	if err = cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, adapter.WrapError(b.meta.Name, info.FilepathHint, adapter.ExternalToolMissing.Error(err))
		}
		return nil, adapter.WrapError(b.meta.Name, info.FilepathHint, adapter.ExternalToolMissing.Error(err))
	}

	go func() {
		if info.Inp != nil {
			_, _ = io.Copy(stdin, info.Inp)
			_ = info.Inp.Close()
		}
		_ = stdin.Close()
	}()

	pr := &procReader{
		stdout:      stdout,
		cmd:         cmd,
		stderr:      stderr,
		adapterName: b.meta.Name,
		path:        info.FilepathHint,
	}

	out := info
	if b.wrap != nil {
		out.Inp = wrappedProcReader{r: b.wrap(pr), c: pr}
	} else {
		out.Inp = pr
	}

	return adapter.NewSliceSeq(out), nil
}

// wrappedProcReader pairs a transformed reader with procReader's Close,
// so the child is still reaped and its exit code still checked even
// though the bytes the caller reads no longer come from stdout directly.
type wrappedProcReader struct {
	r io.Reader
	c io.Closer
}

func (w wrappedProcReader) Read(b []byte) (int, error) { return w.r.Read(b) }
func (w wrappedProcReader) Close() error                { return w.c.Close() }

// procReader wraps a running child process's stdout so that Close reaps
// the process and turns a non-zero exit into adapter.ExternalToolFailed.
type procReader struct {
	stdout      io.ReadCloser
	cmd         *exec.Cmd
	stderr      *tailBuffer
	adapterName string
	path        string
	waited      bool
	waitErr     error
}

func (p *procReader) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *procReader) Close() error {
	_ = p.stdout.Close()

	if !p.waited {
		p.waitErr = p.cmd.Wait()
		p.waited = true
	}

	if p.waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(p.waitErr, &exitErr) {
			return adapter.WrapError(p.adapterName, p.path, adapter.ExternalToolFailed.Error(
				errors.New(p.stderr.String())))
		}
		return adapter.WrapError(p.adapterName, p.path, adapter.ExternalToolFailed.Error(p.waitErr))
	}

	return nil
}
