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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/nabbar/rga/adapter"
)

// PDFPages rasterizes each PDF page with pdftoppm and OCRs the page image
// with tesseract, emitting one child AdaptInfo per page. Unlike poppler's
// pdftotext adapter, this one survives scanned (non-text-layer) PDFs at
// the cost of external-tool latency — disabled by default per spec.md
// §4.1, opted into with --rga-adapters=+pdfpages.
type PDFPages struct {
	meta adapter.Meta
}

// NewPDFPages returns the pdfpages adapter.
func NewPDFPages() *PDFPages {
	return &PDFPages{meta: adapter.Meta{
		Name:              "pdfpages",
		Version:           1,
		Description:       "OCRs each PDF page via pdftoppm + tesseract",
		FastMatchers:      []string{"pdf"},
		SlowMatchers:      []string{"application/pdf"},
		Recurses:          true,
		DisabledByDefault: true,
	}}
}

func (p *PDFPages) Meta() adapter.Meta {
	return p.meta
}

func (p *PDFPages) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	if !info.IsRealFile {
		return nil, adapter.WrapError("pdfpages", info.FilepathHint,
			adapter.IO.Error(fmt.Errorf("pdfpages adapter requires a real file path")))
	}
	if info.Inp != nil {
		_ = info.Inp.Close()
	}

	dir, err := os.MkdirTemp("", "rga-pdfpages-*")
	if err != nil {
		return nil, adapter.WrapError("pdfpages", info.FilepathHint, adapter.IO.Error(err))
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.Command("pdftoppm", "-png", "-r", "150", info.FilepathHint, prefix)
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(dir)
		return nil, adapter.WrapError("pdfpages", info.FilepathHint, adapter.ExternalToolFailed.Error(err))
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, adapter.WrapError("pdfpages", info.FilepathHint, adapter.IO.Error(err))
	}
	sort.Strings(pages)

	idx := 0
	next := func() (adapter.AdaptInfo, bool, error) {
		if idx >= len(pages) {
			_ = os.RemoveAll(dir)
			return adapter.AdaptInfo{}, false, nil
		}
		img := pages[idx]
		idx++

		out, err := exec.Command("tesseract", img, "stdout").Output()
		if err != nil {
			return adapter.AdaptInfo{}, false, adapter.WrapError("pdfpages", info.FilepathHint,
				adapter.ExternalToolFailed.Error(err))
		}

		name := fmt.Sprintf("page %d", idx)
		child := adapter.AdaptInfo{
			FilepathHint:          name,
			IsRealFile:            false,
			ArchiveRecursionDepth: info.ArchiveRecursionDepth + 1,
			Inp:                   newMemReader(out),
			LinePrefix:            info.LinePrefix + name + ": ",
			Config:                info.Config,
		}
		return child, true, nil
	}

	return adapter.NewFuncSeq(next), nil
}
