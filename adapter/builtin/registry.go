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
	"github.com/nabbar/rga/adapter/archive"
)

// DefaultRegistry builds the registry with every built-in adapter
// registered in the exact declaration order spec.md §4.1 specifies:
// postproc-prefix, postproc-pagebreaks, ffmpeg, pandoc, poppler,
// pdfpages, sqlite, tesseract, decompress, tar, zip, mbox, gron.
//
// Declaration order is load-bearing — it is the matcher's tie-break
// priority when two adapters claim the same file (adapter.Registry).
// Custom adapters from user config are appended last via Registry.Register
// after DefaultRegistry returns.
func DefaultRegistry() *adapter.Registry {
	r := adapter.NewRegistry()

	r.Register(NewPostprocPrefix())
	r.Register(NewPostprocPageBreaks())
	r.Register(NewFFmpeg())
	r.Register(NewPandoc())
	r.Register(NewPoppler())
	r.Register(NewPDFPages())
	r.Register(NewSQLite())
	r.Register(NewTesseract())
	r.Register(archive.NewDecompress())
	r.Register(archive.NewTar())
	r.Register(archive.NewZip())
	r.Register(archive.NewMbox())
	r.Register(NewGron())

	return r
}
