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

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/nabbar/rga/adapter"
)

// Zip is the zip adapter (F). The standard library's zip reader needs
// random access to find the central directory, so info.Inp (which may be
// a non-seekable pipe, e.g. a decompressed stream) is buffered into memory
// first; entries are then walked in central-directory order, which for a
// normally-written archive matches stream order. Entries whose name ends
// in "/" or "\" are directories and are skipped.
type Zip struct {
	meta adapter.Meta
}

// NewZip returns the zip adapter.
func NewZip() *Zip {
	return &Zip{meta: adapter.Meta{
		Name:         "zip",
		Version:      1,
		Description:  "extracts and preprocesses zip archives",
		FastMatchers: []string{"zip"},
		SlowMatchers: []string{"application/zip"},
		Recurses:     true,
	}}
}

func (z *Zip) Meta() adapter.Meta {
	return z.meta
}

func (z *Zip) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	buf, err := io.ReadAll(info.Inp)
	_ = info.Inp.Close()
	if err != nil {
		return nil, wrapDecode(z.meta.Name, info.FilepathHint, err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, wrapDecode(z.meta.Name, info.FilepathHint, err)
	}

	idx := 0
	next := func() (adapter.AdaptInfo, bool, error) {
		for idx < len(r.File) {
			f := r.File[idx]
			idx++

			if strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, "\\") {
				continue
			}

			rc, oerr := f.Open()
			if oerr != nil {
				return adapter.AdaptInfo{}, false, wrapDecode(z.meta.Name, info.FilepathHint, oerr)
			}

			child := adapter.AdaptInfo{
				FilepathHint:          f.Name,
				IsRealFile:            false,
				ArchiveRecursionDepth: info.ArchiveRecursionDepth + 1,
				Inp:                   rc,
				LinePrefix:            info.LinePrefix + f.Name + ": ",
				Config:                info.Config,
			}
			return child, true, nil
		}
		return adapter.AdaptInfo{}, false, nil
	}

	return adapter.NewFuncSeq(next), nil
}
