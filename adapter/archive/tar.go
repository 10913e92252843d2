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
	"archive/tar"
	"io"

	"github.com/nabbar/rga/adapter"
)

// Tar is the tar adapter (F): header-driven, only archive.TypeReg entries
// produce output — directories, symlinks, and other metadata entries are
// skipped.
type Tar struct {
	meta adapter.Meta
}

// NewTar returns the tar adapter.
func NewTar() *Tar {
	return &Tar{meta: adapter.Meta{
		Name:         "tar",
		Version:      1,
		Description:  "extracts and preprocesses tar archives",
		FastMatchers: []string{"tar"},
		SlowMatchers: []string{"application/x-tar"},
		Recurses:     true,
	}}
}

func (t *Tar) Meta() adapter.Meta {
	return t.meta
}

func (t *Tar) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	tr := tar.NewReader(info.Inp)

	next := func() (adapter.AdaptInfo, bool, error) {
		for {
			h, err := tr.Next()
			if err == io.EOF {
				_ = info.Inp.Close()
				return adapter.AdaptInfo{}, false, nil
			}
			if err != nil {
				_ = info.Inp.Close()
				return adapter.AdaptInfo{}, false, wrapDecode(t.meta.Name, info.FilepathHint, err)
			}
			if h.Typeflag != tar.TypeReg {
				continue
			}

			child := adapter.AdaptInfo{
				FilepathHint:          h.Name,
				IsRealFile:            false,
				ArchiveRecursionDepth: info.ArchiveRecursionDepth + 1,
				Inp:                   io.NopCloser(io.LimitReader(tr, h.Size)),
				LinePrefix:            info.LinePrefix + h.Name + ": ",
				Config:                info.Config,
			}
			return child, true, nil
		}
	}

	return adapter.NewFuncSeq(next), nil
}
