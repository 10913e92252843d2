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
	"compress/bzip2"
	"compress/gzip"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/nabbar/rga/adapter"
)

// Decompress is the single-member decompression adapter (F) for gz, bz2,
// xz and zst streams. It yields exactly one child whose bytes are the
// decompressed stream and whose filename has the compression suffix
// stripped (tgz/tbz* become .tar, matching the re-entry the engine then
// performs on the decompressed stream per spec.md §4.6).
type Decompress struct {
	meta adapter.Meta
}

// NewDecompress returns the decompress adapter.
func NewDecompress() *Decompress {
	return &Decompress{meta: adapter.Meta{
		Name:        "decompress",
		Version:     1,
		Description: "decompresses gz/bz2/xz/zst streams and re-enters the engine on the result",
		FastMatchers: []string{
			"gz", "bz2", "bz", "xz", "zst", "tgz", "tbz", "tbz2",
		},
		SlowMatchers: []string{
			"application/gzip", "application/x-gzip",
			"application/x-bzip2",
			"application/x-xz",
			"application/zstd",
		},
		Recurses: true,
	}}
}

func (d *Decompress) Meta() adapter.Meta {
	return d.meta
}

func (d *Decompress) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	var (
		r   io.Reader
		zr  *zstd.Decoder
		err error
	)

	ext := strings.ToLower(reason.Matcher.Value)
	if ext == "" {
		ext = strings.ToLower(extOf(info.FilepathHint))
	}

	switch {
	case ext == "gz" || ext == "tgz" || strings.Contains(reason.Mime, "gzip"):
		gr, e := gzip.NewReader(info.Inp)
		if e != nil {
			_ = info.Inp.Close()
			return nil, wrapDecode(d.meta.Name, info.FilepathHint, e)
		}
		r = gr
	case ext == "bz2" || ext == "bz" || ext == "tbz" || ext == "tbz2" || strings.Contains(reason.Mime, "bzip2"):
		r = bzip2.NewReader(info.Inp)
	case ext == "xz" || strings.Contains(reason.Mime, "x-xz"):
		xr, e := xz.NewReader(info.Inp)
		if e != nil {
			_ = info.Inp.Close()
			return nil, wrapDecode(d.meta.Name, info.FilepathHint, e)
		}
		r = xr
	case ext == "zst" || strings.Contains(reason.Mime, "zstd"):
		zr, err = zstd.NewReader(info.Inp)
		if err != nil {
			_ = info.Inp.Close()
			return nil, wrapDecode(d.meta.Name, info.FilepathHint, err)
		}
		r = zr
	default:
		_ = info.Inp.Close()
		return nil, wrapDecode(d.meta.Name, info.FilepathHint, errUnknownCompression(ext))
	}

	name := stripCompressionSuffix(info.FilepathHint)

	child := adapter.AdaptInfo{
		FilepathHint:          name,
		IsRealFile:            false,
		ArchiveRecursionDepth: info.ArchiveRecursionDepth + 1,
		Inp:                   &decompressReader{r: r, zr: zr, src: info.Inp},
		LinePrefix:            info.LinePrefix,
		Config:                info.Config,
	}

	return adapter.NewSliceSeq(child), nil
}

// decompressReader bundles the decoder with the underlying source so Close
// releases both; zstd's Decoder has its own Close (it owns goroutines),
// the stdlib gzip/bzip2/xz readers don't.
type decompressReader struct {
	r   io.Reader
	zr  *zstd.Decoder
	src io.ReadCloser
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressReader) Close() error {
	if d.zr != nil {
		d.zr.Close()
	}
	return d.src.Close()
}

// stripCompressionSuffix implements scenario 3 of spec.md §8: strip the
// compression extension, turning tgz/tbz* into .tar; a name with no known
// compression suffix (e.g. "initramfs") is returned unchanged.
func stripCompressionSuffix(name string) string {
	switch {
	case strings.HasSuffix(name, ".tgz"):
		return strings.TrimSuffix(name, ".tgz") + ".tar"
	case strings.HasSuffix(name, ".tbz2"):
		return strings.TrimSuffix(name, ".tbz2") + ".tar"
	case strings.HasSuffix(name, ".tbz"):
		return strings.TrimSuffix(name, ".tbz") + ".tar"
	case strings.HasSuffix(name, ".gz"):
		return strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".bz2"):
		return strings.TrimSuffix(name, ".bz2")
	case strings.HasSuffix(name, ".bz"):
		return strings.TrimSuffix(name, ".bz")
	case strings.HasSuffix(name, ".xz"):
		return strings.TrimSuffix(name, ".xz")
	case strings.HasSuffix(name, ".zst"):
		return strings.TrimSuffix(name, ".zst")
	default:
		return name
	}
}

func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

type errUnknownCompressionT string

func (e errUnknownCompressionT) Error() string {
	return "unrecognised compression suffix: " + string(e)
}

func errUnknownCompression(ext string) error {
	return errUnknownCompressionT(ext)
}
