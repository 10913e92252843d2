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
	"io"
	"strings"

	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/adapter/postproc"
	"github.com/nabbar/rga/adapter/spawning"
)

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}

// NewFFmpeg extracts embedded subtitles as plain text via ffmpeg, reading
// from stdin (pipe:0) and writing SRT-less plain text to stdout (pipe:1).
func NewFFmpeg() *spawning.Base {
	meta := adapter.Meta{
		Name:        "ffmpeg",
		Version:     1,
		Description: "extracts subtitles from video/audio containers",
		FastMatchers: []string{
			"mkv", "mp4", "avi", "webm", "mov",
		},
		SlowMatchers: []string{
			"video/x-matroska", "video/mp4", "video/webm", "video/quicktime",
		},
	}
	return spawning.New(meta, "ffmpeg", func(info adapter.AdaptInfo) []string {
		return []string{
			"-loglevel", "panic",
			"-i", "pipe:0",
			"-f", "srt",
			"-map", "0:s:0",
			"pipe:1",
		}
	})
}

// NewPandoc converts rich document formats (docx, odt, epub, rtf) to
// plain text via pandoc's markdown writer.
func NewPandoc() *spawning.Base {
	meta := adapter.Meta{
		Name:        "pandoc",
		Version:     1,
		Description: "converts document formats to plain text",
		FastMatchers: []string{
			"docx", "odt", "epub", "rtf", "odp",
		},
		SlowMatchers: []string{
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.oasis.opendocument.text",
			"application/epub+zip",
			"application/rtf",
		},
	}
	return spawning.New(meta, "pandoc", func(info adapter.AdaptInfo) []string {
		return []string{"-f", pandocReaderFor(info.FilepathHint), "-t", "plain"}
	})
}

func pandocReaderFor(path string) string {
	switch extOf(path) {
	case "docx":
		return "docx"
	case "odt":
		return "odt"
	case "epub":
		return "epub"
	case "rtf":
		return "rtf"
	case "odp":
		return "odp"
	default:
		return "docx"
	}
}

// NewPoppler runs pdftotext, whose "-layout" output separates pages with
// an ASCII form feed; those are numbered "Page N:" before the engine's
// generic line-prefix wrap runs on top, matching spec.md's pdf-attachment
// scenario (§8 scenario 6). The page numberer runs with an empty prefix
// of its own — the real accumulated line_prefix is added afterward, once,
// by the engine — so a page tag and an archive-member prefix never fight
// over which comes first in the output.
func NewPoppler() *spawning.Base {
	meta := adapter.Meta{
		Name:         "poppler",
		Version:      1,
		Description:  "extracts text from PDF files via pdftotext",
		FastMatchers: []string{"pdf"},
		SlowMatchers: []string{"application/pdf"},
	}
	return spawning.New(meta, "pdftotext", func(info adapter.AdaptInfo) []string {
		return []string{"-layout", "-eol", "unix", "-", "-"}
	}, func(r io.Reader) io.Reader {
		return postproc.NewPageBreakReader(r, "")
	})
}

// NewTesseract runs OCR over raster images.
func NewTesseract() *spawning.Base {
	meta := adapter.Meta{
		Name:        "tesseract",
		Version:     1,
		Description: "extracts text from raster images via OCR",
		FastMatchers: []string{
			"png", "jpg", "jpeg", "tiff", "bmp", "gif",
		},
		SlowMatchers: []string{
			"image/png", "image/jpeg", "image/tiff", "image/bmp", "image/gif",
		},
		DisabledByDefault: true,
	}
	return spawning.New(meta, "tesseract", func(info adapter.AdaptInfo) []string {
		return []string{"stdin", "stdout"}
	})
}

// NewGron flattens JSON documents into one assignment per line, so each
// value becomes independently greppable.
func NewGron() *spawning.Base {
	meta := adapter.Meta{
		Name:         "gron",
		Version:      1,
		Description:  "flattens JSON into greppable assignment statements",
		FastMatchers: []string{"json"},
		SlowMatchers: []string{"application/json"},
	}
	return spawning.New(meta, "gron", func(info adapter.AdaptInfo) []string {
		return []string{"-"}
	})
}
