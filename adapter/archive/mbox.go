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
	"bufio"
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/nabbar/rga/adapter"
)

// Mbox is the mbox/eml adapter (F). It splits the input on "From "
// separators at the start of a line, parses each message with net/mail,
// then walks MIME parts depth-first: multipart containers recurse into
// their subparts, leaves become AdaptInfo children. No dependency in the
// corpus parses incoming MIME messages (its mail packages only build
// outgoing ones), so this is stdlib net/mail + mime/multipart — see
// DESIGN.md.
type Mbox struct {
	meta adapter.Meta
}

// NewMbox returns the mbox adapter.
func NewMbox() *Mbox {
	return &Mbox{meta: adapter.Meta{
		Name:         "mbox",
		Version:      1,
		Description:  "splits mbox files into messages and MIME parts",
		FastMatchers: []string{"mbox", "eml"},
		SlowMatchers: []string{"application/mbox"},
		Recurses:     true,
	}}
}

func (m *Mbox) Meta() adapter.Meta {
	return m.meta
}

func (m *Mbox) Adapt(info adapter.AdaptInfo, reason adapter.MatchReason) (adapter.Seq, error) {
	raw, err := io.ReadAll(info.Inp)
	_ = info.Inp.Close()
	if err != nil {
		return nil, wrapDecode(m.meta.Name, info.FilepathHint, err)
	}

	var out []adapter.AdaptInfo
	for _, msgBytes := range splitMboxMessages(raw) {
		msg, perr := mail.ReadMessage(bytes.NewReader(msgBytes))
		if perr != nil {
			continue
		}

		parts, perr := collectParts(msg.Header.Get("Content-Type"), msg.Body)
		if perr != nil {
			continue
		}

		for _, p := range parts {
			out = append(out, adapter.AdaptInfo{
				FilepathHint:          p.name,
				IsRealFile:            false,
				ArchiveRecursionDepth: info.ArchiveRecursionDepth + 1,
				Inp:                   io.NopCloser(bytes.NewReader(p.body)),
				LinePrefix:            info.LinePrefix + p.name + ": ",
				Config:                info.Config,
				ForceAccurate:         true,
			})
		}
	}

	return adapter.NewSliceSeq(out...), nil
}

// splitMboxMessages splits on a line that is exactly "From " followed by
// an envelope sender, the traditional mbox message delimiter. A file with
// no such delimiter (a bare .eml) is treated as a single message.
func splitMboxMessages(raw []byte) [][]byte {
	var msgs [][]byte
	var cur bytes.Buffer
	started := false

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "From ") {
			if started {
				msgs = append(msgs, append([]byte(nil), cur.Bytes()...))
				cur.Reset()
			}
			started = true
			continue
		}
		if started {
			cur.WriteString(line)
			cur.WriteByte('\n')
		}
	}
	if started {
		msgs = append(msgs, append([]byte(nil), cur.Bytes()...))
	} else if len(raw) > 0 {
		msgs = append(msgs, raw)
	}

	return msgs
}

type mimePart struct {
	name string
	body []byte
}

// collectParts walks a message body depth-first. A non-multipart body is
// itself the single leaf part.
func collectParts(contentType string, body io.Reader) ([]mimePart, error) {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mt, "multipart/") {
		b, rerr := io.ReadAll(body)
		if rerr != nil {
			return nil, rerr
		}
		return []mimePart{{name: leafName(contentType, nil), body: b}}, nil
	}

	boundary := params["boundary"]
	if boundary == "" {
		b, rerr := io.ReadAll(body)
		if rerr != nil {
			return nil, rerr
		}
		return []mimePart{{name: leafName(contentType, nil), body: b}}, nil
	}

	var out []mimePart
	mr := multipart.NewReader(body, boundary)
	for {
		part, perr := mr.NextPart()
		if perr == io.EOF {
			break
		}
		if perr != nil {
			return out, nil
		}

		partCT := part.Header.Get("Content-Type")
		sub, serr := collectParts(partCT, part)
		if serr != nil {
			continue
		}

		if len(sub) == 1 && sub[0].name == "" {
			sub[0].name = leafName(partCT, part.Header)
		}
		out = append(out, sub...)
	}

	return out, nil
}

// leafName implements spec.md §4.6's child naming precedence: the part's
// "filename" Content-Disposition/Content-Type parameter, else
// "data.<ext-from-mime>", else "data".
func leafName(contentType string, header map[string][]string) string {
	if header != nil {
		if cd, ok := header["Content-Disposition"]; ok && len(cd) > 0 {
			if _, params, err := mime.ParseMediaType(cd[0]); err == nil {
				if fn := params["filename"]; fn != "" {
					return fn
				}
			}
		}
	}

	mt, params, err := mime.ParseMediaType(contentType)
	if err == nil {
		if fn := params["name"]; fn != "" {
			return fn
		}
		if exts, eerr := mime.ExtensionsByType(mt); eerr == nil && len(exts) > 0 {
			return "data" + exts[0]
		}
	}

	return "data"
}
