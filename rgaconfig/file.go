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

package rgaconfig

import (
	"encoding/json"
	"os"

	liberr "github.com/nabbar/rga/errors"
)

// fileDoc is the on-disk shape of a config file: every field optional, the
// same way Partial is, so a file only overrides what it mentions.
type fileDoc struct {
	Accurate              *bool   `json:"rgaAccurate,omitempty"`
	NoCache               *bool   `json:"rgaNoCache,omitempty"`
	Adapters              *string `json:"rgaAdapters,omitempty"`
	CacheMaxBlobLen       *string `json:"rgaCacheMaxBlobLen,omitempty"`
	CacheCompressionLevel *int    `json:"rgaCacheCompressionLevel,omitempty"`
	CachePath             *string `json:"rgaCachePath,omitempty"`
	MaxArchiveRecursion   *int    `json:"rgaMaxArchiveRecursion,omitempty"`
	NoPrefixFilenames     *bool   `json:"rgaNoPrefixFilenames,omitempty"`
}

// LoadFile reads a JSON-with-comments config file (// and /* */ comments
// outside of string literals are stripped before parsing) into a Partial.
// A missing path is not an error: it returns a zero Partial.
func LoadFile(path string) (Partial, liberr.Error) {
	if path == "" {
		return Partial{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Partial{}, nil
		}
		return Partial{}, ErrorConfigFileRead.Error(err)
	}

	var doc fileDoc
	if err = json.Unmarshal(stripJSONComments(raw), &doc); err != nil {
		return Partial{}, ErrorConfigFileParse.Error(err)
	}

	p := Partial{
		Accurate:              doc.Accurate,
		NoCache:               doc.NoCache,
		Adapters:              doc.Adapters,
		CacheCompressionLevel: doc.CacheCompressionLevel,
		CachePath:             doc.CachePath,
		MaxArchiveRecursion:   doc.MaxArchiveRecursion,
		NoPrefixFilenames:     doc.NoPrefixFilenames,
	}

	if doc.CacheMaxBlobLen != nil {
		n, e := ParseSize(*doc.CacheMaxBlobLen)
		if e != nil {
			return Partial{}, ErrorConfigFileParse.Error(e)
		}
		p.CacheMaxBlobLen = &n
	}

	return p, nil
}

// stripJSONComments removes "//" line comments and "/* */" block comments
// that occur outside of JSON string literals, so a hand-edited config file
// can carry explanatory comments without a full JSON5 parser.
func stripJSONComments(in []byte) []byte {
	out := make([]byte, 0, len(in))
	inString := false
	escaped := false

	for i := 0; i < len(in); i++ {
		c := in[i]

		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		if c == '/' && i+1 < len(in) && in[i+1] == '/' {
			for i < len(in) && in[i] != '\n' {
				i++
			}
			if i < len(in) {
				out = append(out, '\n')
			}
			continue
		}

		if c == '/' && i+1 < len(in) && in[i+1] == '*' {
			i += 2
			for i+1 < len(in) && !(in[i] == '*' && in[i+1] == '/') {
				i++
			}
			i++
			continue
		}

		out = append(out, c)
	}

	return out
}
