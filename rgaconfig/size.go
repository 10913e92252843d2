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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	liberr "github.com/nabbar/rga/errors"
)

// ParseSize parses a `--rga-cache-max-blob-len` value of the form
// "<N>[kMG]" (case-insensitive, binary multiples: k=1024, M=1024k,
// G=1024M) into a byte count. A bare number is bytes.
func ParseSize(s string) (int64, liberr.Error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrorConfigSizeParse.Error()
	}

	mult := int64(1)
	last := s[len(s)-1]
	switch last {
	case 'k', 'K':
		mult = 1024
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1024 * 1024
		s = s[:len(s)-1]
	case 'g', 'G':
		mult = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrorConfigSizeParse.Error(err)
	}
	if n < 0 {
		return 0, ErrorConfigSizeParse.Error()
	}

	return n * mult, nil
}

// defaultCachePath mirrors the source's default of a "rga" subdirectory
// under the platform cache directory.
func defaultCachePath() string {
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "rga")
	}
	return filepath.Join(os.TempDir(), "rga-cache")
}
