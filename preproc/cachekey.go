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

package preproc

import (
	"bytes"
	"encoding/gob"

	encsha "github.com/nabbar/rga/encoding/sha256"
	liberr "github.com/nabbar/rga/errors"
)

// adapterVersion is one (name, version) pair, the unit the recursing-
// adapter cache key is built from.
type adapterVersion struct {
	Name    string
	Version int
}

// nonRecursingKeyTuple is gob-encoded for a non-recursing adapter's cache
// key: spec.md §4.8 step 5's "(adapter.name, adapter.version,
// cleaned_abs_path, mtime)".
type nonRecursingKeyTuple struct {
	AdapterName    string
	AdapterVersion int
	CleanedAbsPath string
	ModTimeUnixNs  int64
}

// recursingKeyTuple is gob-encoded for a recursing adapter: the full
// active adapter set is part of the key, since changing any active
// adapter changes the recursive expansion.
type recursingKeyTuple struct {
	Active         []adapterVersion
	CleanedAbsPath string
	ModTimeUnixNs  int64
}

// NonRecursingCacheKey computes the fixed-width cache key for a
// non-recursing adapter invocation.
func NonRecursingCacheKey(adapterName string, adapterVersion int, cleanedAbsPath string, modTimeUnixNs int64) ([]byte, liberr.Error) {
	return encodeKey(nonRecursingKeyTuple{
		AdapterName:    adapterName,
		AdapterVersion: adapterVersion,
		CleanedAbsPath: cleanedAbsPath,
		ModTimeUnixNs:  modTimeUnixNs,
	})
}

// RecursingCacheKey computes the fixed-width cache key for a recursing
// adapter invocation, over the full list of currently active adapters.
func RecursingCacheKey(active []adapterVersion, cleanedAbsPath string, modTimeUnixNs int64) ([]byte, liberr.Error) {
	return encodeKey(recursingKeyTuple{
		Active:         active,
		CleanedAbsPath: cleanedAbsPath,
		ModTimeUnixNs:  modTimeUnixNs,
	})
}

// AdapterVersion is the exported constructor for the (name,version) pairs
// RecursingCacheKey needs; kept as a distinct exported type rather than a
// plain tuple so the gob encoding is stable across packages.
type AdapterVersion = adapterVersion

func encodeKey(v interface{}) ([]byte, liberr.Error) {
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, ErrorCacheKeyEncode.Error(err)
	}
	return encsha.New().Encode(buf.Bytes()), nil
}
