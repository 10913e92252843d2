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

package preproccache

import "strconv"

// Store is the get/put contract the preprocessor engine caches adapter
// output through. Implementations must tolerate concurrent readers; a
// single writer at a time is sufficient (spec'd cache concurrency model).
type Store interface {
	// Get returns the cached bytes for (bucket, key), or ok=false on a
	// cache miss. A nil, non-ok return is not an error.
	Get(bucket string, key []byte) (value []byte, ok bool, err error)
	// Put stores value under (bucket, key), creating bucket if needed.
	Put(bucket string, key []byte, value []byte) error
	// Close releases the store's underlying resources.
	Close() error
}

// BucketName builds the bucket identifier for one (adapter name, adapter
// version) pair: "<name>.v<version>" — confirmed against the original
// source's preproc_cache.rs, which keys buckets by name, not by a hash.
func BucketName(adapterName string, adapterVersion int) string {
	return adapterName + ".v" + strconv.Itoa(adapterVersion)
}
