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

package adapter

import (
	"fmt"

	liberr "github.com/nabbar/rga/errors"
)

// Error kinds an adapter can fail with. Every adapter invocation that
// fails must use one of these codes so callers can branch on kind without
// string-matching messages.
const (
	// ExternalToolMissing means exec.LookPath (or exec.Command's start)
	// could not find the configured converter binary.
	ExternalToolMissing liberr.CodeError = iota + liberr.MinPkgAdapter
	// ExternalToolFailed means the converter process exited non-zero.
	ExternalToolFailed
	// Decode means an archive member, compressed stream or structured
	// payload (mbox, zip, tar) was malformed.
	Decode
	// Integrity means the cache store returned a value that didn't match
	// the shape the adapter bucket expects.
	Integrity
	// IO covers filesystem and pipe errors not covered by the above.
	IO
	// NoAdapter means the matcher found no candidate and passthrough was
	// not permitted for this file.
	NoAdapter
	// RecursionLimit means the archive recursion depth guard tripped.
	RecursionLimit
)

func init() {
	if liberr.ExistInMapMessage(ExternalToolMissing) {
		panic(fmt.Errorf("error code collision golib/adapter"))
	}
	liberr.RegisterIdFctMessage(ExternalToolMissing, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ExternalToolMissing:
		return "could not find converter executable"
	case ExternalToolFailed:
		return "converter process exited with an error"
	case Decode:
		return "malformed archive, compressed stream or structured payload"
	case Integrity:
		return "cache store returned an unexpected value shape"
	case IO:
		return "filesystem or pipe I/O error"
	case NoAdapter:
		return "no adapter found and passthrough is disabled"
	case RecursionLimit:
		return "maximum archive recursion depth reached"
	}

	return liberr.NullMessage
}

// AdaptError wraps an adapter failure with the adapter name and the
// filepath hint of the AdaptInfo being processed, so the caller can print
// "adapter-name filepath: message" without threading those two strings
// through every error site by hand.
type AdaptError struct {
	Adapter string
	Path    string
	Err     liberr.Error
}

func (e *AdaptError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Adapter, e.Path, e.Err.Error())
}

func (e *AdaptError) Unwrap() error {
	return e.Err
}

// WrapError attaches the adapter name and filepath hint to an already
// coded liberr.Error. Passing a nil err returns nil.
func WrapError(adapterName, path string, err liberr.Error) error {
	if err == nil {
		return nil
	}
	return &AdaptError{Adapter: adapterName, Path: path, Err: err}
}
