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
	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/adapter/spawning"
)

// CustomAdapterConfig is the config-file shape a user declares a
// spawning-only adapter with (spec.md §4.1: "user-defined adapters become
// spawning adapters").
type CustomAdapterConfig struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	DefaultDisabled   bool     `json:"defaultDisabled"`
	Version           int      `json:"version"`
	Extensions        []string `json:"extensions"`
	Mimetypes         []string `json:"mimetypes"`
	Binary            string   `json:"binary"`
	Args              []string `json:"args"`
}

// ToAdapter builds the spawning adapter this config describes.
func (c CustomAdapterConfig) ToAdapter() *spawning.Base {
	meta := adapter.Meta{
		Name:               c.Name,
		Version:            c.Version,
		Description:        c.Description,
		FastMatchers:       c.Extensions,
		SlowMatchers:       c.Mimetypes,
		DisabledByDefault:  c.DefaultDisabled,
	}

	args := append([]string(nil), c.Args...)
	return spawning.New(meta, c.Binary, func(info adapter.AdaptInfo) []string {
		return ExpandArgs(args, info.FilepathHint)
	})
}

// ExpandArgs substitutes a lone "{}" argument with filepathHint. An arg
// that merely contains "{}" as a substring (not the whole token) is left
// untouched — ported from the source's argument-expansion behavior
// (see DESIGN.md / original_source/src/expand.rs).
func ExpandArgs(args []string, filepathHint string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "{}" {
			out[i] = filepathHint
		} else {
			out[i] = a
		}
	}
	return out
}
