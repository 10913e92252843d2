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
	"strings"

	libatm "github.com/nabbar/rga/atomic"
)

// Registry holds every known adapter — built-ins plus user-defined ones —
// in declaration order, and the subset currently active after a
// --rga-adapters selection expression has been applied.
//
// Declaration order is load-bearing: it is the tie-break priority used by
// the matcher (§4.2) when more than one adapter would match the same
// file.
type Registry struct {
	order []string
	byKey libatm.MapTyped[string, Adapter]
	activ libatm.MapTyped[string, bool]
}

// NewRegistry returns an empty registry. Adapters are added with
// Register, in the order they should win matcher ties.
func NewRegistry() *Registry {
	return &Registry{
		byKey: libatm.NewMapTyped[string, Adapter](),
		activ: libatm.NewMapTyped[string, bool](),
	}
}

// Register adds an adapter to the registry. Registering the same name
// twice replaces the earlier entry but keeps its original position in
// priority order.
func (r *Registry) Register(a Adapter) {
	name := a.Meta().Name
	if _, ok := r.byKey.Load(name); !ok {
		r.order = append(r.order, name)
	}
	r.byKey.Store(name, a)
	r.activ.Store(name, !a.Meta().DisabledByDefault)
}

// Get returns the adapter registered under name, if any.
func (r *Registry) Get(name string) (Adapter, bool) {
	return r.byKey.Load(name)
}

// Names returns every registered adapter name in declaration (priority)
// order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Active returns every currently-active adapter, in declaration order.
// "Active" means: default-enabled and not removed by "-name", or
// explicitly added by "name"/"+name".
func (r *Registry) Active() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		if on, _ := r.activ.Load(name); on {
			if a, ok := r.byKey.Load(name); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// ApplySelection parses a --rga-adapters selection expression and updates
// which adapters are active.
//
//   - "a,b"   restricts the active set to exactly {a, b}.
//   - "+a,b"  adds a and b to the default active set (this is also how a
//     disabled-by-default adapter gets opted into).
//   - "-a,b"  removes a and b from the default active set.
//   - ""      leaves the default active set (every adapter whose
//     DisabledByDefault is false) unchanged.
func (r *Registry) ApplySelection(expr string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return
	}

	switch expr[0] {
	case '+':
		for _, name := range splitCSV(expr[1:]) {
			r.activ.Store(name, true)
		}
	case '-':
		for _, name := range splitCSV(expr[1:]) {
			r.activ.Store(name, false)
		}
	default:
		want := make(map[string]bool)
		for _, name := range splitCSV(expr) {
			want[name] = true
		}
		for _, name := range r.order {
			r.activ.Store(name, want[name])
		}
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
