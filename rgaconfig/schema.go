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
	"reflect"
)

// SchemaProperty describes one field of Config for --rga-print-config-schema.
type SchemaProperty struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema walks Config's struct tags and returns a property list describing
// the on-disk config file shape. It is hand-rolled rather than pulled from
// a validation library: the corpus's go-playground/validator walks struct
// tags for constraint rules, not schema emission, so its tag walker isn't
// a fit here (see DESIGN.md).
func Schema() []SchemaProperty {
	t := reflect.TypeOf(Config{})
	out := make([]SchemaProperty, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("json")
		if name == "" {
			name = f.Name
		}

		var kind string
		switch f.Type.Kind() {
		case reflect.Bool:
			kind = "boolean"
		case reflect.Int, reflect.Int64:
			kind = "integer"
		default:
			kind = "string"
		}

		out = append(out, SchemaProperty{Name: name, Type: kind})
	}

	return out
}
