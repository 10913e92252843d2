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

// Config is the frozen record every adapter invocation reads from. Build
// one with Merge; nothing in this package mutates a Config after it is
// returned.
type Config struct {
	Accurate               bool   `json:"rgaAccurate"`
	NoCache                bool   `json:"rgaNoCache"`
	Adapters               string `json:"rgaAdapters"`
	CacheMaxBlobLen        int64  `json:"rgaCacheMaxBlobLen"`
	CacheCompressionLevel  int    `json:"rgaCacheCompressionLevel"`
	CachePath              string `json:"rgaCachePath"`
	MaxArchiveRecursion    int    `json:"rgaMaxArchiveRecursion"`
	NoPrefixFilenames      bool   `json:"rgaNoPrefixFilenames"`
}

// Defaults returns the record used as the base layer of every Merge, prior
// to file/env/CLI overrides.
func Defaults() Config {
	return Config{
		Accurate:              false,
		NoCache:               false,
		Adapters:              "",
		CacheMaxBlobLen:       400 * 1024 * 1024,
		CacheCompressionLevel: 12,
		CachePath:             defaultCachePath(),
		MaxArchiveRecursion:   5,
		NoPrefixFilenames:     false,
	}
}

// Partial mirrors Config but with every field optional, for layering
// file/env/CLI sources where only the fields the user actually set should
// override the layer beneath.
type Partial struct {
	Accurate              *bool
	NoCache               *bool
	Adapters              *string
	CacheMaxBlobLen       *int64
	CacheCompressionLevel *int
	CachePath             *string
	MaxArchiveRecursion   *int
	NoPrefixFilenames     *bool
}

// Merge layers file, then env, then cli onto Defaults — CLI wins over env,
// env wins over file, matching spec.md §6's precedence rule.
func Merge(file, env, cli Partial) Config {
	c := Defaults()
	for _, p := range []Partial{file, env, cli} {
		applyPartial(&c, p)
	}
	return c
}

func applyPartial(c *Config, p Partial) {
	if p.Accurate != nil {
		c.Accurate = *p.Accurate
	}
	if p.NoCache != nil {
		c.NoCache = *p.NoCache
	}
	if p.Adapters != nil {
		c.Adapters = *p.Adapters
	}
	if p.CacheMaxBlobLen != nil {
		c.CacheMaxBlobLen = *p.CacheMaxBlobLen
	}
	if p.CacheCompressionLevel != nil {
		c.CacheCompressionLevel = *p.CacheCompressionLevel
	}
	if p.CachePath != nil {
		c.CachePath = *p.CachePath
	}
	if p.MaxArchiveRecursion != nil {
		c.MaxArchiveRecursion = *p.MaxArchiveRecursion
	}
	if p.NoPrefixFilenames != nil {
		c.NoPrefixFilenames = *p.NoPrefixFilenames
	}
}
