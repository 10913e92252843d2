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
	"sync"

	liberr "github.com/nabbar/rga/errors"
)

// EnvVar is the name of the environment variable a parent process uses to
// hand its merged Config down to a child adapter invocation, so the child
// sees the exact same configuration without re-parsing flags or files.
const EnvVar = "RGA_CONFIG"

// ToEnv marshals c as JSON and sets it on EnvVar for child processes
// spawned from this point on (os.Setenv affects the current process's
// environment, which every exec.Command inherits by default).
func ToEnv(c Config) liberr.Error {
	b, err := json.Marshal(c)
	if err != nil {
		return ErrorConfigEnvEncode.Error(err)
	}
	if err = os.Setenv(EnvVar, string(b)); err != nil {
		return ErrorConfigEnvEncode.Error(err)
	}
	return nil
}

// FromEnv reads and decodes EnvVar into a Partial with every field set,
// for use as the "env" layer of Merge. An unset or empty variable yields
// a zero Partial, not an error.
func FromEnv() (Partial, liberr.Error) {
	raw, ok := os.LookupEnv(EnvVar)
	if !ok || raw == "" {
		return Partial{}, nil
	}

	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Partial{}, ErrorConfigEnvDecode.Error(err)
	}

	return Partial{
		Accurate:              &c.Accurate,
		NoCache:               &c.NoCache,
		Adapters:              &c.Adapters,
		CacheMaxBlobLen:       &c.CacheMaxBlobLen,
		CacheCompressionLevel: &c.CacheCompressionLevel,
		CachePath:             &c.CachePath,
		MaxArchiveRecursion:   &c.MaxArchiveRecursion,
		NoPrefixFilenames:     &c.NoPrefixFilenames,
	}, nil
}

// active holds the process-wide Config set once via SetActive before any
// adapter runs, per spec.md §5's ACTIVE_CONFIG. It is read-only after
// that: SetActive is guarded by a sync.Once so a second call is a no-op.
var (
	activeOnce sync.Once
	activeCfg  Config
)

// SetActive freezes c as the process-wide configuration. Only the first
// call has any effect; later calls are ignored, matching the "set once
// per process before any adapter runs" contract.
func SetActive(c Config) {
	activeOnce.Do(func() {
		activeCfg = c
	})
}

// Active returns the process-wide configuration set by SetActive, or the
// zero Config if it was never called.
func Active() Config {
	return activeCfg
}
