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

// Command rga-preproc is the preprocessor binary a grep tool's --pre hook
// spawns once per candidate file. It prints the resolved plain text for
// that one file to stdout and exits; per-file failures are reported on
// stderr without aborting a batch run of the calling tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nabbar/rga/adapter"
	"github.com/nabbar/rga/adapter/builtin"
	liblog "github.com/nabbar/rga/logger"
	"github.com/nabbar/rga/preproc"
	"github.com/nabbar/rga/preproccache"
	"github.com/nabbar/rga/rgaconfig"
)

// flags mirrors rgaconfig.Partial with the concrete pflag-backed storage
// cobra needs; buildPartial turns only the flags the user actually set
// into a Partial so Merge's precedence rule holds.
type flags struct {
	accurate           bool
	noCache            bool
	adapters           string
	cacheMaxBlobLen    string
	cacheCompressLevel int
	cachePath          string
	maxArchiveRecurse  int
	noPrefixFilenames  bool
	configFile         string
	listAdapters       bool
	printSchema        bool
}

func main() {
	// The source pops the last raw argument as the filename and parses
	// everything before it as flags (src/bin/rga-preproc.rs); unknown
	// flags never reach this binary's own flag set that way, so there is
	// nothing left to whitelist against a positional filename collision.
	raw := os.Args[1:]
	if len(raw) == 0 {
		fmt.Fprintln(os.Stderr, "rga-preproc: no filename specified")
		os.Exit(2)
	}
	path := raw[len(raw)-1]
	argv := raw[:len(raw)-1]

	f := &flags{}
	root := newRootCommand(f, path)
	root.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
	root.SetArgs(argv)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rga-preproc: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(f *flags, path string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rga-preproc <path>",
		Short:         "Convert one file to searchable plain text on stdout",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, path)
		},
	}

	cmd.Flags().BoolVar(&f.accurate, "rga-accurate", false, "Enable MIME-based matching")
	cmd.Flags().BoolVar(&f.noCache, "rga-no-cache", false, "Disable the cache layer")
	cmd.Flags().StringVar(&f.adapters, "rga-adapters", "", "Adapter selection: a,b / +a,b / -a,b")
	cmd.Flags().StringVar(&f.cacheMaxBlobLen, "rga-cache-max-blob-len", "", "Max compressed cached bytes per file (N[kMG])")
	cmd.Flags().IntVar(&f.cacheCompressLevel, "rga-cache-compression-level", 0, "zstd compression level (1-22)")
	cmd.Flags().StringVar(&f.cachePath, "rga-cache-path", "", "Cache store location")
	cmd.Flags().IntVar(&f.maxArchiveRecurse, "rga-max-archive-recursion", 0, "Maximum archive nesting depth")
	cmd.Flags().BoolVar(&f.noPrefixFilenames, "rga-no-prefix-filenames", false, "Suppress archive-member prefix injection")
	cmd.Flags().StringVar(&f.configFile, "rga-config-file", "", "Config file path")
	cmd.Flags().BoolVar(&f.listAdapters, "rga-list-adapters", false, "Print the adapter table and exit")
	cmd.Flags().BoolVar(&f.printSchema, "rga-print-config-schema", false, "Print the JSON config schema and exit")

	return cmd
}

// buildPartial turns only the flags cobra reports as "changed" into a
// rgaconfig.Partial, so a flag the user never passed does not shadow the
// env or file layer beneath it in Merge's precedence.
func buildPartial(cmd *cobra.Command, f *flags) (rgaconfig.Partial, error) {
	p := rgaconfig.Partial{}
	fl := cmd.Flags()

	if fl.Changed("rga-accurate") {
		p.Accurate = &f.accurate
	}
	if fl.Changed("rga-no-cache") {
		p.NoCache = &f.noCache
	}
	if fl.Changed("rga-adapters") {
		p.Adapters = &f.adapters
	}
	if fl.Changed("rga-cache-max-blob-len") {
		n, err := rgaconfig.ParseSize(f.cacheMaxBlobLen)
		if err != nil {
			return p, err
		}
		p.CacheMaxBlobLen = &n
	}
	if fl.Changed("rga-cache-compression-level") {
		p.CacheCompressionLevel = &f.cacheCompressLevel
	}
	if fl.Changed("rga-cache-path") {
		p.CachePath = &f.cachePath
	}
	if fl.Changed("rga-max-archive-recursion") {
		p.MaxArchiveRecursion = &f.maxArchiveRecurse
	}
	if fl.Changed("rga-no-prefix-filenames") {
		p.NoPrefixFilenames = &f.noPrefixFilenames
	}

	return p, nil
}

func run(cmd *cobra.Command, f *flags, path string) error {
	if f.listAdapters {
		printAdapterTable()
		return nil
	}
	if f.printSchema {
		return printConfigSchema()
	}

	file, err := rgaconfig.LoadFile(f.configFile)
	if err != nil {
		return err
	}
	env, err := rgaconfig.FromEnv()
	if err != nil {
		return err
	}
	cli, err := buildPartial(cmd, f)
	if err != nil {
		return err
	}

	cfg := rgaconfig.Merge(file, env, cli)
	rgaconfig.SetActive(cfg)
	if err := rgaconfig.ToEnv(cfg); err != nil {
		return err
	}

	registry := builtin.DefaultRegistry()
	registry.ApplySelection(cfg.Adapters)

	matcher, err := adapter.Compile(registry)
	if err != nil {
		return fmt.Errorf("compiling adapter matchers: %w", err)
	}

	var cache preproccache.Store
	if !cfg.NoCache {
		store, serr := preproccache.OpenNutsStore(cfg.CachePath)
		if serr != nil {
			return fmt.Errorf("opening cache store at %s: %w", cfg.CachePath, serr)
		}
		defer func() { _ = store.Close() }()
		cache = store
	}

	log := liblog.New(context.Background())
	engine := preproc.New(registry, matcher, cache, log)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	in, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("opening %s: %w", abs, err)
	}

	out, oerr := engine.Recurse(adapter.AdaptInfo{
		FilepathHint:          abs,
		IsRealFile:            true,
		ArchiveRecursionDepth: 0,
		Inp:                   in,
		LinePrefix:            "",
		Config:                &cfg,
	})
	if oerr != nil {
		return fmt.Errorf("preprocessing %s: %w", abs, oerr)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(os.Stdout, out); err != nil {
		return fmt.Errorf("writing output for %s: %w", abs, err)
	}

	return nil
}

func printAdapterTable() {
	registry := builtin.DefaultRegistry()
	for _, name := range registry.Names() {
		a, ok := registry.Get(name)
		if !ok {
			continue
		}
		meta := a.Meta()
		state := "enabled"
		if meta.DisabledByDefault {
			state = "disabled"
		}
		fmt.Printf("%-24s v%-3d %-9s %s\n", meta.Name, meta.Version, state, meta.Description)
	}
}

func printConfigSchema() error {
	b, err := json.MarshalIndent(rgaconfig.Schema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
