// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	defaultArtifactName = "mem.zip"
	defaultCacheDir     = "cache"
	defaultOutputDir    = "out"

	// cacheFileName is the file the write cache is persisted as inside
	// the cache directory.
	cacheFileName = "writeCache.json"
)

// ErrNoIncludes is returned if not a single include pattern is given.
var ErrNoIncludes = errors.New("at least one -include pattern is required")

// config enumerates everything a build pass is configured by.
type config struct {
	includes     stringList
	excludes     stringList
	artifactName string
	cacheDir     string
	outputDir    string
	jobs         int
	keepGoing    bool
	debug        bool
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func parseArgs(args []string, output io.Writer) (*config, error) {
	cfg := &config{
		artifactName: defaultArtifactName,
		cacheDir:     defaultCacheDir,
		outputDir:    defaultOutputDir,
		keepGoing:    true,
	}

	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Var(&cfg.includes, "include",
		"glob pattern selecting paths, can be given multiple times")
	flagSet.Var(&cfg.excludes, "exclude",
		"gitignore style pattern dropping selected paths, can be given"+
			" multiple times")
	flagSet.StringVar(&cfg.artifactName, "name", cfg.artifactName,
		"name of the emitted artifact file")
	flagSet.StringVar(&cfg.cacheDir, "cache-dir", cfg.cacheDir,
		"directory the write cache is persisted in")
	flagSet.StringVar(&cfg.outputDir, "out-dir", cfg.outputDir,
		"directory the artifact is emitted to")
	flagSet.IntVar(&cfg.jobs, "jobs", 0,
		"maximum concurrent file reads, 0 means number of CPUs")
	flagSet.BoolVar(&cfg.keepGoing, "keep-going", cfg.keepGoing,
		"report paths that fail to read instead of aborting on the first")
	flagSet.BoolVar(&cfg.debug, "debug", false,
		"enable debug output")

	err := flagSet.Parse(args[1:])
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	if len(cfg.includes) == 0 {
		fmt.Fprintln(flagSet.Output(), ErrNoIncludes.Error())
		flagSet.Usage()

		return nil, ErrNoIncludes
	}

	return cfg, nil
}
