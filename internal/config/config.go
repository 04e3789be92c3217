// Package config resolves the CLI surface of §6.3 into a Config, using the
// standard library's flag package (justified in DESIGN.md: no CLI
// framework such as clap's Go analogues appears anywhere in the example
// pack) plus the AOC_SESSION environment variable and tilde-expansion,
// matching _examples/original_source/aoc-cli/src/{cli,config}.rs.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ParallelizeBy is the execution granularity of §2.2/§4.4.
type ParallelizeBy int

const (
	ParallelizeSequential ParallelizeBy = iota
	ParallelizeYear
	ParallelizeDay
	ParallelizePart
)

func (p ParallelizeBy) String() string {
	switch p {
	case ParallelizeSequential:
		return "sequential"
	case ParallelizeYear:
		return "year"
	case ParallelizeDay:
		return "day"
	case ParallelizePart:
		return "part"
	default:
		return "unknown"
	}
}

func parseParallelizeBy(s string) (ParallelizeBy, error) {
	switch strings.ToLower(s) {
	case "sequential":
		return ParallelizeSequential, nil
	case "year":
		return ParallelizeYear, nil
	case "day", "":
		return ParallelizeDay, nil
	case "part":
		return ParallelizePart, nil
	default:
		return 0, fmt.Errorf("aocrunner: invalid parallelize-by %q: want sequential|year|day|part", s)
	}
}

// tagList is a flag.Value accumulating comma-separated tags across
// possibly-repeated --tags flags.
type tagList struct{ values []string }

func (t *tagList) String() string { return strings.Join(t.values, ",") }
func (t *tagList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			t.values = append(t.values, part)
		}
	}
	return nil
}

// Config is the resolved runtime configuration (§6.3).
type Config struct {
	YearFilter      *uint16
	DayFilter       *uint8
	PartFilter      *uint8
	Tags            []string
	CacheDir        string
	ThreadCount     int
	ParallelizeBy   ParallelizeBy
	Submit          bool
	UserID          *uint64
	AutoRetry       bool
	Quiet           bool
	EnvSessionToken string
}

// Parse builds a Config from argv (typically os.Args[1:]) and the process
// environment.
func Parse(argv []string) (Config, error) {
	fs := flag.NewFlagSet("aocrunner", flag.ContinueOnError)

	year := fs.Int("year", 0, "year to run (runs all years if omitted)")
	day := fs.Int("day", 0, "day to run, 1-25 (runs all days if omitted)")
	part := fs.Int("part", 0, "part to run, 1-2 (runs all parts if omitted)")
	var tags tagList
	fs.Var(&tags, "tags", "comma-separated tags to filter solvers")
	cacheDir := fs.String("cache-dir", "~/.cache/aoc_solver", "cache directory for puzzle inputs")
	threads := fs.Int("threads", 0, "number of threads for parallel execution (0 = all CPUs)")
	parallelizeBy := fs.String("parallelize-by", "day", "parallelization level: sequential, year, day, or part")
	submit := fs.Bool("submit", false, "submit answers to Advent of Code")
	userID := fs.Int("user-id", 0, "user id for cache organization and verification")
	autoRetry := fs.Bool("auto-retry", false, "auto-retry on throttle with parsed wait time")
	quiet := fs.Bool("quiet", false, "quiet mode - only output answers")

	if err := fs.Parse(argv); err != nil {
		return Config{}, err
	}

	pb, err := parseParallelizeBy(*parallelizeBy)
	if err != nil {
		return Config{}, err
	}

	threadCount := *threads
	if threadCount <= 0 {
		threadCount = runtime.NumCPU()
		if threadCount <= 0 {
			threadCount = 1
		}
	}

	cfg := Config{
		Tags:            tags.values,
		CacheDir:        expandTilde(*cacheDir),
		ThreadCount:     threadCount,
		ParallelizeBy:   pb,
		Submit:          *submit,
		AutoRetry:       *autoRetry,
		Quiet:           *quiet,
		EnvSessionToken: os.Getenv("AOC_SESSION"),
	}
	if *year != 0 {
		y := uint16(*year)
		cfg.YearFilter = &y
	}
	if *day != 0 {
		d := uint8(*day)
		cfg.DayFilter = &d
	}
	if *part != 0 {
		p := uint8(*part)
		cfg.PartFilter = &p
	}
	if *userID != 0 {
		u := uint64(*userID)
		cfg.UserID = &u
	}
	return cfg, nil
}

// expandTilde expands a leading "~" or "~/" to the user's home directory.
func expandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
