// Package config loads the server's tunables from a line-oriented
// "directive value" file: listen address, which table algorithm and
// concurrency wrapper to use, and their sizing parameters. There is no
// persistence, auth, or eviction configuration here — this server has
// none of those subsystems.
//
// Grounded on a redis.conf-style reader (bufio.Scanner over
// whitespace-split "directive args..." lines, falling back to defaults
// when the file is absent).
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TableKind selects the hash table algorithm backing the store.
type TableKind string

const (
	TableLinearProbing TableKind = "linear"
	TableChained       TableKind = "chained"
)

// ConcurrencyKind selects how the store is made safe for concurrent use.
type ConcurrencyKind string

const (
	ConcurrencyCoarse  ConcurrencyKind = "coarse"
	ConcurrencyStriped ConcurrencyKind = "striped"
)

// Config holds everything needed to construct and run the server.
type Config struct {
	Address         string
	Table           TableKind
	Concurrency     ConcurrencyKind
	LoadFactor      float64
	InitialCapacity int
	StripeCount     int
	Debug           bool
}

// defaults returns a Config that is fully usable even if no config file
// is found.
func defaults() Config {
	return Config{
		Address:         ":6379",
		Table:           TableChained,
		Concurrency:     ConcurrencyStriped,
		LoadFactor:      0.75,
		InitialCapacity: 16,
		StripeCount:     16,
		Debug:           false,
	}
}

// Load builds a Config starting from defaults, applying directives found
// in the file at path (if it exists; a missing file is not an error, it
// just leaves the defaults in place), then applying any non-zero-value
// flag overrides in override.
func Load(path string, override Config) (Config, error) {
	cfg := defaults()

	f, err := os.Open(path)
	if err != nil {
		return applyOverride(cfg, override), nil
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	lineNo := 0
	for s.Scan() {
		lineNo++
		if err := parseLine(s.Text(), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s:%d: %w", path, lineNo, err)
		}
	}
	if err := s.Err(); err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	return applyOverride(cfg, override), nil
}

func parseLine(line string, cfg *Config) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	directive := strings.ToLower(fields[0])
	args := fields[1:]

	if len(args) == 0 {
		return fmt.Errorf("directive %q requires an argument", directive)
	}
	arg := args[0]

	switch directive {
	case "address":
		cfg.Address = arg
	case "table":
		switch TableKind(arg) {
		case TableLinearProbing, TableChained:
			cfg.Table = TableKind(arg)
		default:
			return fmt.Errorf("unknown table %q", arg)
		}
	case "concurrency":
		switch ConcurrencyKind(arg) {
		case ConcurrencyCoarse, ConcurrencyStriped:
			cfg.Concurrency = ConcurrencyKind(arg)
		default:
			return fmt.Errorf("unknown concurrency %q", arg)
		}
	case "load-factor":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("load-factor: %w", err)
		}
		cfg.LoadFactor = v
	case "initial-capacity":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("initial-capacity: %w", err)
		}
		cfg.InitialCapacity = v
	case "stripe-count":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("stripe-count: %w", err)
		}
		cfg.StripeCount = v
	case "debug":
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		cfg.Debug = v
	default:
		return fmt.Errorf("unknown directive %q", directive)
	}
	return nil
}

func applyOverride(cfg Config, override Config) Config {
	if override.Address != "" {
		cfg.Address = override.Address
	}
	if override.Table != "" {
		cfg.Table = override.Table
	}
	if override.Concurrency != "" {
		cfg.Concurrency = override.Concurrency
	}
	if override.LoadFactor != 0 {
		cfg.LoadFactor = override.LoadFactor
	}
	if override.InitialCapacity != 0 {
		cfg.InitialCapacity = override.InitialCapacity
	}
	if override.StripeCount != 0 {
		cfg.StripeCount = override.StripeCount
	}
	if override.Debug {
		cfg.Debug = true
	}
	return cfg
}

// FlagOverride builds a Config from command-line flags, suitable as the
// override argument to Load. Flags left at their zero value do not
// override anything the config file already set.
func FlagOverride(fs *flag.FlagSet, args []string) (Config, string, error) {
	var (
		override Config
		path     string
	)
	fs.StringVar(&path, "config", "", "path to a config file")
	fs.StringVar(&override.Address, "address", "", "listen address, e.g. :6379")
	fs.StringVar((*string)(&override.Table), "table", "", "linear or chained")
	fs.StringVar((*string)(&override.Concurrency), "concurrency", "", "coarse or striped")
	fs.Float64Var(&override.LoadFactor, "load-factor", 0, "resize threshold")
	fs.IntVar(&override.InitialCapacity, "initial-capacity", 0, "starting table size")
	fs.IntVar(&override.StripeCount, "stripe-count", 0, "lock stripe count")
	fs.BoolVar(&override.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, "", err
	}
	return override, path, nil
}
