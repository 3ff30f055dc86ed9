package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/devrand/internal/logger"
	"github.com/samcharles93/devrand/pkg/rng"
)

var (
	algorithm string
	seedSpec  string
	streams   int64
	backend   string
	logLevel  string
	logFormat string
	debug     bool
)

func commonGeneratorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "algorithm",
			Aliases:     []string{"a"},
			Usage:       "generator algorithm (xorwow, mrg32k3a, philox)",
			Value:       "xorwow",
			Destination: &algorithm,
		},
		&cli.StringFlag{
			Name:        "seed",
			Aliases:     []string{"s"},
			Usage:       "comma-separated seed words; empty draws from OS entropy",
			Destination: &seedSpec,
		},
		&cli.Int64Flag{
			Name:        "streams",
			Usage:       "number of parallel generator streams",
			Value:       rng.DefaultStreams,
			Destination: &streams,
		},
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "kernel backend (auto, host, cuda)",
			Value:       "auto",
			Destination: &backend,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func buildLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Text(os.Stderr, level)
}

// parseSeed converts the --seed flag into a Seed. An empty spec means
// OS entropy.
func parseSeed(spec string) (rng.Seed, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return rng.OSEntropy(), nil
	}
	parts := strings.Split(spec, ",")
	words := make([]uint64, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return rng.Seed{}, fmt.Errorf("parse seed word %q: %w", p, err)
		}
		words = append(words, w)
	}
	return rng.NewSeed(words...), nil
}

// openGenerator builds a Generator from the common flags.
func openGenerator() (*rng.Generator, error) {
	alg, err := rng.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	seed, err := parseSeed(seedSpec)
	if err != nil {
		return nil, err
	}
	bits, err := rng.NewBitGenerator(alg, seed,
		rng.WithStreams(int(streams)),
		rng.WithBackend(backend),
	)
	if err != nil {
		return nil, err
	}
	return rng.New(bits), nil
}
