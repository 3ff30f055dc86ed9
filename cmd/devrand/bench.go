package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/devrand/internal/logger"
	"github.com/samcharles93/devrand/pkg/rng"
)

func benchCmd() *cli.Command {
	var (
		warmupRuns   int64
		benchRuns    int64
		n            int64
		distribution string
	)

	flags := append([]cli.Flag{}, commonGeneratorFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "distribution",
			Aliases:     []string{"d"},
			Usage:       "distribution to benchmark (integers, beta, standard_exponential)",
			Value:       "integers",
			Destination: &distribution,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of benchmark runs",
			Value:       5,
			Destination: &benchRuns,
		},
		&cli.Int64Flag{
			Name:        "n",
			Usage:       "samples per run",
			Value:       1 << 20,
			Destination: &n,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Run standardized sampling benchmarks",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGeneratorConfig(cmd, LoadConfig())

			gen, err := openGenerator()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open generator: %v", err), 1)
			}
			defer func() { _ = gen.BitGenerator().Close() }()

			fmt.Println("=== devrand Benchmark ===")
			fmt.Printf("Algorithm:  %s\n", gen.BitGenerator().Algorithm())
			fmt.Printf("Dist:       %s\n", distribution)
			fmt.Printf("Backend:    %s\n", backend)
			fmt.Printf("Streams:    %d\n", gen.BitGenerator().Streams())
			fmt.Printf("Samples:    %d per run\n", n)
			fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Println()

			sample := func() (*rng.Array, error) {
				switch distribution {
				case "integers":
					return gen.Integers(0, 1<<32, int(n), false)
				case "beta":
					return gen.Beta(2, 2, int(n), rng.F64)
				case "standard_exponential":
					return gen.StandardExponential(int(n), rng.F64, rng.MethodInverse, nil)
				default:
					return nil, fmt.Errorf("unknown distribution %q", distribution)
				}
			}
			readBack := func(arr *rng.Array) error {
				if distribution == "integers" {
					_, err := arr.Int64s()
					return err
				}
				_, err := arr.Float64s()
				return err
			}

			draw := func() (time.Duration, error) {
				start := time.Now()
				arr, err := sample()
				if err != nil {
					return 0, err
				}
				// Read-back is the synchronization point, so it is part
				// of the measured run.
				if err := readBack(arr); err != nil {
					_ = arr.Free()
					return 0, err
				}
				elapsed := time.Since(start)
				return elapsed, arr.Free()
			}

			for i := range int(warmupRuns) {
				log.Info("warmup run", "run", i+1)
				if _, err := draw(); err != nil {
					return cli.Exit(fmt.Sprintf("error: warmup run %d: %v", i+1, err), 1)
				}
			}

			rates := make([]float64, 0, benchRuns)
			fmt.Printf("%-6s %14s %12s\n", "Run", "Samples/sec", "Duration")
			for i := range int(benchRuns) {
				log.Info("benchmark run", "run", i+1)
				elapsed, err := draw()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: benchmark run %d: %v", i+1, err), 1)
				}
				rate := float64(n) / elapsed.Seconds()
				rates = append(rates, rate)
				fmt.Printf("%-6d %14.0f %12s\n", i+1, rate, elapsed.Round(time.Microsecond))
			}

			mean, err := stats.Mean(rates)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: aggregate results: %v", err), 1)
			}
			sd, err := stats.StandardDeviation(rates)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: aggregate results: %v", err), 1)
			}
			fmt.Printf("\n%-6s %14.0f ± %.0f\n", "Avg", mean, sd)

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			fmt.Printf("\nMemory: %.1f MB alloc, %.1f MB sys\n",
				float64(mem.Alloc)/(1024*1024),
				float64(mem.Sys)/(1024*1024))

			return nil
		},
	}
}
