package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/montanaflynn/stats"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/devrand/internal/logger"
	"github.com/samcharles93/devrand/pkg/rng"
)

// sampleOutput is the JSON document written by the sample command.
type sampleOutput struct {
	Algorithm    string    `json:"algorithm"`
	Distribution string    `json:"distribution"`
	N            int       `json:"n"`
	Integers     []int64   `json:"integers,omitempty"`
	Floats       []float64 `json:"floats,omitempty"`
	Summary      *summary  `json:"summary,omitempty"`
}

type summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func sampleCmd() *cli.Command {
	var (
		distribution string
		n            int64
		dtype        string
		low          int64
		high         uint64
		endpoint     bool
		alpha        float64
		beta         float64
		method       string
		summarize    bool
		output       string
	)

	flags := append([]cli.Flag{}, commonGeneratorFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "distribution",
			Aliases:     []string{"d"},
			Usage:       "distribution (integers, beta, standard_exponential)",
			Value:       "integers",
			Destination: &distribution,
		},
		&cli.Int64Flag{
			Name:        "n",
			Usage:       "number of samples",
			Value:       16,
			Destination: &n,
		},
		&cli.StringFlag{
			Name:        "dtype",
			Usage:       "float dtype for continuous distributions (f32, f64)",
			Value:       "f64",
			Destination: &dtype,
		},
		&cli.Int64Flag{
			Name:        "low",
			Usage:       "inclusive lower bound for integers",
			Destination: &low,
		},
		&cli.Uint64Flag{
			Name:        "high",
			Usage:       "upper bound for integers (exclusive unless --endpoint)",
			Value:       100,
			Destination: &high,
		},
		&cli.BoolFlag{
			Name:        "endpoint",
			Usage:       "treat --high as inclusive",
			Destination: &endpoint,
		},
		&cli.Float64Flag{
			Name:        "alpha",
			Usage:       "beta distribution shape a",
			Value:       2,
			Destination: &alpha,
		},
		&cli.Float64Flag{
			Name:        "beta",
			Usage:       "beta distribution shape b",
			Value:       2,
			Destination: &beta,
		},
		&cli.StringFlag{
			Name:        "method",
			Usage:       "standard_exponential method (inv, ziggurat)",
			Value:       string(rng.MethodInverse),
			Destination: &method,
		},
		&cli.BoolFlag{
			Name:        "summary",
			Usage:       "append summary statistics to the output",
			Destination: &summarize,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output format (json, text)",
			Value:       "json",
			Destination: &output,
		},
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Draw samples from a distribution",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGeneratorConfig(cmd, LoadConfig())

			gen, err := openGenerator()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open generator: %v", err), 1)
			}
			defer func() { _ = gen.BitGenerator().Close() }()

			out := sampleOutput{
				Algorithm:    gen.BitGenerator().Algorithm().String(),
				Distribution: distribution,
				N:            int(n),
			}

			log.Debug("sampling", "distribution", distribution, "n", n)
			switch distribution {
			case "integers":
				arr, err := gen.Integers(low, high, int(n), endpoint)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: sample integers: %v", err), 1)
				}
				defer func() { _ = arr.Free() }()
				out.Integers, err = arr.Int64s()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read samples: %v", err), 1)
				}
			case "beta":
				dt, err := parseFloatDtype(dtype)
				if err != nil {
					return cli.Exit("error: "+err.Error(), 1)
				}
				arr, err := gen.Beta(alpha, beta, int(n), dt)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: sample beta: %v", err), 1)
				}
				defer func() { _ = arr.Free() }()
				out.Floats, err = readAsFloat64s(arr)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read samples: %v", err), 1)
				}
			case "standard_exponential":
				dt, err := parseFloatDtype(dtype)
				if err != nil {
					return cli.Exit("error: "+err.Error(), 1)
				}
				arr, err := gen.StandardExponential(int(n), dt, rng.Method(method), nil)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: sample standard_exponential: %v", err), 1)
				}
				defer func() { _ = arr.Free() }()
				out.Floats, err = readAsFloat64s(arr)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read samples: %v", err), 1)
				}
			default:
				return cli.Exit(fmt.Sprintf("error: unknown distribution %q", distribution), 1)
			}

			if summarize {
				s, err := summarize64(out.values())
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: summarize: %v", err), 1)
				}
				out.Summary = s
			}

			switch output {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "text":
				printText(out)
				return nil
			default:
				return cli.Exit(fmt.Sprintf("error: unknown output format %q", output), 1)
			}
		},
	}
}

func printText(out sampleOutput) {
	if out.Floats != nil {
		for _, v := range out.Floats {
			fmt.Println(v)
		}
	} else {
		for _, v := range out.Integers {
			fmt.Println(v)
		}
	}
	if out.Summary != nil {
		s := out.Summary
		fmt.Printf("mean=%g median=%g std_dev=%g min=%g max=%g\n",
			s.Mean, s.Median, s.StdDev, s.Min, s.Max)
	}
}

// values returns the drawn samples as float64 for summary statistics.
func (o sampleOutput) values() []float64 {
	if o.Floats != nil {
		return o.Floats
	}
	vals := make([]float64, len(o.Integers))
	for i, v := range o.Integers {
		vals[i] = float64(v)
	}
	return vals
}

func summarize64(vals []float64) (*summary, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("no samples to summarize")
	}
	mean, err := stats.Mean(vals)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(vals)
	if err != nil {
		return nil, err
	}
	sd, err := stats.StandardDeviation(vals)
	if err != nil {
		return nil, err
	}
	lo, err := stats.Min(vals)
	if err != nil {
		return nil, err
	}
	hi, err := stats.Max(vals)
	if err != nil {
		return nil, err
	}
	return &summary{Mean: mean, Median: median, StdDev: sd, Min: lo, Max: hi}, nil
}

func parseFloatDtype(name string) (rng.Dtype, error) {
	switch name {
	case "f32", "float32":
		return rng.F32, nil
	case "f64", "float64":
		return rng.F64, nil
	default:
		return 0, fmt.Errorf("unknown float dtype %q", name)
	}
}

func readAsFloat64s(arr *rng.Array) ([]float64, error) {
	if arr.Dtype() == rng.F32 {
		f32s, err := arr.Float32s()
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(f32s))
		for i, v := range f32s {
			vals[i] = float64(v)
		}
		return vals, nil
	}
	return arr.Float64s()
}
