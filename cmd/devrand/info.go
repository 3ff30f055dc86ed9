package main

import (
	"context"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/devrand/internal/device"
	"github.com/samcharles93/devrand/internal/kernels"
	"github.com/samcharles93/devrand/internal/version"
	"github.com/samcharles93/devrand/pkg/rng"
)

type infoOutput struct {
	Version        string          `json:"version"`
	Backends       string          `json:"backends"`
	Devices        int             `json:"devices"`
	DefaultStreams int             `json:"default_streams"`
	Algorithms     []algorithmInfo `json:"algorithms"`
}

type algorithmInfo struct {
	Name       string `json:"name"`
	StateBytes int    `json:"state_bytes"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print supported algorithms and backends",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := infoOutput{
				Version:        version.String(),
				Backends:       kernels.Available(),
				Devices:        device.Count(),
				DefaultStreams: rng.DefaultStreams,
			}
			for _, alg := range []rng.Algorithm{rng.XORWOW, rng.MRG32k3a, rng.Philox4x32} {
				out.Algorithms = append(out.Algorithms, algorithmInfo{
					Name:       alg.String(),
					StateBytes: rng.StateBytes(alg),
				})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
