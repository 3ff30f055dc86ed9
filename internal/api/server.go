package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/devrand/internal/device"
	"github.com/samcharles93/devrand/internal/kernels"
	"github.com/samcharles93/devrand/internal/version"
	"github.com/samcharles93/devrand/pkg/rng"
)

// Server exposes sampling over HTTP.
type Server struct {
	store *GeneratorStore
}

// NewServer builds a server drawing generators from store.
func NewServer(store *GeneratorStore) *Server {
	if store == nil {
		store = NewGeneratorStore(kernels.Auto, 0)
	}
	return &Server{store: store}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/sample", s.handleSample)
	e.GET("/v1/info", s.handleInfo)
	e.GET("/v1/healthz", s.handleHealthz)
}

func (s *Server) handleSample(c *echo.Context) error {
	req, err := decodeJSON[SampleRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.N < 0 {
		return writeBadRequest(c, "n must be >= 0")
	}
	alg, err := kernels.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	gen, err := s.store.Acquire(alg, req.Seed, req.Streams)
	if err != nil {
		return writeServerError(c, fmt.Sprintf("open generator: %v", err))
	}

	resp := SampleResponse{
		ID:           "sample-" + uuid.NewString(),
		Object:       "sample",
		Algorithm:    alg.String(),
		Distribution: req.Distribution,
		N:            req.N,
	}

	switch req.Distribution {
	case "integers":
		arr, err := gen.Integers(req.Low, req.High, req.N, req.Endpoint)
		if err != nil {
			return writeSampleError(c, err)
		}
		defer arr.Free()
		resp.Ints, err = arr.Int64s()
		if err != nil {
			return writeServerError(c, err.Error())
		}
	case "beta":
		dt, err := parseDtype(req.Dtype)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		arr, err := gen.Beta(req.Alpha, req.Beta, req.N, dt)
		if err != nil {
			return writeSampleError(c, err)
		}
		defer arr.Free()
		resp.Floats, err = readFloats(arr)
		if err != nil {
			return writeServerError(c, err.Error())
		}
	case "standard_exponential":
		dt, err := parseDtype(req.Dtype)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		arr, err := gen.StandardExponential(req.N, dt, rng.Method(req.Method), nil)
		if err != nil {
			return writeSampleError(c, err)
		}
		defer arr.Free()
		resp.Floats, err = readFloats(arr)
		if err != nil {
			return writeServerError(c, err.Error())
		}
	default:
		return writeBadRequest(c, fmt.Sprintf("unknown distribution %q (expected integers, beta, or standard_exponential)", req.Distribution))
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInfo(c *echo.Context) error {
	algs := []rng.Algorithm{rng.XORWOW, rng.MRG32k3a, rng.Philox4x32}
	info := InfoResponse{
		Version:        version.String(),
		Backends:       kernels.Available(),
		Devices:        device.Count(),
		DefaultStreams: rng.DefaultStreams,
	}
	for _, a := range algs {
		info.Algorithms = append(info.Algorithms, AlgorithmInfo{
			Name:       a.String(),
			StateBytes: rng.StateBytes(a),
		})
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func parseDtype(name string) (rng.Dtype, error) {
	switch name {
	case "", "float64":
		return rng.F64, nil
	case "float32":
		return rng.F32, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q (expected float32 or float64)", name)
	}
}

func readFloats(arr *rng.Array) ([]float64, error) {
	if arr.Dtype() == rng.F32 {
		vals, err := arr.Float32s()
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, nil
	}
	return arr.Float64s()
}

// writeSampleError maps sampling failures onto HTTP statuses: caller
// mistakes are 400s, device or kernel failures are 500s.
func writeSampleError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, rng.ErrUnsupportedMethod),
		errors.Is(err, rng.ErrRangeOverflow):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, rng.ErrWrongDevice), errors.Is(err, rng.ErrClosed):
		return writeError(c, http.StatusConflict, "state_error", err.Error(), "")
	default:
		return writeServerError(c, err.Error())
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeServerError(c *echo.Context, msg string) error {
	return writeError(c, http.StatusInternalServerError, "server_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
		},
	})
}

func decodeJSON[T any](r io.Reader) (*T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &v, nil
}
