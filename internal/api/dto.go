package api

// SampleRequest asks the server to draw n values from one distribution.
// An empty seed means "seed from OS entropy".
type SampleRequest struct {
	Algorithm    string   `json:"algorithm,omitempty"`
	Seed         []uint64 `json:"seed,omitempty"`
	Streams      int      `json:"streams,omitempty"`
	Distribution string   `json:"distribution"`
	N            int      `json:"n"`

	// integers
	Low      int64  `json:"low,omitempty"`
	High     uint64 `json:"high,omitempty"`
	Endpoint bool   `json:"endpoint,omitempty"`

	// beta
	Alpha float64 `json:"alpha,omitempty"`
	Beta  float64 `json:"beta,omitempty"`

	// floating distributions
	Dtype  string `json:"dtype,omitempty"`
	Method string `json:"method,omitempty"`
}

// SampleResponse carries the drawn values. Exactly one of Ints and Floats
// is populated, depending on the distribution.
type SampleResponse struct {
	ID           string    `json:"id"`
	Object       string    `json:"object"`
	Algorithm    string    `json:"algorithm"`
	Distribution string    `json:"distribution"`
	N            int       `json:"n"`
	Ints         []int64   `json:"ints,omitempty"`
	Floats       []float64 `json:"floats,omitempty"`
}

// AlgorithmInfo describes one supported generator family.
type AlgorithmInfo struct {
	Name       string `json:"name"`
	StateBytes int    `json:"state_bytes"`
}

// InfoResponse describes the runtime the server samples against.
type InfoResponse struct {
	Version        string          `json:"version"`
	Backends       string          `json:"backends"`
	Devices        int             `json:"devices"`
	DefaultStreams int             `json:"default_streams"`
	Algorithms     []AlgorithmInfo `json:"algorithms"`
}

// ResponseError is the error payload wrapped in an "error" envelope.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}
