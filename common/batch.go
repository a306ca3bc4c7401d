package common

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/mitchellh/mapstructure"
)

// ExchangeName is the fanout exchange sample batches are published on.
const ExchangeName = "sample_batches"

type DrawKind string

const (
	DrawRaw         DrawKind = "raw"
	DrawUniform     DrawKind = "uniform"
	DrawExponential DrawKind = "exponential"
	DrawGeometric   DrawKind = "geometric"
)

type DrawParams interface{}

type UniformParams struct {
	Low  float64 `json:"low" mapstructure:"low"`
	High float64 `json:"high" mapstructure:"high"`
}

type ExponentialParams struct {
	Mean float64 `json:"mean" mapstructure:"mean"`
}

type GeometricParams struct {
	Success float64 `json:"p" mapstructure:"p"`
}

// DrawRequest asks a session for a batch of draws. Params is
// kind-dependent; ParseDrawRequest narrows it to one of the typed
// parameter structs above.
type DrawRequest struct {
	Kind   DrawKind   `json:"kind"`
	Count  uint       `json:"count"`
	Params DrawParams `json:"params,omitempty"`
}

// SampleBatch is one fulfilled DrawRequest. Exactly one of the sample
// slices is populated, matching the request kind.
type SampleBatch struct {
	SequenceID uint        `json:"seq"`
	Timestamp  int64       `json:"ts"`
	Request    DrawRequest `json:"request"`

	RawSamples  []uint64  `json:"raw,omitempty"`
	RealSamples []float64 `json:"reals,omitempty"`
	IntSamples  []int     `json:"ints,omitempty"`
}

type AMQPBatch struct {
	SessionID uint        `json:"sessionId"`
	Batch     SampleBatch `json:"batch"`
}

func init() {
	gob.Register(UniformParams{})
	gob.Register(ExponentialParams{})
	gob.Register(GeometricParams{})
}

// ParseDrawRequest decodes a JSON draw request and narrows its
// kind-dependent parameter object into the matching typed struct.
func ParseDrawRequest(body []byte) (request DrawRequest, err error) {
	if err = json.Unmarshal(body, &request); err != nil {
		return
	}

	if request.Count == 0 {
		err = errors.New("draw request with a count of zero")
		return
	}

	switch request.Kind {
	case DrawRaw:
		request.Params = nil
	case DrawUniform:
		var params UniformParams
		if err = mapstructure.Decode(request.Params, &params); err != nil {
			err = fmt.Errorf("bad uniform parameters: %w", err)
			return
		}
		request.Params = params
	case DrawExponential:
		var params ExponentialParams
		if err = mapstructure.Decode(request.Params, &params); err != nil {
			err = fmt.Errorf("bad exponential parameters: %w", err)
			return
		}
		request.Params = params
	case DrawGeometric:
		var params GeometricParams
		if err = mapstructure.Decode(request.Params, &params); err != nil {
			err = fmt.Errorf("bad geometric parameters: %w", err)
			return
		}
		request.Params = params
	default:
		err = fmt.Errorf("unknown draw kind \"%s\"", request.Kind)
	}

	return
}
