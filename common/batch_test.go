package common

import (
	"bytes"
	"encoding/gob"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseDrawRequestUniform(t *testing.T) {
	body := []byte(`{"kind": "uniform", "count": 10, "params": {"low": -1.5, "high": 2.5}}`)

	request, err := ParseDrawRequest(body)
	require.NoError(t, err)

	require.Equal(t, DrawUniform, request.Kind)
	require.Equal(t, uint(10), request.Count)
	require.Equal(t, UniformParams{Low: -1.5, High: 2.5}, request.Params)
}

func TestParseDrawRequestExponential(t *testing.T) {
	body := []byte(`{"kind": "exponential", "count": 3, "params": {"mean": 2}}`)

	request, err := ParseDrawRequest(body)
	require.NoError(t, err)

	require.Equal(t, ExponentialParams{Mean: 2}, request.Params)
}

func TestParseDrawRequestGeometric(t *testing.T) {
	body := []byte(`{"kind": "geometric", "count": 3, "params": {"p": 0.3}}`)

	request, err := ParseDrawRequest(body)
	require.NoError(t, err)

	require.Equal(t, GeometricParams{Success: 0.3}, request.Params)
}

func TestParseDrawRequestRawIgnoresParams(t *testing.T) {
	body := []byte(`{"kind": "raw", "count": 1, "params": {"whatever": 1}}`)

	request, err := ParseDrawRequest(body)
	require.NoError(t, err)
	require.Nil(t, request.Params)
}

func TestParseDrawRequestRejectsGarbage(t *testing.T) {
	_, err := ParseDrawRequest([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseDrawRequest([]byte(`{"kind": "raw", "count": 0}`))
	require.Error(t, err)

	_, err = ParseDrawRequest([]byte(`{"kind": "dirichlet", "count": 5}`))
	require.Error(t, err)
}

func TestAMQPBatchGobRoundTrip(t *testing.T) {
	original := AMQPBatch{
		SessionID: 3,
		Batch: SampleBatch{
			SequenceID: 7,
			Timestamp:  1700000000,
			Request: DrawRequest{
				Kind:   DrawUniform,
				Count:  2,
				Params: UniformParams{Low: 0, High: 1},
			},
			RealSamples: []float64{0.25, 0.75},
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buffer).Encode(original))

	var decoded AMQPBatch
	require.NoError(t, gob.NewDecoder(&buffer).Decode(&decoded))

	require.Equal(t, original, decoded)
}
