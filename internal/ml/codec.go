package ml

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var (
	artifactEncoder = mustEncoder(zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)))
	artifactDecoder = mustDecoder(zstd.NewReader(nil, zstd.WithDecoderConcurrency(0)))
)

func mustEncoder(enc *zstd.Encoder, err error) *zstd.Encoder {
	if err != nil {
		panic(fmt.Sprintf("ml: init zstd encoder: %v", err))
	}
	return enc
}

func mustDecoder(dec *zstd.Decoder, err error) *zstd.Decoder {
	if err != nil {
		panic(fmt.Sprintf("ml: init zstd decoder: %v", err))
	}
	return dec
}

// Encode serializes a pipeline as zstd-compressed JSON.
func Encode(p *Pipeline) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("encode pipeline: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline: %w", err)
	}
	return artifactEncoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// Decode is the inverse of Encode. Any artifact that does not decompress,
// parse strictly, or validate is rejected.
func Decode(data []byte) (*Pipeline, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode pipeline: empty artifact")
	}
	raw, err := artifactDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress pipeline: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var p Pipeline
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("unmarshal pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	return &p, nil
}
