package storage

import (
	"encoding/json"
	"fmt"
)

// EncodeVector serializes a vector as a JSON array of numbers
func EncodeVector(v []float32) (string, error) {
	if v == nil {
		v = []float32{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode vector: %w", err)
	}
	return string(data), nil
}

// DecodeVector parses the JSON array text written by EncodeVector
func DecodeVector(text string) ([]float32, error) {
	var v []float32
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	if v == nil {
		v = []float32{}
	}
	return v, nil
}
