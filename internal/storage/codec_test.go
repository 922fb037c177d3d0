package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want string
	}{
		{name: "nil", in: nil, want: "[]"},
		{name: "values", in: []float32{0.5, -1, 0}, want: "[0.5,-1,0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeVector(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeVector(t *testing.T) {
	v, err := DecodeVector("[0.1, 0.2]")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, v)

	v, err = DecodeVector("[]")
	require.NoError(t, err)
	assert.Equal(t, []float32{}, v)

	_, err = DecodeVector("not json")
	assert.Error(t, err)
}
