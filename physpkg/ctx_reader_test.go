package physpkg

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCtxReader_Success(t *testing.T) {
	data := []byte("hello world")

	reader := newCtxReader(t.Context(), bytes.NewReader(data))
	buf := make([]byte, len(data))
	n, err := reader.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, buf)
}

func TestNewCtxReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	reader := newCtxReader(ctx, bytes.NewReader([]byte("test")))
	n, err := reader.Read(make([]byte, 4))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAll_Limit(t *testing.T) {
	ctx := t.Context()

	data, err := readAll(ctx, "part.xml", bytes.NewReader([]byte("12345")), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), data)

	_, err = readAll(ctx, "part.xml", bytes.NewReader([]byte("123456")), 5)
	require.ErrorIs(t, err, ErrInvalidPackage)

	data, err = readAll(ctx, "part.xml", bytes.NewReader([]byte("123456")), 0)
	require.NoError(t, err)
	assert.Len(t, data, 6)
}

func TestLimiter(t *testing.T) {
	lim := &limiter{opts: ReadOptions{MaxEntries: 1, MaxBlobSize: 10}}
	require.NoError(t, lim.admit("a", 10, false))
	require.NoError(t, lim.admit("a", 5, true))
	require.ErrorIs(t, lim.admit("b", 1, false), ErrInvalidPackage)

	lim = &limiter{opts: ReadOptions{MaxBlobSize: 10}}
	require.ErrorIs(t, lim.admit("a", 11, false), ErrInvalidPackage)
	// unknown sizes are checked while reading
	require.NoError(t, lim.admit("b", -1, false))
}
