package physpkg

import (
	"context"
	"fmt"
	"io"
)

// newCtxReader wraps an io.Reader with one that checks ctx.Done() on each Read call.
func newCtxReader(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx, r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(p []byte) (n int, err error) {
	if err = r.ctx.Err(); err != nil {
		return n, err
	}
	if n, err = r.r.Read(p); err != nil {
		return n, err
	}
	err = r.ctx.Err()
	return n, err
}

// readAll reads r to the end while honoring ctx.
// If limit is positive and r yields more than limit bytes, ErrInvalidPackage is returned.
func readAll(ctx context.Context, uri string, r io.Reader, limit int64) ([]byte, error) {
	r = newCtxReader(ctx, r)
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %q exceeds the limit of %d bytes", ErrInvalidPackage, uri, limit)
	}
	return data, nil
}
