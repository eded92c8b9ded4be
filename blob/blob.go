package blob

import (
	"bytes"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
)

// ReadOnlyBlob is an interface that represents readable package content.
type ReadOnlyBlob interface {
	// ReadCloser returns a reader to incrementally access byte stream content
	// It is the caller's responsibility to close the reader.
	//
	// ReadCloser MUST be safe for concurrent use.
	// ReadCloser MUST be able to be called multiple times, where each invocation
	// returns a new reader that starts from the beginning of the blob.
	ReadCloser() (io.ReadCloser, error)
}

// SizeAware is an interface that represents any arbitrary object that can be sized.
type SizeAware interface {
	// Size returns the blob size in bytes.
	Size() (size int64)
}

// DigestAware is an interface that represents any arbitrary object that can be digested.
type DigestAware interface {
	// Digest returns the blob digest if known.
	Digest() (digest string, known bool)
}

// Blob is the content of a single package part held in memory.
// A Blob never changes after creation.
type Blob struct {
	data []byte

	digestOnce sync.Once
	digest     digest.Digest
}

var (
	_ ReadOnlyBlob = (*Blob)(nil)
	_ SizeAware    = (*Blob)(nil)
	_ DigestAware  = (*Blob)(nil)
)

// New creates a Blob that takes ownership of data.
// The caller must not modify data afterwards.
func New(data []byte) *Blob {
	if data == nil {
		data = []byte{}
	}
	return &Blob{data: data}
}

// Bytes returns the content of the blob. The returned slice must not be modified.
func (b *Blob) Bytes() []byte {
	return b.data
}

// ReadCloser returns a new reader over the full content of the blob.
func (b *Blob) ReadCloser() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// Size returns the size of the blob in bytes.
func (b *Blob) Size() int64 {
	return int64(len(b.data))
}

// Digest returns the canonical (sha256) digest of the blob.
// It is calculated on first use and cached afterwards.
func (b *Blob) Digest() (string, bool) {
	b.digestOnce.Do(func() {
		b.digest = digest.Canonical.FromBytes(b.data)
	})
	return b.digest.String(), true
}

// Equal reports whether both blobs carry the same content.
func (b *Blob) Equal(other *Blob) bool {
	if b == nil || other == nil {
		return b == other
	}
	return bytes.Equal(b.data, other.data)
}
