package blob

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	// ErrBlobNotFound is returned when a lookup by URI or URI tail has no match.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrAmbiguousTail is returned when a URI tail matches more than one URI.
	ErrAmbiguousTail = errors.New("ambiguous uri tail")
	// ErrEmptyURI is returned when a blob is added without a URI.
	ErrEmptyURI = errors.New("uri must not be empty")
)

// Collection structures a set of blobs, like the set of parts in an OPC package.
// Blobs are added and retrieved by URI (the slash separated path of the part)
// and can also be retrieved by URI tail, the trailing portion of the URI.
//
// Iteration follows insertion order. Replacing the blob of an existing URI
// keeps the entry at its original position.
//
// A Collection is not safe for concurrent mutation. Once it is handed over to
// a package it is only read, which is safe for concurrent use.
type Collection struct {
	uris  []string
	blobs map[string]*Blob
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{blobs: make(map[string]*Blob)}
}

// Put inserts b under uri, replacing any blob previously stored under the same uri.
func (c *Collection) Put(uri string, b *Blob) error {
	if uri == "" {
		return ErrEmptyURI
	}
	if b == nil {
		b = New(nil)
	}
	if c.blobs == nil {
		c.blobs = make(map[string]*Blob)
	}
	if _, exists := c.blobs[uri]; !exists {
		c.uris = append(c.uris, uri)
	}
	c.blobs[uri] = b
	return nil
}

// Get returns the blob stored under exactly uri.
func (c *Collection) Get(uri string) (*Blob, error) {
	b, ok := c.blobs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, uri)
	}
	return b, nil
}

// Has reports whether a blob is stored under uri.
func (c *Collection) Has(uri string) bool {
	_, ok := c.blobs[uri]
	return ok
}

// GetByTail returns the blob whose URI ends in tail.
// A URI matches if it equals tail or ends with "/" followed by tail, so a tail
// is always aligned to a path segment boundary.
// If more than one URI matches, ErrAmbiguousTail is returned together with the
// candidates; use MatchTail to pick one explicitly.
func (c *Collection) GetByTail(tail string) (*Blob, error) {
	matches := c.MatchTail(tail)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no uri with tail %q", ErrBlobNotFound, tail)
	case 1:
		return c.blobs[matches[0]], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousTail, tail, strings.Join(matches, ", "))
	}
}

// MatchTail returns all URIs ending in tail, in insertion order.
func (c *Collection) MatchTail(tail string) []string {
	if tail == "" {
		return nil
	}
	var matches []string
	for _, uri := range c.uris {
		if HasTail(uri, tail) {
			matches = append(matches, uri)
		}
	}
	return matches
}

// HasTail reports whether tail is the trailing portion of uri on a segment boundary.
func HasTail(uri, tail string) bool {
	if tail == "" {
		return false
	}
	return uri == tail || strings.HasSuffix(uri, "/"+tail)
}

// Tail returns the final path segment of uri.
func Tail(uri string) string {
	return uri[strings.LastIndexByte(uri, '/')+1:]
}

// All returns an iterator over all (uri, blob) pairs in insertion order.
func (c *Collection) All() iter.Seq2[string, *Blob] {
	return func(yield func(string, *Blob) bool) {
		for _, uri := range c.uris {
			if !yield(uri, c.blobs[uri]) {
				return
			}
		}
	}
}

// URIs returns a copy of all URIs in insertion order.
func (c *Collection) URIs() []string {
	uris := make([]string, len(c.uris))
	copy(uris, c.uris)
	return uris
}

// Len returns the number of blobs in the collection.
func (c *Collection) Len() int {
	return len(c.uris)
}
