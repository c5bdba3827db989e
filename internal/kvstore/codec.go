package kvstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/golang/snappy"
)

var snappyMagic = []byte("\xffsnp")

// SnappyStore compresses values on write. Values written without the frame
// marker are returned as-is, so enabling compression keeps old data readable.
type SnappyStore struct {
	inner Store
}

func NewSnappyStore(inner Store) *SnappyStore {
	return &SnappyStore{inner: inner}
}

func (s *SnappyStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(raw, snappyMagic) {
		return raw, nil
	}
	decoded, err := snappy.Decode(nil, raw[len(snappyMagic):])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", key, ErrCorruptValue, err)
	}
	return decoded, nil
}

func (s *SnappyStore) Set(ctx context.Context, key string, value []byte) error {
	compressed := snappy.Encode(nil, value)
	framed := make([]byte, 0, len(snappyMagic)+len(compressed))
	framed = append(framed, snappyMagic...)
	framed = append(framed, compressed...)
	return s.inner.Set(ctx, key, framed)
}

func (s *SnappyStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func encodingOf(value []byte) string {
	if bytes.HasPrefix(value, snappyMagic) {
		return "snappy"
	}
	return "identity"
}
