package tmdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	items  map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

type countingSearcher struct {
	calls   int
	results []Result
	err     error
}

func (s *countingSearcher) Search(context.Context, string) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func TestCachedSearcher_HitAvoidsUpstream(t *testing.T) {
	upstream := &countingSearcher{results: []Result{{Title: "Alien", ReleaseDate: "1979-05-25"}}}
	cache := newMemoryCache()
	s := NewCachedSearcher(upstream, cache, time.Minute)

	first, err := s.Search(context.Background(), "Alien")
	require.NoError(t, err)
	second, err := s.Search(context.Background(), "  alien ")
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, first, second)
	assert.Contains(t, cache.items, "tmdb:search:alien")
}

func TestCachedSearcher_UpstreamErrorNotCached(t *testing.T) {
	upstream := &countingSearcher{err: &UpstreamError{StatusCode: 500}}
	cache := newMemoryCache()
	s := NewCachedSearcher(upstream, cache, time.Minute)

	_, err := s.Search(context.Background(), "Alien")
	require.Error(t, err)
	_, err = s.Search(context.Background(), "Alien")
	require.Error(t, err)

	assert.Equal(t, 2, upstream.calls)
	assert.Empty(t, cache.items)
}

func TestCachedSearcher_BrokenCacheFallsThrough(t *testing.T) {
	upstream := &countingSearcher{results: []Result{{Title: "Heat"}}}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	s := NewCachedSearcher(upstream, cache, time.Minute)

	results, err := s.Search(context.Background(), "Heat")
	require.NoError(t, err)
	assert.Equal(t, "Heat", results[0].Title)
	assert.Equal(t, 1, upstream.calls)
}
