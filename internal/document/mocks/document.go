// Package mocks provides mock implementations for document access testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of Fetcher for testing.
type MockFetcher struct {
	mock.Mock
}

// Fetch mocks the Fetch method of Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArtifactStore is a mock implementation of ArtifactStore for testing.
type MockArtifactStore struct {
	mock.Mock
}

// Put mocks the Put method of ArtifactStore.
func (m *MockArtifactStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

// Close mocks the Close method of ArtifactStore.
func (m *MockArtifactStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
