package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sealpact/walletcore/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArtifactStorage implements interfaces.ArtifactStorage for testing.
type MockArtifactStorage struct {
	mock.Mock
	name string
}

func (m *MockArtifactStorage) Store(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactStorage) Fetch(ctx context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SecuredArtifact), args.Error(1)
}

func (m *MockArtifactStorage) Replace(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactStorage) Delete(ctx context.Context, address interfaces.WalletAddress) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockArtifactStorage) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockArtifactStorage) Name() string { return m.name }

func (m *MockArtifactStorage) LocationURI() string { return "mock:" }

func TestMultiStorage_Available(t *testing.T) {
	tests := []struct {
		name     string
		backends []bool
		expected bool
	}{
		{
			name:     "all backends available",
			backends: []bool{true, true, true},
			expected: true,
		},
		{
			name:     "some backends available",
			backends: []bool{false, true, false},
			expected: true,
		},
		{
			name:     "no backends available",
			backends: []bool{false, false, false},
			expected: false,
		},
		{
			name:     "no backends",
			backends: []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backends []interfaces.ArtifactStorage
			for i, available := range tt.backends {
				mockStorage := &MockArtifactStorage{name: fmt.Sprintf("mock-%d", i)}
				mockStorage.On("Available", mock.Anything).Return(available).Maybe()
				backends = append(backends, mockStorage)
			}

			multi := NewMultiStorage(backends, testLogger())
			assert.Equal(t, tt.expected, multi.Available(context.Background()))

			for _, backend := range backends {
				backend.(*MockArtifactStorage).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorage_Fetch(t *testing.T) {
	artifact := testArtifact(t, "multi")
	testErr := errors.New("backend exploded")

	tests := []struct {
		name          string
		setupMocks    func() []interfaces.ArtifactStorage
		expectFound   bool
		expectedError error
	}{
		{
			name: "first backend has the artifact",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, artifact.Address).Return(artifact, nil)

				// Second backend is never consulted.
				mock2 := &MockArtifactStorage{name: "mock-B"}

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
			expectFound: true,
		},
		{
			name: "first backend misses, second has it",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, artifact.Address).Return(nil, interfaces.ErrArtifactNotFound)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, artifact.Address).Return(artifact, nil)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
			expectFound: true,
		},
		{
			name: "unavailable backends are skipped",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, artifact.Address).Return(artifact, nil)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
			expectFound: true,
		},
		{
			name: "nobody has the artifact",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, artifact.Address).Return(nil, interfaces.ErrArtifactNotFound)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Fetch", mock.Anything, artifact.Address).Return(nil, interfaces.ErrArtifactNotFound)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
			expectedError: interfaces.ErrArtifactNotFound,
		},
		{
			name: "backend failure surfaces",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Fetch", mock.Anything, artifact.Address).Return(nil, testErr)

				return []interfaces.ArtifactStorage{mock1}
			},
			expectedError: testErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backends := tt.setupMocks()
			multi := NewMultiStorage(backends, testLogger())

			fetched, err := multi.Fetch(context.Background(), artifact.Address)

			if tt.expectFound {
				require.NoError(t, err)
				assert.Equal(t, artifact.Address, fetched.Address)
			} else {
				assert.ErrorIs(t, err, tt.expectedError)
			}

			for _, backend := range backends {
				backend.(*MockArtifactStorage).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorage_Store(t *testing.T) {
	artifact := testArtifact(t, "multi-store")
	testErr := errors.New("backend exploded")

	tests := []struct {
		name          string
		setupMocks    func() []interfaces.ArtifactStorage
		expectedError bool
	}{
		{
			name: "all backends successful",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Store", mock.Anything, artifact).Return(nil)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Store", mock.Anything, artifact).Return(nil)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
		},
		{
			name: "one backend failing is tolerated",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Store", mock.Anything, artifact).Return(testErr)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Store", mock.Anything, artifact).Return(nil)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
		},
		{
			name: "all backends fail",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Store", mock.Anything, artifact).Return(testErr)

				mock2 := &MockArtifactStorage{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Store", mock.Anything, artifact).Return(testErr)

				return []interfaces.ArtifactStorage{mock1, mock2}
			},
			expectedError: true,
		},
		{
			name: "no backend available",
			setupMocks: func() []interfaces.ArtifactStorage {
				mock1 := &MockArtifactStorage{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)

				return []interfaces.ArtifactStorage{mock1}
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backends := tt.setupMocks()
			multi := NewMultiStorage(backends, testLogger())

			err := multi.Store(context.Background(), artifact)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, backend := range backends {
				backend.(*MockArtifactStorage).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorage_Delete(t *testing.T) {
	artifact := testArtifact(t, "multi-delete")

	mock1 := &MockArtifactStorage{name: "mock-A"}
	mock1.On("Available", mock.Anything).Return(true)
	mock1.On("Delete", mock.Anything, artifact.Address).Return(nil)

	mock2 := &MockArtifactStorage{name: "mock-B"}
	mock2.On("Available", mock.Anything).Return(false)

	multi := NewMultiStorage([]interfaces.ArtifactStorage{mock1, mock2}, testLogger())
	require.NoError(t, multi.Delete(context.Background(), artifact.Address))

	mock1.AssertExpectations(t)
	mock2.AssertExpectations(t)
}
