// Package mocks provides mock implementations of the packages use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// MockPackageWriter is a mock implementation of PackageWriter for testing.
type MockPackageWriter struct {
	mock.Mock
}

// Upsert mocks the Upsert method of PackageWriter.
func (m *MockPackageWriter) Upsert(ctx context.Context, pkg *packagesDomain.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

// MockSeedUseCase is a mock implementation of SeedUseCase for testing.
type MockSeedUseCase struct {
	mock.Mock
}

// SeedFile mocks the SeedFile method of SeedUseCase.
func (m *MockSeedUseCase) SeedFile(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

// Seed mocks the Seed method of SeedUseCase.
func (m *MockSeedUseCase) Seed(ctx context.Context, packages []*packagesDomain.Package) (int, error) {
	args := m.Called(ctx, packages)
	return args.Int(0), args.Error(1)
}
