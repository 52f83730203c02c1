package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/startupheroes/package-events/internal/database"
	apperrors "github.com/startupheroes/package-events/internal/errors"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
	packagesRepository "github.com/startupheroes/package-events/internal/packages/repository"
	packagesMocks "github.com/startupheroes/package-events/internal/packages/usecase/mocks"
	"github.com/startupheroes/package-events/internal/testutil"
)

const fixturePath = "../fixture/testdata/packages.yaml"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedUseCase_Seed(t *testing.T) {
	t.Run("Success_WritesInOneTransaction", func(t *testing.T) {
		db, sqlMock := testutil.NewMockDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectExec("INSERT INTO packages").WillReturnResult(sqlmock.NewResult(0, 1))
		sqlMock.ExpectExec("INSERT INTO packages").WillReturnResult(sqlmock.NewResult(0, 1))
		sqlMock.ExpectCommit()

		useCase := NewSeedUseCase(
			database.NewTxManager(db),
			packagesRepository.NewPostgreSQLPackageRepository(db),
			newTestLogger(),
		)

		count, err := useCase.Seed(context.Background(), []*packagesDomain.Package{
			testutil.CompletedPackage(t, 1),
			testutil.InDeliveryPackage(t, 4),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Error_RollsBackOnFailure", func(t *testing.T) {
		db, sqlMock := testutil.NewMockDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectExec("INSERT INTO packages").WillReturnResult(sqlmock.NewResult(0, 1))
		sqlMock.ExpectExec("INSERT INTO packages").WillReturnError(errors.New("disk full"))
		sqlMock.ExpectRollback()

		useCase := NewSeedUseCase(
			database.NewTxManager(db),
			packagesRepository.NewPostgreSQLPackageRepository(db),
			newTestLogger(),
		)

		count, err := useCase.Seed(context.Background(), []*packagesDomain.Package{
			testutil.CompletedPackage(t, 1),
			testutil.InDeliveryPackage(t, 4),
		})

		require.Error(t, err)
		assert.Zero(t, count)
		assert.Contains(t, err.Error(), "failed to seed package 4")
	})
}

func TestSeedUseCase_SeedFile(t *testing.T) {
	t.Run("Success_LoadsFixtureFile", func(t *testing.T) {
		db, sqlMock := testutil.NewMockDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		writer := &packagesMocks.MockPackageWriter{}
		writer.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Package")).Return(nil).Times(3)

		useCase := NewSeedUseCase(database.NewTxManager(db), writer, newTestLogger())
		count, err := useCase.SeedFile(context.Background(), fixturePath)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		writer.AssertExpectations(t)
	})

	t.Run("Error_MissingFile", func(t *testing.T) {
		db, _ := testutil.NewMockDB(t)
		writer := &packagesMocks.MockPackageWriter{}

		useCase := NewSeedUseCase(database.NewTxManager(db), writer, newTestLogger())
		count, err := useCase.SeedFile(context.Background(), "testdata/does-not-exist.yaml")

		require.Error(t, err)
		assert.Zero(t, count)
		writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestSeedUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &packagesMocks.MockSeedUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("SeedFile", ctx, fixturePath).Return(3, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "packages", "package_seed", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "packages", "package_seed", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		count, err := NewSeedUseCaseWithMetrics(mockUseCase, mockMetrics).SeedFile(ctx, fixturePath)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &packagesMocks.MockSeedUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("Seed", ctx, mock.Anything).Return(0, apperrors.ErrInvalidInput).Once()
		mockMetrics.On("RecordOperation", ctx, "packages", "package_seed", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "packages", "package_seed", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		_, err := NewSeedUseCaseWithMetrics(mockUseCase, mockMetrics).Seed(ctx, nil)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockMetrics.AssertExpectations(t)
	})
}
