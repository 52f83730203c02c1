package app

import (
	"fmt"

	"github.com/startupheroes/package-events/internal/database"
	packagesRepository "github.com/startupheroes/package-events/internal/packages/repository"
	packagesUseCase "github.com/startupheroes/package-events/internal/packages/usecase"
)

// PackageRepository returns the package repository based on database driver.
func (c *Container) PackageRepository() (packagesRepository.PackageRepository, error) {
	var err error
	c.packageRepositoryInit.Do(func() {
		c.packageRepository, err = c.initPackageRepository()
		if err != nil {
			c.initErrors["packageRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["packageRepository"]; exists {
		return nil, storedErr
	}
	return c.packageRepository, nil
}

// SeedUseCase returns the fixture seeding use case.
func (c *Container) SeedUseCase() (packagesUseCase.SeedUseCase, error) {
	var err error
	c.seedUseCaseInit.Do(func() {
		c.seedUseCase, err = c.initSeedUseCase()
		if err != nil {
			c.initErrors["seedUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["seedUseCase"]; exists {
		return nil, storedErr
	}
	return c.seedUseCase, nil
}

// initPackageRepository creates the package repository for the database dialect.
func (c *Container) initPackageRepository() (packagesRepository.PackageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for package repository: %w", err)
	}

	switch database.Dialect(c.config.DBDriver) {
	case "mysql":
		return packagesRepository.NewMySQLPackageRepository(db), nil
	default:
		return packagesRepository.NewPostgreSQLPackageRepository(db), nil
	}
}

// initSeedUseCase creates the seed use case with all its dependencies.
func (c *Container) initSeedUseCase() (packagesUseCase.SeedUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for seed use case: %w", err)
	}

	packageRepository, err := c.PackageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get package repository for seed use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for seed use case: %w", err)
	}

	useCase := packagesUseCase.NewSeedUseCase(txManager, packageRepository, c.Logger())
	return packagesUseCase.NewSeedUseCaseWithMetrics(useCase, businessMetrics), nil
}
