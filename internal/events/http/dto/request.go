// Package dto provides data transfer objects for HTTP request handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// SendPackageRequest carries the package id taken from the URL path.
type SendPackageRequest struct {
	PackageID int64 `uri:"packageId"`
}

// Validate checks that the package id is a positive number.
func (r *SendPackageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PackageID,
			validation.Required,
			validation.Min(int64(1)),
		),
	)
}
