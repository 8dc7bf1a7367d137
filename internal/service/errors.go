package service

import "errors"

var (
	// ErrRepositoryNotConfigured is returned when the service has no repository.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
	// ErrInvalidStatus is returned for a status other than draft or completed.
	ErrInvalidStatus = errors.New("status must be draft or completed")
)

// ErrPackageNotFound is returned when a package id is not part of the list.
var ErrPackageNotFound = errors.New("package not found")
