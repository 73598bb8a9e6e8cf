package services

import (
	"errors"

	"github.com/Dosada05/swiss-tournament/repositories"
)

var (
	// ErrStorage covers every store failure (connection, statement, constraint).
	// There are no domain validation errors.
	ErrStorage = repositories.ErrStorage

	ErrExportDisabled = errors.New("standings export is not configured")
	ErrExportFailed   = errors.New("failed to export standings")
)
