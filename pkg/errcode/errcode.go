package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Store errors
	StoreOpenError
	StoreMigrateError
	StoreSaveError
	StoreLoadError
	StoreEmptyError

	// Registry errors
	RegistryReadError
	RegistryParseError
	RegistryValidationError
	RegistryUnknownPrisonError
	RegistryWriteError

	// Panel errors
	PanelCapacityReadError
	PanelDeathsReadError
	PanelMergeError
	PanelWriteError

	// Model errors
	ModelTableReadError
	ModelCoefficientsParseError
	ModelNoFitsError

	// Projection errors
	ProjectPanelEmptyError
	ProjectNoValidDrawsError
	ProjectWriteError
)
