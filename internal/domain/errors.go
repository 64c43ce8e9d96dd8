package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateWaybill    = errors.New("waybill code already registered")
	ErrDuplicateTariff     = errors.New("tariff route already registered")
	ErrDuplicatePlate      = errors.New("plate already registered")
	ErrInvalidPlate        = errors.New("invalid plate format")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrNoExtractableText   = errors.New("document has no extractable text")
	ErrDocumentRejected    = errors.New("document rejected by parser")
	ErrWaybillVoided       = errors.New("waybill is voided")
)
