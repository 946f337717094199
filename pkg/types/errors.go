package types

import "errors"

// Store and codec errors. Callers test for them with errors.Is; stores wrap
// them with the offending key or path.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateIdentity = errors.New("record identity already exists")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrDelimiterInField  = errors.New("field contains the record delimiter or a line break")
	ErrIO                = errors.New("backing file I/O failure")
	ErrNothingLoaded     = errors.New("no records loaded")
	ErrUnknownVariant    = errors.New("unknown policy variant")
)

// Service errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid user name or password")
)
