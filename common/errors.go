package common

import "errors"

var (
	// ErrSchemaMismatch is returned when a bind group's resources do not match its binding schema
	// by count or by resource kind.
	ErrSchemaMismatch = errors.New("bind group resources do not match schema")
	// ErrSizeMismatch is returned when a buffer's byte size differs from the declared binding range.
	ErrSizeMismatch = errors.New("buffer size does not match binding range")
	// ErrShaderCompile is returned when a shader stage fails to compile.
	ErrShaderCompile = errors.New("shader compilation failed")
	// ErrBindingContract is returned when a shader's declared bindings disagree with the pipeline schema.
	ErrBindingContract = errors.New("shader bindings do not match pipeline schema")
	// ErrAssetDecode is returned when an image, HDR map or model file cannot be read or decoded.
	ErrAssetDecode = errors.New("asset decode failed")
)
