package badge

import "errors"

var (
	// ErrUnsupportedModel is returned when image dimensions match no known device.
	ErrUnsupportedModel = errors.New("image was not created by a supported phone model")
	// ErrBadInput is returned when the manual-entry retry also fails to parse.
	ErrBadInput = errors.New("invalid input provided by user")
)
