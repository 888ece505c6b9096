package list

import "errors"

var (
	ErrListNotFound = errors.New("list not found")
	ErrInvalidType  = errors.New("invalid list type")
)
