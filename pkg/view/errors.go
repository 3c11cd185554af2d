package view

import "errors"

var (
	ErrViewNotFound   = errors.New("view: view not found")
	ErrLayoutNotFound = errors.New("view: layout not found")
)
