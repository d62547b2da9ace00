package domain

import "errors"

var (
	ErrGameNotTracked   = errors.New("game not tracked")
	ErrCorruptTimeCache = errors.New("corrupt time cache")
)
