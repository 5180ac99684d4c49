package store

import "errors"

var (
	ErrNotFound    = errors.New("store: node not found")
	ErrUnreachable = errors.New("store: unreachable")
	ErrRejected    = errors.New("store: request rejected")
	ErrNoRoot      = errors.New("store: no root node")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsUnreachable(err error) bool { return errors.Is(err, ErrUnreachable) }
