package store

import "errors"

// ErrUserNotFound is returned by FindUserByEmail when no user matches.
var ErrUserNotFound = errors.New("user not found")
