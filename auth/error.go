package auth

import "errors"

// ErrAuth means credentials were rejected or a sign in flow was abandoned.
var ErrAuth = errors.New("authentication failed")
