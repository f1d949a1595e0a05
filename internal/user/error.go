package user

import "errors"

var (
	// -- Authentication --
	ErrUserNotAuthenticated = errors.New("user not authenticated")
)
