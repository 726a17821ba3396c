package constants

import "errors"

const (
	// UsersCollection is the collection/table holding user records.
	UsersCollection = "users"
)

// ErrDuplicateUsername is returned by AddUser when the storage layer's
// uniqueness constraint rejects the insert. Both backends map their
// driver-specific duplicate-key errors to this sentinel.
var ErrDuplicateUsername = errors.New("username already exists")
