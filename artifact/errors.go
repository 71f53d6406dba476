package artifact

import "errors"

// ErrNotFound is returned when an artifact id does not exist for the session.
var ErrNotFound = errors.New("artifact not found")
