package domain

// NotFoundError names the kind of resource that was missing.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Resource string
}

// NotFound returns an error reporting that a resource of the given kind does not exist.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// Is reports ErrNotFound as a match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
