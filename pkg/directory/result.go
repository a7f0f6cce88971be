package directory

// Status classifies the outcome of a service operation. It is deliberately
// transport-agnostic; the HTTP layer maps each status to a response code.
type Status int

const (
	// StatusOK is a success carrying data.
	StatusOK Status = iota
	// StatusCreated is a success that created a new record.
	StatusCreated
	// StatusNoContent is a success carrying no data (hard delete).
	StatusNoContent
	// StatusInvalid marks malformed input (failed validation).
	StatusInvalid
	// StatusUnauthenticated marks a missing or unresolvable actor, or a
	// credential mismatch on self-authentication.
	StatusUnauthenticated
	// StatusForbidden marks a resolved actor lacking rights for the operation.
	StatusForbidden
	// StatusNotFound marks a missing target user.
	StatusNotFound
	// StatusConflict marks a login uniqueness violation.
	StatusConflict
)

// Result is the uniform envelope returned by every UserService operation.
// Construct it only through Succeed and Failure: a failure always carries a
// message, a success never does, and the fields are unexported so no other
// shape can be built.
type Result[T any] struct {
	ok      bool
	value   T
	message string
	status  Status
}

// Succeed builds a successful result carrying value. The status defaults to
// StatusOK when none is given.
func Succeed[T any](value T, status ...Status) Result[T] {
	st := StatusOK
	if len(status) > 0 {
		st = status[0]
	}
	return Result[T]{ok: true, value: value, status: st}
}

// Failure builds a failed result carrying a human-readable message. The
// status defaults to StatusInvalid when none is given.
func Failure[T any](message string, status ...Status) Result[T] {
	st := StatusInvalid
	if len(status) > 0 {
		st = status[0]
	}
	return Result[T]{ok: false, message: message, status: st}
}

// Ok reports whether the operation succeeded.
func (r Result[T]) Ok() bool { return r.ok }

// Value returns the payload. It is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Message returns the failure message, empty on success.
func (r Result[T]) Message() string { return r.message }

// Status returns the outcome classification.
func (r Result[T]) Status() Status { return r.status }

// None is the payload type for operations that return no data.
type None struct{}
