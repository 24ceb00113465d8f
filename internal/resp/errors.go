package resp

import "errors"

// ErrIncomplete signals that the Source ran out of bytes in the middle of a
// value. It is never surfaced to a client: the Framer catches it and waits
// for more bytes to arrive before retrying the parse.
var ErrIncomplete = errors.New("resp: incomplete value")

// ErrMalformed signals a RESP grammar violation: a bad type byte, a bare CR
// not followed by LF, a non-numeric length/integer line, or a bulk string
// length below -1. It is fatal to the connection.
var ErrMalformed = errors.New("resp: malformed value")

// malformed wraps ErrMalformed with a reason, while still satisfying
// errors.Is(err, ErrMalformed).
type malformedError struct{ reason string }

func (e *malformedError) Error() string { return "resp: malformed value: " + e.reason }

func (e *malformedError) Unwrap() error { return ErrMalformed }

func malformed(reason string) error { return &malformedError{reason: reason} }
