package api

import "fmt"

// TransportError means the request never produced a response: no network,
// DNS failure, timeout. Queue state must be left untouched so the batch can
// be retried on the next trigger.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError means the server answered with a non-2xx status. For push this
// only occurs at the request level; per-item rejections travel inside the
// response body instead.
type ServerError struct {
	Message string
	Status  int
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}
