package apiclient

// Messages surfaced when the backend gives nothing better.
const (
	MsgNetworkError = "Network error occurred"
	MsgGenericError = "An error occurred"
)

// Response is the result of every API call. Exactly one of Data and Error is
// meaningful: Data is non-nil iff Error is empty.
//
// StatusCode is the HTTP status of the reply, or 0 when no reply arrived.
// Message carries the optional "message" field of a successful body.
type Response[T any] struct {
	Data       *T
	Error      string
	Message    string
	StatusCode int
}

// OK reports whether the call succeeded.
func (r Response[T]) OK() bool {
	return r.Error == ""
}

// Err converts a failed response into an *Error, or nil on success.
func (r Response[T]) Err() error {
	if r.Error == "" {
		return nil
	}
	return &Error{Message: r.Error, StatusCode: r.StatusCode}
}

// Error is the Go error form of a failed Response. Its text is the server
// message verbatim so callers can show it as-is.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

func failed[T any](msg string, status int) Response[T] {
	return Response[T]{Error: msg, StatusCode: status}
}

// mapResponse converts the payload of a successful response, keeping the
// failure unchanged.
func mapResponse[T, U any](r Response[T], fn func(T) U) Response[U] {
	if r.Error != "" {
		return Response[U]{Error: r.Error, StatusCode: r.StatusCode}
	}
	out := fn(*r.Data)
	return Response[U]{Data: &out, Message: r.Message, StatusCode: r.StatusCode}
}
