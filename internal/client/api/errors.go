package api

import "fmt"

// genericReason is used when the server response carries no usable detail,
// or when the request never produced a response at all.
const genericReason = "request could not be completed"

// RemoteError is the failure result of a gateway operation. StatusCode is
// zero when the request failed before an HTTP status was received (network
// error, undecodable response).
type RemoteError struct {
	StatusCode int
	Reason     string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Reason)
	}
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Reason)
}
