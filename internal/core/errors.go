package core

import (
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound is returned when a cache or session entry does not exist
	ErrNotFound = eris.New("entry not found")
	// ErrNoData is returned when no result snapshot can be recovered for a session
	ErrNoData = eris.New("no data available")
	// ErrInvalidSession is returned for empty or unsafe session identifiers
	ErrInvalidSession = eris.New("invalid session id")
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,128}$`)

// ValidateSessionID checks that a session id is safe to embed in file names
func ValidateSessionID(sessionID string) error {
	if !sessionIDPattern.MatchString(sessionID) {
		return eris.Wrapf(ErrInvalidSession, "session %q", sessionID)
	}
	return nil
}

// EndpointError is a failed call to a remote inference endpoint
type EndpointError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *EndpointError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("endpoint %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
