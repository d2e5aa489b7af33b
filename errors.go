package mealinfo

import (
	"errors"
	"fmt"
	"net/http"
)

const MessageNetworkUnreachable = "network unreachable"
const MessageNoDataForDate = "no data for requested date"
const MessageAccessRestricted = "access restricted"
const MessageNotParseable = "response not parseable"
const MessageGenericPrefix = "API error"

// Bad or future date. The user has to correct the input, retrying won't help.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Neither the direct nor the relayed request reached a server.
type NetworkError struct {
	Url   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", MessageNetworkUnreachable, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

type HttpStatusError struct {
	StatusCode int
	Url        string
}

func (e *HttpStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return MessageNotParseable
	}
	return fmt.Sprintf("%s: %v", MessageNotParseable, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UserMessage maps any fetch failure to the message shown to the user and
// the raw detail string shown beneath it.
func UserMessage(err error) (message string, detail string) {
	if err == nil {
		return "", ""
	}

	detail = err.Error()

	var validationErr *ValidationError
	var networkErr *NetworkError
	var statusErr *HttpStatusError
	var parseErr *ParseError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message, ""
	case errors.As(err, &networkErr):
		return MessageNetworkUnreachable, detail
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return MessageNoDataForDate, detail
		case http.StatusForbidden:
			return MessageAccessRestricted, detail
		}
	case errors.As(err, &parseErr):
		return fmt.Sprintf("%s: %s", MessageGenericPrefix, MessageNotParseable), detail
	}

	return fmt.Sprintf("%s: %v", MessageGenericPrefix, err), detail
}
