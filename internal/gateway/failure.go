package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/lazyvibe/propertydesk/internal/store"
)

// unknownMessage is shown when a failure carries no usable message.
const unknownMessage = "Unknown error"

// FailureKind tags the shape of a failure payload.
type FailureKind int

const (
	// FailureUnknown carries no message.
	FailureUnknown FailureKind = iota
	// FailureList carries one message per failed record.
	FailureList
	// FailureSingle carries one message.
	FailureSingle
)

// Failure is a remote failure payload: a list of messages, a single
// message, or nothing usable.
type Failure struct {
	Kind     FailureKind
	Messages []string
}

// ListOfMessages builds a list-shaped failure.
func ListOfMessages(msgs ...string) Failure {
	return Failure{Kind: FailureList, Messages: msgs}
}

// SingleMessage builds a single-message failure.
func SingleMessage(msg string) Failure {
	return Failure{Kind: FailureSingle, Messages: []string{msg}}
}

// UnknownFailure builds a failure without a message.
func UnknownFailure() Failure {
	return Failure{Kind: FailureUnknown}
}

// Message reduces the failure to a display string.
func (f Failure) Message() string {
	switch f.Kind {
	case FailureList:
		if len(f.Messages) > 0 {
			return strings.Join(f.Messages, ", ")
		}
	case FailureSingle:
		if len(f.Messages) == 1 {
			return f.Messages[0]
		}
	}
	return unknownMessage
}

func (f Failure) Error() string {
	return f.Message()
}

type messageEntry struct {
	Message string `json:"message"`
}

// MarshalJSON writes the wire shape: an array of {message} for lists and
// a {message} object otherwise.
func (f Failure) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FailureList:
		entries := make([]messageEntry, len(f.Messages))
		for i, m := range f.Messages {
			entries[i] = messageEntry{Message: m}
		}
		return json.Marshal(entries)
	case FailureSingle:
		return json.Marshal(messageEntry{Message: f.Message()})
	}
	return []byte(`{}`), nil
}

// ParseFailure classifies a failure payload body.
func ParseFailure(body []byte) Failure {
	var list []struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &list); err == nil && list != nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			if e.Message != nil {
				msgs = append(msgs, *e.Message)
			}
		}
		if len(msgs) == 0 {
			return UnknownFailure()
		}
		return ListOfMessages(msgs...)
	}

	var single struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Message != nil {
		return SingleMessage(*single.Message)
	}
	return UnknownFailure()
}

// RemoteError is returned by HTTPGateway for non-2xx responses.
type RemoteError struct {
	Status  int
	Failure Failure
}

func (e *RemoteError) Error() string {
	return e.Failure.Message()
}

// FailureOf classifies any error returned by a Gateway.
func FailureOf(err error) Failure {
	if err == nil {
		return UnknownFailure()
	}
	var f Failure
	if errors.As(err, &f) {
		return f
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Failure
	}
	var verr store.ValidationErrors
	if errors.As(err, &verr) {
		return ListOfMessages(verr...)
	}
	if msg := err.Error(); msg != "" {
		return SingleMessage(msg)
	}
	return UnknownFailure()
}
