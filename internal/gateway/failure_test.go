package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/lazyvibe/propertydesk/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestParseFailure(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind FailureKind
		wantMsg  string
	}{
		{name: "list of messages", body: `[{"message":"Name required"},{"message":"Price invalid"}]`, wantKind: FailureList, wantMsg: "Name required, Price invalid"},
		{name: "single message", body: `{"message":"Record locked"}`, wantKind: FailureSingle, wantMsg: "Record locked"},
		{name: "empty list", body: `[]`, wantKind: FailureUnknown, wantMsg: "Unknown error"},
		{name: "object without message", body: `{"error":"boom"}`, wantKind: FailureUnknown, wantMsg: "Unknown error"},
		{name: "message not a string", body: `{"message":42}`, wantKind: FailureUnknown, wantMsg: "Unknown error"},
		{name: "not json", body: `<html>502</html>`, wantKind: FailureUnknown, wantMsg: "Unknown error"},
		{name: "empty body", body: ``, wantKind: FailureUnknown, wantMsg: "Unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFailure([]byte(tt.body))
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.Equal(t, tt.wantMsg, f.Message())
		})
	}
}

func TestFailureWireShape(t *testing.T) {
	list, err := json.Marshal(ListOfMessages("a", "b"))
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"message":"a"},{"message":"b"}]`, string(list))

	single, err := json.Marshal(SingleMessage("nope"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"message":"nope"}`, string(single))

	unknown, err := json.Marshal(UnknownFailure())
	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(unknown))

	assert.Equal(t, "a, b", ParseFailure(list).Message())
	assert.Equal(t, "nope", ParseFailure(single).Message())
}

func TestFailureOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Failure
	}{
		{name: "nil", err: nil, want: UnknownFailure()},
		{name: "validation", err: store.ValidationErrors{"x: bad", "y: bad"}, want: ListOfMessages("x: bad", "y: bad")},
		{name: "wrapped validation", err: fmt.Errorf("save: %w", store.ValidationErrors{"z"}), want: ListOfMessages("z")},
		{name: "remote", err: &RemoteError{Status: 404, Failure: SingleMessage("not found")}, want: SingleMessage("not found")},
		{name: "plain", err: errors.New("connection refused"), want: SingleMessage("connection refused")},
		{name: "failure value", err: ListOfMessages("m"), want: ListOfMessages("m")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureOf(tt.err))
		})
	}
}
