package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestFailureError(t *testing.T) {
	err := &TestFailureError{Message: "TwoSum: Some tests failed"}
	assert.Equal(t, "TwoSum: Some tests failed", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		testFailure bool
	}{
		{name: "TestFailureError", err: &TestFailureError{Message: "test failure"}, testFailure: true},
		{name: "regular error", err: errors.New("config error"), testFailure: false},
		{name: "wrapped TestFailureError", err: errors.Join(&TestFailureError{Message: "test failure"}, errors.New("context")), testFailure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var testFailureErr *TestFailureError
			assert.Equal(t, tt.testFailure, errors.As(tt.err, &testFailureErr))
		})
	}
}
