package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFtlErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *FtlError
		expected string
	}{
		{
			name:     "message only",
			err:      &FtlError{Message: "boom"},
			expected: "boom",
		},
		{
			name:     "code and path",
			err:      NewResolutionError("cannot resolve", nil).WithPath("templates"),
			expected: "[ERR_RESOLVE] templates cannot resolve",
		},
		{
			name:     "with cause",
			err:      NewTraversalError(CodeWalk, "walk failed", fs.ErrNotExist),
			expected: "[ERR_WALK] walk failed: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFtlErrorUnwrap(t *testing.T) {
	err := NewTraversalError(CodeMount, "mount failed", fs.ErrPermission)
	wrapped := fmt.Errorf("discovery: %w", err)

	assert.True(t, errors.Is(wrapped, fs.ErrPermission))

	var fe *FtlError
	require.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, ErrorTypeTraversal, fe.Type)
	assert.Equal(t, CodeMount, fe.Code)
}

func TestFtlErrorIs(t *testing.T) {
	a := NewTraversalError(CodeWalk, "one", nil)
	b := NewTraversalError(CodeWalk, "two", nil)
	c := NewTraversalError(CodeMount, "three", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWithContext(t *testing.T) {
	err := NewConfigError("bad", nil).WithContext("key", "output.format")
	assert.Equal(t, "output.format", err.Context["key"])
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("x"), true},
		{"resolution", NewResolutionError("x", nil), true},
		{"traversal", NewTraversalError(CodeWalk, "x", nil), true},
		{"io", NewIOError("x", nil), true},
		{"unsupported protocol", NewUnsupportedProtocolError("http", "/x"), false},
		{"wrapped unsupported", fmt.Errorf("w: %w", NewUnsupportedProtocolError("vfs", "/x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewConfigError("bad level", nil))
	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(err, ErrorTypeIO))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeConfig))
}

func TestNewUnsupportedProtocolError(t *testing.T) {
	err := NewUnsupportedProtocolError("http", "/lib/remote")
	assert.Equal(t, CodeProtocol, err.Code)
	assert.Equal(t, "/lib/remote", err.Path)
	assert.Equal(t, "http", err.Context["protocol"])
	assert.Contains(t, err.Error(), `"http"`)
}
