package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{initPC, "%s", "err_stack_test.go"},
		{initPC, "%n", "init"},
		{Frame(0), "%s", "unknownFile"},
		{Frame(0), "%n", "unknownFunc"},
		{Frame(0), "%d", "0"},
		{Frame(0), "%v", "unknownFile:0"},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Equal(t, tc.want, frameRes)
	}

	full := fmt.Sprintf("%+s", initPC)
	require.True(t, strings.HasPrefix(full, "github.com/benz9527/xtree/lib/infra.init"))
	require.True(t, strings.HasSuffix(full, "err_stack_test.go"))
}

func TestFrameMarshal(t *testing.T) {
	text, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))

	text, err = initPC.MarshalText()
	require.NoError(t, err)
	require.Contains(t, string(text), "err_stack_test.go:")

	_bytes, err := json.Marshal(Frame(0))
	require.NoError(t, err)
	require.JSONEq(t, `{"frame":"unknownFrame"}`, string(_bytes))
}

func TestErrorStack(t *testing.T) {
	sentinel := errors.New("sentinel")

	err := NewErrorStack("plain")
	require.Equal(t, "plain", err.Error())
	var es ErrorStack
	require.True(t, errors.As(err, &es))
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestErrorStack", fmt.Sprintf("%n", es.Frames()[0]))

	wrapped := WrapErrorStackWithMessage(sentinel, "context")
	require.Equal(t, "context: sentinel", wrapped.Error())
	require.ErrorIs(t, wrapped, sentinel)

	rewrapped := WrapErrorStack(wrapped)
	require.Equal(t, "context: sentinel", rewrapped.Error())
	require.ErrorIs(t, rewrapped, sentinel)
	require.True(t, errors.As(rewrapped, &es))
	require.Equal(t, wrapped.(ErrorStack).Frames(), es.Frames())

	require.NoError(t, WrapErrorStack(nil))
	require.Contains(t, fmt.Sprintf("%+v", wrapped), "err_stack_test.go")
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	err := WrapErrorStackWithMessage(errors.New("boom"), "remove")
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, "remove: boom", enc.Fields["error"])
	frames, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
}
