package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	require.Equal(t, "xtree dev (commit: none)\n", buf.String())
}
