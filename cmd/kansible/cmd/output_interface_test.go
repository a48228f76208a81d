package cmd

import (
	"bytes"
	"testing"

	"github.com/kaholo/kansible/internal/output"

	"github.com/stretchr/testify/assert"
)

func TestNewOutputWrapper(t *testing.T) {
	wrapper := NewOutputWrapper()
	assert.NotNil(t, wrapper)
}

func TestOutputWrapperImplementsInterface(_ *testing.T) {
	var _ OutputInterface = &outputWrapper{}
	var _ OutputInterface = &mockOutputInterface{}
}

func TestOutputWrapper_Bold(t *testing.T) {
	wrapper := NewOutputWrapper()
	assert.Contains(t, wrapper.Bold("test"), "test")
}

func TestOutputWrapper_Cyan(t *testing.T) {
	wrapper := NewOutputWrapper()
	assert.Contains(t, wrapper.Cyan("test"), "test")
}

func TestOutputWrapper_Stream(t *testing.T) {
	oldStdout, oldStderr := output.Stdout, output.Stderr
	defer func() { output.Stdout, output.Stderr = oldStdout, oldStderr }()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	output.Stdout, output.Stderr = stdout, stderr

	wrapper := NewOutputWrapper()
	wrapper.Stream(false, []byte("ok: [web01]\n"))
	wrapper.Stream(true, []byte("[WARNING]\n"))

	assert.Equal(t, "ok: [web01]\n", stdout.String())
	assert.Equal(t, "[WARNING]\n", stderr.String())
}
