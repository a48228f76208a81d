package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := Stdout
	t.Cleanup(func() { Stdout = old })
	buf := &bytes.Buffer{}
	Stdout = buf
	return buf
}

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := Stderr
	t.Cleanup(func() { Stderr = old })
	buf := &bytes.Buffer{}
	Stderr = buf
	return buf
}

func TestStatusMessagesGoToStderr(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string, ...any)
	}{
		{"success", Successf},
		{"info", Infof},
		{"warning", Warningf},
		{"error", Errorf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := captureStdout(t)
			stderr := captureStderr(t)

			tt.fn("playbook %s", "site.yml")

			assert.Contains(t, stderr.String(), "playbook site.yml")
			assert.Zero(t, stdout.Len())
		})
	}
}

func TestKeyValue(t *testing.T) {
	buf := captureStdout(t)

	KeyValue("Image", "cytopia/ansible")

	assert.Contains(t, buf.String(), "Image")
	assert.Contains(t, buf.String(), "cytopia/ansible")
}

func TestTable(t *testing.T) {
	buf := captureStdout(t)

	Table([]string{"Name", "Description"}, [][]string{
		{"deploy", "Deploy the web tier"},
		{"patch", "-"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header, separator and 2 rows")
	assert.Contains(t, lines[1], "──────")
	assert.True(t, strings.HasPrefix(lines[2], "deploy"), "first row %q", lines[2])
	assert.Contains(t, lines[2], "Deploy the web tier")
}

func TestTableEmptyHeaders(t *testing.T) {
	buf := captureStdout(t)

	Table(nil, [][]string{{"a"}})

	assert.Zero(t, buf.Len())
}

func TestTableWithMismatchedColumns(t *testing.T) {
	buf := captureStdout(t)

	Table([]string{"Name"}, [][]string{{"a", "extra"}, {}})

	assert.NotContains(t, buf.String(), "extra")
}

func TestList(t *testing.T) {
	buf := captureStdout(t)

	List([]string{"web", "db"})

	assert.Equal(t, 2, strings.Count(buf.String(), "•"))
	assert.Contains(t, buf.String(), "db")
}

func TestBox(t *testing.T) {
	buf := captureStderr(t)

	Box("line one\nline two longer")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, visibleWidth(lines[1]), visibleWidth(lines[2]), "padded lines have equal width")
}

func TestHeader(t *testing.T) {
	buf := captureStderr(t)

	Header("kansible playbook run")

	assert.Contains(t, buf.String(), "kansible playbook run")
	assert.Contains(t, buf.String(), "━")
}

func TestStream(t *testing.T) {
	stdout := captureStdout(t)
	stderr := captureStderr(t)

	Stream(false, []byte("PLAY [all]\n"))
	Stream(true, []byte("warning\n"))

	assert.Equal(t, "PLAY [all]\n", stdout.String())
	assert.Equal(t, "warning\n", stderr.String())
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "ok"},
		{4, "unreachable (4)"},
		{2, "failed (2)"},
	}

	for _, tt := range tests {
		assert.Contains(t, ExitStatus(tt.code), tt.want, "exit code %d", tt.code)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.in))
	}
}

func TestVisibleWidth(t *testing.T) {
	assert.Equal(t, 4, visibleWidth("\x1b[1mbold\x1b[0m"))
}
