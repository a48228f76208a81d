package materializer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func TestRandomID(t *testing.T) {
	a := RandomID()
	b := RandomID()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestMount(t *testing.T) {
	m := New(Container, WithIDGenerator(sequentialIDs()))

	mapping, err := m.Mount("/home/user/playbooks")
	require.NoError(t, err)

	assert.Equal(t, "/home/user/playbooks", mapping.HostPath)
	assert.Equal(t, "/tmp/"+constants.TemporaryPathPrefix+"id2", mapping.MountPoint)
	assert.Equal(t, constants.GeneratedEnvVarPrefix+"id1", mapping.HostPathEnvVar)
	assert.Equal(t, constants.GeneratedEnvVarPrefix+"id3", mapping.MountPointEnvVar)

	env := m.Environment()
	assert.Equal(t, mapping.HostPath, env[mapping.HostPathEnvVar])
	assert.Equal(t, mapping.MountPoint, env[mapping.MountPointEnvVar])
	assert.Equal(t, []VolumeMapping{mapping}, m.Mappings())
}

func TestMount_NamesAreUniquePerInvocation(t *testing.T) {
	m := New(Container)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		mapping, err := m.Mount(fmt.Sprintf("/data/%d", i))
		require.NoError(t, err)
		for _, name := range []string{mapping.HostPathEnvVar, mapping.MountPointEnvVar} {
			assert.False(t, seen[name], "duplicate variable %s", name)
			seen[name] = true
		}
	}
	assert.Len(t, m.Environment(), 100)
}

func TestRegister_RetriesOnCollision(t *testing.T) {
	ids := []string{"same", "same", "other"}
	i := 0
	m := New(Local, WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first, err := m.Bind("/a")
	require.NoError(t, err)
	second, err := m.Bind("/b")
	require.NoError(t, err)

	assert.Equal(t, constants.GeneratedEnvVarPrefix+"same", first.EnvVar)
	assert.Equal(t, constants.GeneratedEnvVarPrefix+"other", second.EnvVar)
}

func TestRegister_GivesUpWhenGeneratorIsStuck(t *testing.T) {
	m := New(Local, WithIDGenerator(func() string { return "stuck" }))
	_, err := m.Bind("/a")
	require.NoError(t, err)
	_, err = m.Bind("/b")
	assert.Error(t, err)
}

func TestRegister_RejectsInvalidNames(t *testing.T) {
	m := New(Local, WithIDGenerator(func() string { return "has-dash" }))
	_, err := m.Bind("/a")
	assert.Error(t, err)
}

func TestPathToken(t *testing.T) {
	t.Run("container mode references the mount point", func(t *testing.T) {
		m := New(Container, WithIDGenerator(sequentialIDs()))
		tok, seen, err := m.PathToken("/secret/id_rsa")
		require.NoError(t, err)

		assert.Equal(t, `"$`+constants.GeneratedEnvVarPrefix+`id3"`, tok.String())
		assert.Equal(t, "/tmp/"+constants.TemporaryPathPrefix+"id2", seen)
		assert.NotContains(t, tok.String(), "/secret/id_rsa")
		assert.Len(t, m.Mappings(), 1)
		assert.Empty(t, m.Bindings())
	})

	t.Run("local mode references the host path", func(t *testing.T) {
		m := New(Local, WithIDGenerator(sequentialIDs()))
		tok, seen, err := m.PathToken("/secret/id_rsa")
		require.NoError(t, err)

		assert.Equal(t, `"$`+constants.GeneratedEnvVarPrefix+`id1"`, tok.String())
		assert.Equal(t, "/secret/id_rsa", seen)
		assert.Empty(t, m.Mappings())
		assert.Len(t, m.Bindings(), 1)
	})

	t.Run("empty path", func(t *testing.T) {
		_, _, err := New(Local).PathToken("")
		assert.Error(t, err)
	})
}

func TestWithMountRoot(t *testing.T) {
	m := New(Container, WithMountRoot("/work"), WithIDGenerator(sequentialIDs()))
	mapping, err := m.Mount("/x")
	require.NoError(t, err)
	assert.Equal(t, "/work/"+constants.TemporaryPathPrefix+"id2", mapping.MountPoint)
}

func TestForwardAndSensitiveNames(t *testing.T) {
	m := New(Container, WithIDGenerator(sequentialIDs()))

	mapping, err := m.Mount("/host")
	require.NoError(t, err)
	tok, err := m.ValueToken(`{"ansible_ssh_pass":"p"}`, true)
	require.NoError(t, err)
	require.NoError(t, m.SetFixed("ANSIBLE_FORCE_COLOR", "True"))

	valueVar := tok.EnvNames()[0]
	assert.Equal(t,
		[]string{mapping.HostPathEnvVar, mapping.MountPointEnvVar, valueVar, "ANSIBLE_FORCE_COLOR"},
		m.EnvNames())
	assert.Equal(t,
		[]string{mapping.MountPointEnvVar, valueVar, "ANSIBLE_FORCE_COLOR"},
		m.ForwardNames())
	assert.Equal(t, []string{mapping.HostPathEnvVar, valueVar}, m.SensitiveNames())
}

func TestSetFixed(t *testing.T) {
	m := New(Local)
	require.NoError(t, m.SetFixed("ANSIBLE_HOST_KEY_CHECKING", "True"))
	require.NoError(t, m.SetFixed("ANSIBLE_HOST_KEY_CHECKING", "False"))

	assert.Equal(t, "False", m.Environment()["ANSIBLE_HOST_KEY_CHECKING"])
	assert.Equal(t, []string{"ANSIBLE_HOST_KEY_CHECKING"}, m.EnvNames())
	assert.Error(t, m.SetFixed("1BAD", "x"))
}

func TestEnvironment_ReturnsCopy(t *testing.T) {
	m := New(Local)
	_, err := m.Bind("/a")
	require.NoError(t, err)

	env := m.Environment()
	for k := range env {
		env[k] = "changed"
	}
	for _, v := range m.Environment() {
		assert.Equal(t, "/a", v)
	}
}

func TestWriteSecret(t *testing.T) {
	dir := t.TempDir()
	m := New(Local, WithTempRoot(dir))

	name, err := m.WriteSecret("-----BEGIN KEY-----\nabc\n")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(name))
	assert.True(t, strings.HasPrefix(filepath.Base(name), constants.TemporaryPathPrefix))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, constants.SecretFilePermissions, info.Mode().Perm())

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN KEY-----\nabc\n", string(content))
	assert.Equal(t, []string{name}, m.TempFiles())
}

func TestWriteSecret_MissingTempRoot(t *testing.T) {
	m := New(Local, WithTempRoot(filepath.Join(t.TempDir(), "missing")))
	_, err := m.WriteSecret("x")
	assert.Error(t, err)
	assert.Empty(t, m.TempFiles())
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	m := New(Local, WithTempRoot(dir))

	first, err := m.WriteSecret("one")
	require.NoError(t, err)
	second, err := m.WriteSecret("two")
	require.NoError(t, err)

	require.NoError(t, os.Remove(first))
	require.NoError(t, m.Cleanup())

	assert.NoFileExists(t, second)
	assert.Empty(t, m.TempFiles())
	assert.NoError(t, m.Cleanup())
}

func TestCleanup_ReportsFailures(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can remove files from read-only directories")
	}

	dir := t.TempDir()
	m := New(Local, WithTempRoot(dir))
	name, err := m.WriteSecret("secret")
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err = m.Cleanup()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCleanupKind)
	assert.FileExists(t, name)
}
