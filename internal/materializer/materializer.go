// Package materializer turns filesystem paths and secret values into
// generated environment variables so the assembled command text never holds
// a literal host path or secret. In container mode every path also gets a
// volume mapping onto a fresh mount point.
package materializer

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/shell"

	"github.com/google/uuid"
)

// Mode selects where the command will run.
type Mode int

const (
	// Local runs the command on the host; paths are referenced directly.
	Local Mode = iota
	// Container runs the command in a container; paths are mounted.
	Container
)

// VolumeMapping describes one host path made visible inside a container.
// Both paths only ever reach the command text through their variables.
type VolumeMapping struct {
	HostPath         string
	MountPoint       string
	HostPathEnvVar   string
	MountPointEnvVar string
}

// Binding is a host path referenced through an environment variable in local mode.
type Binding struct {
	Path   string
	EnvVar string
}

// Materializer owns the variables, mappings and temporary files of one
// invocation. It is not safe for concurrent use; create one per invocation.
type Materializer struct {
	mode      Mode
	tempRoot  string
	mountRoot string
	newID     func() string

	env       map[string]string
	order     []string
	forward   []string
	sensitive []string
	mappings  []VolumeMapping
	bindings  []Binding
	files     []string
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithTempRoot sets the host directory for temporary secret files.
func WithTempRoot(dir string) Option {
	return func(m *Materializer) {
		if dir != "" {
			m.tempRoot = dir
		}
	}
}

// WithMountRoot sets the in-container directory mount points are created under.
func WithMountRoot(dir string) Option {
	return func(m *Materializer) {
		if dir != "" {
			m.mountRoot = dir
		}
	}
}

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(m *Materializer) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New creates a Materializer for a single invocation.
func New(mode Mode, opts ...Option) *Materializer {
	m := &Materializer{
		mode:      mode,
		tempRoot:  os.TempDir(),
		mountRoot: constants.ContainerMountRoot,
		newID:     RandomID,
		env:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RandomID returns a collision-resistant token usable inside a variable name.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Mode returns the execution mode.
func (m *Materializer) Mode() Mode {
	return m.mode
}

// Mount maps hostPath onto a fresh mount point and registers both variables.
func (m *Materializer) Mount(hostPath string) (VolumeMapping, error) {
	hostVar, err := m.register(hostPath, true, false)
	if err != nil {
		return VolumeMapping{}, err
	}

	mountPoint := path.Join(m.mountRoot, constants.TemporaryPathPrefix+m.newID())
	mountVar, err := m.register(mountPoint, false, true)
	if err != nil {
		return VolumeMapping{}, err
	}

	mapping := VolumeMapping{
		HostPath:         hostPath,
		MountPoint:       mountPoint,
		HostPathEnvVar:   hostVar,
		MountPointEnvVar: mountVar,
	}
	m.mappings = append(m.mappings, mapping)
	return mapping, nil
}

// Bind registers hostPath under a generated variable for local execution.
func (m *Materializer) Bind(hostPath string) (Binding, error) {
	name, err := m.register(hostPath, true, false)
	if err != nil {
		return Binding{}, err
	}
	b := Binding{Path: hostPath, EnvVar: name}
	m.bindings = append(m.bindings, b)
	return b, nil
}

// PathToken makes hostPath available to the command and returns the token
// that refers to it, along with the path the command itself will see.
func (m *Materializer) PathToken(hostPath string) (shell.Token, string, error) {
	if hostPath == "" {
		return shell.Token{}, "", fmt.Errorf("empty path")
	}
	if m.mode == Container {
		mapping, err := m.Mount(hostPath)
		if err != nil {
			return shell.Token{}, "", err
		}
		return shell.EnvRef(mapping.MountPointEnvVar), mapping.MountPoint, nil
	}

	b, err := m.Bind(hostPath)
	if err != nil {
		return shell.Token{}, "", err
	}
	return shell.EnvRef(b.EnvVar), hostPath, nil
}

// ValueToken registers value under a generated variable that is forwarded to
// the command and returns a token referencing it.
func (m *Materializer) ValueToken(value string, sensitive bool) (shell.Token, error) {
	name, err := m.register(value, sensitive, true)
	if err != nil {
		return shell.Token{}, err
	}
	return shell.EnvRef(name), nil
}

// SetFixed registers a variable with a well-known name, such as the Ansible
// helper variables. It is forwarded into containers.
func (m *Materializer) SetFixed(name, value string) error {
	if !shell.ValidEnvName(name) {
		return fmt.Errorf("invalid environment variable name %q", name)
	}
	if _, exists := m.env[name]; !exists {
		m.order = append(m.order, name)
		m.forward = append(m.forward, name)
	}
	m.env[name] = value
	return nil
}

// WriteSecret writes content to a new 0600 file under the temp root and
// returns its path. The file is removed by Cleanup.
func (m *Materializer) WriteSecret(content string) (string, error) {
	f, err := os.CreateTemp(m.tempRoot, constants.TemporaryPathPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary secret file: %w", err)
	}
	m.files = append(m.files, f.Name())

	if err = f.Chmod(constants.SecretFilePermissions); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to restrict temporary secret file: %w", err)
	}
	if _, err = f.WriteString(content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write temporary secret file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary secret file: %w", err)
	}
	return f.Name(), nil
}

// Environment returns a copy of every generated variable.
func (m *Materializer) Environment() map[string]string {
	env := make(map[string]string, len(m.env))
	for k, v := range m.env {
		env[k] = v
	}
	return env
}

// EnvNames returns generated variable names in creation order.
func (m *Materializer) EnvNames() []string {
	return append([]string(nil), m.order...)
}

// ForwardNames returns the variables the command itself needs, in creation
// order. Host path variables are only used by the host shell and are not
// forwarded into containers.
func (m *Materializer) ForwardNames() []string {
	return append([]string(nil), m.forward...)
}

// SensitiveNames returns variables whose values must not be displayed.
func (m *Materializer) SensitiveNames() []string {
	return append([]string(nil), m.sensitive...)
}

// Mappings returns the volume mappings in creation order.
func (m *Materializer) Mappings() []VolumeMapping {
	return append([]VolumeMapping(nil), m.mappings...)
}

// Bindings returns the local path bindings in creation order.
func (m *Materializer) Bindings() []Binding {
	return append([]Binding(nil), m.bindings...)
}

// TempFiles returns the temporary files written so far.
func (m *Materializer) TempFiles() []string {
	return append([]string(nil), m.files...)
}

// Cleanup removes every temporary file. It keeps going after failures and
// returns a single cleanup error describing all of them; logging is left to
// the caller.
func (m *Materializer) Cleanup() error {
	var errs []error
	for _, name := range m.files {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	m.files = nil

	if len(errs) == 0 {
		return nil
	}
	return apperrors.ErrCleanup("failed to remove temporary files", errors.Join(errs...))
}

func (m *Materializer) register(value string, sensitive, forward bool) (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		name := constants.GeneratedEnvVarPrefix + m.newID()
		if !shell.ValidEnvName(name) {
			return "", fmt.Errorf("generated invalid environment variable name %q", name)
		}
		if _, taken := m.env[name]; taken {
			continue
		}
		m.env[name] = value
		m.order = append(m.order, name)
		if forward {
			m.forward = append(m.forward, name)
		}
		if sensitive {
			m.sensitive = append(m.sensitive, name)
		}
		return name, nil
	}
	return "", fmt.Errorf("could not generate a unique environment variable name")
}
