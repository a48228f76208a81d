package ansible

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
)

// Normalizer validates raw parameters and resolves their paths.
type Normalizer struct {
	// BaseDir resolves relative paths. The process working directory is used when empty.
	BaseDir string
	stat    func(string) (os.FileInfo, error)
}

// NewNormalizer creates a Normalizer resolving relative paths against baseDir.
func NewNormalizer(baseDir string) *Normalizer {
	return &Normalizer{BaseDir: baseDir, stat: os.Stat}
}

// Normalize converts raw parameters into a PlaybookRequest. Every failure is a
// validation error; missing paths are reported together.
func (n *Normalizer) Normalize(raw *api.RunPlaybookRequest) (*PlaybookRequest, error) {
	if raw == nil || strings.TrimSpace(raw.PlaybookPath) == "" {
		return nil, apperrors.ErrValidationf("playbook path is required")
	}

	playbook, err := n.resolve(strings.TrimSpace(raw.PlaybookPath))
	if err != nil {
		return nil, err
	}

	req := &PlaybookRequest{
		PlaybookPath:        playbook,
		WorkingDirectory:    filepath.Dir(playbook),
		Target:              filepath.Base(playbook),
		Limit:               CleanList(raw.Limit),
		AdditionalArguments: append([]string(nil), raw.AdditionalArguments...),
	}

	files, hosts := splitInventories(CleanList(raw.Inventories))
	hosts = append(hosts, splitHosts(CleanList(raw.InventoryHosts))...)
	req.InventoryHosts = hosts
	if req.Inventories, err = n.resolveAll(files); err != nil {
		return nil, err
	}
	if req.Modules, err = n.resolveAll(CleanList(raw.Modules)); err != nil {
		return nil, err
	}

	if req.SSH, err = n.sshCredentials(raw); err != nil {
		return nil, err
	}

	if raw.VaultPasswordFile != "" && raw.VaultPassword != "" {
		return nil, apperrors.ErrValidationf("vault password file and vault password cannot both be provided")
	}
	if raw.VaultPasswordFile != "" {
		if req.VaultPasswordFile, err = n.resolve(raw.VaultPasswordFile); err != nil {
			return nil, err
		}
	}
	req.VaultPassword = raw.VaultPassword

	if req.Vars, err = ParseVars(raw.Vars); err != nil {
		return nil, err
	}

	if err = n.checkExist(req.Paths()); err != nil {
		return nil, err
	}
	return req, nil
}

func (n *Normalizer) sshCredentials(raw *api.RunPlaybookRequest) (*SSHCredentials, error) {
	if raw.SSHKeyPath != "" && raw.SSHPrivateKey != "" {
		return nil, apperrors.ErrValidationf("SSH key path and SSH private key cannot both be provided")
	}
	creds := &SSHCredentials{
		Username:   strings.TrimSpace(raw.SSHUsername),
		Password:   raw.SSHPassword,
		PrivateKey: raw.SSHPrivateKey,
	}
	if raw.SSHKeyPath != "" {
		keyPath, err := n.resolve(raw.SSHKeyPath)
		if err != nil {
			return nil, err
		}
		creds.KeyPath = keyPath
	}
	if *creds == (SSHCredentials{}) {
		return nil, nil
	}
	return creds, nil
}

func (n *Normalizer) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	base := n.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", apperrors.ErrInternalError("failed to determine working directory", err)
		}
		base = wd
	}
	abs, err := filepath.Abs(filepath.Join(base, path))
	if err != nil {
		return "", apperrors.ErrValidation(fmt.Sprintf("invalid path %s", path), err)
	}
	return abs, nil
}

func (n *Normalizer) resolveAll(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := n.resolve(p)
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}

func (n *Normalizer) checkExist(paths []string) error {
	stat := n.stat
	if stat == nil {
		stat = os.Stat
	}

	var missing []string
	for _, p := range paths {
		if _, err := stat(p); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return apperrors.ErrValidation(fmt.Sprintf("cannot access path %s", p), err)
			}
			missing = append(missing, p)
		}
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		return apperrors.ErrValidationf("Path %s does not exist!", missing[0])
	default:
		return apperrors.ErrValidationf("Paths %s do not exist!", strings.Join(missing, ", "))
	}
}

// CleanList trims entries and drops blank ones. Each entry may itself span
// several lines.
func CleanList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, line := range strings.Split(v, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// splitInventories separates inventory files from inline host lists.
// An entry is a host list when it contains a comma or is an IP address.
func splitInventories(entries []string) (files, hosts []string) {
	for _, e := range entries {
		if strings.Contains(e, ",") || net.ParseIP(e) != nil {
			hosts = append(hosts, splitHosts([]string{e})...)
			continue
		}
		files = append(files, e)
	}
	return files, hosts
}

func splitHosts(entries []string) []string {
	var hosts []string
	for _, e := range entries {
		for _, h := range strings.Split(e, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
	}
	return hosts
}

// ParseVars resolves any accepted shape of vars into a single mapping.
// key=value entries are split on the first "=" only.
func ParseVars(v api.Vars) (map[string]string, error) {
	out := make(map[string]string)
	switch v.Kind {
	case api.VarsNone:
		return out, nil
	case api.VarsText:
		return out, parsePairs(out, strings.Split(v.Text, "\n"))
	case api.VarsPairs:
		return out, parsePairs(out, v.Pairs)
	case api.VarsMapping:
		for key, value := range v.Mapping {
			if strings.TrimSpace(key) == "" {
				return nil, apperrors.ErrValidationf("vars contain an empty key")
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, apperrors.ErrValidation(api.ErrUnsupportedVars.Error(), nil)
	}
}

func parsePairs(out map[string]string, lines []string) error {
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, constants.KeyValueSeparator, constants.EnvVarSplitLimit)
		if len(parts) != constants.EnvVarSplitLimit || strings.TrimSpace(parts[0]) == "" {
			return apperrors.ErrValidationf("invalid vars entry %q: expected key=value", line)
		}
		out[strings.TrimSpace(parts[0])] = parts[1]
	}
	return nil
}
