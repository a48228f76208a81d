package ansible

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/materializer"
	"github.com/kaholo/kansible/internal/shell"

	"github.com/google/shlex"
)

// ExtraVars merges user vars with the synthesized connection keys.
// keyFile is the private key path as seen by the command; synthesized keys
// override user vars of the same name.
func ExtraVars(req *PlaybookRequest, keyFile string) map[string]string {
	vars := make(map[string]string, len(req.Vars)+4)
	maps.Copy(vars, req.Vars)

	if req.SSH == nil {
		return vars
	}
	if req.SSH.Password != "" || keyFile != "" {
		vars[constants.ExtraVarConnection] = constants.ConnectionSSH
	}
	if req.SSH.Password != "" {
		vars[constants.ExtraVarSSHPass] = req.SSH.Password
	}
	if keyFile != "" {
		vars[constants.ExtraVarPrivateKeyFile] = keyFile
	}
	if req.SSH.Username != "" {
		vars[constants.ExtraVarUser] = req.SSH.Username
	}
	return vars
}

// EncodeExtraVars serializes vars as compact JSON with sorted keys.
func EncodeExtraVars(vars map[string]string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(vars); err != nil {
		return "", fmt.Errorf("failed to encode extra vars: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// PlaybookCommand renders the ansible-playbook command line for req.
//
// Paths and secrets are registered with m and referenced through variables:
// inventory files, modules, the vault password file and the private key are
// made reachable through m, and the extra vars JSON travels in a generated
// variable. Argument order is target, -i, -l, -M, --vault-password-file, -e,
// then passthrough arguments.
func PlaybookCommand(req *PlaybookRequest, m *materializer.Materializer) (shell.Line, error) {
	line := shell.Words(constants.AnsiblePlaybookCommand, req.Target)

	for _, inv := range req.Inventories {
		tok, _, err := m.PathToken(inv)
		if err != nil {
			return nil, fmt.Errorf("inventory: %w", err)
		}
		line = append(line, shell.Literal("-i"), tok)
	}
	if len(req.InventoryHosts) > 0 {
		line = line.Append("-i", strings.Join(req.InventoryHosts, ",")+",")
	}

	for _, limit := range req.Limit {
		line = line.Append("-l", limit)
	}

	for _, mod := range req.Modules {
		tok, _, err := m.PathToken(mod)
		if err != nil {
			return nil, fmt.Errorf("module: %w", err)
		}
		line = append(line, shell.Literal("-M"), tok)
	}

	vaultFile := req.VaultPasswordFile
	if req.VaultPassword != "" {
		written, err := m.WriteSecret(req.VaultPassword)
		if err != nil {
			return nil, apperrors.ErrInternalError("failed to write vault password file", err)
		}
		vaultFile = written
	}
	if vaultFile != "" {
		tok, _, err := m.PathToken(vaultFile)
		if err != nil {
			return nil, fmt.Errorf("vault password file: %w", err)
		}
		line = append(line, shell.Literal("--vault-password-file"), tok)
	}

	keyFile, err := privateKeyFile(req, m)
	if err != nil {
		return nil, err
	}

	if vars := ExtraVars(req, keyFile); len(vars) > 0 {
		encoded, encErr := EncodeExtraVars(vars)
		if encErr != nil {
			return nil, encErr
		}
		tok, tokErr := m.ValueToken(encoded, true)
		if tokErr != nil {
			return nil, tokErr
		}
		line = append(line, shell.Literal("-e"), tok)
	}

	line = line.Append(req.AdditionalArguments...)
	return line, nil
}

// privateKeyFile makes the private key reachable and returns the path the
// command will see, or "" when no key was given.
func privateKeyFile(req *PlaybookRequest, m *materializer.Materializer) (string, error) {
	if req.SSH == nil {
		return "", nil
	}
	hostPath := req.SSH.KeyPath
	if req.SSH.PrivateKey != "" {
		content := req.SSH.PrivateKey
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		written, err := m.WriteSecret(content)
		if err != nil {
			return "", apperrors.ErrInternalError("failed to write SSH private key", err)
		}
		hostPath = written
	}
	if hostPath == "" {
		return "", nil
	}
	_, seen, err := m.PathToken(hostPath)
	if err != nil {
		return "", fmt.Errorf("ssh key: %w", err)
	}
	return seen, nil
}

// ParseCommand splits an ansible command line into words. The first word must
// be a bare ansible executable name such as ansible or ansible-galaxy.
func ParseCommand(text string) ([]string, error) {
	words, err := shlex.Split(text)
	if err != nil {
		return nil, apperrors.ErrValidation("failed to parse command", err)
	}
	if len(words) == 0 {
		return nil, apperrors.ErrValidationf("command is required")
	}
	name := words[0]
	if !strings.HasPrefix(name, constants.AnsibleCommandPrefix) || strings.ContainsAny(name, `/\`) {
		return nil, apperrors.ErrValidationf("command must start with an ansible executable, got %q", name)
	}
	return words, nil
}
