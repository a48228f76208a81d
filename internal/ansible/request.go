// Package ansible turns raw playbook parameters into a validated request and
// renders that request into an ansible-playbook command line.
package ansible

// SSHCredentials are the connection settings passed to Ansible as extra vars.
// PrivateKey holds key content that is written to a temporary file at run time.
type SSHCredentials struct {
	Username   string
	Password   string
	KeyPath    string
	PrivateKey string
}

// ForcesSSH reports whether the connection type must be set to ssh.
// A username alone only sets the remote user.
func (c *SSHCredentials) ForcesSSH() bool {
	return c != nil && (c.Password != "" || c.KeyPath != "" || c.PrivateKey != "")
}

// PlaybookRequest is the normalized form of an ansible-playbook invocation.
// All filesystem paths are absolute and have been checked to exist.
type PlaybookRequest struct {
	PlaybookPath     string
	WorkingDirectory string
	Target           string

	Inventories    []string
	InventoryHosts []string
	Limit          []string
	Modules        []string

	SSH               *SSHCredentials
	VaultPasswordFile string
	VaultPassword     string

	Vars                map[string]string
	AdditionalArguments []string
}

// SSHConfigured reports whether any SSH credential was supplied.
func (r *PlaybookRequest) SSHConfigured() bool {
	return r.SSH != nil
}

// Paths returns every host path the command will reference.
func (r *PlaybookRequest) Paths() []string {
	paths := []string{r.PlaybookPath}
	paths = append(paths, r.Inventories...)
	paths = append(paths, r.Modules...)
	if r.SSH != nil && r.SSH.KeyPath != "" {
		paths = append(paths, r.SSH.KeyPath)
	}
	if r.VaultPasswordFile != "" {
		paths = append(paths, r.VaultPasswordFile)
	}
	return paths
}

// Secrets returns the secret values carried by the request.
func (r *PlaybookRequest) Secrets() []string {
	var out []string
	if r.SSH != nil {
		out = append(out, r.SSH.Password, r.SSH.PrivateKey)
	}
	out = append(out, r.VaultPassword)
	return out
}
