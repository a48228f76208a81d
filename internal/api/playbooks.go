package api

// RunPlaybookRequest holds the raw parameters of an ansible-playbook invocation.
// Multi-valued fields accept either a multi-line string or a list.
type RunPlaybookRequest struct {
	PlaybookPath        string     `json:"playbook_path" yaml:"playbook_path"`
	Inventories         StringList `json:"inventories,omitempty" yaml:"inventories,omitempty"`
	InventoryHosts      StringList `json:"inventory_hosts,omitempty" yaml:"inventory_hosts,omitempty"`
	Limit               StringList `json:"limit,omitempty" yaml:"limit,omitempty"`
	Modules             StringList `json:"modules,omitempty" yaml:"modules,omitempty"`
	Vars                Vars       `json:"vars,omitempty" yaml:"vars,omitempty"`
	SSHUsername         string     `json:"ssh_username,omitempty" yaml:"ssh_username,omitempty"`
	SSHPassword         string     `json:"ssh_password,omitempty" yaml:"ssh_password,omitempty"`
	SSHKeyPath          string     `json:"ssh_key_path,omitempty" yaml:"ssh_key_path,omitempty"`
	SSHPrivateKey       string     `json:"ssh_private_key,omitempty" yaml:"ssh_private_key,omitempty"`
	VaultPasswordFile   string     `json:"vault_password_file,omitempty" yaml:"vault_password_file,omitempty"`
	VaultPassword       string     `json:"vault_password,omitempty" yaml:"vault_password,omitempty"`
	AdditionalArguments Arguments  `json:"additional_arguments,omitempty" yaml:"additional_arguments,omitempty"`
	Docker              *bool      `json:"docker,omitempty" yaml:"docker,omitempty"`
	Image               string     `json:"image,omitempty" yaml:"image,omitempty"`
	DisableHelperVars   bool       `json:"disable_helper_vars,omitempty" yaml:"disable_helper_vars,omitempty"`
}

// RunCommandRequest runs an arbitrary ansible command line.
type RunCommandRequest struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"working_directory,omitempty"`
	Docker           *bool  `json:"docker,omitempty"`
	Image            string `json:"image,omitempty"`
}

// Job is a reusable playbook run preset stored as YAML.
type Job struct {
	Description        string `yaml:"description,omitempty"`
	RunPlaybookRequest `yaml:",inline"`
}

// SecretFields returns the names and values of the secret parameters that are set.
func (r *RunPlaybookRequest) SecretFields() map[string]string {
	fields := map[string]string{
		"ssh_password":    r.SSHPassword,
		"ssh_private_key": r.SSHPrivateKey,
		"vault_password":  r.VaultPassword,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}
