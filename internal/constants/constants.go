// Package constants defines global constants used throughout kansible.
// It includes version information, paths, and configuration keys.
package constants

import "os"

// ConfigDirName is the name of the configuration directory in the user's home directory
const ConfigDirName = ".kansible"

// ConfigFileName is the name of the global configuration file
const ConfigFileName = "config.yaml"

// JobDirName is the name of the job preset directory inside ConfigDirName
const JobDirName = "jobs"

// ConfigDirPath returns the full path to the global configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigFilePath returns the full path to the global configuration file
func ConfigFilePath(homeDir string) string {
	return ConfigDirPath(homeDir) + "/" + ConfigFileName
}

// JobFileExtensions are the file extensions recognized as job presets.
var JobFileExtensions = []string{".yaml", ".yml"}

// DefaultServerAddress is the listen address of the HTTP host surface.
const DefaultServerAddress = "127.0.0.1:56212"

// ConfigEnvPrefix is the prefix of environment variables read by the config loader.
const ConfigEnvPrefix = "KANSIBLE"

// Environment represents the execution environment (e.g., CLI, server).
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// GeneratedEnvVarPrefix prefixes every environment variable name generated for
// a single invocation. Only names with this prefix ever appear in command text.
const GeneratedEnvVarPrefix = "KAHOLO_ANSIBLE_PLUGIN_ENV_"

// TemporaryPathPrefix is the basename prefix of in-container mount points and
// temporary secret files.
const TemporaryPathPrefix = "kaholo_ansible_plugin_tmp_"

// ContainerMountRoot is the temporary-files root inside the Ansible container.
const ContainerMountRoot = "/tmp"

// ContainerNamePrefix prefixes the name given to each started container so it
// can be killed on cancellation.
const ContainerNamePrefix = "kansible-"

// DefaultDockerImage is the Ansible image used when none is configured.
const DefaultDockerImage = "cytopia/ansible:latest-tools"

// DefaultDockerBinary is the docker client executable.
const DefaultDockerBinary = "docker"

// DefaultShell is the POSIX shell used to run assembled command lines.
const DefaultShell = "/bin/sh"

// ContainerShell runs the inner command inside the Ansible container.
const ContainerShell = "sh"

// AnsiblePlaybookCommand is the playbook runner executable.
const AnsiblePlaybookCommand = "ansible-playbook"

// AnsibleCommandPrefix is the prefix every ad-hoc command must start with.
const AnsibleCommandPrefix = "ansible"

// Environment variables forced into the child process when SSH or Docker mode is active.
// ANSIBLE_HOST_KEY_CHECKING=False disables host key verification (same as
// host_key_checking = False in ansible.cfg). This is a security trade-off the
// caller can opt out of with disable_helper_vars.
const (
	AnsibleHostKeyCheckingEnv = "ANSIBLE_HOST_KEY_CHECKING"
	AnsibleForceColorEnv      = "ANSIBLE_FORCE_COLOR"
)

// InjectedAnsibleEnvironment returns the helper variables forced into the child environment.
func InjectedAnsibleEnvironment() map[string]string {
	return map[string]string{
		AnsibleHostKeyCheckingEnv: "False",
		AnsibleForceColorEnv:      "True",
	}
}

// Ansible extra-vars keys synthesized from SSH credentials.
const (
	ExtraVarConnection     = "ansible_connection"
	ExtraVarSSHPass        = "ansible_ssh_pass"
	ExtraVarPrivateKeyFile = "ansible_ssh_private_key_file"
	ExtraVarUser           = "ansible_user"
	ConnectionSSH          = "ssh"
)

// AnsibleUnreachableExitCode is the ansible-playbook exit code for unreachable hosts.
const AnsibleUnreachableExitCode = 4

// SecretFilePermissions is the permission used for temporary secret files.
const SecretFilePermissions os.FileMode = 0o600

// ConfigDirPermissions is the permission used when creating the config directory.
const ConfigDirPermissions os.FileMode = 0o750

// ConfigFilePermissions is the permission used for the config file.
const ConfigFilePermissions os.FileMode = 0o600

// KeyValueSeparator splits key=value lines on the first occurrence only.
const KeyValueSeparator = "="

// EnvVarSplitLimit is the limit for splitting KEY=VALUE strings.
const EnvVarSplitLimit = 2

// MaskedValue replaces secret values in human-facing output.
const MaskedValue = "********"
