// Package secrets provides shared utilities for secret detection and masking.
package secrets

import (
	"sort"
	"strings"

	"github.com/kaholo/kansible/internal/constants"
)

// DefaultSecretPatterns contains the default patterns used to identify
// variable names (environment or Ansible extra-vars) that hold secrets.
var DefaultSecretPatterns = []string{
	"SECRET",
	"TOKEN",
	"PASSWORD",
	"_PASS",
	"PASSPHRASE",
	"VAULT",
	"API_KEY",
	"PRIVATE_KEY",
	"ACCESS_KEY",
	"SECRET_KEY",
}

// GetSecretVariableNames returns the names in env that should be treated as
// secrets based on pattern matching.
func GetSecretVariableNames(env map[string]string) []string {
	return GetSecretVariableNamesWithPatterns(env, DefaultSecretPatterns)
}

// GetSecretVariableNamesWithPatterns returns a list of variable names that match
// any of the provided patterns. Pattern matching is case-insensitive.
func GetSecretVariableNamesWithPatterns(env map[string]string, patterns []string) []string {
	secretNames := []string{}

	for key := range env {
		if matchesAny(key, patterns) {
			secretNames = append(secretNames, key)
		}
	}

	return secretNames
}

// IsSecretName reports whether name matches one of the default patterns.
func IsSecretName(name string) bool {
	return matchesAny(name, DefaultSecretPatterns)
}

func matchesAny(name string, patterns []string) bool {
	upperKey := strings.ToUpper(name)
	for _, pattern := range patterns {
		if strings.Contains(upperKey, pattern) {
			return true
		}
	}
	return false
}

// MergeSecretVarNames merges known secret variable names with pattern-detected ones,
// removing duplicates.
func MergeSecretVarNames(known, detected []string) []string {
	seen := make(map[string]struct{}, len(known)+len(detected))
	result := make([]string, 0, len(known)+len(detected))

	for _, name := range known {
		if _, exists := seen[name]; !exists {
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}

	for _, name := range detected {
		if _, exists := seen[name]; !exists {
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}

	return result
}

// MaskValues returns a copy of values where every entry named in known, or
// whose name looks like a secret, is replaced by constants.MaskedValue.
func MaskValues(values map[string]string, known []string) map[string]string {
	names := MergeSecretVarNames(known, GetSecretVariableNames(values))
	masked := make(map[string]string, len(values))
	for k, v := range values {
		masked[k] = v
	}
	for _, name := range names {
		if _, ok := masked[name]; ok {
			masked[name] = constants.MaskedValue
		}
	}
	return masked
}

// Redact replaces every occurrence of each non-empty secret in text with
// constants.MaskedValue. Longer secrets are replaced first so a secret that
// contains another one is not partially revealed.
func Redact(text string, secretValues ...string) string {
	values := make([]string, 0, len(secretValues))
	for _, v := range secretValues {
		if strings.TrimSpace(v) != "" {
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })

	for _, v := range values {
		text = strings.ReplaceAll(text, v, constants.MaskedValue)
	}
	return text
}
