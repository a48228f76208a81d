package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVarsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vars
		wantErr bool
	}{
		{name: "null", input: `null`, want: Vars{}},
		{name: "text", input: `"a=1\nb=2"`, want: TextVars("a=1\nb=2")},
		{name: "pairs", input: `["a=1","b=x=y"]`, want: PairVars("a=1", "b=x=y")},
		{
			name:  "mapping with scalars",
			input: `{"a":"1","n":42,"f":1.5,"ok":true}`,
			want:  MappingVars(map[string]string{"a": "1", "n": "42", "f": "1.5", "ok": "true"}),
		},
		{name: "number", input: `12`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
		{name: "list with non string", input: `["a=1", 2]`, wantErr: true},
		{name: "nested mapping", input: `{"a":{"b":"c"}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vars
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedVars)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestVarsUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vars
		wantErr bool
	}{
		{name: "block text", input: "vars: |\n  a=1\n  b=2\n", want: TextVars("a=1\nb=2\n")},
		{name: "sequence", input: "vars:\n  - a=1\n  - b=c=d\n", want: PairVars("a=1", "b=c=d")},
		{
			name:  "mapping",
			input: "vars:\n  env: prod\n  replicas: 3\n",
			want:  MappingVars(map[string]string{"env": "prod", "replicas": "3"}),
		},
		{name: "absent", input: "other: 1\n", want: Vars{}},
		{name: "scalar number", input: "vars: 3\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Vars Vars `yaml:"vars"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Vars)
		})
	}
}

func TestVarsMarshalJSON(t *testing.T) {
	data, err := json.Marshal(PairVars("a=1"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a=1"]`, string(data))

	data, err = json.Marshal(Vars{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestStringList(t *testing.T) {
	t.Run("json text", func(t *testing.T) {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(`"hosts.ini\r\n\n  prod.ini "`), &l))
		assert.Equal(t, StringList{"hosts.ini", "prod.ini"}, l)
	})

	t.Run("json list", func(t *testing.T) {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &l))
		assert.Equal(t, StringList{"a", "b"}, l)
	})

	t.Run("json object rejected", func(t *testing.T) {
		var l StringList
		assert.Error(t, json.Unmarshal([]byte(`{"a":"b"}`), &l))
	})

	t.Run("yaml text and sequence", func(t *testing.T) {
		var doc struct {
			Limit   StringList `yaml:"limit"`
			Modules StringList `yaml:"modules"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("limit: web\nmodules: [lib, more]\n"), &doc))
		assert.Equal(t, StringList{"web"}, doc.Limit)
		assert.Equal(t, StringList{"lib", "more"}, doc.Modules)
	})

	t.Run("yaml block scalar", func(t *testing.T) {
		var doc struct {
			Inventories StringList `yaml:"inventories"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("inventories: |\n  hosts\n  staging\n"), &doc))
		assert.Equal(t, StringList{"hosts", "staging"}, doc.Inventories)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, ParseStringList(""))
		assert.Nil(t, ParseStringList(" \n\t\n"))
	})
}

func TestArguments(t *testing.T) {
	t.Run("shell-like text", func(t *testing.T) {
		var a Arguments
		require.NoError(t, json.Unmarshal([]byte(`"--check --tags 'web db' -vv"`), &a))
		assert.Equal(t, Arguments{"--check", "--tags", "web db", "-vv"}, a)
	})

	t.Run("metacharacters stay literal", func(t *testing.T) {
		args, err := ParseArguments(`--diff; rm -rf / $(id)`)
		require.NoError(t, err)
		assert.Equal(t, Arguments{"--diff;", "rm", "-rf", "/", "$(id)"}, args)
	})

	t.Run("list", func(t *testing.T) {
		var a Arguments
		require.NoError(t, json.Unmarshal([]byte(`["--check","a b"]`), &a))
		assert.Equal(t, Arguments{"--check", "a b"}, a)
	})

	t.Run("unterminated quote", func(t *testing.T) {
		_, err := ParseArguments(`--tags 'web`)
		assert.Error(t, err)
	})

	t.Run("blank", func(t *testing.T) {
		args, err := ParseArguments("   ")
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("yaml", func(t *testing.T) {
		var doc struct {
			Args Arguments `yaml:"args"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("args: --check -e 'a=1'\n"), &doc))
		assert.Equal(t, Arguments{"--check", "-e", "a=1"}, doc.Args)
	})
}

func TestJobYAML(t *testing.T) {
	input := `
description: Deploy web tier
playbook_path: site.yml
inventories: |
  inventory/prod.ini
  inventory/extra.ini
limit: [web]
vars:
  release: "1.2"
ssh_username: deploy
docker: true
additional_arguments: --check
`
	var pb Job
	require.NoError(t, yaml.Unmarshal([]byte(input), &pb))

	assert.Equal(t, "Deploy web tier", pb.Description)
	assert.Equal(t, "site.yml", pb.PlaybookPath)
	assert.Equal(t, StringList{"inventory/prod.ini", "inventory/extra.ini"}, pb.Inventories)
	assert.Equal(t, StringList{"web"}, pb.Limit)
	assert.Equal(t, MappingVars(map[string]string{"release": "1.2"}), pb.Vars)
	assert.Equal(t, "deploy", pb.SSHUsername)
	require.NotNil(t, pb.Docker)
	assert.True(t, *pb.Docker)
	assert.Equal(t, Arguments{"--check"}, pb.AdditionalArguments)
}

func TestRunPlaybookRequestJSON(t *testing.T) {
	body := `{"playbook_path":"/srv/site.yml","vars":["a=1"],"ssh_password":"p@ss","additional_arguments":["-v"]}`

	var req RunPlaybookRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "/srv/site.yml", req.PlaybookPath)
	assert.Equal(t, PairVars("a=1"), req.Vars)
	assert.Nil(t, req.Docker)
	assert.Equal(t, map[string]string{"ssh_password": "p@ss"}, req.SecretFields())
}
