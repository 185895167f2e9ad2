package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certsync/core/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ca_directory: https://acme-staging-v02.api.letsencrypt.org/directory
key_length: 4096
account_key: /secrets/account.key
acme_dir: /var/www/challenges
certs:
  - name: "  example-com  "
    domains:
      - " example.com"
      - "www.example.com "
  - name: api
    domains:
      - api.example.com
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://acme-staging-v02.api.letsencrypt.org/directory", cfg.CADirectory)
	assert.Equal(t, 4096, cfg.KeyLength)
	assert.Equal(t, "/secrets/account.key", cfg.AccountKey)
	assert.Equal(t, "/var/www/challenges", cfg.ACMEDir)

	require.Len(t, cfg.Certs, 2)
	assert.Equal(t, "example-com", cfg.Certs[0].Name)
	assert.Equal(t, []string{"example.com", "www.example.com"}, cfg.Certs[0].Domains)
	assert.Equal(t, "api", cfg.Certs[1].Name)
	assert.Equal(t, []string{"api.example.com"}, cfg.Certs[1].Domains)
}

func TestLoadValidation(t *testing.T) {
	valid := map[string]string{
		"ca_directory": "ca_directory: https://acme.example.com/directory",
		"key_length":   "key_length: 2048",
		"account_key":  "account_key: /secrets/account.key",
		"acme_dir":     "acme_dir: /var/www/challenges",
		"certs":        "certs:\n  - name: web\n    domains:\n      - example.com",
	}

	build := func(overrides map[string]string) string {
		doc := ""
		for key, line := range valid {
			if repl, ok := overrides[key]; ok {
				line = repl
			}
			if line != "" {
				doc += line + "\n"
			}
		}
		for key, line := range overrides {
			if _, known := valid[key]; !known {
				doc += line + "\n"
			}
		}
		return doc
	}

	tests := []struct {
		name      string
		overrides map[string]string
		wantMsg   string
	}{
		{
			name:      "both ca and ca_directory",
			overrides: map[string]string{"ca": "ca: https://acme.example.com"},
			wantMsg:   "not both",
		},
		{
			name:      "neither ca nor ca_directory",
			overrides: map[string]string{"ca_directory": ""},
			wantMsg:   "ca_directory is required",
		},
		{
			name:      "missing key_length",
			overrides: map[string]string{"key_length": ""},
			wantMsg:   "key_length",
		},
		{
			name:      "negative key_length",
			overrides: map[string]string{"key_length": "key_length: -1"},
			wantMsg:   "key_length",
		},
		{
			name:      "missing account_key",
			overrides: map[string]string{"account_key": ""},
			wantMsg:   "account_key",
		},
		{
			name:      "missing acme_dir",
			overrides: map[string]string{"acme_dir": ""},
			wantMsg:   "acme_dir",
		},
		{
			name:      "blank certificate name",
			overrides: map[string]string{"certs": "certs:\n  - name: \"   \"\n    domains:\n      - example.com"},
			wantMsg:   "empty name",
		},
		{
			name:      "certificate without domains",
			overrides: map[string]string{"certs": "certs:\n  - name: web\n    domains: []"},
			wantMsg:   "no domains",
		},
		{
			name:      "blank domain entry",
			overrides: map[string]string{"certs": "certs:\n  - name: web\n    domains:\n      - \"  \""},
			wantMsg:   "empty domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, build(tt.overrides))
			cfg, err := config.Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantMsg)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "certs: [unbalanced")
	cfg, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoadCertsOptional(t *testing.T) {
	path := writeConfig(t, `
ca_directory: https://acme.example.com/directory
key_length: 2048
account_key: /secrets/account.key
acme_dir: /var/www/challenges
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Certs)
}

func TestDirectoryURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "directory url verbatim",
			cfg:  config.Config{CADirectory: "https://acme-v02.api.letsencrypt.org/directory"},
			want: "https://acme-v02.api.letsencrypt.org/directory",
		},
		{
			name: "legacy ca derives directory endpoint",
			cfg:  config.Config{CA: "https://acme-v02.api.letsencrypt.org"},
			want: "https://acme-v02.api.letsencrypt.org/directory",
		},
		{
			name: "legacy ca with trailing slash",
			cfg:  config.Config{CA: "https://acme-v02.api.letsencrypt.org/"},
			want: "https://acme-v02.api.letsencrypt.org/directory",
		},
		{
			name: "unset",
			cfg:  config.Config{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DirectoryURL())
		})
	}
}

func TestDeprecations(t *testing.T) {
	t.Run("clean config has none", func(t *testing.T) {
		cfg := config.Config{CADirectory: "https://acme.example.com/directory"}
		assert.Empty(t, cfg.Deprecations())
	})

	t.Run("legacy ca", func(t *testing.T) {
		cfg := config.Config{CA: "https://acme.example.com"}
		msgs := cfg.Deprecations()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "'ca' is deprecated")
	})

	t.Run("legacy chain", func(t *testing.T) {
		cfg := config.Config{CADirectory: "https://acme.example.com/directory", Chain: "https://acme.example.com/chain.pem"}
		msgs := cfg.Deprecations()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "'chain' is not used")
	})

	t.Run("both legacy fields", func(t *testing.T) {
		cfg := config.Config{CA: "https://acme.example.com", Chain: "x"}
		assert.Len(t, cfg.Deprecations(), 2)
	})
}
