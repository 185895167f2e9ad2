package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Certificate declares one desired certificate: the name it carries in the
// store and the domains it must cover.
type Certificate struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
}

// Config is the validated desired-state declaration.
type Config struct {
	// CA is the deprecated direct ACME endpoint. Use CADirectory instead;
	// setting both is a validation error.
	CA string `yaml:"ca"`

	// CADirectory is the ACME directory URL used to issue certificates.
	CADirectory string `yaml:"ca_directory"`

	// Chain is accepted for backward compatibility and ignored.
	Chain string `yaml:"chain"`

	// KeyLength is the RSA key size in bits for newly issued certificates.
	KeyLength int `yaml:"key_length"`

	// AccountKey is the path to the PEM-encoded ACME account private key.
	AccountKey string `yaml:"account_key"`

	// ACMEDir is the directory from which HTTP-01 challenge files are served.
	ACMEDir string `yaml:"acme_dir"`

	// Certs lists the certificates that must exist in the store.
	Certs []Certificate `yaml:"certs"`
}

// Load reads the YAML declaration at path, validates it, and normalizes
// certificate names and domains by trimming surrounding whitespace.
// All failures wrap ErrInvalidConfig.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.CA = strings.TrimSpace(c.CA)
	c.CADirectory = strings.TrimSpace(c.CADirectory)
	c.AccountKey = strings.TrimSpace(c.AccountKey)
	c.ACMEDir = strings.TrimSpace(c.ACMEDir)

	for i := range c.Certs {
		c.Certs[i].Name = strings.TrimSpace(c.Certs[i].Name)
		for j := range c.Certs[i].Domains {
			c.Certs[i].Domains[j] = strings.TrimSpace(c.Certs[i].Domains[j])
		}
	}
}

func (c *Config) validate() error {
	if c.CA != "" && c.CADirectory != "" {
		return fmt.Errorf("%w: set either ca_directory or ca (deprecated), not both", ErrInvalidConfig)
	}
	if c.CA == "" && c.CADirectory == "" {
		return fmt.Errorf("%w: ca_directory is required", ErrInvalidConfig)
	}
	if c.KeyLength <= 0 {
		return fmt.Errorf("%w: key_length must be a positive number of bits", ErrInvalidConfig)
	}
	if c.AccountKey == "" {
		return fmt.Errorf("%w: account_key is required", ErrInvalidConfig)
	}
	if c.ACMEDir == "" {
		return fmt.Errorf("%w: acme_dir is required", ErrInvalidConfig)
	}

	for i, cert := range c.Certs {
		if cert.Name == "" {
			return fmt.Errorf("%w: certs[%d] has an empty name", ErrInvalidConfig, i)
		}
		if len(cert.Domains) == 0 {
			return fmt.Errorf("%w: certificate %q declares no domains", ErrInvalidConfig, cert.Name)
		}
		for _, domain := range cert.Domains {
			if domain == "" {
				return fmt.Errorf("%w: certificate %q has an empty domain entry", ErrInvalidConfig, cert.Name)
			}
		}
	}

	return nil
}

// DirectoryURL returns the ACME directory URL to issue against: CADirectory
// verbatim, or the directory endpoint derived from the deprecated CA form.
func (c *Config) DirectoryURL() string {
	if c.CADirectory != "" {
		return c.CADirectory
	}
	if c.CA != "" {
		return strings.TrimRight(c.CA, "/") + "/directory"
	}
	return ""
}

// Deprecations reports configured-but-deprecated fields so the caller can
// log them. The declaration still loads; these are warnings, not errors.
func (c *Config) Deprecations() []string {
	var msgs []string
	if c.CA != "" {
		msgs = append(msgs, "the config 'ca' is deprecated, use 'ca_directory' instead")
	}
	if c.Chain != "" {
		msgs = append(msgs, "the config 'chain' is not used anymore")
	}
	return msgs
}
