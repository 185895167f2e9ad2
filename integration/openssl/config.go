package openssl

// Config selects the openssl binary and the base request config template.
type Config struct {
	Binary     string `env:"OPENSSL_BINARY" envDefault:"openssl"`
	BaseConfig string `env:"OPENSSL_BASE_CONFIG" envDefault:"/etc/ssl/openssl.cnf"`
}
