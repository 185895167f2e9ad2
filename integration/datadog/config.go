package datadog

// Config holds the DogStatsD agent endpoint.
type Config struct {
	Host string `env:"DOGSTATSD_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"DOGSTATSD_PORT" envDefault:"8125"`
}
