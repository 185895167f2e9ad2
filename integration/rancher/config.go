package rancher

// Config holds the store endpoint and credentials. All fields are required.
type Config struct {
	URL       string `env:"CATTLE_URL,required"`
	AccessKey string `env:"CATTLE_ACCESS_KEY,required"`
	SecretKey string `env:"CATTLE_SECRET_KEY,required"`
}
