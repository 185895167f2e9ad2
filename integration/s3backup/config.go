package s3backup

// Config holds the S3 backup settings. Leaving Bucket empty disables
// backups entirely; the remaining fields only matter once a bucket is set.
type Config struct {
	Bucket         string `env:"S3_BACKUP_BUCKET"`
	Prefix         string `env:"S3_BACKUP_PREFIX" envDefault:"certsync"`
	Region         string `env:"S3_BACKUP_REGION"`
	AccessKeyID    string `env:"S3_BACKUP_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_BACKUP_SECRET_ACCESS_KEY"`
	Endpoint       string `env:"S3_BACKUP_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_BACKUP_FORCE_PATH_STYLE"`
}

// Enabled reports whether a backup target is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}
