package config

// S3Config backs the read-only s3:// object source.
type S3Config struct {
	BucketName string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

// Enabled reports whether an s3 source should be wired.
func (c S3Config) Enabled() bool {
	return c.Region != ""
}

func (c *S3Config) applyEnv(str func(string, *string)) {
	str("AWS_S3_BUCKET_NAME", &c.BucketName)
	str("AWS_REGION", &c.Region)
	str("AWS_ENDPOINT", &c.Endpoint)
	str("AWS_ACCESS_KEY", &c.AccessKey)
	str("AWS_SECRET_KEY", &c.SecretKey)
}

// MinioConfig backs the read-only minio:// object source.
type MinioConfig struct {
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucket"`
}

func (c MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c *MinioConfig) applyEnv(str func(string, *string)) {
	str("MINIO_ACCESS_KEY", &c.AccessKey)
	str("MINIO_SECRET_KEY", &c.SecretKey)
	str("MINIO_ENDPOINT", &c.Endpoint)
	str("MINIO_REGION", &c.Region)
	str("MINIO_BUCKET_NAME", &c.BucketName)
	var ssl string
	str("MINIO_USE_SSL", &ssl)
	if ssl != "" {
		c.UseSSL = ssl == "true" || ssl == "1"
	}
}

// TextractConfig is used when EXTRACTOR_BACKEND=textract.
type TextractConfig struct {
	Region        string  `yaml:"region"`
	Endpoint      string  `yaml:"endpoint"`
	AccessKey     string  `yaml:"access_key"`
	SecretKey     string  `yaml:"secret_key"`
	MinConfidence float32 `yaml:"min_confidence"`
	EnableTables  bool    `yaml:"enable_tables"`
}

func (c *TextractConfig) applyEnv(str func(string, *string)) {
	str("AWS_REGION", &c.Region)
	str("AWS_ENDPOINT", &c.Endpoint)
	str("AWS_ACCESS_KEY", &c.AccessKey)
	str("AWS_SECRET_KEY", &c.SecretKey)
	var tables string
	str("TEXTRACT_ENABLE_TABLES", &tables)
	if tables != "" {
		c.EnableTables = tables == "true" || tables == "1"
	}
	if c.MinConfidence == 0 {
		c.MinConfidence = 80.0
	}
}
