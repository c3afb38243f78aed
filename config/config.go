package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once at process start and handed to every component that needs it.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Ollama     OllamaConfig     `yaml:"ollama"`
	Files      FilesConfig      `yaml:"files"`
	Log        LogConfig        `yaml:"log"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Redis      RedisConfig      `yaml:"redis"`
	Worker     WorkerConfig     `yaml:"worker"`
	S3         S3Config         `yaml:"s3"`
	Minio      MinioConfig      `yaml:"minio"`
	Textract   TextractConfig   `yaml:"textract"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type OllamaConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type FilesConfig struct {
	MaxFileSizeMB     int      `yaml:"max_file_size_mb"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Format      string   `yaml:"format"` // "json" or "text"
	OutputPaths []string `yaml:"output_paths"`
}

// Encoding maps the log format onto the zap encoder name.
func (l LogConfig) Encoding() string {
	if strings.EqualFold(l.Format, "json") {
		return "json"
	}
	return "console"
}

type ExtractionConfig struct {
	Backend     string `yaml:"backend"` // "ollama" or "textract"
	Concurrency int    `yaml:"concurrency"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// Enabled reports whether async organize jobs can be queued.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns the built-in settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 7071,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://127.0.0.1:11434",
			Model:   "qwen3-vl:2b",
			Timeout: 120 * time.Second,
		},
		Files: FilesConfig{
			MaxFileSizeMB: 50,
			AllowedExtensions: []string{
				".pdf", ".docx", ".pptx", ".xlsx", ".txt", ".md",
				".jpg", ".jpeg", ".png", ".bmp", ".tiff",
			},
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stdout"},
		},
		Extraction: ExtractionConfig{
			Backend:     "ollama",
			Concurrency: 1,
		},
		Worker: WorkerConfig{
			Concurrency: 4,
		},
	}
}

// Load reads .env (if present), an optional YAML file named by CONFIG_FILE,
// then environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str("HOST", &c.Server.Host)
	num("PORT", &c.Server.Port)

	str("OLLAMA_BASE_URL", &c.Ollama.BaseURL)
	str("MODEL_NAME", &c.Ollama.Model)
	timeout := -1
	num("HTTP_TIMEOUT", &timeout)
	if timeout >= 0 {
		c.Ollama.Timeout = time.Duration(timeout) * time.Second
	}

	num("MAX_FILE_SIZE_MB", &c.Files.MaxFileSizeMB)
	list("ALLOWED_EXTENSIONS", &c.Files.AllowedExtensions)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	list("LOG_OUTPUTS", &c.Log.OutputPaths)

	str("EXTRACTOR_BACKEND", &c.Extraction.Backend)
	num("EXTRACTION_CONCURRENCY", &c.Extraction.Concurrency)

	str("REDIS_ADDR", &c.Redis.Addr)
	num("REDIS_DB", &c.Redis.DB)
	num("WORKER_CONCURRENCY", &c.Worker.Concurrency)

	c.S3.applyEnv(str)
	c.Minio.applyEnv(str)
	c.Textract.applyEnv(str)

	c.Log.Level = strings.ToLower(c.Log.Level)
	return errors.Join(errs...)
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Files.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Files.MaxFileSizeMB)
	}
	if len(c.Files.AllowedExtensions) == 0 {
		return errors.New("allowed extensions must not be empty")
	}
	switch c.Extraction.Backend {
	case "ollama", "textract":
	default:
		return fmt.Errorf("unknown extractor backend %q", c.Extraction.Backend)
	}
	if c.Extraction.Concurrency < 1 {
		c.Extraction.Concurrency = 1
	}
	return nil
}

// splitList accepts "a,b" as well as the JSON-ish form `[".a", ".b"]`.
func splitList(v string) []string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
