package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	SourceFS    = "fs"
	SourceHTTP  = "http"
	SourceRedis = "redis"

	AddressingPath     = "path"
	AddressingFragment = "fragment"

	envFileName = ".env"
	envPrefix   = "FRQ_"
)

var defaultExtensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".webp", ".txt", ".html"}

type BuildConfig struct {
	RootDir      string   `yaml:"root_dir"`
	CoursesDir   string   `yaml:"courses_dir"`
	QuestionsDir string   `yaml:"questions_dir"`
	OutputDir    string   `yaml:"output_dir"`
	Workers      int      `yaml:"workers"`
	DescFileName string   `yaml:"desc_filename"`
	Extensions   []string `yaml:"extensions"`
	Publish      bool     `yaml:"publish"`
}

type Config struct {
	Listen      string      `yaml:"listen"`
	SiteURL     string      `yaml:"site_url"`
	LogLevel    string      `yaml:"log_level"`
	RedisURL    string      `yaml:"redis_url"`
	Source      string      `yaml:"source"`
	DataURL     string      `yaml:"data_url"`
	Addressing  string      `yaml:"addressing"`
	CatalogFile string      `yaml:"catalog"`
	Template    string      `yaml:"template"`
	BuildConfig BuildConfig `yaml:"build"`
}

func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.Source == "" {
		c.Source = SourceFS
	}
	if c.Addressing == "" {
		c.Addressing = AddressingPath
	}

	b := &c.BuildConfig
	if b.RootDir == "" {
		b.RootDir = "."
	}
	if b.CoursesDir == "" {
		b.CoursesDir = "courses"
	}
	if b.QuestionsDir == "" {
		b.QuestionsDir = "questions"
	}
	if b.OutputDir == "" {
		b.OutputDir = "data"
	}
	if b.Workers < 1 {
		b.Workers = 4
	}
	if b.DescFileName == "" {
		b.DescFileName = "description.md"
	}
	if len(b.Extensions) == 0 {
		b.Extensions = append([]string(nil), defaultExtensions...)
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownLogLevel, c.LogLevel)
	}

	switch c.Source {
	case SourceFS:
	case SourceHTTP:
		if c.DataURL == "" {
			return fmt.Errorf("source %s requires data_url", c.Source)
		}
	case SourceRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("source %s requires redis_url", c.Source)
		}
	default:
		return fmt.Errorf("source %q: %w", c.Source, errUnknown)
	}

	switch c.Addressing {
	case AddressingPath, AddressingFragment:
	default:
		return fmt.Errorf("addressing %q: %w", c.Addressing, errUnknown)
	}

	// The output folder is served as /data/.
	if filepath.Base(c.BuildConfig.OutputDir) != "data" {
		return fmt.Errorf("build.output_dir %q must end in data", c.BuildConfig.OutputDir)
	}

	if c.BuildConfig.Publish && c.RedisURL == "" {
		return fmt.Errorf("build.publish requires redis_url")
	}

	return nil
}

var errUnknown = errors.New("unknown value")

// Load reads the YAML file (a missing file means all defaults), then applies
// .env and FRQ_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := godotenv.Load(envFileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load %s: %w", envFileName, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"LISTEN":     &c.Listen,
		"SITE_URL":   &c.SiteURL,
		"LOG_LEVEL":  &c.LogLevel,
		"REDIS_URL":  &c.RedisURL,
		"SOURCE":     &c.Source,
		"DATA_URL":   &c.DataURL,
		"ADDRESSING": &c.Addressing,
		"CATALOG":    &c.CatalogFile,
		"TEMPLATE":   &c.Template,
		"ROOT_DIR":   &c.BuildConfig.RootDir,
		"OUTPUT_DIR": &c.BuildConfig.OutputDir,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("cannot parse %sWORKERS: %w", envPrefix, err)
		}
		c.BuildConfig.Workers = n
	}

	return nil
}
