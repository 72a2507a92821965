package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Mail struct {
	Enabled     bool     `yaml:"enabled"`
	IMAPHost    string   `yaml:"imap_host"`
	IMAPPort    int      `yaml:"imap_port"`
	Username    string   `yaml:"username"`
	Mailbox     string   `yaml:"mailbox"`
	SubjectAny  []string `yaml:"subject_any"`
	PollSeconds int      `yaml:"poll_seconds"`
	MaxMessages int      `yaml:"max_messages"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Store struct {
		Driver string `yaml:"driver"` // sqlite | postgres | memory
		Path   string `yaml:"path"`   // sqlite database file
		DSN    string `yaml:"dsn"`    // postgres connection string
	} `yaml:"store"`

	Mail Mail `yaml:"mail"`

	Importing struct {
		WritesPerSecond      float64 `yaml:"writes_per_second"`
		WriteBurst           int     `yaml:"write_burst"`
		ContactBatchSize     int     `yaml:"contact_batch_size"`
		SourceTimeoutSeconds int     `yaml:"source_timeout_seconds"`
	} `yaml:"importing"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// EnsureUserConfig copies the shipped default config into the data dir on
// first run and returns the user config path.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}
