package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dashboard storage
	UploadsDir     string `mapstructure:"uploads_dir" yaml:"uploads_dir"`
	DefaultDataset string `mapstructure:"default_dataset" yaml:"default_dataset"`
	MaxUploadMB    int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// HTTP server
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	GinMode     string   `mapstructure:"gin_mode" yaml:"gin_mode"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Analytics
	MaxRows     int `mapstructure:"max_rows" yaml:"max_rows"`
	TopHashtags int `mapstructure:"top_hashtags" yaml:"top_hashtags"`
	DoctorLimit int `mapstructure:"doctor_limit" yaml:"doctor_limit"`

	// fix-data output path; empty writes next to the input file
	FixDataOutput string `mapstructure:"fix_data_output" yaml:"fix_data_output"`
}

// Keys lists every settable configuration key.
var Keys = []string{
	"cors_origins", "default_dataset", "doctor_limit", "fix_data_output", "gin_mode",
	"listen_addr", "log_level", "max_rows", "max_upload_mb", "top_hashtags", "uploads_dir",
}

// Dir returns ~/.socialpulse.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".socialpulse"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.socialpulse/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SOCIALPULSE")
	v.AutomaticEnv()

	v.SetDefault("uploads_dir", "")
	v.SetDefault("default_dataset", "")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("listen_addr", ":5000")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("top_hashtags", 10)
	v.SetDefault("doctor_limit", 20)
	v.SetDefault("fix_data_output", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve uploads_dir default: ~/.socialpulse/uploads
	if c.UploadsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.UploadsDir = filepath.Join(dir, "uploads")
	}
	return &c, nil
}

// Set parses val and assigns it to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "uploads_dir":
		c.UploadsDir = val
	case "default_dataset":
		c.DefaultDataset = val
	case "fix_data_output":
		c.FixDataOutput = val
	case "listen_addr":
		c.ListenAddr = val
	case "gin_mode":
		switch val {
		case "debug", "release", "test":
			c.GinMode = val
		default:
			return fmt.Errorf("invalid gin_mode: %s (use debug, release or test)", val)
		}
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "cors_origins":
		var origins []string
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	case "max_upload_mb", "max_rows", "top_hashtags", "doctor_limit":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "max_upload_mb":
			c.MaxUploadMB = i
		case "max_rows":
			c.MaxRows = i
		case "top_hashtags":
			c.TopHashtags = i
		case "doctor_limit":
			c.DoctorLimit = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Values returns every key with its current value rendered as text, sorted by key.
func (c *Global) Values() [][2]string {
	m := map[string]string{
		"uploads_dir":     c.UploadsDir,
		"default_dataset": c.DefaultDataset,
		"max_upload_mb":   strconv.Itoa(c.MaxUploadMB),
		"listen_addr":     c.ListenAddr,
		"gin_mode":        c.GinMode,
		"cors_origins":    strings.Join(c.CORSOrigins, ","),
		"log_level":       c.LogLevel,
		"max_rows":        strconv.Itoa(c.MaxRows),
		"top_hashtags":    strconv.Itoa(c.TopHashtags),
		"doctor_limit":    strconv.Itoa(c.DoctorLimit),
		"fix_data_output": c.FixDataOutput,
	}
	out := make([][2]string, 0, len(m))
	for k, v := range m {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
