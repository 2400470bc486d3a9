package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	RunLog RunLogConfig `yaml:"runlog" mapstructure:"runlog"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the synced POS file share on disk.
type SourceConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures where canonical JSON datasets are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// FetchConfig configures the remote file-share mirror pull.
type FetchConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RunLogConfig configures the local run-history database.
type RunLogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.dir", "./pos-data")
	v.SetDefault("output.dir", "./public/data")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("runlog.path", "retail-etl.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
