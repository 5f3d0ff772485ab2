package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	stepfeatures "github.com/aouyang1/go-stepfeatures"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "STEPFEATURES"

var ErrInvalidAsOf = errors.New("as-of must be a date formatted as YYYY-MM-DD")

// Config is the resolved command line configuration. Values come from flags, STEPFEATURES_*
// environment variables and an optional config file, in that order of precedence.
type Config struct {
	DataDir    string   `mapstructure:"data-dir"`
	Out        string   `mapstructure:"out"`
	JSON       string   `mapstructure:"json"`
	Plot       string   `mapstructure:"plot"`
	AsOf       string   `mapstructure:"as-of"`
	Lags       []int    `mapstructure:"lags"`
	Windows    []int    `mapstructure:"windows"`
	Holidays   bool     `mapstructure:"holidays"`
	Metric     string   `mapstructure:"metric"`
	Genders    []string `mapstructure:"genders"`
	Diseases   []string `mapstructure:"diseases"`
	Parallel   bool     `mapstructure:"parallel"`
	TrainRatio float64  `mapstructure:"train-ratio"`
	LogLevel   string   `mapstructure:"log-level"`
}

func registerFlags(flags *pflag.FlagSet) {
	defaults := stepfeatures.NewDefaultOptions()

	flags.String("config", "", "optional yaml or json config file")
	flags.String("data-dir", ".", "directory holding timeseries-data.json and categorical-data.json")
	flags.String("out", "features.csv", "csv output path, - writes to stdout")
	flags.String("json", "", "optional json output path of the feature table")
	flags.String("plot", "", "optional html output path of the timeline plot")
	flags.String("as-of", "", "date age is computed at, defaults to today")
	flags.IntSlice("lags", defaults.TemporalOptions.Lags, "lags in days of the daily step count")
	flags.IntSlice("windows", defaults.TemporalOptions.RollingWindows, "rolling windows in days")
	flags.Bool("holidays", false, "add the is_holiday indicator of US federal holidays")
	flags.String("metric", "", "only keep intervals of this metric, empty keeps every metric")
	flags.StringSlice("genders", defaults.ClinicalOptions.Schema.Genders, "declared gender values")
	flags.StringSlice("diseases", nil, "declared disease values")
	flags.Bool("parallel", false, "derive clinical and temporal features concurrently")
	flags.Float64("train-ratio", stepfeatures.NewDefaultDesignOptions().TrainRatio, "leading share of complete rows used for training")
	flags.String("log-level", "info", "debug, info, warn or error")
}

// loadConfig resolves the configuration of the flags after they have been parsed.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("unable to bind flags, %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s, %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() (*stepfeatures.Options, error) {
	opt := stepfeatures.NewDefaultOptions()
	opt.Metric = c.Metric
	opt.Parallel = c.Parallel

	if c.AsOf != "" {
		asOf, err := time.Parse(time.DateOnly, c.AsOf)
		if err != nil {
			return nil, fmt.Errorf("%q, %w", c.AsOf, ErrInvalidAsOf)
		}
		opt.ClinicalOptions.AsOf = asOf
	}
	if len(c.Genders) > 0 {
		opt.ClinicalOptions.Schema.Genders = c.Genders
	}
	opt.ClinicalOptions.Schema.Diseases = c.Diseases

	opt.TemporalOptions.Lags = c.Lags
	opt.TemporalOptions.RollingWindows = c.Windows
	opt.TemporalOptions.HolidayOptions.Enabled = c.Holidays
	return opt, nil
}

func (c *Config) DesignOptions() *stepfeatures.DesignOptions {
	return &stepfeatures.DesignOptions{TrainRatio: c.TrainRatio}
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("unable to parse log level, %w", err)
	}
	return level, nil
}
