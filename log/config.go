package log

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultLevel string            `yaml:"defaultLevel"`
	Loggers      map[string]string `yaml:"loggers"`
	Zap          zap.Config        `yaml:"zap"`
	Filters      []string          `yaml:"filters"`
}

func DefaultDevConfig() *Config {
	z := zap.NewDevelopmentConfig()
	z.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return &Config{
		DefaultLevel: "info",
		Zap:          z,
	}
}

func DefaultProdConfig() *Config {
	return &Config{
		DefaultLevel: "info",
		Zap:          zap.NewProductionConfig(),
	}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Zap: zap.NewProductionConfig(),
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FilterRules creates the zapfilter rules for this config.
// Rules are or'ed, so a named logger may only be more verbose than the default.
func (c *Config) FilterRules(defaultLevel Level) string {
	rules := []string{fmt.Sprintf("%s+:*", defaultLevel.String())}
	names := make([]string, 0, len(c.Loggers))
	for name := range c.Loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rules = append(rules, fmt.Sprintf("%s+:%s*", c.Loggers[name], name))
	}
	rules = append(rules, c.Filters...)
	return strings.Join(rules, " ")
}
