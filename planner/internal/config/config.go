package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения (VTO_HTTP_PORT и т.д.)
const EnvPrefix = "VTO"

// Config содержит все настройки приложения
type Config struct {
	// Сетевые настройки
	HTTPPort      string `mapstructure:"http_port"`
	GRPCPort      string `mapstructure:"grpc_port"`
	AllowedOrigin string `mapstructure:"allowed_origin"`

	// Файл справочных таблиц; пусто - встроенные значения
	TablesPath string `mapstructure:"tables_path"`

	// Таймауты HTTP сервера
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// flagKeys сопоставляет флаги командной строки ключам конфигурации
var flagKeys = map[string]string{
	"http-port":      "http_port",
	"grpc-port":      "grpc_port",
	"tables":         "tables_path",
	"allowed-origin": "allowed_origin",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("grpc_port", "50051")
	v.SetDefault("tables_path", "")
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 15*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("shutdown_timeout", 30*time.Second)
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML файл, затем VTO_* переменные.
// Если path пуст, ищется planner.yaml в текущем каталоге и /etc/dental-vto; отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags дополнительно учитывает явно заданные флаги командной строки
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/dental-vto")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if err := validatePort("http_port", c.HTTPPort); err != nil {
		return err
	}
	if err := validatePort("grpc_port", c.GRPCPort); err != nil {
		return err
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("http_port and grpc_port must differ, both are %s", c.HTTPPort)
	}
	if c.AllowedOrigin == "" {
		return errors.New("allowed_origin must not be empty")
	}

	timeouts := map[string]time.Duration{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"idle_timeout":     c.IdleTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}

	if c.TablesPath != "" {
		if _, err := os.Stat(c.TablesPath); err != nil {
			return fmt.Errorf("tables_path: %w", err)
		}
	}
	return nil
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%s must be a port number, got %q", name, value)
	}
	return nil
}
