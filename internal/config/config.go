package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string     `yaml:"log-level" env-default:"info"`
	HTTPPort          string     `yaml:"http-port" env-default:"8080"`
	Redis             Redis      `yaml:"redis"`
	SQLiteStoragePath string     `yaml:"sqlite-storage-path" env-default:"contexto.db"`
	Embeddings        Embeddings `yaml:"embeddings"`
	LLM               LLM        `yaml:"llm"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Embeddings struct {
	Path string `yaml:"path" env-default:"glove.6B.300d.txt"`
}

type LLM struct {
	BaseURL        string  `yaml:"base-url" env-default:"https://api.openai.com/v1"`
	APIKey         string  `yaml:"api-key" env:"LLM_API_KEY" env-default:""`
	Model          string  `yaml:"model" env-default:"gpt-4o-mini"`
	Temperature    float64 `yaml:"temperature" env-default:"0.7"`
	TimeoutSeconds int     `yaml:"timeout-seconds" env-default:"20"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *LLM) GetTimeout() time.Duration {
	return time.Duration(that.TimeoutSeconds) * time.Second
}
