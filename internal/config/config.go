package config

import (
	"log"
	"os"

	"scholarlyedge/pkg/config"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB       config.DBConfig       `yaml:"db"`
	MQ       config.MQConfig       `yaml:"mq"`
	Redis    config.RedisConfig    `yaml:"redis"`
	JWT      config.JWTConfig      `yaml:"jwt"`
	Server   config.ServerConfig   `yaml:"server"`
	Mail     config.MailConfig     `yaml:"mail"`
	Reminder config.ReminderConfig `yaml:"reminder"`
}

func Load() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode %s: %v", path, err)
	}

	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideMailFromEnv(&cfg.Mail)
	config.OverrideReminderFromEnv(&cfg.Reminder)
	return &cfg
}
