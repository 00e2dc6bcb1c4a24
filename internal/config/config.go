package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host       string     `koanf:"host"`
	Frontend   Frontend   `koanf:"frontend"`
	Extraction Extraction `koanf:"extraction"`
	Calendar   Calendar   `koanf:"calendar"`
	Database   Database   `koanf:"db"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Extraction points at the external syllabus extraction service.
type Extraction struct {
	URL string `koanf:"url"`
}

type Calendar struct {
	// Timezone is emitted as X-WR-TIMEZONE in exported calendars.
	Timezone string `koanf:"timezone"`
	// DefaultName is used when an export is requested without a calendar name.
	DefaultName string `koanf:"defaultname"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Extraction: Extraction{
			URL: "http://localhost:5050",
		},
		Calendar: Calendar{
			Timezone:    "America/New_York",
			DefaultName: "SyllabusSync Schedule",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "syllabussync",
			Pass:   "",
			Name:   "syllabussync",
			Schema: "syllabussync",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SYLLABUSSYNC_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SYLLABUSSYNC_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
