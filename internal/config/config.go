package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/irisops.yaml"

type Paths struct {
	Data      string `yaml:"data" validate:"required"`
	Poisoned  string `yaml:"poisoned" validate:"required"`
	Model     string `yaml:"model" validate:"required"`
	TestData  string `yaml:"test_data" validate:"required"`
	Artifacts string `yaml:"artifacts" validate:"required"`
}

type Train struct {
	Algo       string  `yaml:"algo" validate:"oneof=dt rf bagging gb knn"`
	MaxDepth   int     `yaml:"max_depth" validate:"gte=0"`
	MinSamples int     `yaml:"min_samples" validate:"gte=2"`
	Estimators int     `yaml:"estimators" validate:"gte=1"`
	K          int     `yaml:"k" validate:"gte=1"`
	TestSize   float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed       int64   `yaml:"seed"`
}

type Audit struct {
	K         int     `yaml:"k" validate:"gte=1"`
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=1"`
}

type GCS struct {
	Project         string `yaml:"project"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type Server struct {
	Port   int    `yaml:"port" validate:"gt=0,lte=65535"`
	APIKey string `yaml:"api_key"`
}

type Config struct {
	Paths  Paths  `yaml:"paths"`
	Train  Train  `yaml:"train"`
	Audit  Audit  `yaml:"audit"`
	GCS    GCS    `yaml:"gcs"`
	Server Server `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Paths: Paths{
			Data:      "data/iris.csv",
			Poisoned:  "data/iris_poisoned.csv",
			Model:     "models/decision_tree_model.gob",
			TestData:  "models/test_data.gob",
			Artifacts: "artifacts",
		},
		Train:  Train{Algo: "dt", MaxDepth: 3, MinSamples: 2, Estimators: 30, K: 5, TestSize: 0.4, Seed: 1},
		Audit:  Audit{K: 5, Threshold: 0.5},
		GCS:    GCS{Prefix: "my-models/iris-classifier"},
		Server: Server{Port: 8080},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error when
// path is the default location.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("IRISOPS_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("IRISOPS_BUCKET"); v != "" {
		c.GCS.Bucket = v
	}
	if v := os.Getenv("IRISOPS_PROJECT"); v != "" {
		c.GCS.Project = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.GCS.CredentialsFile == "" {
		c.GCS.CredentialsFile = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errors.Errorf("PORT=%q is not a number", v)
		}
		c.Server.Port = p
	}
	return nil
}
