// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultGithubRequestsPerSecond = 10
	defaultGithubBurst             = 10
	defaultGithubCacheSizeMB       = 50
	defaultGithubCacheTTLSeconds   = 3600
	defaultRequestTimeoutSeconds   = 60
	defaultSyncTimeoutSeconds      = 3600
	defaultContentWorkers          = 1
	defaultSyncSchedule            = "@every 30m"
	defaultMetricsServerPort       = "9090"
)

// Target is one organization (optionally narrowed to a repository) mirrored
// into one store directory.
type Target struct {
	Organization string `yaml:"Organization"`
	Repository   string `yaml:"Repository"`
	Directory    string `yaml:"Directory"`
}

type LogSettings struct {
	EnableConsole bool   `yaml:"EnableConsole"`
	ConsoleJSON   bool   `yaml:"ConsoleJSON"`
	ConsoleLevel  string `yaml:"ConsoleLevel"`
	EnableFile    bool   `yaml:"EnableFile"`
	FileJSON      bool   `yaml:"FileJSON"`
	FileLevel     string `yaml:"FileLevel"`
	FileLocation  string `yaml:"FileLocation"`
}

type Config struct {
	GithubAccessToken string `yaml:"GithubAccessToken"`
	GithubUsername    string `yaml:"GithubUsername"`
	GithubPassword    string `yaml:"GithubPassword"`

	GithubRequestsPerSecond float64 `yaml:"GithubRequestsPerSecond"`
	GithubBurst             int     `yaml:"GithubBurst"`
	GithubCacheSizeMB       int64   `yaml:"GithubCacheSizeMB"`
	GithubCacheTTLSeconds   int64   `yaml:"GithubCacheTTLSeconds"`

	RequestTimeoutSeconds int `yaml:"RequestTimeoutSeconds"`
	SyncTimeoutSeconds    int `yaml:"SyncTimeoutSeconds"`
	ContentWorkers        int `yaml:"ContentWorkers"`

	Targets      []*Target `yaml:"Targets"`
	SyncSchedule string    `yaml:"SyncSchedule"`

	ListenAddress     string `yaml:"ListenAddress"`
	MetricsServerPort string `yaml:"MetricsServerPort"`

	LogSettings LogSettings `yaml:"LogSettings"`
}

func FindConfigFile(fileName string) string {
	if _, err := os.Stat("/tmp/" + fileName); err == nil {
		fileName, _ = filepath.Abs("/tmp/" + fileName)
	} else if _, err := os.Stat("./config/" + fileName); err == nil {
		fileName, _ = filepath.Abs("./config/" + fileName)
	} else if _, err := os.Stat("../config/" + fileName); err == nil {
		fileName, _ = filepath.Abs("../config/" + fileName)
	} else if _, err := os.Stat(fileName); err == nil {
		fileName, _ = filepath.Abs(fileName)
	}

	return fileName
}

// GetConfig loads a JSON or YAML config file, applies the credential
// environment overrides and the defaults.
func GetConfig(fileName string) (*Config, error) {
	fileName = FindConfigFile(fileName)
	mlog.Debug("Loading config", mlog.String("filename", fileName))

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config file %s", fileName)
	}

	config := &Config{}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode config file %s", fileName)
	}

	config.ApplyEnvironment()
	config.SetDefaults()
	return config, nil
}

// ApplyEnvironment lets the github_token, github_username and
// github_password variables override the file credentials.
func (c *Config) ApplyEnvironment() {
	if token := os.Getenv("github_token"); token != "" {
		c.GithubAccessToken = token
	}
	if username := os.Getenv("github_username"); username != "" {
		c.GithubUsername = username
	}
	if password := os.Getenv("github_password"); password != "" {
		c.GithubPassword = password
	}
}

func (c *Config) SetDefaults() {
	if c.GithubRequestsPerSecond <= 0 {
		c.GithubRequestsPerSecond = defaultGithubRequestsPerSecond
	}
	if c.GithubBurst <= 0 {
		c.GithubBurst = defaultGithubBurst
	}
	if c.GithubCacheSizeMB <= 0 {
		c.GithubCacheSizeMB = defaultGithubCacheSizeMB
	}
	if c.GithubCacheTTLSeconds <= 0 {
		c.GithubCacheTTLSeconds = defaultGithubCacheTTLSeconds
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if c.SyncTimeoutSeconds <= 0 {
		c.SyncTimeoutSeconds = defaultSyncTimeoutSeconds
	}
	if c.ContentWorkers <= 0 {
		c.ContentWorkers = defaultContentWorkers
	}
	if c.SyncSchedule == "" {
		c.SyncSchedule = defaultSyncSchedule
	}
	if c.MetricsServerPort == "" {
		c.MetricsServerPort = defaultMetricsServerPort
	}
}

func (c *Config) IsValid() error {
	if len(c.Targets) == 0 {
		return errors.New("no sync targets configured")
	}
	for i, target := range c.Targets {
		if target == nil || target.Organization == "" {
			return errors.Errorf("target %d has no organization", i)
		}
		if target.Directory == "" {
			return errors.Errorf("target %d has no directory", i)
		}
	}
	return nil
}
