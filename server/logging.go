// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const logFilename = "ticketsync.log"

func GetLogFileLocation(fileLocation string) string {
	if fileLocation == "" {
		fileLocation = "logs"
	}

	return filepath.Join(fileLocation, logFilename)
}

// levelsFrom returns the given level and every more severe one.
func levelsFrom(name string) []mlog.Level {
	levels := []mlog.Level{mlog.LvlPanic, mlog.LvlFatal, mlog.LvlError, mlog.LvlWarn, mlog.LvlInfo, mlog.LvlDebug}
	for i, level := range levels {
		if level.Name == strings.ToLower(name) {
			return levels[:i+1]
		}
	}
	// info
	return levels[:5]
}

func logFormat(useJSON bool) string {
	if useJSON {
		return "json"
	}
	return "plain"
}

func loggerConfiguration(settings LogSettings) (mlog.LoggerConfiguration, error) {
	cfg := make(mlog.LoggerConfiguration)

	if settings.EnableConsole {
		cfg["console"] = mlog.TargetCfg{
			Type:         "console",
			Format:       logFormat(settings.ConsoleJSON),
			Options:      json.RawMessage(`{"out": "stdout"}`),
			Levels:       levelsFrom(settings.ConsoleLevel),
			MaxQueueSize: 1000,
		}
	}

	if settings.EnableFile {
		options, err := json.Marshal(map[string]interface{}{
			"filename":    GetLogFileLocation(settings.FileLocation),
			"max_size":    100,
			"max_backups": 10,
			"compress":    true,
		})
		if err != nil {
			return nil, err
		}
		cfg["file"] = mlog.TargetCfg{
			Type:         "file",
			Format:       logFormat(settings.FileJSON),
			Options:      options,
			Levels:       levelsFrom(settings.FileLevel),
			MaxQueueSize: 1000,
		}
	}

	return cfg, nil
}

// SetupLogging replaces the global logger with one configured from the
// LogSettings of config. The caller shuts the returned logger down to flush
// its targets.
func SetupLogging(config *Config) (*mlog.Logger, error) {
	cfg, err := loggerConfiguration(config.LogSettings)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger configuration")
	}

	logger, err := mlog.NewLogger()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create logger")
	}
	if err = logger.ConfigureTargets(cfg, nil); err != nil {
		return nil, errors.Wrap(err, "unable to configure log targets")
	}

	logger.RedirectStdLog(mlog.LvlInfo)
	mlog.InitGlobalLogger(logger)
	return logger, nil
}
