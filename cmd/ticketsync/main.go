// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/metrics"
	"github.com/mattermost/mattermost-ticketsync/server"
	"github.com/mattermost/mattermost-ticketsync/version"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	defaultConfigFile = "config-ticketsync.json"

	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `Usage: ticketsync [flags] <command>

Commands:
  sync-project   record which tickets sit on which boards
  sync-tickets   refresh the content of every stored ticket
  full-sync      sync-project followed by sync-tickets
  serve          run every configured target on schedule and serve the API

Flags:
`

var commands = map[string]bool{
	"sync-project": true,
	"sync-tickets": true,
	"full-sync":    true,
	"serve":        true,
}

type options struct {
	configFile   string
	target       int
	directory    string
	organization string
	repo         string
	showVersion  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := &options{}
	flagSet := pflag.NewFlagSet("ticketsync", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configFile, "config", "c", defaultConfigFile, "JSON or YAML config file")
	flagSet.IntVarP(&opts.target, "target", "t", 0, "index of the configured target to sync")
	flagSet.StringVarP(&opts.directory, "directory", "d", "", "ticket directory, overrides the target's")
	flagSet.StringVarP(&opts.organization, "organization", "o", "", "GitHub organization, overrides the target's")
	flagSet.StringVarP(&opts.repo, "repo", "r", "", "restrict the boards to one repository")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print the version and exit")
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if opts.showVersion {
		fmt.Println("ticketsync", version.Full())
		return exitOK
	}
	if flagSet.NArg() != 1 || !commands[flagSet.Arg(0)] {
		flagSet.Usage()
		return exitUsage
	}

	config, err := loadConfig(opts.configFile, flagSet.Changed("config"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to load config:", err)
		return exitFailure
	}
	logger, err := server.SetupLogging(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to set up logging:", err)
		return exitFailure
	}
	defer logger.Shutdown()

	mlog.Info("Starting ticketsync", mlog.String("version", version.Full().Version), mlog.String("command", flagSet.Arg(0)))

	command := flagSet.Arg(0)
	if command == "serve" {
		err = serve(config)
	} else {
		err = syncOnce(command, config, opts)
	}
	if err != nil {
		mlog.Error("Command failed", mlog.String("command", command), mlog.Err(err))
		return exitFailure
	}
	return exitOK
}

// loadConfig falls back to a default config, with credentials from the
// environment, when the default file is absent.
func loadConfig(fileName string, explicit bool) (*server.Config, error) {
	if !explicit {
		if _, err := os.Stat(server.FindConfigFile(fileName)); os.IsNotExist(err) {
			config := &server.Config{}
			config.ApplyEnvironment()
			config.SetDefaults()
			config.LogSettings.EnableConsole = true
			return config, nil
		}
	}
	return server.GetConfig(fileName)
}

func resolveTarget(config *server.Config, opts *options) (*server.Target, error) {
	target := &server.Target{}
	if opts.target >= 0 && opts.target < len(config.Targets) && config.Targets[opts.target] != nil {
		*target = *config.Targets[opts.target]
	} else if opts.target != 0 {
		return nil, errors.Errorf("no target %d in config", opts.target)
	}

	if opts.directory != "" {
		target.Directory = opts.directory
	}
	if opts.organization != "" {
		target.Organization = opts.organization
	}
	if opts.repo != "" {
		target.Repository = opts.repo
	}
	if target.Directory == "" {
		return nil, errors.New("no ticket directory given")
	}
	return target, nil
}

func syncOnce(command string, config *server.Config, opts *options) error {
	target, err := resolveTarget(config, opts)
	if err != nil {
		return err
	}
	if command != "sync-tickets" && target.Organization == "" {
		return errors.New("no organization given")
	}

	provider := metrics.NewPrometheusProvider()
	source := server.NewGithubTicketSource(server.NewGithubClient(config, provider))
	syncer := server.NewTicketSyncer(source, provider, config.ContentWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.SyncTimeoutSeconds)*time.Second)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "sync-project":
		membership, err := syncer.SyncProjectTickets(ctx, target.Directory, target.Organization, target.Repository)
		if err != nil {
			return err
		}
		mlog.Info("Board membership synced", mlog.Int("tickets", len(membership)))
		return nil
	case "sync-tickets":
		report, err := syncer.SyncTicketsDirectory(ctx, target.Directory)
		logReport(report)
		return err
	case "full-sync":
		membership, report, err := syncer.FullDirectorySync(ctx, target.Directory, target.Organization, target.Repository)
		if membership != nil {
			mlog.Info("Board membership synced", mlog.Int("tickets", len(membership)))
		}
		logReport(report)
		return err
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func logReport(report *server.SyncReport) {
	if report == nil {
		return
	}
	mlog.Info("Ticket content synced",
		mlog.Int("refreshed", len(report.Refreshed)),
		mlog.Int("current", len(report.Current)),
		mlog.Int("closed", len(report.Closed)),
		mlog.Int("failed", len(report.Failed)),
	)
}

func serve(config *server.Config) error {
	provider := metrics.NewPrometheusProvider()
	metricsServer := metrics.NewServer(config.MetricsServerPort, provider.Handler(), true)
	metricsServer.Start()
	defer metricsServer.Stop()

	s, err := server.New(config, provider)
	if err != nil {
		return errors.Wrap(err, "unable to create server")
	}
	if err = s.Start(); err != nil {
		return errors.Wrap(err, "unable to start server")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	mlog.Info("Stopping ticketsync")
	return s.Stop()
}
