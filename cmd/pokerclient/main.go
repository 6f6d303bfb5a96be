package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vctt94/pokertablesync/pkg/client"
	"github.com/vctt94/pokertablesync/pkg/logging"
	"github.com/vctt94/pokertablesync/pkg/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pokerclient: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		datadir  = flag.String("datadir", "", "Directory holding the config file and logs")
		wsURL    = flag.String("wsurl", "", "Table websocket URL")
		apiURL   = flag.String("apiurl", "", "Base URL of the table HTTP API")
		tableID  = flag.Int64("table", 0, "Table to join")
		token    = flag.String("token", "", "Access token. Leave empty to spectate")
		debug    = flag.String("debuglevel", "", "Log level, optionally per subsystem (info,CONN=debug)")
		logFile  = flag.String("logfile", "", "Log file path")
		saveConf = flag.Bool("saveconfig", false, "Write the effective configuration to the config file")
	)
	flag.Parse()

	cfg, err := client.LoadConfig(*datadir, client.ConfigOverrides{
		WSURL:       *wsURL,
		APIURL:      *apiURL,
		TableID:     *tableID,
		AccessToken: *token,
		DebugLevel:  *debug,
		LogFile:     *logFile,
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, client.ErrMissingConfig) {
			flag.Usage()
		}
		return err
	}
	if *saveConf {
		if err := cfg.Save(); err != nil {
			return err
		}
	}

	// The terminal belongs to the UI, logs only go to the file.
	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		DebugLevel:  cfg.DebugLevel,
		LogFile:     cfg.LogFile,
		MaxLogFiles: cfg.MaxLogFiles,
		Stdout:      io.Discard,
	})
	if err != nil {
		return err
	}
	defer logBackend.Close()

	log := logBackend.Logger("SESS")
	log.Infof("Joining table %d at %s", cfg.TableID, cfg.WSURL)

	var fetcher client.TableFetcher
	if cfg.APIURL != "" {
		fetcher = &client.HTTPTableFetcher{BaseURL: cfg.APIURL, Token: cfg.AccessToken}
	}

	sess, err := client.NewSession(client.SessionConfig{
		TableID:     cfg.TableID,
		AccessToken: cfg.AccessToken,
		Conn:        cfg.ConnConfig(logBackend.Logger("CONN")),
		Fetcher:     fetcher,
		Log:         log,
		DispatchLog: logBackend.Logger("DISP"),
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	p := tea.NewProgram(ui.NewPokerUI(sess, logBackend.Logger("UI")), tea.WithAltScreen(),
		tea.WithContext(ctx))
	stop := ui.Notify(p, sess.Notifications())
	defer stop()

	sess.Start(ctx)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Infof("Leaving table %d", cfg.TableID)
	return nil
}
