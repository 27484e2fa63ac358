// Package cli is the shoplist command tree. The bare command opens the
// interactive list; subcommands give scripted access to the same backend.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/config"
	"github.com/Makepad-fr/shoplist/internal/logging"
	"github.com/Makepad-fr/shoplist/internal/nocodb"
	"github.com/Makepad-fr/shoplist/internal/store/localstore"
	"github.com/Makepad-fr/shoplist/internal/telemetry"
	"github.com/Makepad-fr/shoplist/internal/tui"
)

// Version is stamped by the build.
var Version = "dev"

var errNotConfigured = errors.New("not configured: run `shoplist config set --url <table-url> --token <token>`")

var runTUI = tui.Run

func Execute() error {
	return NewRoot().Execute()
}

// app holds the persistent flags shared by every command.
type app struct {
	debug   bool
	logFile string
	dbPath  string
}

func NewRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "A shopping list synced with a NocoDB table",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			return runTUI(s.tuiOptions())
		},
	}
	f := root.PersistentFlags()
	f.BoolVar(&a.debug, "debug", false, "log at debug level")
	f.StringVar(&a.logFile, "log-file", "", "log file (default ~/.shoplist/shoplist.log)")
	f.StringVar(&a.dbPath, "db", "", "local settings database (default ~/.shoplist/local.db)")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.removeCmd(),
		a.configCmd(),
	)
	return root
}

// session is what one command invocation opens and must close.
type session struct {
	store *localstore.Store
	log   *zap.Logger
	cfg   *config.Config
}

func (a *app) open() (*session, error) {
	dbPath := a.dbPath
	if dbPath == "" {
		p, err := localstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}
	logPath := a.logFile
	if logPath == "" {
		p, err := logging.DefaultPath()
		if err != nil {
			return nil, err
		}
		logPath = p
	}

	st, err := localstore.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	log, err := logging.New(logPath, a.debug, zap.WrapCore(telemetry.Core))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	cfg, err := config.Load(st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{store: st, log: log, cfg: cfg}, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
	if err := s.store.Close(); err != nil {
		s.log.Warn("close local store", zap.Error(err))
	}
}

// client returns a backend client, or errNotConfigured when settings are
// missing.
func (s *session) client() (*nocodb.Client, error) {
	if s.cfg == nil || !s.cfg.Complete() {
		return nil, errNotConfigured
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return connect(*s.cfg, s.log), nil
}

func (s *session) tuiOptions() tui.Options {
	opts := tui.Options{
		Store:  s.store,
		Config: s.cfg,
		Logger: s.log,
		Connect: func(cfg config.Config) tui.Remote {
			return connect(cfg, s.log)
		},
	}
	if c, err := s.client(); err == nil {
		opts.Remote = c
	} else {
		s.log.Info("starting without backend", zap.Error(err))
	}
	return opts
}

func connect(cfg config.Config, log *zap.Logger) *nocodb.Client {
	return nocodb.New(cfg.TableURL, cfg.Token, nocodb.WithLogger(log))
}
