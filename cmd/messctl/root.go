package main

import (
	"fmt"
	"io"

	"mess-app-go/internal/app"
	"mess-app-go/internal/config"
	"mess-app-go/internal/db"
	"mess-app-go/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env holds what a subcommand needs once the database is reachable.
type env struct {
	cfg      config.Config
	db       *gorm.DB
	services *app.Services
	log      logger.Logger
}

type opener func(log logger.Logger) (*env, error)

func newRootCommand(log logger.Logger) *cobra.Command {
	return newRootCommandWith(log, openEnv, readPasswordFunc)
}

func newRootCommandWith(log logger.Logger, open opener, readPassword passwordReader) *cobra.Command {
	var quiet bool

	root := &cobra.Command{
		Use:          "messctl",
		Short:        "Operator tasks for the mess attendance service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if quiet {
				log = logger.Discard()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	withEnv := func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, err := open(log)
			if err != nil {
				return err
			}
			defer e.close()
			return run(cmd, args, e)
		}
	}

	root.AddCommand(
		newMigrateCommand(withEnv),
		newSeedMenuCommand(withEnv),
		newGrantAdminCommand(withEnv),
		newResetPasswordCommand(withEnv, readPassword),
	)
	return root
}

func openEnv(log logger.Logger) (*env, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	conn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	services, err := app.NewServices(cfg, conn, log)
	if err != nil {
		_ = db.Close(conn)
		return nil, err
	}
	return &env{cfg: cfg, db: conn, services: services, log: log}, nil
}

func (e *env) close() {
	if e.db == nil {
		return
	}
	if err := db.Close(e.db); err != nil {
		e.log.Error("messctl: close db failed", "err", err)
	}
}

func printf(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(out, format, args...)
}
