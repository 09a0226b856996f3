package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"mess-app-go/internal/db"
	"mess-app-go/internal/domain/account"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type passwordReader func(fd int) ([]byte, error)

var readPasswordFunc passwordReader = term.ReadPassword

type envRunner func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error

var errEmptyPassword = errors.New("password must not be empty")

func newMigrateCommand(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			if err := db.Migrate(e.db, e.log); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "migrations applied\n")
			return nil
		}),
	}
}

func newSeedMenuCommand(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-menu",
		Short: "Insert default menu rows for any missing weekday",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			inserted, err := db.SeedMenu(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "menu rows inserted: %d\n", inserted)
			return nil
		}),
	}
}

func newGrantAdminCommand(withEnv envRunner) *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "grant-admin EMAIL",
		Short: "Give an existing account the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			role := account.RoleAdmin
			if revoke {
				role = account.RoleStudent
			}
			acc, err := e.services.Accounts.GrantRole(cmd.Context(), args[0], role)
			if err != nil {
				return fmt.Errorf("grant role to %s: %w", args[0], err)
			}
			e.log.Info("messctl: role changed", "user_id", acc.ID, "email", acc.Email, "role", acc.Role)
			printf(cmd.OutOrStdout(), "%s is now %s\n", acc.Email, acc.Role)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "demote the account back to student")
	return cmd
}

func newResetPasswordCommand(withEnv envRunner, readPassword passwordReader) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password EMAIL",
		Short: "Set a new password for an account; the password is prompted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd, readPassword)
			if err != nil {
				return err
			}
			return withEnv(func(cmd *cobra.Command, args []string, e *env) error {
				if err := e.services.Accounts.ResetPassword(cmd.Context(), args[0], password); err != nil {
					return fmt.Errorf("reset password for %s: %w", args[0], err)
				}
				e.log.Info("messctl: password reset", "email", args[0])
				printf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
				return nil
			})(cmd, args)
		},
	}
}

func promptPassword(cmd *cobra.Command, readPassword passwordReader) (string, error) {
	printf(cmd.ErrOrStderr(), "Enter password: ")
	raw, err := readPassword(int(syscall.Stdin))
	printf(cmd.ErrOrStderr(), "\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(string(raw), "\r\n")
	if password == "" {
		return "", errEmptyPassword
	}
	if err := account.ValidatePassword(password); err != nil {
		return "", err
	}
	return password, nil
}

func init() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		readPasswordFunc = readLine
	}
}

// readLine is used when stdin is piped, so scripts can feed the password.
func readLine(int) ([]byte, error) {
	line, err := bufio.NewReader(os.Stdin).ReadBytes('\n')
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return line, err
}
