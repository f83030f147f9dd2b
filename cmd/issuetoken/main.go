// Command issuetoken prints an admin API access token for a stored user.
// It reads the same environment as the server and never runs migrations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtroode/daycare-server/internal/config"
	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/repository/postgres"
	"github.com/dtroode/daycare-server/internal/service"
	"github.com/dtroode/daycare-server/internal/token"
)

// issuer signs a token for the user with the given email.
type issuer interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

// newRootCmd builds the command. connect is called once flags are parsed.
func newRootCmd(connect func(ctx context.Context) (issuer, func(), error)) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "issuetoken --email <address>",
		Short: "Print an access token for a stored user",
		Long: `Look up a user by email and print a signed access token carrying that
user's role. The token is signed with JWT_SECRET and expires after 15 minutes.`,
		Args:         cobra.NoArgs,
		Example:      `  issuetoken --email admin@example.com`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			iss, closeFn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			raw, err := iss.IssueToken(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email of the user to issue the token for")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func connectFromEnv(ctx context.Context) (issuer, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	lg := logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	conn, err := postgres.NewConection(ctx, cfg.Database.DSN, postgres.ConnectionOptions{MaxConns: 1})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos := postgres.NewRepositories(conn.DB())

	iss := service.NewTokens(repos.Users, token.NewJWT(cfg.JWT.Secret), lg)
	return iss, func() { _ = conn.Close() }, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(connectFromEnv).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
