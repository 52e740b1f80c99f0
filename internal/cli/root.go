// Package cli is the terminal front end of the posts app. It shares the
// session store and the posts workflow with the web front end and keeps its
// token in a file under the user config directory.
package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/repository/filerepo"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sessionSlot = "default"

type app struct {
	apiURL    string
	configDir string
	timeout   time.Duration
	verbose   bool

	logger   *zap.Logger
	services *service.Service
	session  *service.SessionStore
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "postsctl",
		Short:         "Manage your posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", os.Getenv("API_BASE_URL"), "base URL of the posts API")
	flags.StringVar(&a.configDir, "config-dir", defaultConfigDir(), "directory holding the session token")
	flags.DurationVar(&a.timeout, "timeout", 10*time.Second, "timeout of a posts API call")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log posts API traffic to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.postsCmd(),
		a.viewCmd(),
		a.createCmd(),
		a.editCmd(),
		a.deleteCmd(),
	)

	return root
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".postsctl"
	}
	return filepath.Join(dir, "postsctl")
}

func (a *app) init(ctx context.Context) error {
	if a.apiURL == "" {
		return ErrAPIURLRequired
	}

	a.logger = zap.NewNop()
	if a.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = logger
	}

	api := client.New(a.logger, a.apiURL, a.timeout)
	a.services = service.New(a.logger, api, filerepo.New(a.configDir), 0)

	session, err := a.services.Sessions.Open(ctx, sessionSlot)
	if err != nil {
		return err
	}
	a.session = session

	return nil
}

// requireSession applies the route guard to a command.
func (a *app) requireSession() error {
	if service.Guard(a.session) != service.GuardAuthenticated {
		return ErrNotSignedIn
	}
	return nil
}

// check signs the session out when the posts API rejected the token.
func (a *app) check(ctx context.Context, err error) error {
	if errors.Is(err, service.ErrSessionExpired) {
		if logoutErr := a.session.Logout(ctx); logoutErr != nil {
			a.logger.Sugar().Errorf("failed to log out expired session: %s", logoutErr.Error())
		}
	}
	return err
}
