// Package cli implements gjcli, a command-line client for the journal server.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/client/api"
	"github.com/dmitrijs2005/gophjournal/internal/client/tokenstore"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/spf13/cobra"
)

const (
	DefaultServer = "http://localhost:8080"
	serverEnvVar  = "GOPHJOURNAL_SERVER"
)

// Seams for tests.
var (
	getPassword     = GetPassword
	openTokenStore  = tokenstore.Default
	newClientForURL = func(server string) *api.Client { return api.NewClient(server, nil) }
)

type App struct {
	server string
	in     *bufio.Reader
	out    io.Writer
	store  *tokenstore.Store
	client *api.Client
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{in: bufio.NewReader(in), out: out}
}

// NewRootCmd builds the command tree. Every subcommand shares the App so the
// session is loaded once in PersistentPreRunE.
func (a *App) NewRootCmd() *cobra.Command {
	defaultServer := DefaultServer
	if v, ok := os.LookupEnv(serverEnvVar); ok && v != "" {
		defaultServer = v
	}

	root := &cobra.Command{
		Use:           "gjcli",
		Short:         "Command-line client for the journal server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.PersistentFlags().StringVar(&a.server, "server", defaultServer, "journal server base URL")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.summaryCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *App) init() error {
	if a.store == nil {
		s, err := openTokenStore()
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		a.store = s
	}

	a.client = newClientForURL(a.server)

	tok, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	a.client.SetToken(tok)
	return nil
}

// explain turns API errors into short user-facing messages.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrInvalidToken):
		return errors.New("not logged in or session expired, run 'gjcli login'")
	case errors.Is(err, common.ErrorUnauthorized):
		return errors.New("invalid credentials")
	case errors.Is(err, common.ErrorAlreadyExists):
		return errors.New("user already exists")
	case errors.Is(err, common.ErrorNotFound):
		return errors.New("not found")
	case errors.Is(err, common.ErrorExportDisabled):
		return errors.New("export is not enabled on the server")
	}
	return err
}
