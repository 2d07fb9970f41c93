package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Truella/Framez/internal/app"
)

var errSignedOut = errors.New("not signed in, run `framez signin` first")

// env is what one command invocation runs against.
type env struct {
	v   *viper.Viper
	app *app.App
}

func (e *env) open(ctx context.Context) error {
	a, err := app.New(app.Config{
		ServerURL: e.v.GetString("server"),
		DataDir:   e.v.GetString("data"),
		Timeout:   e.v.GetDuration("timeout"),
	})
	if err != nil {
		return err
	}
	e.app = a
	// a failed restore already signed the user out
	if err := a.Start(ctx); err != nil {
		log.Printf("[framez] restore session: %v", err)
	}
	return nil
}

func (e *env) close() {
	if e.app == nil {
		return
	}
	if err := e.app.Stop(); err != nil {
		log.Printf("[framez] close: %v", err)
	}
	e.app = nil
}

func (e *env) viewer() (string, error) {
	id := e.app.Viewer()
	if id == "" {
		return "", errSignedOut
	}
	return id, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "framez")
	}
	return ".framez"
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "framez",
		Short:         "Framez client: feed, posts, likes and saves from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.String("server", "http://localhost:8080", "API base URL")
	pf.String("data", defaultDataDir(), "directory for local preferences and session")
	pf.Duration("timeout", 3*time.Second, "per-request timeout")
	_ = e.v.BindPFlag("server", pf.Lookup("server"))
	_ = e.v.BindPFlag("data", pf.Lookup("data"))
	_ = e.v.BindPFlag("timeout", pf.Lookup("timeout"))
	e.v.SetEnvPrefix("framez")
	e.v.AutomaticEnv()

	root.AddCommand(
		newSignUpCmd(e), newSignInCmd(e), newSignOutCmd(e), newWhoAmICmd(e),
		newFeedCmd(e), newMineCmd(e), newSavedCmd(e),
		newLikeCmd(e), newSaveCmd(e), newPostCmd(e), newDeleteCmd(e),
		newThemeCmd(e),
	)
	return root
}

// execute runs one command line and closes whatever it opened, even on failure.
func execute(ctx context.Context, args []string, out io.Writer) error {
	e := &env{v: viper.New()}
	defer e.close()

	root := newRootCmd(e)
	root.SetArgs(args)
	if out != nil {
		root.SetOut(out)
		root.SetErr(out)
	}
	return root.ExecuteContext(ctx)
}

func main() {
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], nil); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
