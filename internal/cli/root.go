// Package cli is the jobboard command line: the server and a terminal board client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/jobboard/internal/version"
)

// needsSession marks commands that talk to the board service.
const needsSession = "session"

// NewRootCmd builds the command tree. Each call gets its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "jobboard",
		Short: "Track job applications on a kanban board",
		Long: `jobboard runs the job application service (jobboard serve) and drives it
from the terminal: list the board, add and edit applications, move them
between columns and remove them.`,
		Version:       version.Info(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := cmd.Annotations[needsSession]; !ok {
				return nil
			}
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			s, err := newSession(v, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize client: %w", err)
			}
			cmd.SetContext(withSession(cmd.Context(), s))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.jobboard.yaml)")
	pf.String("api-url", "http://localhost:5000", "base URL of the jobboard service")
	pf.Duration("timeout", 10*time.Second, "overall deadline for one command")
	pf.BoolP("verbose", "v", false, "log gateway calls to stderr")

	v.SetEnvPrefix("JOBBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("api_url", pf.Lookup("api-url"))
	_ = v.BindPFlag("timeout", pf.Lookup("timeout"))
	_ = v.BindPFlag("verbose", pf.Lookup("verbose"))

	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newBoardCmd(),
		newShowCmd(),
		newAddCmd(),
		newEditCmd(),
		newMoveCmd(),
		newRmCmd(),
	)
	return root
}

// readConfig loads the optional YAML config file. A missing default file is fine.
func readConfig(v *viper.Viper, cfgFile string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".jobboard.yaml")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		}
		cancel()
		os.Exit(1)
	}
}
