package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"logreader-backend/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "logreader",
		Short: "Read, filter and clean up application log files",
		Long: `logreader parses timestamped application log files, lets you filter entries by
environment, level and class, and marks or deletes entries directly in the files.

Examples:
  logreader get --level ERROR,CRITICAL
  logreader detail 6f1c1f7e-0d5b-5a53-9a43-3d3c1f0f3c2a
  logreader delete --with-read
  logreader serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-path", "", "directory storing the log files (env LOG_READER_PATH)")
	flags.String("file-name", "", "glob of the log filenames (env LOG_READER_FILENAME)")
	flags.String("log-level", "", "diagnostic log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.BoolVarP(&a.withRead, "with-read", "r", false, "include log entries already marked as read")

	cmd.AddCommand(
		newGetCmd(a),
		newDetailCmd(a),
		newDeleteCmd(a),
		newMarkReadCmd(a),
		newFileListCmd(a),
		newRemoveFileCmd(a),
		newClassesCmd(a),
		newCollapseCmd(a),
		newServeCmd(a),
	)
	return cmd
}

var flagKeys = map[string]string{
	"log-path":  "LOG_READER_PATH",
	"file-name": "LOG_READER_FILENAME",
	"log-level": "LOG_LEVEL",
}

func (a *app) init(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

func setupLogging(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
}
