package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-showif/internal/logging"
)

type rootFlags struct {
	logLevel string
	verbose  bool
}

// isTerminal is swapped in tests.
var isTerminal = func(fd int) bool { return term.IsTerminal(fd) }

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "showif",
		Short:         "Evaluate ShowIf visibility rules and inspect conditional layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.EnvLevel)
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newEvalCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newEditCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// logger writes to the command's error stream, in console form when that
// stream is a terminal.
func (f *rootFlags) logger(cmd *cobra.Command) (*logging.Logger, error) {
	level := f.logLevel
	if f.verbose {
		level = "debug"
	}
	out := cmd.ErrOrStderr()
	return logging.New(logging.Options{
		Level:         level,
		HumanReadable: writerIsTerminal(out),
		Writer:        out,
	})
}

func writerIsTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return isTerminal(int(file.Fd()))
	}
	return false
}
