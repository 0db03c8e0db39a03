// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	verbosity int
	logPath   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "taco",
		Short: "Translate annotated code into relational specifications",
		Long: "taco translates classes annotated with contracts into a relational " +
			"specification checked by a bounded model finder, and derives the object " +
			"invariant query of the class under check.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if opts.logPath != "" {
				path = &opts.logPath
			}
			commonlog.Configure(opts.verbosity, path)
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity")
	cmd.PersistentFlags().StringVar(&opts.logPath, "log", "", "write the log to a file instead of stderr")

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newInitConfigCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if err != errReported {
			fmt.Fprintf(os.Stderr, "taco: %v\n", err)
		}
		os.Exit(1)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
