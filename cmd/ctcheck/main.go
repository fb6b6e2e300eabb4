// Command ctcheck verifies the constant-time primitives of this module, by measuring their
// timing variance and by inspecting their compiled instructions.
package main

import (
	"errors"
	"os"

	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("check failed")

func newRootCommand() *cobra.Command {
	var debug, logFile bool

	root := &cobra.Command{
		Use:           "ctcheck",
		Short:         "Verify constant-time primitives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetLogOutput(cmd.ErrOrStderr())
			utils.LogFile = logFile
			if debug {
				utils.SetLogLevel(utils.GlobalLogLevel | utils.LogLevelNotice | utils.LogLevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug messages")
	root.PersistentFlags().BoolVar(&logFile, "log-file", false, "Log the source location of each message")

	root.AddCommand(newTimingCommand(), newDisasmCommand(), newCPUCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			utils.Errorf("ctcheck", "%s", err)
		}
		os.Exit(1)
	}
}
