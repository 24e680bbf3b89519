package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/syncproto"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode sync link bytes from stdin",
	Long: `Reads raw link traffic (for example a capture of the eyes node UART) and
prints one line per decoded event. Malformed tokens are reported on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		logger := logging.New(cmd.ErrOrStderr(), slog.LevelWarn)
		rx := syncproto.NewReceiver(cmd.InOrStdin(), config.Default().Link.MaxLine, func(e syncproto.Event) {
			fmt.Fprintf(out, "%s\t%d\n", e.Kind, e.Value)
		}, logger)
		rx.OnDrop = func(tok []byte) {
			logger.Warn("malformed token", "token", string(tok))
		}
		return rx.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
