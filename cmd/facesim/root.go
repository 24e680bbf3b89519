package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is overridden at link time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "facesim",
	Short: "Terminal simulator for the animatronic face nodes",
	Long: `facesim wires the eyes node to the mouth node through an in-memory serial
link and renders both eyes and the mouth in the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of facesim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "facesim version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
