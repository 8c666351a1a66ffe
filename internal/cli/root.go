package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "umago",
	Short: "UMA 2.0 authorization server",
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(cmdServe(), cmdKeys(), cmdTicket(), cmdVersion())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Println("Use -h for help, for example: umago serve --config config.yaml")
	}
}
