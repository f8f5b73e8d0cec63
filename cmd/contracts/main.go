package main

import (
	"github.com/TRT-MichaelO/contracts/pkg/lib"
)

func main() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}
