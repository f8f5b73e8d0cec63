package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the " + appName + " config directory",
	Long:  "Commands for initialising and inspecting the " + appName + " config directory.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# config dir: %s\n", a.configDir)
		for _, d := range a.libraryDirs() {
			fmt.Fprintf(w, "# library dir: %s\n", d)
		}
		s := a.settings
		s.Scope = a.scope
		data, err := encodeSettings(s)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
