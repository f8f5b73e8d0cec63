package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell [SPEC]",
	Short: "Try specs against values in an interactive terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		initial := ""
		if len(args) == 1 {
			initial = args[0]
		}
		_, err = tea.NewProgram(newShellModel(a.scope, initial)).Run()
		return err
	},
}
