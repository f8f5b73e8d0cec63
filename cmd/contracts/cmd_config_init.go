package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed cmd_config_init.toml
var initSettingsTOML []byte

//go:embed cmd_config_init_specs.yml
var initSpecsYAML []byte

const configInitSettingsHeader = "# " + appName + " settings\n" +
	"# Flags and $CONTRACTS_LOG_LEVEL override these values.\n\n"

const configInitSpecsHeader = "# " + appName + " library: named specs\n" +
	"# Use them with `" + appName + " check --name <name> FILE`.\n" +
	"# List them with `" + appName + " library`.\n\n"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise the " + appName + " config directory with starter files",
	Long: "Create the config directory and populate it with starter files.\n\n" +
		"Files created:\n" +
		"  <config>/" + settingsFile + "         settings\n" +
		"  <config>/" + libraryDir + "/specs.yml  named specs\n\n" +
		"The default config directory follows the same priority as the other commands:\n" +
		"  $CONTRACTS_CONFIG_DIR > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")
		interactive, _ := cmd.Flags().GetBool("interactive")

		if dir == "" {
			dir = flagConfigDir
		}
		if dir == "" {
			var err error
			if dir, err = resolveConfigDir(); err != nil {
				return err
			}
		}

		settings := initSettingsTOML
		if interactive {
			s, err := askSettings()
			if err != nil {
				return err
			}
			if settings, err = encodeSettings(s); err != nil {
				return err
			}
		}

		written, err := writeStarterFiles(appFs, dir, settings, force)
		if err != nil {
			return err
		}
		w := cmd.ErrOrStderr()
		fmt.Fprintf(w, "initialised %s\n", dir)
		for _, f := range written {
			fmt.Fprintf(w, "  %s\n", f)
		}
		fmt.Fprintf(w, "\nRun `%s library` to see the named specs.\n", appName)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite existing files")
	configInitCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
	configInitCmd.Flags().BoolP("interactive", "i", false, "ask for the settings instead of writing the defaults")
}

// writeStarterFiles writes config.toml and library/specs.yml under dir and
// returns their paths.
func writeStarterFiles(fsys afero.Fs, dir string, settings []byte, force bool) ([]string, error) {
	libDir := filepath.Join(dir, libraryDir)
	if err := fsys.MkdirAll(libDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", libDir, err)
	}
	settingsPath := filepath.Join(dir, settingsFile)
	specsPath := filepath.Join(libDir, "specs.yml")

	if err := writeInitFile(fsys, settingsPath, configInitSettingsHeader, settings, force); err != nil {
		return nil, err
	}
	if err := writeInitFile(fsys, specsPath, configInitSpecsHeader, initSpecsYAML, force); err != nil {
		return nil, err
	}
	return []string{settingsPath, specsPath}, nil
}

func writeInitFile(fsys afero.Fs, path, header string, content []byte, force bool) error {
	if !force {
		if exists, _ := afero.Exists(fsys, path); exists {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data := append([]byte(header), content...)
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// askSettings runs a small form for the settings most people change.
func askSettings() (Settings, error) {
	var s Settings
	s.Log.Level = "info"
	var extraDir string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("info", "debug", "warn", "error", "disabled")...).
				Value(&s.Log.Level),
			huh.NewConfirm().
				Title("Print variable bindings after successful checks?").
				Value(&s.Check.ShowBindings),
			huh.NewInput().
				Title("Extra library directory").
				Description("Optional; relative paths are relative to the config directory.").
				Value(&extraDir),
		),
	)
	if err := form.Run(); err != nil {
		return s, err
	}
	if extraDir != "" {
		s.Check.LibraryDirs = []string{extraDir}
	}
	return s, nil
}

func encodeSettings(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return buf.Bytes(), nil
}
