package main

import (
	"github.com/TRT-MichaelO/contracts/internal/logging"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/library"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir   string
	flagLibraryDirs []string
	flagScope       scopeFlag
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:   appName + " [command]",
	Short: "Check data against contract specs",
	Long: "Check YAML and JSON data against contract specs such as `list[N](list[N](number))`.\n\n" +
		"Variables are single letters: uppercase ones bind ints, lowercase ones bind\n" +
		"anything. The first occurrence binds, later occurrences must be equal.\n" +
		"Named specs are loaded from <config>/" + libraryDir + "/*.yml.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigDir, "config-dir", "",
		"config directory (default: $"+envConfigDir+", $XDG_CONFIG_HOME/"+appName+" or ~/.config/"+appName+")")
	pf.StringArrayVar(&flagLibraryDirs, "library-dir", nil,
		"additional directory to load named specs from (repeatable)")
	pf.VarP(&flagScope, "scope", "s", "name available to specs as !name (repeatable)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
}

// app is the resolved configuration shared by the commands.
type app struct {
	configDir string
	settings  Settings
	scope     contract.Context
}

// loadApp resolves the config directory, reads config.toml and configures
// logging. Every command calls it first.
func loadApp() (*app, error) {
	dir := flagConfigDir
	if dir == "" {
		var err error
		if dir, err = resolveConfigDir(); err != nil {
			return nil, err
		}
	}
	settings, err := loadSettings(appFs, dir)
	if err != nil {
		return nil, err
	}
	configureLogging(settings.Log)
	a := &app{
		configDir: dir,
		settings:  settings,
		scope:     mergeScope(settings.Scope, &flagScope),
	}
	log.Debug().Str("config_dir", dir).Strs("scope", a.scope.Symbols()).Msg("loaded config")
	return a, nil
}

func configureLogging(s LogSettings) {
	logging.Configure(logging.ProfileRuntime, func(cfg *logging.Config) {
		cfg.Timestamp = false
		cfg.NoColor = s.NoColor
		if lvl, ok := logging.ParseLevel(s.Level); ok {
			cfg.Level = lvl
		}
	})
	if lvl, ok := logging.ParseLevel(flagLogLevel); ok {
		log.Logger = log.Logger.Level(lvl)
		zerolog.SetGlobalLevel(lvl)
	}
}

func (a *app) parse(spec string) (contract.Contract, error) {
	return syntax.Parse(spec, syntax.WithScope(a.scope))
}

func (a *app) libraryDirs() []string {
	return resolveLibraryDirs(a.configDir, a.settings.Check.LibraryDirs, flagLibraryDirs)
}

func (a *app) library() (*library.Library, error) {
	return library.Load(appFs, a.libraryDirs(), syntax.WithScope(a.scope))
}

// completeSpecNames completes library spec names for --name.
func completeSpecNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := loadApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	lib, err := a.library()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, name := range lib.Names() {
		e, _ := lib.Get(name)
		out = append(out, name+"\t"+e.Spec)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
