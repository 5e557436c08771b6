package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/woozymasta/t2m/internal/settings"
)

// app carries state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// execute runs the CLI with args.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	a.v.SetEnvPrefix("T2M")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "t2m",
		Short:         "Generate Unity materials from text",
		Long:          "t2m asks a chat model for material properties and an image model for a seamless texture, derives a normal map and writes Unity assets.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.initLogging()
		},
	}

	root.PersistentFlags().String("config", "", "Settings file (default is the user config dir)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("env-file", ".env", "Dotenv file with OPENAI_API_KEY")
	a.bind(root.PersistentFlags(), [][2]string{
		{"config", "config"},
		{"log_level", "log-level"},
		{"env_file", "env-file"},
	})

	root.AddCommand(
		a.newGenerateCmd(),
		a.newParseCmd(),
		a.newNormalMapCmd(),
		a.newConfigCmd(),
	)

	return root
}

// bind binds viper keys to flags.
func (a *app) bind(fs *pflag.FlagSet, pairs [][2]string) {
	for _, p := range pairs {
		if err := a.v.BindPFlag(p[0], fs.Lookup(p[1])); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", p[1], err))
		}
	}
}

// initLogging configures the logger from --log-level.
func (a *app) initLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log_level"))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

// settingsPath returns the settings file location.
func (a *app) settingsPath() (string, error) {
	if p := strings.TrimSpace(a.v.GetString("config")); p != "" {
		return p, nil
	}

	return settings.Path()
}

// loadSettings reads the settings file.
func (a *app) loadSettings() (settings.Settings, string, error) {
	path, err := a.settingsPath()
	if err != nil {
		return settings.Settings{}, "", err
	}

	s, err := settings.LoadFrom(path)
	if err != nil {
		return settings.Settings{}, "", err
	}

	return s, path, nil
}
