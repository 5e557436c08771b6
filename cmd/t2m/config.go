package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/t2m/internal/settings"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the settings as JSON",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "set key=value...",
			Short: "Change settings",
			Long:  "Set changes one or more settings. Keys: " + strings.Join(settings.Keys(), ", ") + ".",
			Args:  cobra.MinimumNArgs(1),
			RunE:  a.runConfigSet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				path, err := a.settingsPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, path)
				return nil
			},
		},
	)

	return cmd
}

func (a *app) runConfigShow(_ *cobra.Command, _ []string) error {
	s, _, err := a.loadSettings()
	if err != nil {
		return err
	}
	s.APIKey = maskKey(s.APIKey)

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func (a *app) runConfigSet(_ *cobra.Command, args []string) error {
	s, path, err := a.loadSettings()
	if err != nil {
		return err
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		if err := s.Set(key, value); err != nil {
			return err
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if err := settings.SaveTo(path, s); err != nil {
		return err
	}
	a.logger.Info("settings saved", "path", path, "keys", len(args))
	return nil
}

// maskKey hides all but the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}

	return "****" + key[len(key)-4:]
}
