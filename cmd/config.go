package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Render the resolved settings, masking the API key.
		settings := map[string]any{
			"db_path": viper.GetString("db_path"),
			"port":    viper.GetInt("port"),
			"anthropic": map[string]any{
				"api_key": maskSecret(viper.GetString("anthropic.api_key")),
				"model":   viper.GetString("anthropic.model"),
			},
			"ai": map[string]any{
				"summaries": viper.GetBool("ai.summaries"),
			},
			"cors": map[string]any{
				"allowed_origins": viper.GetStringSlice("cors.allowed_origins"),
			},
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}

		if file := viper.ConfigFileUsed(); file != "" {
			ui.Info("Config file: %s", file)
		}
		fmt.Fprint(ui.Out, string(data))
		return nil
	},
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
