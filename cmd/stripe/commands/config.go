package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/stripekit/internal/constants"
)

const (
	// ConfigDirName is the directory under $HOME holding the config file.
	ConfigDirName = ".stripekit"

	configFileName = "config.yml"
)

// Config represents the CLI configuration.
type Config struct {
	APIKey        string `json:"api_key,omitempty"         yaml:"api_key,omitempty"`
	APIBase       string `json:"api_base,omitempty"        yaml:"api_base,omitempty"`
	APIVersion    string `json:"api_version,omitempty"     yaml:"api_version,omitempty"`
	Account       string `json:"account,omitempty"         yaml:"account,omitempty"`
	Output        string `json:"output,omitempty"          yaml:"output,omitempty"`
	Retries       int    `json:"retries,omitempty"         yaml:"retries,omitempty"`
	EventsNATSURL string `json:"events_nats_url,omitempty" yaml:"events_nats_url,omitempty"`
}

// configKeys are the keys config set and unset accept.
var configKeys = []string{"api_key", "api_base", "api_version", "account", "output", "retries", "events_nats_url"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the stripe CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration. The API key is masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = maskAPIKey(config.APIKey)

			return render(cmd.OutOrStdout(), config, propertyTable([][]string{
				{"API Key", config.APIKey},
				{"API Base", valueOr(&config.APIBase, constants.DefaultBaseURL)},
				{"API Version", valueOr(&config.APIVersion, constants.DefaultAPIVersion)},
				{"Account", valueOr(&config.Account, constants.None)},
				{"Output", valueOr(&config.Output, constants.FormatTable)},
				{"Retries", strconv.Itoa(config.Retries)},
				{"Events NATS URL", valueOr(&config.EventsNATSURL, constants.None)},
				{"Config File", valueOr(ptr(viper.ConfigFileUsed()), constants.None)},
			}))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: api_key, api_base, api_version, account, output, retries, events_nats_url",
		Args:  cobra.ExactArgs(constants.KeyValueParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if key == "api_key" {
				value = maskAPIKey(value)
			}

			return outputConfigUpdateResult(cmd, "Set", key, value)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value so the default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config := loadConfig()

			err := unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd, "Unset", key, "")
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult(cmd, "Cleared", "all configuration", "")
		},
	}
}

func loadConfig() *Config {
	return &Config{
		APIKey:        viper.GetString("api_key"),
		APIBase:       viper.GetString("api_base"),
		APIVersion:    viper.GetString("api_version"),
		Account:       viper.GetString("account"),
		Output:        viper.GetString("output"),
		Retries:       viper.GetInt("retries"),
		EventsNATSURL: viper.GetString("events_nats_url"),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "api_key":
		if value == "" {
			return constants.ErrEmptyAPIKey
		}

		config.APIKey = value
	case "api_base":
		config.APIBase = value
	case "api_version":
		config.APIVersion = value
	case "account":
		config.Account = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			config.Output = value
		default:
			return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, value)
		}
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidRetries, value)
		}

		config.Retries = retries
	case "events_nats_url":
		config.EventsNATSURL = value
	default:
		return fmt.Errorf("%w: %s (valid keys: %v)", ErrUnknownConfigKey, key, configKeys)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "api_key":
		config.APIKey = ""
	case "api_base":
		config.APIBase = ""
	case "api_version":
		config.APIVersion = ""
	case "account":
		config.Account = ""
	case "output":
		config.Output = ""
	case "retries":
		config.Retries = 0
	case "events_nats_url":
		config.EventsNATSURL = ""
	default:
		return fmt.Errorf("%w: %s (valid keys: %v)", ErrUnknownConfigKey, key, configKeys)
	}

	return nil
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, configFileName), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func outputConfigUpdateResult(cmd *cobra.Command, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	rows := [][]string{{"Action", action}, {"Key", key}}

	if value != "" {
		result["value"] = value
		rows = append(rows, []string{"Value", value})
	}

	return render(cmd.OutOrStdout(), result, propertyTable(rows))
}

func ptr(value string) *string {
	return &value
}
