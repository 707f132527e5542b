package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/stripekit/internal/constants"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var (
		apiKey  string
		account string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the API key",
		Long: `Store the secret API key and, optionally, a default connected account
in the configuration file.

When --key is not given the key is read from the terminal without echo, or
from standard input when it is not a terminal.`,
		Example: `  stripe configure
  echo "$STRIPE_SECRET_KEY" | stripe configure
  stripe configure --key sk_test_... --account acct_123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				key, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				apiKey = key
			}

			config := loadConfig()

			err := setConfigValue(config, "api_key", apiKey)
			if err != nil {
				return err
			}

			if account != "" {
				config.Account = account
			}

			err = saveConfig(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return outputConfigUpdateResult(cmd, "Configured", "api_key", maskAPIKey(apiKey))
		},
	}

	cmd.Flags().StringVar(&apiKey, "key", "", "secret API key (prompted when omitted)")
	cmd.Flags().StringVar(&account, "account", "", "default connected account")

	return cmd
}

// readAPIKey prompts for the key on a terminal or reads one line of input.
func readAPIKey(input io.Reader, prompt io.Writer) (string, error) {
	if file, ok := input.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(prompt, "API key: ")

		keyBytes, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		return validateAPIKey(string(keyBytes))
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return validateAPIKey(line)
}

func validateAPIKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", constants.ErrEmptyAPIKey
	}

	return key, nil
}
