package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/noteforge/internal/keyring"
)

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic,gemini" help:"Service name (openai, anthropic or gemini)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, strings.TrimSpace(c.Secret)); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	for _, apiKey := range keyring.AllAPIKeys() {
		status := "not set"
		if keyring.IsSet(apiKey) {
			status = "configured"
		}

		fmt.Printf("%s: %s\n", apiKey.DisplayName(), status)
	}

	fmt.Println("\nTranscription needs openai; summaries need the key of SUMMARY_PROVIDER (anthropic by default).")
	fmt.Println("Run 'noteforge config set-key <service> <key>' to configure.")

	return nil
}
