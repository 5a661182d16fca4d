package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/noarh/internal/application"
	"github.com/bnema/noarh/internal/domain"
	"github.com/spf13/cobra"
)

func newKeyCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys",
	}

	cmd.AddCommand(newKeySetCmd(state), newKeyShowCmd(state), newKeyClearCmd(state))

	return cmd
}

func newKeySetCmd(state *cliState) *cobra.Command {
	var provider string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a provider API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}
			if err := state.app.keys.SetAPIKey(cmd.Context(), p, value); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %s api key\n", p)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderOpenAI), "Provider (openai|gemini)")
	cmd.Flags().StringVar(&value, "value", "", "API key")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newKeyShowCmd(state *cliState) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved API key, masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}

			key, err := state.app.keys.APIKey(cmd.Context(), p)
			if err != nil {
				if errors.Is(err, domain.ErrSecretNotFound) {
					return fmt.Errorf("no %s api key configured", p)
				}
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p, application.MaskKey(key))
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderOpenAI), "Provider (openai|gemini)")

	return cmd
}

func newKeyClearCmd(state *cliState) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a stored API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}
			if err := state.app.keys.RemoveAPIKey(cmd.Context(), p); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s api key\n", p)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderOpenAI), "Provider (openai|gemini)")

	return cmd
}
