package main

import (
	"fmt"
	"os"
)

// Credential acquisition is a separate phase that completes before any batch
// state exists; the orchestrator receives the token as a plain argument.

// acquireToken resolves the Google bearer token: the --access-token flag
// wins, then the GOOGLE_ACCESS_TOKEN environment variable.
func acquireToken(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if token := os.Getenv("GOOGLE_ACCESS_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("access token required: use --access-token flag or GOOGLE_ACCESS_TOKEN environment variable")
}

// acquireAPIKey resolves the Anthropic API key: the --api-key flag wins,
// then the ANTHROPIC_API_KEY environment variable.
func acquireAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
}
