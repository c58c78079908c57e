package main

import (
	"fmt"
	"os"

	"github.com/basket/searchgate/internal/config"
)

var validProviders = map[string]bool{
	"brave": true, "perplexity": true, "bocha": true,
}

// runSetKeyCommand stores a provider credential in config.yaml. The key
// value is never echoed back.
func runSetKeyCommand(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: searchgate set-key <provider> <key>")
		return 2
	}
	provider, key := args[0], args[1]
	if !validProviders[provider] {
		fmt.Fprintf(os.Stderr, "unknown provider %q (use brave, perplexity, or bocha)\n", provider)
		return 2
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "key must not be empty")
		return 2
	}

	if err := config.SetAPIKey(config.HomeDir(), provider, key); err != nil {
		fmt.Fprintf(os.Stderr, "set-key: %v\n", err)
		return 1
	}
	fmt.Printf("stored %s key in %s\n", provider, config.ConfigPath(config.HomeDir()))
	return 0
}
