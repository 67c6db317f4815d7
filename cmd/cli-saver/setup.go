// ABOUTME: Interactive setup and status subcommands for the optional integrations
// ABOUTME: Prompts for Nevermined and Proxlock API keys and stores them in config.json

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mauromedda/cli-saver/internal/config"
)

// runSetup interactively collects API keys. Empty answers keep existing keys.
func runSetup() error {
	dir := config.Dir()
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("CLI Saver Setup")
	fmt.Println()

	fmt.Println("Nevermined Integration (optional)")
	fmt.Println("This allows you to tip cli-saver when we find a discount code.")
	fmt.Println("Get your API key from: https://app.nevermined.io")
	if settings.NeverminedAPIKey != "" {
		fmt.Printf("Current key: %s\n", keyPreview(settings.NeverminedAPIKey))
	}
	if key := promptLine(reader, "Nevermined API Key (press Enter to skip): "); key != "" {
		settings.NeverminedAPIKey = key
		fmt.Println("Nevermined API key saved!")
	}
	fmt.Println()

	fmt.Println("Proxlock Integration (optional)")
	fmt.Println("This saves found discount codes securely to Proxlock.")
	fmt.Println("Get your API key from: https://app.proxlock.dev")
	if settings.ProxlockAPIKey != "" {
		fmt.Printf("Current key: %s\n", keyPreview(settings.ProxlockAPIKey))
	}
	if key := promptLine(reader, "Proxlock API Key (press Enter to skip): "); key != "" {
		settings.ProxlockAPIKey = key
		fmt.Println("Proxlock API key saved!")
	}
	fmt.Println()

	if err := settings.Save(dir); err != nil {
		return err
	}
	fmt.Println("Setup complete!")
	return nil
}

// runStatus reports which integrations are configured.
func runStatus() error {
	settings, err := config.LoadSettings(config.Dir())
	if err != nil {
		return err
	}

	fmt.Println("CLI Saver Status")
	fmt.Println()

	if key := settings.NeverminedKey(); key != "" {
		fmt.Printf("✓ Nevermined: Configured (%s)\n", keyPreview(key))
	} else {
		fmt.Println("○ Nevermined: Not configured")
	}

	if key := settings.ProxlockKey(); key != "" {
		fmt.Printf("✓ Proxlock: Configured (%s)\n", keyPreview(key))
	} else {
		fmt.Println("○ Proxlock: Not configured")
	}

	fmt.Println()
	fmt.Println("Run 'cli-saver setup' to configure integrations.")
	fmt.Println("Run 'source <(cli-saver shell-init)' to enable package manager wrapping.")
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// keyPreview shows just enough of a key to recognize it.
func keyPreview(key string) string {
	if len(key) <= 12 {
		return key[:min(len(key), 8)] + "..."
	}
	return key[:8] + "..." + key[len(key)-4:]
}
