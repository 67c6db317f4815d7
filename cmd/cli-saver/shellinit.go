// ABOUTME: shell-init subcommand: prints aliases routing pip/brew/npm through wrap
// ABOUTME: Detects the shell from $SHELL when not given explicitly

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const posixAliases = `
# CLI Saver aliases
pip() { cli-saver wrap pip "$@"; }
brew() { cli-saver wrap brew "$@"; }
npm() { cli-saver wrap npm "$@"; }
`

const fishAliases = `
# CLI Saver aliases
function pip
    cli-saver wrap pip $argv
end

function brew
    cli-saver wrap brew $argv
end

function npm
    cli-saver wrap npm $argv
end
`

// runShellInit prints shell configuration for wrapping the managers.
func runShellInit(args []string) error {
	fs := flag.NewFlagSet("shell-init", flag.ContinueOnError)
	shell := fs.String("shell", "", "Shell type: bash, zsh, or fish")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := *shell
	if name == "" {
		name = detectShell(os.Getenv("SHELL"))
	}

	switch name {
	case "fish":
		fmt.Print(fishAliases)
	case "bash", "zsh":
		fmt.Print(posixAliases)
	default:
		return fmt.Errorf("unknown shell %q: expected bash, zsh, or fish", name)
	}
	return nil
}

// detectShell maps a $SHELL path to a shell name, defaulting to bash.
func detectShell(shellPath string) string {
	switch {
	case strings.Contains(shellPath, "zsh"):
		return "zsh"
	case strings.Contains(shellPath, "fish"):
		return "fish"
	default:
		return "bash"
	}
}
