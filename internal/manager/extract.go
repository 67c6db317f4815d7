// ABOUTME: Extracts package names from raw package-manager install arguments
// ABOUTME: Per-manager rules: pip flag/path skipping, brew passthrough, npm version split

package manager

import "strings"

// pipValueFlags take a value in the following token, which must be skipped too.
var pipValueFlags = map[string]bool{
	"-r": true, "--requirement": true,
	"-e": true, "--editable": true,
	"-t": true, "--target": true,
	"-c": true, "--constraint": true,
}

// pipSpecifierChars start a version constraint or extras marker in a pip
// requirement ("flask[async]>=2.0").
const pipSpecifierChars = "[<>=!~"

// Extract returns the package names an install invocation would install,
// lowercased, in argument order. Returns nil when args contain no
// install-like subcommand.
func Extract(m Manager, args []string) []string {
	switch m {
	case Pip:
		return extractPip(args)
	case Brew:
		return extractBrew(args)
	case NPM:
		return extractNPM(args)
	default:
		return nil
	}
}

func extractPip(args []string) []string {
	rest, ok := afterSubcommand(args, "install")
	if !ok {
		return nil
	}

	var packages []string
	skipNext := false
	for _, arg := range rest {
		if skipNext {
			skipNext = false
			continue
		}

		if strings.HasPrefix(arg, "-") {
			if pipValueFlags[arg] {
				skipNext = true
			}
			continue
		}

		// Requirement files and local artifacts are not package names.
		if strings.Contains(arg, "/") || strings.HasSuffix(arg, ".txt") || strings.HasSuffix(arg, ".whl") {
			continue
		}

		name := arg
		if idx := strings.IndexAny(name, pipSpecifierChars); idx >= 0 {
			name = name[:idx]
		}
		if name != "" {
			packages = append(packages, strings.ToLower(name))
		}
	}
	return packages
}

func extractBrew(args []string) []string {
	rest, ok := afterSubcommand(args, "install")
	if !ok {
		return nil
	}

	var packages []string
	for _, arg := range rest {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		packages = append(packages, strings.ToLower(arg))
	}
	return packages
}

func extractNPM(args []string) []string {
	rest, ok := afterSubcommand(args, "install", "i", "add")
	if !ok {
		return nil
	}

	var packages []string
	for _, arg := range rest {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if name := npmName(arg); name != "" {
			packages = append(packages, strings.ToLower(name))
		}
	}
	return packages
}

// npmName strips a version specifier from an npm spec. Scoped packages keep
// their scope: the leading @ is not a version separator, only a later one is
// ("@scope/name@1.2.3" -> "@scope/name").
func npmName(spec string) string {
	if strings.HasPrefix(spec, "@") {
		if idx := strings.Index(spec[1:], "@"); idx >= 0 {
			return spec[:idx+1]
		}
		return spec
	}
	name, _, _ := strings.Cut(spec, "@")
	return name
}

// afterSubcommand returns the arguments following the first token matching
// any of the given subcommands, and whether one was found.
func afterSubcommand(args []string, subcommands ...string) ([]string, bool) {
	for i, arg := range args {
		for _, sub := range subcommands {
			if arg == sub {
				return args[i+1:], true
			}
		}
	}
	return nil, false
}
