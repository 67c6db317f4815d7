// ABOUTME: Package manager identity: closed enum for pip, brew, npm
// ABOUTME: Single dispatch point so adding a manager is a localized change

package manager

import "fmt"

// Manager identifies a supported package manager.
type Manager int

const (
	Pip Manager = iota
	Brew
	NPM
)

// String returns the executable name of the manager.
func (m Manager) String() string {
	switch m {
	case Pip:
		return "pip"
	case Brew:
		return "brew"
	case NPM:
		return "npm"
	default:
		return "unknown"
	}
}

// All lists every supported manager.
func All() []Manager {
	return []Manager{Pip, Brew, NPM}
}

// Parse converts a manager name to a Manager.
func Parse(s string) (Manager, error) {
	switch s {
	case "pip":
		return Pip, nil
	case "brew":
		return Brew, nil
	case "npm":
		return NPM, nil
	default:
		return 0, fmt.Errorf("unknown package manager %q: expected pip, brew, or npm", s)
	}
}
