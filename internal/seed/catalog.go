// ABOUTME: Product catalog: known product names and product-to-package mappings
// ABOUTME: Compiled-in defaults, overridable from a YAML file in the config dir

package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping ties a product to the package that installs it.
type Mapping struct {
	Package string `yaml:"package"`
	Manager string `yaml:"manager"`
}

// Catalog holds the product names the parser recognizes as section headers
// and the mapping from normalized product keys to packages.
type Catalog struct {
	Products []string           `yaml:"products"`
	Packages map[string]Mapping `yaml:"packages"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Products: []string{
			"Nevermined",
			"CrewAI",
			"AI-Native IDE",
			"Rilo",
			"OpenAI",
			"ProxLock",
			"Proxlock",
			"Kalibr Intelligence",
			"Apify",
			"Minimax",
			"FlipECommerce",
		},
		Packages: map[string]Mapping{
			"crewai":     {Package: "crewai", Manager: "pip"},
			"apify":      {Package: "apify", Manager: "pip"},
			"openai":     {Package: "openai", Manager: "pip"},
			"proxlock":   {Package: "proxlock", Manager: "pip"},
			"nevermined": {Package: "nevermined-payments", Manager: "pip"},
			"minimax":    {Package: "minimax", Manager: "pip"},
		},
	}
}

// LoadCatalog reads a catalog from a YAML file. A missing file yields the
// built-in defaults.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}
	if c.Packages == nil {
		c.Packages = map[string]Mapping{}
	}
	return c, nil
}

// Lookup returns the package mapping for a product name, keyed by its
// normalized form.
func (c Catalog) Lookup(productName string) (Mapping, bool) {
	m, ok := c.Packages[productKey(productName)]
	return m, ok
}

// productKey normalizes a product name for mapping lookup: lowercase with
// spaces and hyphens removed ("AI-Native IDE" -> "ainativeide").
func productKey(name string) string {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	return key
}
