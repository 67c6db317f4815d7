// ABOUTME: Seed document parser: segments free text into deal records
// ABOUTME: Line state machine keyed on catalog product names as section headers

package seed

import "strings"

// Deal is one promotional offer parsed from a seed document. RawText is the
// offer body verbatim; PackageName and PackageManager are set together when
// the product maps to a known package, and empty otherwise.
type Deal struct {
	ID             int64
	ProductName    string
	RawText        string
	PackageName    string
	PackageManager string
}

// Parser segments seed documents using an injected catalog.
type Parser struct {
	catalog Catalog
}

// NewParser returns a parser recognizing the catalog's product names.
func NewParser(catalog Catalog) *Parser {
	return &Parser{catalog: catalog}
}

// Parse extracts deals from a seed document, in document order. A section
// starts at a line whose cleaned content equals a known product name
// (case-insensitively) and runs until the next header or end of input.
// Sections with an empty body produce no deal. Parsing is total: any input
// yields zero or more deals, never an error.
func (p *Parser) Parse(content string) []Deal {
	var deals []Deal
	var currentProduct string
	var currentLines []string

	flush := func() {
		if currentProduct == "" {
			return
		}
		rawText := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if rawText == "" {
			return
		}
		deals = append(deals, p.newDeal(currentProduct, rawText))
	}

	for _, line := range strings.Split(content, "\n") {
		cleaned := cleanLine(line)

		if product, ok := p.matchProduct(cleaned); ok {
			flush()
			currentProduct = product
			currentLines = nil
			continue
		}

		if currentProduct != "" {
			// Blank lines are kept so the body round-trips its formatting.
			currentLines = append(currentLines, cleaned)
		}
	}
	flush()

	return deals
}

// matchProduct reports whether a cleaned line is a section header and returns
// the canonical product name from the catalog.
func (p *Parser) matchProduct(cleaned string) (string, bool) {
	for _, product := range p.catalog.Products {
		if strings.EqualFold(cleaned, product) {
			return product, true
		}
	}
	return "", false
}

// newDeal builds a deal, populating the package mapping when the product is
// in the catalog.
func (p *Parser) newDeal(productName, rawText string) Deal {
	deal := Deal{
		ProductName: productName,
		RawText:     rawText,
	}
	if m, ok := p.catalog.Lookup(productName); ok {
		deal.PackageName = m.Package
		deal.PackageManager = m.Manager
	}
	return deal
}

// invisibleRunes are zero-width and non-breaking characters that show up in
// copy-pasted seed text and must not defeat header matching.
var invisibleRunes = map[rune]bool{
	'\u200b': true, // zero-width space
	'\u200c': true, // zero-width non-joiner
	'\u200d': true, // zero-width joiner
	'\ufeff': true, // BOM
	'\u00a0': true, // non-breaking space
}

// cleanLine strips invisible characters, a leading run of non-printable
// characters, and surrounding whitespace.
func cleanLine(line string) string {
	cleaned := strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		return r
	}, line)

	// Drop leading decoration (bullets, control chars) up to the first
	// printable ASCII character.
	start := strings.IndexFunc(cleaned, func(r rune) bool {
		return r >= 0x20 && r <= 0x7e
	})
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(cleaned[start:])
}
