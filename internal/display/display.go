// ABOUTME: Terminal rendering of deals as bordered panels, plus the tip prompt
// ABOUTME: Lipgloss styling; interactive prompts gated on stdin being a TTY

package display

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mauromedda/cli-saver/internal/seed"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Faint(true)
)

// Renderer writes deal panels and prompts to a terminal.
type Renderer struct {
	out io.Writer
	in  io.Reader
}

// New returns a renderer writing to out and reading prompt answers from in.
func New(out io.Writer, in io.Reader) *Renderer {
	return &Renderer{out: out, in: in}
}

// NewTerminal returns a renderer on stdout/stdin.
func NewTerminal() *Renderer {
	return New(os.Stdout, os.Stdin)
}

// ShowDeal renders a deal panel. The raw text is shown verbatim, exactly as
// it appeared in the seed document.
func (r *Renderer) ShowDeal(deal seed.Deal) {
	title := titleStyle.Render(fmt.Sprintf("Found deal for %s!", deal.ProductName))
	panel := panelStyle.Render(title + "\n\n" + deal.RawText)
	fmt.Fprintf(r.out, "\n%s\n\n", panel)
}

// ShowDealListing renders a deal for the list subcommand, with the mapped
// package name in the title when present.
func (r *Renderer) ShowDealListing(deal seed.Deal) {
	title := titleStyle.Render(deal.ProductName)
	if deal.PackageName != "" {
		title += " " + dimStyle.Render("("+deal.PackageName+")")
	}
	panel := panelStyle.Render(title + "\n\n" + deal.RawText)
	fmt.Fprintf(r.out, "%s\n\n", panel)
}

// PromptPayment asks whether to tip one cent. Defaults to yes on an empty
// answer; returns false without prompting when stdin is not a terminal.
func (r *Renderer) PromptPayment() bool {
	if f, ok := r.in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false
	}

	fmt.Fprint(r.out, dimStyle.Render("Pay cli-saver 1¢ as a thank you?")+" [Y/n]: ")
	answer, err := bufio.NewReader(r.in).ReadString('\n')
	if err != nil {
		fmt.Fprintln(r.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// ShowThanks renders the post-payment thank you panel.
func (r *Renderer) ShowThanks() {
	body := titleStyle.Render("Thank you for your micropayment!") + "\n\n" +
		dimStyle.Render("Your support helps maintain cli-saver.")
	fmt.Fprintf(r.out, "\n%s\n", panelStyle.Render(body))
}
