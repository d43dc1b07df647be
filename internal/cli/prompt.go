package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File
}

func newPrompter(cmd *cobra.Command) *prompter {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		p.file = f
	}
	return p
}

func (p *prompter) line(label string) string {
	fmt.Fprintf(p.out, "%s: ", label)
	text, _ := p.in.ReadString('\n')
	return strings.TrimSpace(text)
}

func (p *prompter) secret(label string) string {
	if p.file == nil || !term.IsTerminal(int(p.file.Fd())) {
		return p.line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, _ := term.ReadPassword(int(p.file.Fd()))
	fmt.Fprintln(p.out)
	return string(b)
}

// confirm asks a yes/no question; only y or yes accepts.
func (p *prompter) confirm(question string) bool {
	answer := strings.ToLower(p.line(question + " [y/N]"))
	return answer == "y" || answer == "yes"
}

// confirmDelete skips the question when --yes is set or confirm_delete is off.
func confirmDelete(cmd *cobra.Command, what string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	if cfg != nil && !cfg.ConfirmDelete {
		return true
	}
	if newPrompter(cmd).confirm(fmt.Sprintf("About to delete %s. Are you sure?", what)) {
		return true
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// dateFlag parses an optional YYYY-MM-DD flag.
func dateFlag(cmd *cobra.Command, name string) (model.Date, error) {
	v, _ := cmd.Flags().GetString(name)
	d, err := model.ParseDate(v)
	if err != nil {
		return model.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
