// Package clipboard provides clipboard operations via platform-specific commands.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/foliopatch/folio"
)

// Ensure Command implements the Clipboard interface.
var _ folio.Clipboard = (*Command)(nil)

// Command implements Clipboard by piping content to the platform's
// clipboard utility: pbcopy on macOS, wl-copy or xclip on Linux.
type Command struct{}

// New returns a new Command clipboard.
func New() *Command {
	return &Command{}
}

// Copy writes content to the system clipboard.
func (c *Command) Copy(content string) error {
	name, args, err := clipboardCommand()
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}

func clipboardCommand() (string, []string, error) {
	if runtime.GOOS == "darwin" {
		return "pbcopy", nil, nil
	}
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy", nil, nil
	}
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip", []string{"-selection", "clipboard"}, nil
	}
	return "", nil, fmt.Errorf("no clipboard command found (need pbcopy, wl-copy, or xclip)")
}
