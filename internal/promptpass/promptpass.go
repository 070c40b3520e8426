// Package promptpass reads a passphrase from the controlling terminal
// without echoing it, for interactive CLI runs. Grounded on
// golang.org/x/term, already part of the teacher's dependency tree via
// golang.org/x/crypto's module.
package promptpass

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// Prompt writes msg to out and reads a passphrase from the terminal backed
// by fd, with input echo disabled.
func Prompt(out io.Writer, fd int, msg string) ([]byte, error) {
	fmt.Fprint(out, msg)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("promptpass: reading passphrase: %w", err)
	}
	return pass, nil
}
