package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNotConfirmed = errors.New("cancelled by the user")

// confirmOnTerminal asks a yes/no question on the terminal.
// Without a terminal there is nobody to ask, so it refuses.
func confirmOnTerminal(out io.Writer, question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("stdin is not a terminal; pass --yes to skip confirmation")
	}
	return askYesNo(os.Stdin, out, question)
}

func askYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// confirmOrSkip returns errNotConfirmed unless yes is set or the user agrees.
func confirmOrSkip(out io.Writer, yes bool, question string) error {
	if yes {
		return nil
	}
	ok, err := confirm(out, question)
	if err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}
