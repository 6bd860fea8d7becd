package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const fileScheme = "file://"

// expandListArg returns values, or the lines of a file when values is a single
// "file://<path>". Surrounding whitespace and blank lines are dropped.
func expandListArg(values []string) ([]string, error) {
	if len(values) != 1 || !strings.HasPrefix(values[0], fileScheme) {
		return values, nil
	}

	path := strings.TrimPrefix(values[0], fileScheme)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file %s: %w", path, err)
	}
	return lines, nil
}

// expandListArgs expands every named list in place.
func expandListArgs(lists ...*[]string) error {
	for _, l := range lists {
		expanded, err := expandListArg(*l)
		if err != nil {
			return err
		}
		*l = expanded
	}
	return nil
}
