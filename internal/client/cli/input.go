package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed; a partial line at EOF is returned.
func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getPassword reads a password from the terminal without echo.
func getPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// The prompt*Field helpers show the current value and keep it when the user
// just presses Enter, so edit forms only require typing the fields that
// change.

func (a *App) promptStringField(label string, value *string) error {
	line, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, *value), a.out)
	if err != nil {
		return err
	}
	if line != "" {
		*value = line
	}
	return nil
}

func (a *App) promptIntField(label string, value *int) error {
	line, err := getSimpleText(a.reader, fmt.Sprintf("%s [%d]", label, *value), a.out)
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	*value = n
	return nil
}

func (a *App) promptInt64Field(label string, value *int64) error {
	line, err := getSimpleText(a.reader, fmt.Sprintf("%s [%d]", label, *value), a.out)
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	*value = n
	return nil
}

func (a *App) promptFloatField(label string, value *float64) error {
	line, err := getSimpleText(a.reader, fmt.Sprintf("%s [%g]", label, *value), a.out)
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	*value = f
	return nil
}

func (a *App) promptBoolField(label string, value *bool) error {
	line, err := getSimpleText(a.reader, fmt.Sprintf("%s (y/n) [%t]", label, *value), a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "":
	case "y", "yes", "true":
		*value = true
	case "n", "no", "false":
		*value = false
	default:
		return fmt.Errorf("%s: expected y or n", label)
	}
	return nil
}
