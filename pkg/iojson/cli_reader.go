package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a JSON document named by a --file flag, or read from
// stdin when the flag is empty.
type FileReader[T any] struct {
	fileFlagValue string
	stdin         io.Reader
	isTerminal    func() bool
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided, or with -)",
		Destination: &fr.fileFlagValue,
	}
}

// Read decodes the input into a T.
func (fr *FileReader[T]) Read() (T, error) {
	var zero T

	if fr.fileFlagValue != "" && fr.fileFlagValue != "-" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return zero, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if fr.terminal() {
		return zero, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	}
	return Decode[T](fr.input())
}

func (fr *FileReader[T]) input() io.Reader {
	if fr.stdin != nil {
		return fr.stdin
	}
	return os.Stdin
}

func (fr *FileReader[T]) terminal() bool {
	if fr.isTerminal != nil {
		return fr.isTerminal()
	}
	if fr.stdin != nil {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
