package main

import (
	"io"
	"os"
	"strings"
)

// readMessage reads the message body from r unless r is a terminal.
func readMessage(r *os.File) (string, error) {
	fi, err := r.Stat()
	if err != nil {
		return "", err
	}
	if fi.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
