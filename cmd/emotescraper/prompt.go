package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const promptText = "Emote index URL: "

// readURL reads one line from r and trims it. The prompt is written to w
// only when interactive is set.
func readURL(r io.Reader, w io.Writer, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(w, promptText)
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}

	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no URL given")
	}
	return url, nil
}

// isTerminal reports whether r is a terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
