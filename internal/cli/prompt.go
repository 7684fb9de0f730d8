package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errEchoControlUnavailable = errors.New("terminal echo control unavailable")

// promptSecret asks for a value without echoing it. When stdin is not a
// terminal (a pipe in scripts and tests) the line is read as-is.
func promptSecret(stdin *os.File, stdout io.Writer, label string) (string, error) {
	fmt.Fprint(stdout, label)
	value, err := readSecretNoEcho(stdin)
	fmt.Fprintln(stdout)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, errEchoControlUnavailable) {
		return "", err
	}
	return readLine(stdin)
}

// readLine reads up to the next newline without buffering past it, so
// consecutive prompts can share one stdin.
func readLine(reader io.Reader) (string, error) {
	var line strings.Builder
	buffer := make([]byte, 1)
	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			if buffer[0] == '\n' {
				break
			}
			line.WriteByte(buffer[0])
		}
		if errors.Is(err, io.EOF) {
			if line.Len() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(line.String(), "\r"), nil
}

// bufferedLine is used once echo is off; the terminal delivers a whole line
// per read so the bufio look-ahead never swallows a later answer.
func bufferedLine(stdin *os.File) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
