//go:build windows

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func readSecretNoEcho(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	handle := windows.Handle(stdin.Fd())
	var original uint32
	if err := windows.GetConsoleMode(handle, &original); err != nil {
		return "", fmt.Errorf("%w: %v", errEchoControlUnavailable, err)
	}

	if err := windows.SetConsoleMode(handle, original&^windows.ENABLE_ECHO_INPUT); err != nil {
		return "", fmt.Errorf("%w: %v", errEchoControlUnavailable, err)
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, original)
	}()

	return bufferedLine(stdin)
}
