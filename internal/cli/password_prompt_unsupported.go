//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

func readSecretNoEcho(_ *os.File) (string, error) {
	return "", errEchoControlUnavailable
}
