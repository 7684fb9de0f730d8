package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const adminPasswordMinLength = 12

var (
	errAdminPasswordTooShort = fmt.Errorf("admin password must be at least %d characters", adminPasswordMinLength)
	errAdminPasswordMismatch = errors.New("passwords do not match")
)

// RunHashAdminPasswordCommand prompts for the admin password twice and
// prints the bcrypt hash to put into ADMIN_PASSWORD_HASH.
func RunHashAdminPasswordCommand(stdin *os.File, stdout io.Writer) error {
	password, err := promptSecret(stdin, stdout, "Admin password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirmation, err := promptSecret(stdin, stdout, "Repeat admin password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}

	hash, err := hashAdminPassword(password, confirmation)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ADMIN_PASSWORD_HASH=%s\n", hash)
	return nil
}

func hashAdminPassword(password string, confirmation string) (string, error) {
	if password != confirmation {
		return "", errAdminPasswordMismatch
	}
	if utf8.RuneCountInString(password) < adminPasswordMinLength {
		return "", errAdminPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}
