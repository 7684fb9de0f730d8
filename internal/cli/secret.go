package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/onboardly/internal/security"
)

func RunGenerateSecretCommand(stdout io.Writer) error {
	secret, err := security.NewSecretKey()
	if err != nil {
		return fmt.Errorf("generate secret key: %w", err)
	}
	fmt.Fprintf(stdout, "SECRET_KEY=%s\n", secret)
	return nil
}
