// Package prompt provides interactive prompt functions for CLI wizards.
//
// Passwords are read with the terminal in raw mode so they never echo.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Line prompts the user for a single line of input and trims surrounding
// whitespace. If required is true, the user is reprompted until the input is
// non-empty.
func Line(prompt string, required bool) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s: ", prompt)

		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" && required {
			fmt.Println("A value is required.")
			continue
		}

		return input, nil
	}
}

// Password prompts the user for a password with input hidden.
func Password(prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Println() // Add newline after password input
	return string(password), nil
}

// ConfirmPassword prompts the user to re-enter a password until it matches,
// up to 3 attempts.
func ConfirmPassword(prompt string, password string) error {
	const maxAttempts = 3

	for i := 0; i < maxAttempts; i++ {
		confirm, err := Password(prompt)
		if err != nil {
			return err
		}

		if confirm == password {
			return nil
		}

		if i < maxAttempts-1 {
			fmt.Println("Passwords do not match. Please try again.")
		}
	}

	return fmt.Errorf("password confirmation failed after %d attempts", maxAttempts)
}
