package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markb/shoplite/internal/config"
	"github.com/markb/shoplite/internal/gate"
	"github.com/markb/shoplite/internal/prompt"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin credential",
	Long:  `Manage the stored admin credential used by the Basic-Auth gate.`,
}

var adminDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Compute a password digest for provisioning",
	Long: `Compute the base64 SHA-512 digest of a password.

The digest is what Shoplite stores and compares against at request time;
the plaintext password is never persisted. Put the printed value in
shoplite.json as "admin_password_digest" or export it as
SHOPLITE_ADMIN_PASSWORD_DIGEST.`,
	RunE: runAdminDigest,
}

var adminVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a password against the configured digest",
	Long: `Check a password against the configured admin password digest.

Useful to confirm a credential was provisioned correctly: the gate and this
command use the same digest routine, so a match here means the gate will
accept the password.`,
	RunE: runAdminVerify,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminDigestCmd)
	adminCmd.AddCommand(adminVerifyCmd)
}

// runAdminDigest prompts for a password and prints its digest
func runAdminDigest(cmd *cobra.Command, args []string) error {
	password, err := prompt.Password("Password")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if err := prompt.ConfirmPassword("Confirm password", password); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(gate.Digest(password))
	return nil
}

// runAdminVerify checks a password against the configured digest
func runAdminVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AdminPasswordDigest == "" {
		return fmt.Errorf("no admin password digest is configured")
	}

	password, err := prompt.Password("Password")
	if err != nil {
		return err
	}

	if !gate.Verify(password, cfg.AdminPasswordDigest) {
		return fmt.Errorf("password does not match the configured digest")
	}

	fmt.Println("✓ Password matches the configured digest.")
	return nil
}
