package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markb/shoplite/internal/config"
	"github.com/markb/shoplite/internal/gate"
	"github.com/markb/shoplite/internal/prompt"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Shoplite settings",
	Long:  `Interactively configure Shoplite settings such as the admin credential.`,
}

var configAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Configure the admin credential",
	Long: `Interactively configure the admin username and password.

This will prompt for a username and password, derive the password digest,
and save both to shoplite.json. The plaintext password is discarded.`,
	RunE: runAdminConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configAdminCmd)
}

// runAdminConfig runs the interactive admin credential wizard
func runAdminConfig(cmd *cobra.Command, args []string) error {
	fmt.Println("===========================================")
	fmt.Println("Shoplite Admin Credential Wizard")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This wizard provisions the credential the admin API accepts.")
	fmt.Println()

	// Load existing config so other settings survive the save
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	username, err := prompt.Line("Admin username", true)
	if err != nil {
		return err
	}

	password, err := prompt.Password("Admin password")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if err := prompt.ConfirmPassword("Confirm password", password); err != nil {
		return err
	}

	cfg.AdminUsername = username
	cfg.AdminPasswordDigest = gate.Digest(password)

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("✓ Admin credential saved to %s\n", config.ConfigFile)
	fmt.Printf("  Username: %s\n", username)
	fmt.Println("  The password digest was stored; the password itself was not.")
	return nil
}
