package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

var rootCmd = &cobra.Command{
	Use:     "shoplite",
	Short:   "Shoplite - lightweight storefront backend",
	Long:    `A single-binary storefront backend with embedded PostgreSQL, a public product API, and a Basic-Auth-protected admin API.`,
	Version: Version,
}

func init() {
	versionTmpl := "shoplite version {{.Version}}"
	if BuildTime != "" {
		versionTmpl += " (built " + BuildTime
		if GitCommit != "" {
			versionTmpl += ", commit " + GitCommit
		}
		versionTmpl += ")"
	}
	versionTmpl += "\n"
	rootCmd.SetVersionTemplate(versionTmpl)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
