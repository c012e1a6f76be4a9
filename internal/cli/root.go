// Package cli implements the certify-client command line tool for issuing
// and verifying certificates against a running certify-server.
package cli

import (
	"fmt"
	"os"

	"github.com/certs365/certify-server/internal/version"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:               "certify-client",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Certificate issuance and verification CLI",
	Long:              `certify-client issues certificates and verifies QR payloads against a certify-server instance`,
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8000", "certify-server base URL")

	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(verifyCmd)
}
