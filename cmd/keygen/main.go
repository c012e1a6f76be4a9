// keygen is a CLI tool for generating the symmetric verification key as an
// "oct" JWK file for the KEY_PATH server setting.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	certifycrypto "github.com/certs365/certify-server/internal/crypto"
	"github.com/certs365/certify-server/internal/version"
	"github.com/spf13/cobra"
)

const keyFileNameFormat = "%s.jwk"

var (
	name      string
	outputDir string
	kid       string
	printHex  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "keygen",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Short:             "Verification key generator",
		Long:              "Generate an AES-256 key in JWK format for encrypting certificate verification payloads",
	}

	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new symmetric key",
		Long:  "Generate a new AES-256 key and save it as an oct JWK file",
		RunE:  runGenerate,
	}

	generateCmd.Flags().StringVarP(&name, "name", "n", "", "Key file base name (e.g. certify) [required]")
	generateCmd.Flags().StringVarP(&outputDir, "outputdir", "o", "", "Output directory for the generated key [required]")
	generateCmd.Flags().StringVarP(&kid, "kid", "k", "", "Key ID (default: same as the base name)")
	generateCmd.Flags().BoolVar(&printHex, "hex", false, "Also print the key as hex for the KEY_HEX setting")
	generateCmd.MarkFlagRequired("name")
	generateCmd.MarkFlagRequired("outputdir")

	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// make the directory if it doesn't exist
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	key, err := certifycrypto.GenerateSymmetricKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	keyID := kid
	if keyID == "" {
		keyID = name
	}

	filename := fmt.Sprintf(keyFileNameFormat, name)
	if err := certifycrypto.SaveSymmetricKeyToJWKFile(key, keyID, outputDir, filename); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	fmt.Printf("✓ JWK: %s/%s (kid: %s)\n", outputDir, filename, keyID)

	if printHex {
		fmt.Printf("KEY_HEX=%s\n", hex.EncodeToString(key))
	}

	return nil
}
