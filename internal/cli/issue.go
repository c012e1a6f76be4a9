package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/certs365/certify-server/internal/certify"
	"github.com/spf13/cobra"
)

var qrOutPath string

var issueCmd = &cobra.Command{
	Use:   "issue <fields-file>",
	Short: "Issue a certificate",
	Long: `Issue a certificate from a JSON file containing the certificate fields:

  {
    "Certificate_Number": "C-2024-0001",
    "name": "Alice",
    "courseName": "Math",
    "Grant_Date": "01/02/2024",
    "Expiration_Date": "01/02/2025"
  }`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldsJSON, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("could not read fields file: %w", err)
		}

		var request certify.IssueRequest
		if err := json.Unmarshal(fieldsJSON, &request); err != nil {
			return fmt.Errorf("fields file is not valid JSON: %w", err)
		}

		var response certify.IssueResponse
		if err := postJSON(cmd.Context(), "/api/issue", request, &response); err != nil {
			return err
		}

		fmt.Printf("Issued certificate %s\n", response.Details.CertificateNumber)
		fmt.Printf("  transaction: %s\n", response.Details.TransactionHash)
		fmt.Printf("  hash:        %s\n", response.Details.CertificateHash)
		fmt.Printf("  explorer:    %s\n", response.PolygonLink)

		if qrOutPath != "" {
			if err := writeQRImage(response.QRCodeImage, qrOutPath); err != nil {
				return err
			}
			fmt.Printf("  qr image:    %s\n", qrOutPath)
		}

		return nil
	},
}

// writeQRImage decodes a PNG data URL and writes the image to path.
func writeQRImage(dataURL, path string) error {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		return fmt.Errorf("response QR image is not a PNG data URL")
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		return fmt.Errorf("could not decode QR image: %w", err)
	}

	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("could not write QR image: %w", err)
	}
	return nil
}

func init() {
	issueCmd.Flags().StringVarP(&qrOutPath, "qr-out", "q", "", "Write the QR code PNG to this file")
}
