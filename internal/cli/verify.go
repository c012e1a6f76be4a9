package cli

import (
	"fmt"
	"net/url"

	"github.com/certs365/certify-server/internal/certify"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <verification-url>",
	Short: "Verify a certificate QR payload",
	Long:  `Decode the q and iv parameters from a scanned verification URL and submit them for verification`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := url.Parse(args[0])
		if err != nil {
			return fmt.Errorf("could not parse verification URL: %w", err)
		}

		query := link.Query()
		request := certify.VerifyRequest{
			EncryptedData: query.Get("q"),
			IV:            query.Get("iv"),
		}
		if request.EncryptedData == "" || request.IV == "" {
			return fmt.Errorf("verification URL is missing the q or iv parameter")
		}

		var response certify.VerifyResponse
		if err := postJSON(cmd.Context(), "/api/verify-decrypt", request, &response); err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", response.Status, response.Message)
		if response.Data != nil {
			fmt.Printf("  certificate: %s\n", response.Data.CertificateNumber)
			fmt.Printf("  name:        %s\n", response.Data.Name)
			fmt.Printf("  course:      %s\n", response.Data.CourseName)
			fmt.Printf("  granted:     %s\n", response.Data.GrantDate)
			fmt.Printf("  expires:     %s\n", response.Data.ExpirationDate)
			fmt.Printf("  explorer:    %s\n", response.Data.PolygonURL)
		}

		if response.Status != certify.StatusPassed {
			return fmt.Errorf("verification failed")
		}
		return nil
	},
}
