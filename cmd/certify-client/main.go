// certify-client is the CLI for issuing and verifying certificates against
// a running certify-server.
package main

import "github.com/certs365/certify-server/internal/cli"

func main() {
	cli.Execute()
}
