// Package ledger talks to the certificate registry contract on a
// Polygon-compatible chain.
//
// The contract records one entry per certificate: the combined field hash
// keyed by certificate number. Reads go through eth_call against the
// verifyCertificate view; writes submit a signed issueCertificate
// transaction and wait for it to be mined.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/certs365/certify-server/internal/crypto"
)

// registryABI covers the two contract methods the service uses.
const registryABI = `[
  {
    "name": "verifyCertificate",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "certificateHash", "type": "string"}],
    "outputs": [
      {"name": "exists", "type": "bool"},
      {"name": "certificateNumber", "type": "string"}
    ]
  },
  {
    "name": "issueCertificate",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "certificateNumber", "type": "string"},
      {"name": "certificateHash", "type": "string"}
    ],
    "outputs": []
  }
]`

// retryBackoff is the pause before the single retry of a failed RPC read.
const retryBackoff = 500 * time.Millisecond

// Config carries the connection and signing parameters for the registry
// contract client.
type Config struct {
	RPCURL           string
	ContractAddress  string
	IssuerAddress    string
	IssuerPrivateKey string
	ChainID          int64
	GasLimit         uint64

	// Timeout bounds every ledger operation, including waiting for an
	// issuance transaction to be mined.
	Timeout time.Duration
}

func parseRegistryABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(registryABI))
}

// Client is a registry contract client backed by an Ethereum JSON-RPC
// endpoint. It is safe for concurrent use.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
	abi      abi.ABI
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64
	timeout  time.Duration
}

// NewClient parses the signing key and contract ABI and dials the RPC
// endpoint. Dialing does not verify the endpoint is reachable; the first
// call does.
func NewClient(cfg Config) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address: %q", cfg.ContractAddress)
	}
	if !common.IsHexAddress(cfg.IssuerAddress) {
		return nil, fmt.Errorf("invalid issuer address: %q", cfg.IssuerAddress)
	}

	parsedABI, err := parseRegistryABI()
	if err != nil {
		return nil, fmt.Errorf("could not parse registry ABI: %w", err)
	}

	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(cfg.IssuerPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("could not parse issuer private key: %w", err)
	}

	from := ethcrypto.PubkeyToAddress(key.PublicKey)
	if from != common.HexToAddress(cfg.IssuerAddress) {
		return nil, fmt.Errorf("issuer private key does not match issuer address %s", cfg.IssuerAddress)
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("could not dial RPC endpoint: %w", err)
	}

	return &Client{
		eth:      eth,
		contract: common.HexToAddress(cfg.ContractAddress),
		abi:      parsedABI,
		key:      key,
		from:     from,
		chainID:  big.NewInt(cfg.ChainID),
		gasLimit: cfg.GasLimit,
		timeout:  cfg.Timeout,
	}, nil
}

// Verify looks up a combined hash on the registry contract. It returns
// whether the hash exists and, if so, the certificate number it was
// recorded under.
func (c *Client) Verify(ctx context.Context, hash string) (bool, string, error) {
	if err := crypto.ValidateHashHex(hash); err != nil {
		return false, "", fmt.Errorf("refusing to query ledger: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.abi.Pack("verifyCertificate", hash)
	if err != nil {
		return false, "", fmt.Errorf("could not pack verifyCertificate call: %w", err)
	}

	msg := ethereum.CallMsg{To: &c.contract, Data: data}

	output, err := retryOnce(ctx, func() ([]byte, error) {
		return c.eth.CallContract(ctx, msg, nil)
	})
	if err != nil {
		return false, "", fmt.Errorf("verifyCertificate call failed: %w", err)
	}

	return c.unpackVerifyOutput(output)
}

func (c *Client) unpackVerifyOutput(output []byte) (bool, string, error) {
	values, err := c.abi.Unpack("verifyCertificate", output)
	if err != nil {
		return false, "", fmt.Errorf("could not unpack verifyCertificate output: %w", err)
	}
	if len(values) != 2 {
		return false, "", fmt.Errorf("verifyCertificate returned %d values, want 2", len(values))
	}

	exists, ok := values[0].(bool)
	if !ok {
		return false, "", fmt.Errorf("verifyCertificate output[0] is %T, want bool", values[0])
	}
	number, ok := values[1].(string)
	if !ok {
		return false, "", fmt.Errorf("verifyCertificate output[1] is %T, want string", values[1])
	}

	return exists, number, nil
}

// Issue records a certificate number and combined hash on the registry
// contract and waits for the transaction to be mined. It returns the
// transaction hash of the successful commit.
func (c *Client) Issue(ctx context.Context, number, hash string) (string, error) {
	if err := crypto.ValidateHashHex(hash); err != nil {
		return "", fmt.Errorf("refusing to commit to ledger: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.abi.Pack("issueCertificate", number, hash)
	if err != nil {
		return "", fmt.Errorf("could not pack issueCertificate call: %w", err)
	}

	// nonce and gas price reads are retried; the send itself never is, so
	// a timed-out submission cannot double-commit
	nonce, err := retryOnce(ctx, func() (uint64, error) {
		return c.eth.PendingNonceAt(ctx, c.from)
	})
	if err != nil {
		return "", fmt.Errorf("could not fetch account nonce: %w", err)
	}

	gasPrice, err := retryOnce(ctx, func() (*big.Int, error) {
		return c.eth.SuggestGasPrice(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("could not fetch gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      c.gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("could not sign issueCertificate transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("could not send issueCertificate transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, signedTx)
	if err != nil {
		return "", fmt.Errorf("issueCertificate transaction %s not mined: %w", signedTx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("issueCertificate transaction %s reverted", signedTx.Hash().Hex())
	}

	return signedTx.Hash().Hex(), nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// retryOnce runs fn and, if it fails while the context is still live,
// pauses briefly and tries exactly once more.
func retryOnce[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err == nil {
		return result, nil
	}

	select {
	case <-ctx.Done():
		return result, err
	case <-time.After(retryBackoff):
	}

	return fn()
}
