package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/pkg/config"
)

// receiptPollInterval is how often WaitMined re-checks for a receipt.
const receiptPollInterval = 4 * time.Second

// Client wraps an Ethereum RPC connection and the bound DonationCampaign
// contract.
type Client struct {
	config     *config.EthereumConfig
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	logger     *zap.Logger

	contractAddress common.Address
	contract        *bind.BoundContract
	contractABI     abi.ABI
}

// NewClient connects to the configured RPC endpoint and binds the
// DonationCampaign contract.
func NewClient(cfg *config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.SenderPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(donationCampaignABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse campaign ABI: %w", err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	contractAddress := common.HexToAddress(cfg.CampaignContract)
	contract := bind.NewBoundContract(contractAddress, parsed, client, client, client)

	logger.Info("Connected to Ethereum",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("campaign_contract", contractAddress.Hex()),
		zap.String("sender_address", address.Hex()))

	return &Client{
		config:          cfg,
		client:          client,
		privateKey:      privateKey,
		address:         address,
		logger:          logger,
		contractAddress: contractAddress,
		contract:        contract,
		contractABI:     parsed,
	}, nil
}

// Close closes the RPC connection.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// SenderAddress returns the address transactions are signed with.
func (c *Client) SenderAddress() common.Address {
	return c.address
}

// transactor returns a signer with the next pending nonce assigned and the
// configured gas limit and price cap applied.
func (c *Client) transactor(ctx context.Context) (*bind.TransactOpts, error) {
	chainID := big.NewInt(c.config.ChainID)

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	auth.Context = ctx
	auth.Nonce = big.NewInt(int64(nonce))
	auth.GasLimit = c.config.GasLimit

	if c.config.MaxGasPrice != "" {
		maxGasPrice := new(big.Int)
		maxGasPrice.SetString(c.config.MaxGasPrice, 10)

		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		if gasPrice.Cmp(maxGasPrice) > 0 {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", maxGasPrice.String()))
			auth.GasPrice = maxGasPrice
		} else {
			auth.GasPrice = gasPrice
		}
	}

	return auth, nil
}

// SubmitDonation submits a payable donate call and returns the pending hash.
func (c *Client) SubmitDonation(ctx context.Context, campaignID *big.Int, valueWei *big.Int) (common.Hash, error) {
	auth, err := c.transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	auth.Value = valueWei

	tx, err := c.contract.Transact(auth, "donate", campaignID)
	if err != nil {
		return common.Hash{}, classifySubmitError(err)
	}

	c.logger.Info("Donation transaction submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("campaign_id", campaignID.String()),
		zap.String("value_wei", valueWei.String()))

	return tx.Hash(), nil
}

// SubmitCreateCampaign submits a createCampaign call and returns the pending hash.
func (c *Client) SubmitCreateCampaign(ctx context.Context, title, description string, goalWei, durationDays *big.Int) (common.Hash, error) {
	auth, err := c.transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := c.contract.Transact(auth, "createCampaign", title, description, goalWei, durationDays)
	if err != nil {
		return common.Hash{}, classifySubmitError(err)
	}

	c.logger.Info("Campaign creation transaction submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("title", title),
		zap.String("goal_wei", goalWei.String()))

	return tx.Hash(), nil
}

// ApproveCampaign submits an owner-only approval transaction.
func (c *Client) ApproveCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	return c.submitSimple(ctx, "approveCampaign", campaignID)
}

// CloseCampaign submits an owner-only closure transaction.
func (c *Client) CloseCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	return c.submitSimple(ctx, "closeCampaign", campaignID)
}

// WithdrawFunds submits a campaign-owner withdrawal transaction.
func (c *Client) WithdrawFunds(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	return c.submitSimple(ctx, "withdrawFunds", campaignID)
}

func (c *Client) submitSimple(ctx context.Context, method string, campaignID *big.Int) (common.Hash, error) {
	auth, err := c.transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := c.contract.Transact(auth, method, campaignID)
	if err != nil {
		return common.Hash{}, classifySubmitError(err)
	}

	c.logger.Info("Transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("campaign_id", campaignID.String()))

	return tx.Hash(), nil
}

// GetCampaignByID reads the campaign tuple from the chain.
func (c *Client) GetCampaignByID(ctx context.Context, campaignID *big.Int) (*Campaign, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaignById", campaignID)
	if err != nil {
		return nil, fmt.Errorf("getCampaignById: %w", err)
	}
	campaign := abi.ConvertType(out[0], new(Campaign)).(*Campaign)
	return campaign, nil
}

// GetAllCampaigns reads every campaign tuple from the chain.
func (c *Client) GetAllCampaigns(ctx context.Context) ([]Campaign, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllCampaigns")
	if err != nil {
		return nil, fmt.Errorf("getAllCampaigns: %w", err)
	}
	campaigns := *abi.ConvertType(out[0], new([]Campaign)).(*[]Campaign)
	return campaigns, nil
}

// GetCampaignDonations reads the donation list for one campaign.
func (c *Client) GetCampaignDonations(ctx context.Context, campaignID *big.Int) ([]Donation, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaignDonations", campaignID)
	if err != nil {
		return nil, fmt.Errorf("getCampaignDonations: %w", err)
	}
	donations := *abi.ConvertType(out[0], new([]Donation)).(*[]Donation)
	return donations, nil
}

// TransactionReceipt returns the receipt for a hash, or ethereum.NotFound
// while the transaction is still in flight.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, hash)
}

// WaitMined polls for the receipt of hash until it lands or ctx is
// canceled. There is deliberately no internal timeout: a transaction may sit
// in the mempool indefinitely and callers decide how long to wait.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			c.logger.Debug("Receipt lookup failed, retrying",
				zap.String("tx_hash", hash.Hex()),
				zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// CampaignIDFromReceipt extracts the campaign id from the CampaignCreated
// event in a confirmed receipt. A missing event indicates a contract/ABI
// mismatch and is reported as an error rather than a zero id.
func (c *Client) CampaignIDFromReceipt(receipt *types.Receipt) (*big.Int, error) {
	eventID := c.contractABI.Events["CampaignCreated"].ID
	for _, log := range receipt.Logs {
		if log.Address != c.contractAddress {
			continue
		}
		if len(log.Topics) < 2 || log.Topics[0] != eventID {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[1].Bytes()), nil
	}
	return nil, fmt.Errorf("receipt %s contains no CampaignCreated event", receipt.TxHash.Hex())
}
