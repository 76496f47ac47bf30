package ethereum

import (
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/givechain/donation-middleware/pkg/ledger"
)

// SummarizeReceipt reduces a chain receipt to the fields the ledger keeps on
// terminal records.
func SummarizeReceipt(receipt *types.Receipt) *ledger.ReceiptSummary {
	if receipt == nil {
		return nil
	}
	summary := &ledger.ReceiptSummary{
		GasUsed: receipt.GasUsed,
		Success: receipt.Status == types.ReceiptStatusSuccessful,
	}
	if receipt.BlockNumber != nil {
		summary.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.EffectiveGasPrice != nil {
		summary.EffectiveGasPrice = receipt.EffectiveGasPrice.String()
	}
	return summary
}
