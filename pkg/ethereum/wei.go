package ethereum

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// weiPerEther is the scaling exponent between ether and wei.
const weiPerEther = 18

// ToWei converts a decimal ether amount to its exact wei representation.
// The conversion is pure integer scaling; amounts with more than 18
// fractional digits cannot be represented on chain and are rejected rather
// than rounded.
func ToWei(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal amount %q: %w", amount, err)
	}
	scaled := d.Shift(weiPerEther)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %q has sub-wei precision", amount)
	}
	return scaled.BigInt(), nil
}

// FormatWei renders a wei amount as a fixed four-decimal ETH display string,
// e.g. "0.1000 ETH". Only this final display step leaves integer arithmetic.
func FormatWei(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return decimal.NewFromBigInt(wei, -weiPerEther).StringFixed(4) + " ETH"
}
