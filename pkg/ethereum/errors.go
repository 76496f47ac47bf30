package ethereum

import (
	"errors"
	"strings"

	apperrors "github.com/givechain/donation-middleware/pkg/app/errors"
)

// ErrSigningDeclined is returned by signer implementations when the user
// declines to sign. The built-in keyed transactor never prompts, so it never
// returns this; embedders that plug in an interactive wallet signer do.
var ErrSigningDeclined = errors.New("signing declined by user")

// classifySubmitError maps a pre-submission failure onto the service error
// taxonomy. Failures at this stage never produce a ledger record: either the
// node rejected the transaction outright or the signer declined it.
func classifySubmitError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSigningDeclined) || isUserRejection(err) {
		return apperrors.WalletRejectedError(err)
	}
	if isInsufficientFunds(err) {
		return apperrors.InsufficientFundsError(err)
	}
	return apperrors.DependencyError(err, "transaction submission failed")
}

// isInsufficientFunds matches the node-side balance check. geth reports this
// as a plain string over JSON-RPC, so a substring match is the best available
// signal.
func isInsufficientFunds(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient funds") ||
		strings.Contains(msg, "insufficient balance")
}

// isUserRejection matches wallet-provider rejection messages (EIP-1193 code
// 4001 surfaces as one of these strings depending on the provider).
func isUserRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") ||
		strings.Contains(msg, "user denied")
}
