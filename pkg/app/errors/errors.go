// Package errors contains helper functions and types to work with errors
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryNoError means no error occurred; exists so the zero value is not a real category.
	CategoryNoError Category = iota
	// CategoryValidation The caller supplied malformed input (bad campaign id,
	// non-positive amount). Rejected before any chain interaction.
	CategoryValidation
	// CategoryCampaignState The target campaign cannot accept the operation
	// (not approved, closed, or past its deadline). Rejected before any chain
	// interaction; the contract remains the final authority.
	CategoryCampaignState
	// CategoryWalletRejected The signer declined the transaction before
	// submission. No ledger record is created for the attempt.
	CategoryWalletRejected
	// CategoryInsufficientFunds The sending account cannot cover value plus gas.
	CategoryInsufficientFunds
	// CategoryChainRevert The contract rejected the transaction after
	// submission; the ledger record transitions to failed.
	CategoryChainRevert
	// CategoryReconciliation A confirmed receipt lacked the expected event data,
	// so off-chain bookkeeping may be incomplete. The chain write itself succeeded.
	CategoryReconciliation
	// CategoryOffChainMirror The best-effort backend mirror write failed after
	// on-chain confirmation. Logged only, never surfaced as a donation failure.
	CategoryOffChainMirror
	// CategoryDependencyFailure A dependent service (chain RPC, backend) is throwing errors
	CategoryDependencyFailure
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "CategoryValidation"
	case CategoryCampaignState:
		return "CategoryCampaignState"
	case CategoryWalletRejected:
		return "CategoryWalletRejected"
	case CategoryInsufficientFunds:
		return "CategoryInsufficientFunds"
	case CategoryChainRevert:
		return "CategoryChainRevert"
	case CategoryReconciliation:
		return "CategoryReconciliation"
	case CategoryOffChainMirror:
		return "CategoryOffChainMirror"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError represents service specific type that
// is used all over the services.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is implements the custom condition to check an error is equal to a service error
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category == cat {
		return true
	}
	return false
}

// IsRecoverable reports whether the caller can retry after correcting input
// or choosing a different campaign. Chain reverts count as recoverable, but
// only after inspecting the revert reason.
func IsRecoverable(err error) bool {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	switch svcErr.Category {
	case CategoryValidation, CategoryCampaignState, CategoryWalletRejected,
		CategoryInsufficientFunds, CategoryChainRevert:
		return true
	}
	return false
}

// GeneralError returns a general service error
// this error mesage sent to the user is "Internal Server Error"
// the error passed is logged in the logger
func GeneralError(err error) error {
	if err == nil {
		err = errors.New("internal server error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Internal Server Error",
		Err:      err,
	}
}

// ValidationError returns an error with category Validation
// the error message provided is returned to the user
// the error object provided is logged in logger
func ValidationError(err error, message string) error {
	if err == nil {
		err = errors.New("validation: " + message)
	}
	return &ServiceError{
		Category: CategoryValidation,
		Message:  message,
		Err:      err,
	}
}

// CampaignStateError returns an error with category CampaignState
// the error message provided is returned to the user
func CampaignStateError(err error, message string) error {
	if err == nil {
		err = errors.New("campaign state: " + message)
	}
	return &ServiceError{
		Category: CategoryCampaignState,
		Message:  message,
		Err:      err,
	}
}

// WalletRejectedError returns an error with category WalletRejected
func WalletRejectedError(err error) error {
	if err == nil {
		err = errors.New("transaction rejected by signer")
	}
	return &ServiceError{
		Category: CategoryWalletRejected,
		Message:  "Transaction rejected in wallet",
		Err:      err,
	}
}

// InsufficientFundsError returns an error with category InsufficientFunds
func InsufficientFundsError(err error) error {
	if err == nil {
		err = errors.New("insufficient funds")
	}
	return &ServiceError{
		Category: CategoryInsufficientFunds,
		Message:  "Insufficient funds for transaction",
		Err:      err,
	}
}

// ChainRevertError returns an error with category ChainRevert
// the error message provided is returned to the user
func ChainRevertError(err error, message string) error {
	if err == nil {
		err = errors.New("chain revert: " + message)
	}
	return &ServiceError{
		Category: CategoryChainRevert,
		Message:  message,
		Err:      err,
	}
}

// ReconciliationError returns an error with category Reconciliation
// the error message provided is returned to the user
func ReconciliationError(err error, message string) error {
	if err == nil {
		err = errors.New("reconciliation: " + message)
	}
	return &ServiceError{
		Category: CategoryReconciliation,
		Message:  message,
		Err:      err,
	}
}

// OffChainMirrorError returns an error with category OffChainMirror.
// Callers log these at the boundary and never propagate them as donation
// failures.
func OffChainMirrorError(err error, message string) error {
	if err == nil {
		err = errors.New("off-chain mirror: " + message)
	}
	return &ServiceError{
		Category: CategoryOffChainMirror,
		Message:  message,
		Err:      err,
	}
}

// DependencyError returns an error with category DependencyFailure
func DependencyError(err error, message string) error {
	if err == nil {
		err = errors.New("dependency failure: " + message)
	}
	return &ServiceError{
		Category: CategoryDependencyFailure,
		Message:  message,
		Err:      err,
	}
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryCampaignState:
		return http.StatusConflict
	case CategoryWalletRejected:
		return http.StatusForbidden
	case CategoryInsufficientFunds:
		return http.StatusPaymentRequired
	case CategoryChainRevert:
		return http.StatusUnprocessableEntity
	case CategoryReconciliation, CategoryOffChainMirror, CategoryDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
