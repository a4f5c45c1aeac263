package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrPriceFeedNotFound is returned when no update has ever been
	// accepted for the queried asset identifier.
	ErrPriceFeedNotFound = errors.New("price feed not found")

	// ErrPriceFeedNotFoundWithinRange is returned by windowed parse
	// queries when no candidate publish time falls inside the window.
	ErrPriceFeedNotFoundWithinRange = errors.New("no price feed found within the requested time range")

	// ErrInsufficientFee is returned when the payment attached to an
	// update call is below the computed requirement.
	ErrInsufficientFee = errors.New("insufficient fee")

	// ErrPriceTooOld is returned when a stored price is older than the
	// caller's acceptable age.
	ErrPriceTooOld = errors.New("price is too old")
)

// RequirePriceFeedsError is returned when a price request is resolved
// without a matching pending entry, naming the unresolved id set.
type RequirePriceFeedsError struct {
	IDs []common.Hash
}

func (e *RequirePriceFeedsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.Hex()
	}

	return fmt.Sprintf("price feeds required: [%s]", strings.Join(ids, ", "))
}
