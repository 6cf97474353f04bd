package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrSourceNotFound      = errors.Register(ModuleName, 1, "oracle source not found")
	ErrSourceInactive      = errors.Register(ModuleName, 2, "oracle source is inactive")
	ErrInvalidPrice        = errors.Register(ModuleName, 3, "invalid price")
	ErrInsufficientSources = errors.Register(ModuleName, 4, "insufficient price sources")
	ErrPriceUnavailable    = errors.Register(ModuleName, 5, "no aggregated price for denom")
	ErrAllPricesFiltered   = errors.Register(ModuleName, 6, "all prices filtered as outliers")
)
