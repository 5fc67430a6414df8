package host

import errorsmod "cosmossdk.io/errors"

// ModuleName is the codespace shared by identifier and path validation
// errors; every other package under core/ registers its own codespace
// following the same cosmossdk.io/errors pattern (spec §7).
const ModuleName = "ibc-24-host"

var (
	// ErrInvalidID is returned by every identifier validator in this package.
	ErrInvalidID = errorsmod.Register(ModuleName, 2, "invalid identifier")

	// ErrInvalidHeight is returned by Height parsing and comparison helpers.
	ErrInvalidHeight = errorsmod.Register(ModuleName, 3, "invalid height")

	// ErrInvalidPath is returned when a Merkle path cannot be constructed
	// from its components.
	ErrInvalidPath = errorsmod.Register(ModuleName, 4, "invalid path")
)
