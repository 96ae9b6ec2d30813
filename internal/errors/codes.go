package errors

// Error codes for the Sable compiler
// These codes are used in error messages and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Resolution errors
// E0100-E0199: Parser errors
// E0200-E0299: Inheritance errors
const (
	// E0001: Function resolution errors
	ErrorUndefinedFunction = "E0001"

	// E0002: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0002"

	// E0003: Unknown type or contract reference
	ErrorUndefinedContract = "E0003"

	// E0004: virtual/override pairing errors
	ErrorInvalidOverride = "E0004"

	// E0005: super used outside a derived contract
	ErrorInvalidSuper = "E0005"

	// E0100: Syntax errors surfaced from the parser
	ErrorSyntax = "E0100"

	// E0200: Unknown base contract in an "is" clause
	ErrorUnknownBase = "E0200"

	// E0201: Base list that cannot be linearized
	ErrorLinearization = "E0201"
)
