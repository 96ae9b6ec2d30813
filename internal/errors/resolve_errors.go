package errors

import (
	"fmt"
	"strings"

	"sable/internal/ast"
)

// ResolveErrorBuilder provides a fluent interface for creating resolution
// errors with suggestions
type ResolveErrorBuilder struct {
	err CompilerError
}

// NewResolveError creates a new resolution error builder
func NewResolveError(code, message string, pos ast.Position) *ResolveErrorBuilder {
	return &ResolveErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *ResolveErrorBuilder) WithLength(length int) *ResolveErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ResolveErrorBuilder) WithSuggestion(message string) *ResolveErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, message)
	return b
}

// WithNote adds a note to the error
func (b *ResolveErrorBuilder) WithNote(note string) *ResolveErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// Build returns the completed compiler error
func (b *ResolveErrorBuilder) Build() CompilerError {
	return b.err
}

// Common resolution error constructors

// UndefinedFunction creates an error for calls to unknown functions
func UndefinedFunction(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewResolveError(ErrorUndefinedFunction,
		fmt.Sprintf("function '%s' is not defined", name), pos).
		WithLength(len(name))

	if len(similarNames) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	} else if len(similarNames) > 1 {
		builder = builder.WithSuggestion(
			fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.Build()
}

// DuplicateDeclaration creates an error for redeclared names
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorDuplicateDeclaration,
		fmt.Sprintf("duplicate declaration of '%s'", name), pos).
		WithLength(len(name)).
		Build()
}

// UndefinedContract creates an error for references to unknown contracts
// or libraries
func UndefinedContract(name string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorUndefinedContract,
		fmt.Sprintf("contract or library '%s' is not defined", name), pos).
		WithLength(len(name)).
		Build()
}

// InaccessibleContract creates an error for qualified calls into an
// unrelated contract
func InaccessibleContract(name string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorUndefinedContract,
		fmt.Sprintf("cannot call into contract '%s' from here", name), pos).
		WithLength(len(name)).
		WithNote("only libraries and base contracts can be called by name").
		Build()
}

// UnknownBase creates an error for an unknown name in an "is" clause
func UnknownBase(contract, base string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorUnknownBase,
		fmt.Sprintf("contract '%s' inherits from undefined contract '%s'", contract, base), pos).
		WithLength(len(base)).
		Build()
}

// LinearizationFailure creates an error for base lists that cannot be
// linearized
func LinearizationFailure(contract string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorLinearization,
		fmt.Sprintf("linearization of inheritance graph impossible for contract '%s'", contract), pos).
		WithNote("base contracts must form a consistent order, most base first").
		Build()
}

// InvalidOverride creates an error for override/virtual pairing problems
func InvalidOverride(name, reason string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorInvalidOverride,
		fmt.Sprintf("invalid override of function '%s': %s", name, reason), pos).
		WithLength(len(name)).
		WithNote("overridden functions must be declared 'virtual' in a base contract").
		Build()
}

// InvalidSuper creates an error for super-calls outside a derived contract
func InvalidSuper(pos ast.Position) CompilerError {
	return NewResolveError(ErrorInvalidSuper,
		"'super' may only be used inside a contract", pos).
		Build()
}

// SyntaxError wraps a parse failure in a compiler error
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewResolveError(ErrorSyntax, message, pos).Build()
}
