package resolve

import (
	"sable/grammar"
	"sable/internal/ast"
	"sable/internal/errors"

	"github.com/alecthomas/participle/v2/lexer"
)

// Resolver lowers a parsed syntax tree into the resolved program model:
// contracts with linearized base orders, functions registered per scope,
// and every call expression bound to a declaration and annotated with its
// dispatch kind.
type Resolver struct {
	errors    []errors.CompilerError
	contracts map[string]*ast.Contract
	freeFuncs map[string]*ast.Function

	// syntax nodes kept alongside their resolved counterparts until
	// bodies are lowered
	contractDecls map[*ast.Contract]interface{ funcs() []*grammar.FunctionDecl }
	funcDecls     map[*ast.Function]*grammar.FunctionDecl
}

func NewResolver() *Resolver {
	return &Resolver{
		contracts:     make(map[string]*ast.Contract),
		freeFuncs:     make(map[string]*ast.Function),
		contractDecls: make(map[*ast.Contract]interface{ funcs() []*grammar.FunctionDecl }),
		funcDecls:     make(map[*ast.Function]*grammar.FunctionDecl),
	}
}

// Errors returns all diagnostics collected during resolution.
func (r *Resolver) Errors() []errors.CompilerError {
	return r.errors
}

type contractSyntax struct{ decl *grammar.ContractDecl }
type librarySyntax struct{ decl *grammar.LibraryDecl }

func (s contractSyntax) funcs() []*grammar.FunctionDecl { return s.decl.Functions }
func (s librarySyntax) funcs() []*grammar.FunctionDecl  { return s.decl.Functions }

// Resolve lowers the syntax tree. The returned program is only meaningful
// for downstream phases when Errors() is empty.
func (r *Resolver) Resolve(prog *grammar.Program) *ast.Program {
	program := &ast.Program{}

	// Pass 1: register contract, library and free function declarations so
	// later passes can reference them in any order
	for _, decl := range prog.Decls {
		switch {
		case decl.Contract != nil:
			c := r.registerContract(decl.Contract.Name, ast.KindContract)
			if c != nil {
				r.contractDecls[c] = contractSyntax{decl.Contract}
				program.Contracts = append(program.Contracts, c)
			}
		case decl.Library != nil:
			c := r.registerContract(decl.Library.Name, ast.KindLibrary)
			if c != nil {
				r.contractDecls[c] = librarySyntax{decl.Library}
				program.Contracts = append(program.Contracts, c)
			}
		case decl.Function != nil:
			r.registerFreeFunction(decl.Function, program)
		}
	}

	// Pass 2: link base contracts, linearize the inheritance graph and
	// register member functions with full declaration context
	for _, c := range program.Contracts {
		r.linkBases(c)
	}
	for _, c := range program.Contracts {
		r.linearize(c)
	}
	for _, c := range program.Contracts {
		r.registerFunctions(c)
	}
	for _, c := range program.Contracts {
		r.checkOverrides(c)
	}

	// Pass 3: lower function bodies with every declaration visible
	for _, c := range program.Contracts {
		for _, fn := range c.Functions {
			r.lowerBody(fn)
		}
	}
	for _, fn := range program.Functions {
		r.lowerBody(fn)
	}

	return program
}

func (r *Resolver) registerContract(name grammar.PosIdent, kind ast.ContractKind) *ast.Contract {
	if _, exists := r.contracts[name.Value]; exists {
		r.addError(errors.DuplicateDeclaration(name.Value, position(name.Pos)))
		return nil
	}
	c := &ast.Contract{
		Pos:  position(name.Pos),
		Name: name.Value,
		Kind: kind,
	}
	r.contracts[name.Value] = c
	return c
}

func (r *Resolver) registerFreeFunction(decl *grammar.FunctionDecl, program *ast.Program) {
	if _, exists := r.freeFuncs[decl.Name.Value]; exists {
		r.addError(errors.DuplicateDeclaration(decl.Name.Value, position(decl.Name.Pos)))
		return
	}
	fn := r.newFunction(decl, nil)
	r.freeFuncs[decl.Name.Value] = fn
	program.Functions = append(program.Functions, fn)
}

func (r *Resolver) linkBases(c *ast.Contract) {
	syntax, ok := r.contractDecls[c].(contractSyntax)
	if !ok {
		return // libraries have no bases
	}
	for _, baseName := range syntax.decl.Bases {
		base, exists := r.contracts[baseName.Value]
		if !exists || base.IsLibrary() {
			r.addError(errors.UnknownBase(c.Name, baseName.Value, position(baseName.Pos)))
			continue
		}
		c.Bases = append(c.Bases, base)
	}
}

func (r *Resolver) registerFunctions(c *ast.Contract) {
	syntax := r.contractDecls[c]
	seen := make(map[string]bool)
	for _, decl := range syntax.funcs() {
		if seen[decl.Name.Value] {
			r.addError(errors.DuplicateDeclaration(decl.Name.Value, position(decl.Name.Pos)))
			continue
		}
		seen[decl.Name.Value] = true
		c.Functions = append(c.Functions, r.newFunction(decl, c))
	}
}

// checkOverrides enforces virtual/override pairing: an override needs a
// virtual declaration somewhere up the chain, and redeclaring an inherited
// signature requires the override specifier.
func (r *Resolver) checkOverrides(c *ast.Contract) {
	if c.IsLibrary() {
		return
	}
	for _, fn := range c.Functions {
		var inherited *ast.Function
		for _, base := range c.Linearized[1:] {
			if found := base.Find(fn.Name); found != nil {
				inherited = found
				break
			}
		}
		if fn.Override {
			if inherited == nil {
				r.addError(errors.InvalidOverride(fn.Name,
					"no base contract declares this function", fn.Pos))
			} else if !inherited.Virtual && !inherited.Override {
				r.addError(errors.InvalidOverride(fn.Name,
					"the overridden function is not virtual", fn.Pos))
			}
		} else if inherited != nil {
			r.addError(errors.InvalidOverride(fn.Name,
				"missing 'override' specifier", fn.Pos))
		}
	}
}

func (r *Resolver) newFunction(decl *grammar.FunctionDecl, owner *ast.Contract) *ast.Function {
	fn := &ast.Function{
		Pos:      position(decl.Name.Pos),
		Name:     decl.Name.Value,
		Contract: owner,
		Virtual:  decl.Virtual,
		Override: decl.Override,
	}
	for _, param := range decl.Params {
		fn.Params = append(fn.Params, &ast.Param{
			Pos:  position(param.Name.Pos),
			Name: param.Name.Value,
			Type: param.Type.Name.Value,
		})
	}
	if decl.Return != nil {
		fn.Return = decl.Return.Name.Value
	}
	r.funcDecls[fn] = decl
	return fn
}

func (r *Resolver) addError(err errors.CompilerError) {
	r.errors = append(r.errors, err)
}

func position(pos lexer.Position) ast.Position {
	return ast.Position{
		Filename: pos.Filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}
