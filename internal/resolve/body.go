package resolve

import (
	"strings"

	"sable/grammar"
	"sable/internal/ast"
	"sable/internal/errors"
)

// lowerBody converts a function's statement list into resolved AST nodes,
// binding every call along the way. The owning contract provides the
// lexical scope for unqualified and super lookups.
func (r *Resolver) lowerBody(fn *ast.Function) {
	decl := r.funcDecls[fn]
	if decl == nil || decl.Body == nil {
		return
	}
	fn.Body = r.lowerBlock(decl.Body, fn.Contract)
}

func (r *Resolver) lowerBlock(block *grammar.Block, scope *ast.Contract) *ast.Block {
	lowered := &ast.Block{Pos: position(block.Pos)}
	for _, stmt := range block.Statements {
		if s := r.lowerStmt(stmt, scope); s != nil {
			lowered.Stmts = append(lowered.Stmts, s)
		}
	}
	return lowered
}

func (r *Resolver) lowerStmt(stmt *grammar.Stmt, scope *ast.Contract) ast.Stmt {
	switch {
	case stmt.If != nil:
		s := &ast.IfStmt{
			Pos:  position(stmt.If.Pos),
			Cond: r.lowerExpr(stmt.If.Cond, scope),
			Then: r.lowerBlock(stmt.If.Then, scope),
		}
		if stmt.If.Else != nil {
			s.Else = r.lowerBlock(stmt.If.Else, scope)
		}
		return s
	case stmt.While != nil:
		return &ast.WhileStmt{
			Pos:  position(stmt.While.Pos),
			Cond: r.lowerExpr(stmt.While.Cond, scope),
			Body: r.lowerBlock(stmt.While.Body, scope),
		}
	case stmt.Return != nil:
		s := &ast.ReturnStmt{Pos: position(stmt.Return.Pos)}
		if stmt.Return.Value != nil {
			s.Value = r.lowerExpr(stmt.Return.Value, scope)
		}
		return s
	case stmt.Revert != nil:
		s := &ast.RevertStmt{Pos: position(stmt.Revert.Pos)}
		if stmt.Revert.Reason != nil {
			s.Reason = strings.Trim(*stmt.Revert.Reason, `"`)
		}
		return s
	case stmt.Let != nil:
		return &ast.LetStmt{
			Pos:   position(stmt.Let.Pos),
			Name:  stmt.Let.Name.Value,
			Value: r.lowerExpr(stmt.Let.Expr, scope),
		}
	case stmt.Assign != nil:
		return &ast.AssignStmt{
			Pos:    position(stmt.Assign.Pos),
			Target: stmt.Assign.Target.Value,
			Value:  r.lowerExpr(stmt.Assign.Value, scope),
		}
	case stmt.Expr != nil:
		return &ast.ExprStmt{
			Pos: position(stmt.Expr.Pos),
			X:   r.lowerExpr(stmt.Expr.Expr, scope),
		}
	}
	return nil
}

func (r *Resolver) lowerExpr(expr *grammar.Expr, scope *ast.Contract) ast.Expr {
	return r.lowerBinary(expr.Binary, scope)
}

// lowerBinary folds the operator chain left-associatively; precedence does
// not matter to any downstream phase here, only call sites do.
func (r *Resolver) lowerBinary(expr *grammar.BinaryExpr, scope *ast.Contract) ast.Expr {
	lowered := r.lowerUnary(expr.Left, scope)
	for _, op := range expr.Ops {
		lowered = &ast.BinaryExpr{
			Pos:   position(op.Pos),
			Op:    op.Operator,
			Left:  lowered,
			Right: r.lowerUnary(op.Right, scope),
		}
	}
	return lowered
}

func (r *Resolver) lowerUnary(expr *grammar.UnaryExpr, scope *ast.Contract) ast.Expr {
	lowered := r.lowerPrimary(expr.Value, scope)
	if expr.Operator != "" {
		return &ast.UnaryExpr{Pos: position(expr.Pos), Op: expr.Operator, X: lowered}
	}
	return lowered
}

func (r *Resolver) lowerPrimary(expr *grammar.PrimaryExpr, scope *ast.Contract) ast.Expr {
	switch {
	case expr.Super != nil:
		return r.lowerSuperCall(expr.Super, scope)
	case expr.Call != nil:
		return r.lowerCall(expr.Call, scope)
	case expr.Number != nil:
		return &ast.LiteralExpr{Value: *expr.Number}
	case expr.Str != nil:
		return &ast.LiteralExpr{Value: *expr.Str}
	case expr.Ident != nil:
		return &ast.IdentExpr{Pos: position(expr.Ident.Pos), Name: expr.Ident.Value}
	case expr.Parens != nil:
		return r.lowerExpr(expr.Parens, scope)
	}
	return &ast.LiteralExpr{}
}

func (r *Resolver) lowerSuperCall(call *grammar.SuperCall, scope *ast.Contract) ast.Expr {
	pos := position(call.Pos)
	if scope == nil || scope.IsLibrary() {
		r.addError(errors.InvalidSuper(pos))
		return &ast.LiteralExpr{Pos: pos}
	}

	// The declaration a super-call refers to lives past the enclosing
	// contract in its own linearization; the concrete body is picked later
	// per calling context.
	var decl *ast.Function
	for _, base := range scope.Linearized[1:] {
		if found := base.Find(call.Name.Value); found != nil {
			decl = found
			break
		}
	}
	if decl == nil {
		r.addError(errors.UndefinedFunction(call.Name.Value, position(call.Name.Pos),
			r.similarFunctions(call.Name.Value, scope)))
		return &ast.LiteralExpr{Pos: pos}
	}

	return &ast.CallExpr{
		Pos:      pos,
		Name:     call.Name.Value,
		Args:     r.lowerArgs(call.Args, scope),
		Decl:     decl,
		Scope:    scope,
		Dispatch: ast.DispatchSuper,
	}
}

func (r *Resolver) lowerCall(call *grammar.CallExpr, scope *ast.Contract) ast.Expr {
	pos := position(call.Pos)
	args := r.lowerArgs(call.Args, scope)

	if call.Qualifier != nil {
		return r.lowerQualifiedCall(call, args, scope)
	}

	// Unqualified call: virtual lookup through the enclosing contract's
	// linearized chain, falling back to free functions.
	if scope != nil {
		for _, base := range scope.Linearized {
			if decl := base.Find(call.Name.Value); decl != nil {
				dispatch := ast.DispatchVirtual
				if scope.IsLibrary() {
					// library members never take part in virtual dispatch
					dispatch = ast.DispatchStatic
				}
				return &ast.CallExpr{
					Pos:      pos,
					Name:     call.Name.Value,
					Args:     args,
					Decl:     decl,
					Scope:    scope,
					Dispatch: dispatch,
				}
			}
		}
	}
	if decl, ok := r.freeFuncs[call.Name.Value]; ok {
		return &ast.CallExpr{
			Pos:      pos,
			Name:     call.Name.Value,
			Args:     args,
			Decl:     decl,
			Scope:    scope,
			Dispatch: ast.DispatchStatic,
		}
	}

	r.addError(errors.UndefinedFunction(call.Name.Value, position(call.Name.Pos),
		r.similarFunctions(call.Name.Value, scope)))
	return &ast.LiteralExpr{Pos: pos}
}

func (r *Resolver) lowerQualifiedCall(call *grammar.CallExpr, args []ast.Expr, scope *ast.Contract) ast.Expr {
	pos := position(call.Pos)
	target, exists := r.contracts[call.Qualifier.Value]
	if !exists {
		r.addError(errors.UndefinedContract(call.Qualifier.Value, position(call.Qualifier.Pos)))
		return &ast.LiteralExpr{Pos: pos}
	}
	if !target.IsLibrary() && !isBaseOf(target, scope) {
		// a contract's members are only statically reachable from itself
		// and its derived contracts; everything else goes through a library
		r.addError(errors.InaccessibleContract(call.Qualifier.Value, position(call.Qualifier.Pos)))
		return &ast.LiteralExpr{Pos: pos}
	}

	var decl *ast.Function
	for _, base := range target.Linearized {
		if found := base.Find(call.Name.Value); found != nil {
			decl = found
			break
		}
	}
	if decl == nil {
		r.addError(errors.UndefinedFunction(call.Name.Value, position(call.Name.Pos),
			r.similarFunctions(call.Name.Value, target)))
		return &ast.LiteralExpr{Pos: pos}
	}

	return &ast.CallExpr{
		Pos:      pos,
		Name:     call.Name.Value,
		Args:     args,
		Decl:     decl,
		Scope:    scope,
		Dispatch: ast.DispatchStatic,
	}
}

func isBaseOf(target, scope *ast.Contract) bool {
	if scope == nil {
		return false
	}
	for _, base := range scope.Linearized {
		if base == target {
			return true
		}
	}
	return false
}

func (r *Resolver) lowerArgs(args []*grammar.Expr, scope *ast.Contract) []ast.Expr {
	var lowered []ast.Expr
	for _, arg := range args {
		lowered = append(lowered, r.lowerExpr(arg, scope))
	}
	return lowered
}
