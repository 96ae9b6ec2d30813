package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContractWithInheritance(t *testing.T) {
	source := `
contract Token is Base, Ownable {
    fn transfer(to: address, amount: u256) virtual {
        return;
    }
}`

	program, err := ParseSource("test.sbl", source)
	require.NoError(t, err)
	require.Len(t, program.Decls, 1)

	contract := program.Decls[0].Contract
	require.NotNil(t, contract)
	assert.Equal(t, "Token", contract.Name.Value)
	require.Len(t, contract.Bases, 2)
	assert.Equal(t, "Base", contract.Bases[0].Value)
	assert.Equal(t, "Ownable", contract.Bases[1].Value)

	fn := contract.Functions[0]
	assert.Equal(t, "transfer", fn.Name.Value)
	assert.True(t, fn.Virtual)
	assert.False(t, fn.Override)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "amount", fn.Params[1].Name.Value)
	assert.Equal(t, "u256", fn.Params[1].Type.Name.Value)
}

func TestParseLibraryAndFreeFunction(t *testing.T) {
	source := `
library SafeMath {
    fn add(a: u256, b: u256): u256 {
        return a + b;
    }
}

fn helper(x: u256): u256 {
    return SafeMath.add(x, 1);
}`

	program, err := ParseSource("test.sbl", source)
	require.NoError(t, err)
	require.Len(t, program.Decls, 2)
	require.NotNil(t, program.Decls[0].Library)
	require.NotNil(t, program.Decls[1].Function)
	assert.Equal(t, "SafeMath", program.Decls[0].Library.Name.Value)
	assert.Equal(t, "u256", program.Decls[1].Function.Return.Name.Value)
}

func TestParseStatements(t *testing.T) {
	source := `
fn busy(n: u256) {
    let total = 0;
    while (n > 0) {
        total = total + n;
        n = n - 1;
    }
    if (total == 0) {
        revert("empty");
    } else {
        revert;
    }
}`

	program, err := ParseSource("test.sbl", source)
	require.NoError(t, err)

	body := program.Decls[0].Function.Body
	require.Len(t, body.Statements, 3)
	assert.NotNil(t, body.Statements[0].Let)
	assert.NotNil(t, body.Statements[1].While)

	ifStmt := body.Statements[2].If
	require.NotNil(t, ifStmt)
	require.NotNil(t, ifStmt.Then.Statements[0].Revert)
	assert.Equal(t, `"empty"`, *ifStmt.Then.Statements[0].Revert.Reason)
	require.NotNil(t, ifStmt.Else)
	assert.Nil(t, ifStmt.Else.Statements[0].Revert.Reason)
}

func TestParseCallShapes(t *testing.T) {
	source := `
contract App is Base {
    fn run() override {
        check(1);
        Math.min(1, 2);
        super.run();
    }
}`

	program, err := ParseSource("test.sbl", source)
	require.NoError(t, err)

	stmts := program.Decls[0].Contract.Functions[0].Body.Statements
	require.Len(t, stmts, 3)

	plain := stmts[0].Expr.Expr.Binary.Left.Value.Call
	require.NotNil(t, plain)
	assert.Nil(t, plain.Qualifier)
	assert.Equal(t, "check", plain.Name.Value)

	qualified := stmts[1].Expr.Expr.Binary.Left.Value.Call
	require.NotNil(t, qualified)
	require.NotNil(t, qualified.Qualifier)
	assert.Equal(t, "Math", qualified.Qualifier.Value)
	assert.Equal(t, "min", qualified.Name.Value)

	superCall := stmts[2].Expr.Expr.Binary.Left.Value.Super
	require.NotNil(t, superCall)
	assert.Equal(t, "run", superCall.Name.Value)
}

func TestParseComments(t *testing.T) {
	source := `
// SPDX-License-Identifier: MIT
/// The one and only.
contract Solo {
    fn noop() {
        return;
    }
}`

	program, err := ParseSource("test.sbl", source)
	require.NoError(t, err)
	require.Len(t, program.Decls, 1)
}

func TestParseErrorCarriesPosition(t *testing.T) {
	source := `contract Broken {
    fn oops( {
    }
}`

	_, err := ParseSource("test.sbl", source)
	require.Error(t, err)

	pos, ok := ErrorPosition(err)
	require.True(t, ok)
	assert.Equal(t, "test.sbl", pos.Filename)
	assert.Greater(t, pos.Line, 0)
}
