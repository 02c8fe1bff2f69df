package javascript_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsvet/jsvet/javascript"
)

func TestBuildFacts(t *testing.T) {
	src := []byte(`const limit = 10;
let unused = 1;

function check(value, _hint) {
	if (value > limit) {
		return console.log(value);
	}
	return null;
}

check(5);
`)
	tree, err := javascript.Parse(context.Background(), src)
	assert.NoError(t, err)

	facts := javascript.BuildFacts(tree.RootNode(), src)

	byName := map[string]*javascript.Symbol{}
	for _, symbol := range facts.Symbols {
		byName[symbol.Name] = symbol
	}

	if assert.Contains(t, byName, "limit") {
		assert.Equal(t, "const", byName["limit"].Kind)
		assert.Equal(t, 1, byName["limit"].References)
	}
	if assert.Contains(t, byName, "unused") {
		assert.Equal(t, 0, byName["unused"].References)
	}
	if assert.Contains(t, byName, "check") {
		assert.Equal(t, "function", byName["check"].Kind)
		assert.Equal(t, 1, byName["check"].References)
	}
	if assert.Contains(t, byName, "value") {
		assert.Equal(t, "param", byName["value"].Kind)
		assert.Equal(t, 2, byName["value"].References)
	}

	assert.Contains(t, facts.Globals, "console", "undeclared names resolve to ambient globals")

	var program javascript.ScopeInfo
	for _, scope := range facts.Scopes {
		if scope.Kind == "program" {
			program = scope
		}
	}
	assert.NotZero(t, program.ID)
	assert.Zero(t, program.ParentID)
	for _, scope := range facts.Scopes {
		if scope.Kind == "function" {
			assert.Equal(t, program.ID, scope.ParentID, "function scope hangs off the program scope")
		}
	}
}

func TestBuildFacts_HoistedUseBeforeDeclaration(t *testing.T) {
	src := []byte(`boot();
function boot() { return 1; }
`)
	tree, err := javascript.Parse(context.Background(), src)
	assert.NoError(t, err)

	facts := javascript.BuildFacts(tree.RootNode(), src)
	byName := map[string]*javascript.Symbol{}
	for _, symbol := range facts.Symbols {
		byName[symbol.Name] = symbol
	}
	if assert.Contains(t, byName, "boot") {
		assert.Equal(t, 1, byName["boot"].References, "call above the declaration still counts")
	}
	assert.NotContains(t, facts.Globals, "boot")
}

func TestBuildFacts_BareArrowParameter(t *testing.T) {
	src := []byte(`const twice = v => v + v;`)
	tree, err := javascript.Parse(context.Background(), src)
	assert.NoError(t, err)

	facts := javascript.BuildFacts(tree.RootNode(), src)
	byName := map[string]*javascript.Symbol{}
	for _, symbol := range facts.Symbols {
		byName[symbol.Name] = symbol
	}
	if assert.Contains(t, byName, "v") {
		assert.Equal(t, "param", byName["v"].Kind)
		assert.Equal(t, 2, byName["v"].References)
	}
	assert.NotContains(t, facts.Globals, "v")
}

func TestBuildFacts_Destructuring(t *testing.T) {
	src := []byte(`const { host, port: p, ...rest } = options;
const [first, second = 1] = items;
p;
first;
`)
	tree, err := javascript.Parse(context.Background(), src)
	assert.NoError(t, err)

	facts := javascript.BuildFacts(tree.RootNode(), src)
	names := map[string]int{}
	for _, symbol := range facts.Symbols {
		names[symbol.Name] = symbol.References
	}
	assert.Contains(t, names, "host")
	assert.Contains(t, names, "p")
	assert.Contains(t, names, "rest")
	assert.Contains(t, names, "first")
	assert.Contains(t, names, "second")
	assert.Equal(t, 1, names["p"])
	assert.Equal(t, 1, names["first"])
	assert.Contains(t, facts.Globals, "options")
}
