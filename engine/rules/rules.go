package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/meekantifun/naval-command-sub002/types"
)

// Program is a compiled boolean condition.
type Program struct {
	Name    string
	Source  string      // expr source (preserved for display)
	program *vm.Program // compiled bytecode
}

// Compile type-checks src against Env and compiles it to bytecode.
func Compile(name, src string) (*Program, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", name, err)
	}
	return &Program{Name: name, Source: src, program: program}, nil
}

// Eval runs the program against env.
func (p *Program) Eval(env Env) (bool, error) {
	result, err := vm.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", p.Name, err)
	}
	match, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q: result is %T, not bool", p.Name, result)
	}
	return match, nil
}

// Outcome is the result of checking one expectation.
type Outcome struct {
	Name string
	Expr string
	Pass bool
	Err  error
}

// CheckAll evaluates every expectation against env, in order. Compile and
// runtime errors are reported per expectation and count as failures.
func CheckAll(expects []types.ExpectDef, env Env) []Outcome {
	out := make([]Outcome, 0, len(expects))
	for _, e := range expects {
		o := Outcome{Name: e.Name, Expr: e.Expr}
		p, err := Compile(e.Name, e.Expr)
		if err == nil {
			o.Pass, err = p.Eval(env)
		}
		o.Err = err
		out = append(out, o)
	}
	return out
}
