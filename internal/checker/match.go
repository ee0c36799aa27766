package checker

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/diagnostics"
	"github.com/funvibe/pyrite/internal/typesystem"
)

// inferMatch checks every arm against the scrutinee's type, checks
// exhaustiveness (every enum variant covered, or a wildcard
// arm terminates the list), and unifies every arm body to a common type.
func (c *Checker) inferMatch(e *ast.MatchExpression) typesystem.Type {
	scrutineeType := c.infer(e.Scrutinee)

	var resultType typesystem.Type
	hasWildcard := false
	covered := map[int]bool{}

	for _, arm := range e.Arms {
		c.checkPattern(arm.Pattern, scrutineeType, covered, &hasWildcard)
		if arm.Guard != nil {
			c.check(arm.Guard, typesystem.Bool{})
		}
		bodyType := c.infer(arm.Body)
		if resultType == nil {
			resultType = bodyType
		} else if !typesAssignable(resultType, bodyType) {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, arm.Body.GetToken(),
					"match arm produces "+bodyType.String()+", expected "+resultType.String()))
		}
	}

	if en, ok := scrutineeType.(typesystem.Enum); ok && !hasWildcard {
		for i, v := range en.Variants {
			if !covered[i] {
				c.diags.Add(diagnostics.New(diagnostics.ErrNonExhaustiveMatch, e.Token,
						"match is not exhaustive: missing variant \""+v.Name+"\""))
			}
		}
	}

	if resultType == nil {
		return typesystem.Void{}
	}
	return resultType
}

// checkPattern type-checks pat against scrutineeType and marks covered
// enum variant indices (only EnumPattern and WildcardPattern affect
// exhaustiveness; tuple/identifier patterns bind unconditionally).
func (c *Checker) checkPattern(pat ast.Pattern, scrutineeType typesystem.Type, covered map[int]bool, hasWildcard *bool) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		*hasWildcard = true
	case *ast.IdentifierPattern:
		*hasWildcard = true
	case *ast.LiteralPattern:
		c.check(p.Value, scrutineeType)
	case *ast.EnumPattern:
		en, ok := scrutineeType.(typesystem.Enum)
		if !ok || (p.EnumName != "" && en.Name != p.EnumName) {
			c.diags.Add(diagnostics.New(diagnostics.ErrTypeMismatch, p.Token,
					"pattern names enum \""+p.EnumName+"\", scrutinee is "+scrutineeType.String()))
			return
		}
		idx := en.VariantIndex(p.Variant)
		if idx < 0 {
			c.diags.Add(diagnostics.New(diagnostics.ErrNoSuchField, p.Token,
					"enum "+en.Name+" has no variant \""+p.Variant+"\""))
			return
		}
		covered[idx] = true
		fields := en.Variants[idx].Fields
		for i, sub := range p.SubPatterns {
			if i < len(fields) {
				subCovered := map[int]bool{}
				subWild := false
				c.checkPattern(sub, fields[i], subCovered, &subWild)
			}
		}
	case *ast.TuplePattern:
		tup, ok := scrutineeType.(typesystem.Tuple)
		if !ok {
			return
		}
		for i, sub := range p.Elements {
			if i < len(tup.Elements) {
				subCovered := map[int]bool{}
				subWild := false
				c.checkPattern(sub, tup.Elements[i], subCovered, &subWild)
			}
		}
	}
}
