// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package optparse parses a small text syntax into scalar and relational
// expressions. It is used by tests and the command line tool.
//
// Scalar syntax (loosest binding first):
//
//	a OR b OR ...
//	a AND b AND ...
//	NOT a
//	a = b, a <> b, a < b, ..., a [NOT] IN (x, y), a [NOT] BETWEEN x AND y,
//	a IS [NOT] NULL, a IS NOT DISTINCT FROM b
//	a + b, a - b
//	a * b, a / b
//	-a, a::TYPE
//	1, 1.5, 'str', true, false, null, 1:INT4 (typed literal),
//	$0 (column), ?0 (placeholder), $cor0 and $cor0.field (correlation),
//	RANGE($2), CAST(a AS TYPE), f(a, b), sum(a) OVER (PARTITION BY b ORDER BY c),
//	(a)
//
// A chain of ANDs or ORs at one level becomes one n-ary call; parentheses
// nest. Trees are built exactly as written, without simplification.
//
// Relational syntax:
//
//	scan t (x INT, y STRING)
//	select(<rel>, <scalar>)
//	project(<rel>, <scalar> [AS name], ...)
//	join([system (s INT),] <rel>, <rel>, ... [ON <scalar>])
//
// Column references in a select or project address its input's schema; in a
// join they address the join schema.
package optparse

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optpred/pkg/sql/opt/memo"
	"github.com/cockroachdb/optpred/pkg/sql/types"
)

// ParseScalar parses a scalar expression. Column $i has type cols[i].
func ParseScalar(input string, cols []*types.T) (_ memo.ScalarExpr, err error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	defer p.recoverError(&err)
	e := p.parseScalar(cols)
	p.expectEOF()
	return e, nil
}

// ParseRel parses a relational expression, constructing it in m.
func ParseRel(m *memo.Memo, input string) (_ memo.RelExpr, err error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	p.memo = m
	defer p.recoverError(&err)
	e := p.parseRel()
	p.expectEOF()
	return e, nil
}

// ParseFields parses a comma-separated list of column definitions such as
// "x INT, y STRING".
func ParseFields(input string) (_ []memo.Field, err error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	defer p.recoverError(&err)
	var fields []memo.Field
	if p.peek().kind != tokEOF {
		fields = p.parseFieldList()
	}
	p.expectEOF()
	return fields, nil
}

// FieldTypes returns the types of the given fields.
func FieldTypes(fields []memo.Field) []*types.T {
	res := make([]*types.T, len(fields))
	for i := range fields {
		res[i] = fields[i].Type
	}
	return res
}

type parseError struct {
	err error
}

type parser struct {
	toks []token
	pos  int
	memo *memo.Memo
	src  string
}

func newParser(input string) (*parser, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", input)
	}
	return &parser{toks: toks, src: input}, nil
}

func (p *parser) recoverError(err *error) {
	if r := recover(); r != nil {
		switch t := r.(type) {
		case parseError:
			*err = errors.Wrapf(t.err, "parsing %q", p.src)
		case error:
			// Construction checks in the memo reject malformed trees.
			*err = errors.Wrapf(t, "parsing %q", p.src)
		default:
			panic(r)
		}
	}
}

func (p *parser) errorf(format string, args ...interface{}) {
	err := errors.Newf(format, args...)
	panic(parseError{err: errors.WithDetailf(err, "at position %d", p.peek().pos)})
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(text string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) isKeyword(kw string) bool {
	return p.peek().keyword() == kw
}

func (p *parser) acceptPunct(text string) bool {
	if p.isPunct(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectPunct(text string) {
	if !p.acceptPunct(text) {
		p.errorf("expected %q, found %q", text, p.peek().text)
	}
}

func (p *parser) expectKeyword(kw string) {
	if !p.acceptKeyword(kw) {
		p.errorf("expected %s, found %q", kw, p.peek().text)
	}
}

func (p *parser) expectEOF() {
	if p.peek().kind != tokEOF {
		p.errorf("unexpected %q after end of expression", p.peek().text)
	}
}

func (p *parser) parseInt(t token) int {
	n, err := strconv.Atoi(t.text)
	if err != nil {
		p.errorf("invalid number %q", t.text)
	}
	return n
}

func (p *parser) parseType() *types.T {
	t := p.next()
	if t.kind != tokIdent {
		p.errorf("expected type name, found %q", t.text)
	}
	typ, err := types.Parse(t.text)
	if err != nil {
		panic(parseError{err: err})
	}
	return typ
}

// -- Relational expressions --

func (p *parser) parseRel() memo.RelExpr {
	kw := p.peek().keyword()
	switch kw {
	case "SCAN", "SELECT", "PROJECT", "JOIN":
		p.next()
	default:
		p.errorf("expected scan, select, project or join, found %q", p.peek().text)
	}
	switch kw {
	case "SCAN":
		name := p.next()
		if name.kind != tokIdent {
			p.errorf("expected table name, found %q", name.text)
		}
		p.expectPunct("(")
		var cols []memo.Field
		if !p.isPunct(")") {
			cols = p.parseFieldList()
		}
		p.expectPunct(")")
		return p.memo.ConstructScan(name.text, cols)

	case "SELECT":
		p.expectPunct("(")
		input := p.parseRel()
		p.expectPunct(",")
		filter := p.parseScalar(FieldTypes(input.Fields()))
		p.expectPunct(")")
		return p.memo.ConstructSelect(input, filter)

	case "PROJECT":
		p.expectPunct("(")
		input := p.parseRel()
		cols := FieldTypes(input.Fields())
		var projections []memo.ScalarExpr
		var names []string
		for p.acceptPunct(",") {
			e := p.parseScalar(cols)
			name := ""
			if v, ok := e.(*memo.VariableExpr); ok {
				name = input.Fields()[v.Col].Name
			}
			if p.acceptKeyword("AS") {
				name = p.next().text
			}
			projections = append(projections, e)
			names = append(names, name)
		}
		p.expectPunct(")")
		return p.memo.ConstructProject(input, projections, names)

	case "JOIN":
		p.expectPunct("(")
		var system []memo.Field
		if p.acceptKeyword("SYSTEM") {
			p.expectPunct("(")
			system = p.parseFieldList()
			p.expectPunct(")")
			p.expectPunct(",")
		}
		inputs := []memo.RelExpr{p.parseRel()}
		for p.acceptPunct(",") {
			inputs = append(inputs, p.parseRel())
		}
		var on memo.ScalarExpr
		if p.acceptKeyword("ON") {
			cols := FieldTypes(system)
			for _, in := range inputs {
				cols = append(cols, FieldTypes(in.Fields())...)
			}
			on = p.parseScalar(cols)
		}
		p.expectPunct(")")
		return p.memo.ConstructJoin(inputs, on, system)
	}
	return nil
}

func (p *parser) parseFieldList() []memo.Field {
	var fields []memo.Field
	for {
		name := p.next()
		if name.kind != tokIdent {
			p.errorf("expected column name, found %q", name.text)
		}
		fields = append(fields, memo.Field{Name: name.text, Type: p.parseType()})
		if !p.acceptPunct(",") {
			return fields
		}
	}
}

// -- Scalar expressions --

func (p *parser) parseScalar(cols []*types.T) memo.ScalarExpr {
	sp := scalarParser{parser: p, cols: cols}
	return sp.parseOr()
}

type scalarParser struct {
	*parser
	cols []*types.T
}

func (p *scalarParser) parseOr() memo.ScalarExpr {
	first := p.parseAnd()
	if !p.isKeyword("OR") {
		return first
	}
	args := []memo.ScalarExpr{first}
	for p.acceptKeyword("OR") {
		args = append(args, p.parseAnd())
	}
	return memo.NewCall(memo.OrFn, types.Bool, args...)
}

func (p *scalarParser) parseAnd() memo.ScalarExpr {
	first := p.parseNot()
	if !p.isKeyword("AND") {
		return first
	}
	args := []memo.ScalarExpr{first}
	for p.acceptKeyword("AND") {
		args = append(args, p.parseNot())
	}
	return memo.NewCall(memo.AndFn, types.Bool, args...)
}

func (p *scalarParser) parseNot() memo.ScalarExpr {
	if p.acceptKeyword("NOT") {
		return memo.NewCall(memo.NotFn, types.Bool, p.parseNot())
	}
	return p.parseComparison()
}

var comparisonFns = map[string]*memo.Function{
	"=":  memo.EqFn,
	"<>": memo.NeFn,
	"!=": memo.NeFn,
	"<":  memo.LtFn,
	"<=": memo.LeFn,
	">":  memo.GtFn,
	">=": memo.GeFn,
}

func (p *scalarParser) parseComparison() memo.ScalarExpr {
	left := p.parseAdditive()
	if t := p.peek(); t.kind == tokPunct {
		if fn, ok := comparisonFns[t.text]; ok {
			p.next()
			return memo.NewCall(fn, types.Bool, left, p.parseAdditive())
		}
	}

	switch {
	case p.acceptKeyword("IS"):
		not := p.acceptKeyword("NOT")
		if p.acceptKeyword("NULL") {
			if not {
				return memo.NewCall(memo.IsNotNullFn, types.Bool, left)
			}
			return memo.NewCall(memo.IsNullFn, types.Bool, left)
		}
		if !not {
			p.errorf("expected NULL or NOT after IS")
		}
		p.expectKeyword("DISTINCT")
		p.expectKeyword("FROM")
		return memo.NewCall(memo.IsNotDistinctFromFn, types.Bool, left, p.parseAdditive())

	case p.isKeyword("NOT") || p.isKeyword("IN") || p.isKeyword("BETWEEN"):
		not := false
		if p.acceptKeyword("NOT") {
			not = true
		}
		if p.acceptKeyword("IN") {
			p.expectPunct("(")
			list := p.parseArgs()
			if len(list) == 0 {
				p.errorf("IN list must not be empty")
			}
			args := append([]memo.ScalarExpr{left}, list...)
			in := memo.NewCall(memo.InFn, types.Bool, args...)
			if not {
				return memo.NewCall(memo.NotFn, types.Bool, in)
			}
			return in
		}
		p.expectKeyword("BETWEEN")
		lo := p.parseAdditive()
		p.expectKeyword("AND")
		hi := p.parseAdditive()
		invert := memo.FalseSingleton
		if not {
			invert = memo.TrueSingleton
		}
		return memo.NewCall(memo.BetweenFn, types.Bool, invert, left, lo, hi)
	}
	return left
}

func (p *scalarParser) parseAdditive() memo.ScalarExpr {
	left := p.parseMultiplicative()
	for {
		var fn *memo.Function
		switch {
		case p.acceptPunct("+"):
			fn = memo.PlusFn
		case p.acceptPunct("-"):
			fn = memo.MinusFn
		default:
			return left
		}
		right := p.parseMultiplicative()
		left = memo.NewCall(fn, p.arithType(left, right), left, right)
	}
}

func (p *scalarParser) parseMultiplicative() memo.ScalarExpr {
	left := p.parseUnary()
	for {
		var fn *memo.Function
		switch {
		case p.acceptPunct("*"):
			fn = memo.MultFn
		case p.acceptPunct("/"):
			fn = memo.DivFn
		default:
			return left
		}
		right := p.parseUnary()
		left = memo.NewCall(fn, p.arithType(left, right), left, right)
	}
}

func (p *scalarParser) arithType(left, right memo.ScalarExpr) *types.T {
	typ, ok := types.CommonType(left.DataType(), right.DataType())
	if !ok {
		p.errorf("no common type for %s and %s", left.DataType(), right.DataType())
	}
	return typ
}

func (p *scalarParser) parseUnary() memo.ScalarExpr {
	if p.acceptPunct("-") {
		t := p.peek()
		if t.kind == tokInt || t.kind == tokDecimal {
			return p.parsePostfix(p.parseNumber(true))
		}
		arg := p.parseUnary()
		return memo.NewCall(memo.UnaryMinusFn, arg.DataType(), arg)
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *scalarParser) parsePostfix(e memo.ScalarExpr) memo.ScalarExpr {
	for {
		switch {
		case p.acceptPunct("::"):
			e = memo.NewCall(memo.CastFn, p.parseType(), e)
		case p.isPunct(":"):
			c, ok := e.(*memo.ConstExpr)
			if !ok {
				p.errorf("type annotation on non-literal %s", e)
			}
			p.next()
			e = p.typedConst(c, p.parseType())
		default:
			return e
		}
	}
}

// typedConst converts a literal to the annotated type.
func (p *scalarParser) typedConst(c *memo.ConstExpr, typ *types.T) *memo.ConstExpr {
	value := c.Value
	if typ.Family() == types.FloatFamily {
		switch v := c.Value.(type) {
		case int64:
			value = float64(v)
		case *apd.Decimal:
			f, err := v.Float64()
			if err != nil {
				p.errorf("invalid float %s", v)
			}
			value = f
		}
	}
	return memo.NewConst(value, typ)
}

func (p *scalarParser) parseNumber(negate bool) memo.ScalarExpr {
	t := p.next()
	text := t.text
	if negate {
		text = "-" + text
	}
	if t.kind == tokInt {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			p.errorf("invalid integer %s", text)
		}
		return memo.NewConst(n, types.Int)
	}
	d, _, err := apd.NewFromString(text)
	if err != nil {
		p.errorf("invalid decimal %s", text)
	}
	return memo.NewConst(d, types.Decimal)
}

func (p *scalarParser) parsePrimary() memo.ScalarExpr {
	t := p.peek()
	switch t.kind {
	case tokInt, tokDecimal:
		return p.parseNumber(false)

	case tokString:
		p.next()
		return memo.NewConst(t.text, types.String)

	case tokColumn:
		p.next()
		col := p.parseInt(t)
		if col >= len(p.cols) {
			p.errorf("column $%d out of range; input has %d columns", col, len(p.cols))
		}
		return memo.NewVariable(col, p.cols[col])

	case tokPlaceholder:
		p.next()
		return &memo.PlaceholderExpr{Index: p.parseInt(t), Typ: types.Unknown}

	case tokCorrelation:
		p.next()
		var e memo.ScalarExpr = &memo.CorrelationExpr{ID: p.parseInt(t), Typ: types.Tuple}
		for p.acceptPunct(".") {
			field := p.next()
			if field.kind != tokIdent {
				p.errorf("expected field name, found %q", field.text)
			}
			e = &memo.FieldAccessExpr{Input: e, Field: field.text, Typ: types.Unknown}
		}
		return e

	case tokPunct:
		if p.acceptPunct("(") {
			e := p.parseOr()
			p.expectPunct(")")
			return e
		}

	case tokIdent:
		p.next()
		switch t.keyword() {
		case "TRUE":
			return memo.TrueSingleton
		case "FALSE":
			return memo.FalseSingleton
		case "NULL":
			return memo.NullSingleton
		case "CAST":
			p.expectPunct("(")
			arg := p.parseOr()
			p.expectKeyword("AS")
			typ := p.parseType()
			p.expectPunct(")")
			return memo.NewCall(memo.CastFn, typ, arg)
		case "RANGE":
			p.expectPunct("(")
			col := p.next()
			if col.kind != tokColumn {
				p.errorf("expected column after RANGE, found %q", col.text)
			}
			p.expectPunct(")")
			return &memo.RangeRefExpr{Offset: p.parseInt(col), Typ: types.Tuple}
		}
		if p.isPunct("(") {
			p.next()
			return p.parseCall(t.text, p.parseArgs())
		}
	}
	p.errorf("unexpected %q", t.text)
	return nil
}

// parseArgs parses a comma-separated expression list after its opening
// parenthesis, through the closing parenthesis.
func (p *scalarParser) parseArgs() []memo.ScalarExpr {
	var args []memo.ScalarExpr
	if p.acceptPunct(")") {
		return args
	}
	for {
		args = append(args, p.parseOr())
		if p.acceptPunct(")") {
			return args
		}
		p.expectPunct(",")
	}
}

func (p *scalarParser) parseCall(name string, args []memo.ScalarExpr) memo.ScalarExpr {
	if memo.IsAggregateName(name) {
		fn := memo.NewAggregate(name)
		typ := aggregateType(fn.Name, args)
		if !p.acceptKeyword("OVER") {
			return memo.NewCall(fn, typ, args...)
		}
		w := &memo.WindowExpr{Fn: fn, Args: args, Typ: typ}
		p.expectPunct("(")
		if p.acceptKeyword("PARTITION") {
			p.expectKeyword("BY")
			w.Partition = p.parseItems()
		}
		if p.acceptKeyword("ORDER") {
			p.expectKeyword("BY")
			w.Ordering = p.parseItems()
		}
		p.expectPunct(")")
		return w
	}
	fn := memo.NewFunction(name)
	return memo.NewCall(fn, functionType(fn.Name, args), args...)
}

func (p *scalarParser) parseItems() []memo.ScalarExpr {
	items := []memo.ScalarExpr{p.parseOr()}
	for p.acceptPunct(",") {
		items = append(items, p.parseOr())
	}
	return items
}

func firstArgType(args []memo.ScalarExpr) *types.T {
	if len(args) == 0 {
		return types.Unknown
	}
	return args[0].DataType()
}

func aggregateType(name string, args []memo.ScalarExpr) *types.T {
	switch name {
	case "count", "rank":
		return types.Int
	case "avg":
		return types.Decimal
	}
	return firstArgType(args)
}

func functionType(name string, args []memo.ScalarExpr) *types.T {
	switch strings.ToLower(name) {
	case "random", "rand":
		return types.Float
	case "lower", "upper", "concat", "substr", "uuid", "gen_random_uuid":
		return types.String
	case "length":
		return types.Int
	case "now", "current_timestamp":
		return types.Timestamp
	}
	return firstArgType(args)
}
