package javascript

import "github.com/dshills/textcore/internal/mode"

// ruleKind names a grammar continuation.
type ruleKind uint8

const (
	ruleStatement ruleKind = iota
	ruleExpression
	ruleMaybeExpression
	ruleMaybeOperator
	ruleMaybeLabel
	ruleProperty
	ruleObjProp
	ruleCommaSep
	ruleProceed
	ruleBlock
	ruleVarDef1
	ruleVarDef2
	ruleForSpec1
	ruleForMaybeIn
	ruleForSpec2
	ruleForSpec3
	ruleFunctionDef
	ruleFunArg
	ruleExpect
	rulePushLex
	rulePopLex
	rulePushContext
	rulePopContext
)

// rule is one entry of the continuation stack.
//
// arg holds the wanted token for ruleExpect, the closing token for
// ruleCommaSep and ruleProceed, and the lexical type for rulePushLex.
// info is the lexical info for rulePushLex. sub is the element rule of a
// comma separated list.
type rule struct {
	kind ruleKind
	arg  string
	info string
	sub  ruleKind
}

// lex rules run as soon as they reach the top of the stack after a token has
// been consumed.
func (r rule) lex() bool {
	return r.kind == rulePushLex || r.kind == rulePopLex
}

var (
	statement       = rule{kind: ruleStatement}
	expression      = rule{kind: ruleExpression}
	maybeExpression = rule{kind: ruleMaybeExpression}
	maybeOperator   = rule{kind: ruleMaybeOperator}
	maybeLabel      = rule{kind: ruleMaybeLabel}
	property        = rule{kind: ruleProperty}
	block           = rule{kind: ruleBlock}
	varDef1         = rule{kind: ruleVarDef1}
	varDef2         = rule{kind: ruleVarDef2}
	forSpec1        = rule{kind: ruleForSpec1}
	forMaybeIn      = rule{kind: ruleForMaybeIn}
	forSpec2        = rule{kind: ruleForSpec2}
	forSpec3        = rule{kind: ruleForSpec3}
	functionDef     = rule{kind: ruleFunctionDef}
	funArg          = rule{kind: ruleFunArg}
	popLex          = rule{kind: rulePopLex}
	pushContext     = rule{kind: rulePushContext}
	popContext      = rule{kind: rulePopContext}
)

func expect(wanted string) rule { return rule{kind: ruleExpect, arg: wanted} }

func pushLex(typ string) rule { return rule{kind: rulePushLex, arg: typ} }

func pushLexInfo(typ, info string) rule { return rule{kind: rulePushLex, arg: typ, info: info} }

func commaSep(what ruleKind, end string) rule {
	return rule{kind: ruleCommaSep, arg: end, sub: what}
}

var atomicTypes = map[string]bool{
	"atom": true, "number": true, "variable": true, "string": true, "regexp": true,
}

// maxSteps bounds the rules applied for one token. Well-formed grammars
// consume long before this.
const maxSteps = 512

// parseCtx is the per-token context threaded through rule application.
type parseCtx struct {
	st     *State
	stream *mode.Stream
	marked string
}

// parse feeds one token to the continuation stack and returns its style.
func parse(st *State, s *mode.Stream, tok token, style string, json bool) string {
	cx := &parseCtx{st: st, stream: s}
	if top := st.top(); top.align == alignUnset {
		top.align = alignTrue
	}

	for i := 0; i < maxSteps; i++ {
		var r rule
		if n := len(st.cc); n > 0 {
			r = st.cc[n-1]
			st.cc = st.cc[:n-1]
		} else if json {
			r = expression
		} else {
			r = statement
		}
		if !cx.apply(r, tok) {
			continue
		}
		for n := len(st.cc); n > 0 && st.cc[n-1].lex(); n = len(st.cc) {
			r := st.cc[n-1]
			st.cc = st.cc[:n-1]
			cx.apply(r, tok)
		}
		if cx.marked != "" {
			return cx.marked
		}
		if tok.typ == "variable" && st.inScope(tok.content) {
			return "variable-2"
		}
		return style
	}
	st.cc = st.cc[:0]
	return style
}

// pass pushes rules so that the first one is applied next.
func (cx *parseCtx) pass(rules ...rule) bool {
	for i := len(rules) - 1; i >= 0; i-- {
		cx.st.cc = append(cx.st.cc, rules[i])
	}
	return false
}

// cont pushes rules and consumes the current token.
func (cx *parseCtx) cont(rules ...rule) bool {
	cx.pass(rules...)
	return true
}

func (cx *parseCtx) register(name string) {
	cx.marked = "def"
	st := cx.st
	if st.context == nil {
		return
	}
	if st.vars.contains(name) {
		return
	}
	st.vars = &varList{name: name, next: st.vars}
}

// apply runs r against tok and reports whether the token was consumed.
func (cx *parseCtx) apply(r rule, tok token) bool {
	typ, value := tok.typ, tok.content
	st := cx.st

	switch r.kind {
	case ruleStatement:
		switch typ {
		case "var":
			return cx.cont(pushLex("vardef"), varDef1, expect(";"), popLex)
		case "keyword a":
			return cx.cont(pushLex("form"), expression, statement, popLex)
		case "keyword b":
			return cx.cont(pushLex("form"), statement, popLex)
		case "{":
			return cx.cont(pushLex("}"), block, popLex)
		case ";":
			return true
		case "function":
			return cx.cont(functionDef)
		case "for":
			return cx.cont(pushLex("form"), expect("("), pushLex(")"), forSpec1, expect(")"),
				popLex, statement, popLex)
		case "variable":
			return cx.cont(pushLex("stat"), maybeLabel)
		case "switch":
			return cx.cont(pushLex("form"), expression, pushLexInfo("}", "switch"), expect("{"),
				block, popLex, popLex)
		case "case":
			return cx.cont(expression, expect(":"))
		case "default":
			return cx.cont(expect(":"))
		case "catch":
			return cx.cont(pushLex("form"), pushContext, expect("("), funArg, expect(")"),
				statement, popLex, popContext)
		}
		return cx.pass(pushLex("stat"), expression, expect(";"), popLex)

	case ruleExpression:
		switch {
		case atomicTypes[typ]:
			return cx.cont(maybeOperator)
		case typ == "function":
			return cx.cont(functionDef)
		case typ == "keyword c":
			return cx.cont(maybeExpression)
		case typ == "(":
			return cx.cont(pushLex(")"), maybeExpression, expect(")"), popLex, maybeOperator)
		case typ == "operator":
			return cx.cont(expression)
		case typ == "[":
			return cx.cont(pushLex("]"), commaSep(ruleExpression, "]"), popLex, maybeOperator)
		case typ == "{":
			return cx.cont(pushLex("}"), commaSep(ruleObjProp, "}"), popLex, maybeOperator)
		}
		return true

	case ruleMaybeExpression:
		switch typ {
		case ";", "}", ")", "]", ",":
			return cx.pass()
		}
		return cx.pass(expression)

	case ruleMaybeOperator:
		switch {
		case typ == "operator" && (value == "++" || value == "--"):
			return cx.cont(maybeOperator)
		case typ == "operator":
			return cx.cont(expression)
		case typ == "(":
			return cx.cont(pushLex(")"), commaSep(ruleExpression, ")"), popLex, maybeOperator)
		case typ == ".":
			return cx.cont(property, maybeOperator)
		case typ == "[":
			return cx.cont(pushLex("]"), expression, expect("]"), popLex, maybeOperator)
		}
		return false

	case ruleMaybeLabel:
		if typ == ":" {
			return cx.cont(popLex, statement)
		}
		return cx.pass(maybeOperator, expect(";"), popLex)

	case ruleProperty:
		if typ == "variable" {
			cx.marked = "property"
			return true
		}
		return false

	case ruleObjProp:
		if typ == "variable" {
			cx.marked = "property"
		}
		if atomicTypes[typ] {
			return cx.cont(expect(":"), expression)
		}
		return false

	case ruleCommaSep:
		if typ == r.arg {
			return true
		}
		return cx.pass(rule{kind: r.sub}, rule{kind: ruleProceed, arg: r.arg, sub: r.sub})

	case ruleProceed:
		switch typ {
		case ",":
			return cx.cont(rule{kind: r.sub}, r)
		case r.arg:
			return true
		}
		return cx.cont(expect(r.arg))

	case ruleBlock:
		if typ == "}" {
			return true
		}
		return cx.pass(statement, block)

	case ruleVarDef1:
		if typ == "variable" {
			cx.register(value)
			return cx.cont(varDef2)
		}
		return true

	case ruleVarDef2:
		if value == "=" {
			return cx.cont(expression, varDef2)
		}
		if typ == "," {
			return cx.cont(varDef1)
		}
		return false

	case ruleForSpec1:
		switch typ {
		case "var":
			return cx.cont(varDef1, forSpec2)
		case ";":
			return cx.pass(forSpec2)
		case "variable":
			return cx.cont(forMaybeIn)
		}
		return cx.pass(forSpec2)

	case ruleForMaybeIn:
		if value == "in" {
			return cx.cont(expression)
		}
		return cx.cont(maybeOperator, forSpec2)

	case ruleForSpec2:
		if typ == ";" {
			return cx.cont(forSpec3)
		}
		if value == "in" {
			return cx.cont(expression)
		}
		return cx.cont(expression, expect(";"), forSpec3)

	case ruleForSpec3:
		if typ != ")" {
			return cx.pass(expression)
		}
		return false

	case ruleFunctionDef:
		if typ == "variable" {
			cx.register(value)
			return cx.cont(functionDef)
		}
		if typ == "(" {
			return cx.cont(pushLex(")"), pushContext, commaSep(ruleFunArg, ")"), popLex,
				statement, popContext)
		}
		return false

	case ruleFunArg:
		if typ == "variable" {
			cx.register(value)
			return true
		}
		return false

	case ruleExpect:
		if typ == r.arg {
			return true
		}
		if r.arg == ";" {
			return false
		}
		return cx.cont(r)

	case rulePushLex:
		st.lexical = append(st.lexical, lexical{
			indented: st.indented,
			column:   cx.stream.Column(),
			typ:      r.arg,
			info:     r.info,
		})
		return false

	case rulePopLex:
		if n := len(st.lexical); n > 1 {
			if st.lexical[n-1].typ == ")" {
				st.indented = st.lexical[n-1].indented
			}
			st.lexical = st.lexical[:n-1]
		}
		return false

	case rulePushContext:
		if st.context == nil {
			st.vars = defaultVars
		}
		st.context = &scope{prev: st.context, vars: st.vars}
		return false

	case rulePopContext:
		if st.context != nil {
			st.vars = st.context.vars
			st.context = st.context.prev
		}
		return false
	}
	return false
}
