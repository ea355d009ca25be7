package expression

import (
	"fmt"
	"strings"
)

// Translate compiles a condition expression to a Lua chunk that returns
// its result.
//
// Variables are written {name} and may use dotted paths ({panel.age}).
// Comparisons =, ==, !=, <>, <, <=, >, >= never fail on missing values.
// The word operators contains, notcontains, anyof and allof are binary;
// empty and notempty are postfix. Logical operators are and, or, not and
// their C spellings. Array literals use brackets: {color} anyof ['red', 'blue'].
func Translate(expression string) (string, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return "", err
	}
	p := &parser{tokens: tokens}
	if p.peek().kind == tokEOF {
		return "", fmt.Errorf("empty expression")
	}
	out, err := p.parseOr()
	if err != nil {
		return "", err
	}
	if t := p.peek(); t.kind != tokEOF {
		return "", fmt.Errorf("unexpected %s", t)
	}
	return "return " + out, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// word reports whether the next token is the keyword w, case
// insensitively.
func (p *parser) word(words ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", false
	}
	for _, w := range words {
		if strings.EqualFold(t.text, w) {
			return w, true
		}
	}
	return "", false
}

func (p *parser) op(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(op string) error {
	if _, ok := p.op(op); !ok {
		return fmt.Errorf("expected %q, got %s", op, p.peek())
	}
	p.next()
	return nil
}

func (p *parser) parseOr() (string, error) {
	left, err := p.parseAnd()
	if err != nil {
		return "", err
	}
	for {
		_, isWord := p.word("or")
		_, isOp := p.op("||")
		if !isWord && !isOp {
			return left, nil
		}
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return "", err
		}
		left = "(" + left + " or " + right + ")"
	}
}

func (p *parser) parseAnd() (string, error) {
	left, err := p.parseNot()
	if err != nil {
		return "", err
	}
	for {
		_, isWord := p.word("and")
		_, isOp := p.op("&&")
		if !isWord && !isOp {
			return left, nil
		}
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return "", err
		}
		left = "(" + left + " and " + right + ")"
	}
}

func (p *parser) parseNot() (string, error) {
	_, isWord := p.word("not")
	_, isOp := p.op("!")
	if isWord || isOp {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return "", err
		}
		return "(not " + operand + ")", nil
	}
	return p.parseComparison()
}

var comparisons = map[string]string{
	"=":  "eq",
	"==": "eq",
	"!=": "ne",
	"<>": "ne",
	"<":  "lt",
	"<=": "le",
	">":  "gt",
	">=": "ge",
}

func (p *parser) parseComparison() (string, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return "", err
	}
	if op, ok := p.op("=", "==", "!=", "<>", "<", "<=", ">", ">="); ok {
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("__cmp(%q, %s, %s)", comparisons[op], left, right), nil
	}
	if w, ok := p.word("contains", "notcontains", "anyof", "allof"); ok {
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s)", w, left, right), nil
	}
	if w, ok := p.word("empty", "notempty"); ok {
		p.next()
		return fmt.Sprintf("%s(%s)", w, left), nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (string, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return "", err
	}
	for {
		op, ok := p.op("+", "-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return "", err
		}
		if op == "+" {
			left = "__add(" + left + ", " + right + ")"
		} else {
			left = "(" + left + " - " + right + ")"
		}
	}
}

func (p *parser) parseMultiplicative() (string, error) {
	left, err := p.parseUnary()
	if err != nil {
		return "", err
	}
	for {
		op, ok := p.op("*", "/", "%")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
}

func (p *parser) parseUnary() (string, error) {
	if _, ok := p.op("-"); ok {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return "", err
		}
		return "(-" + operand + ")", nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (string, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.text, nil
	case tokString:
		return luaQuote(t.text), nil
	case tokVariable:
		return "__value(" + luaQuote(t.text) + ")", nil
	case tokIdent:
		switch strings.ToLower(t.text) {
		case "true", "false":
			return strings.ToLower(t.text), nil
		case "null", "undefined":
			return "nil", nil
		}
		if _, ok := p.op("("); !ok {
			return "", fmt.Errorf("unknown identifier %s", t)
		}
		if !isFunction(t.text) {
			return "", fmt.Errorf("unknown function %s", t)
		}
		p.next()
		args, err := p.parseList(")")
		if err != nil {
			return "", err
		}
		return strings.ToLower(t.text) + "(" + args + ")", nil
	case tokOp:
		switch t.text {
		case "(":
			inner, err := p.parseOr()
			if err != nil {
				return "", err
			}
			if err := p.expect(")"); err != nil {
				return "", err
			}
			return "(" + inner + ")", nil
		case "[":
			items, err := p.parseList("]")
			if err != nil {
				return "", err
			}
			return "{" + items + "}", nil
		}
	}
	return "", fmt.Errorf("unexpected %s", t)
}

// parseList reads comma separated expressions up to the closing op.
func (p *parser) parseList(closing string) (string, error) {
	var items []string
	if _, ok := p.op(closing); ok {
		p.next()
		return "", nil
	}
	for {
		item, err := p.parseOr()
		if err != nil {
			return "", err
		}
		items = append(items, item)
		if _, ok := p.op(","); ok {
			p.next()
			continue
		}
		if err := p.expect(closing); err != nil {
			return "", err
		}
		return strings.Join(items, ", "), nil
	}
}

// luaQuote renders s as a Lua string literal using decimal escapes for
// control characters.
func luaQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, "\\%03d", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
