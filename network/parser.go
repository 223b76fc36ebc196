package network

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/scanner"
)

// Load reads a network description from the given file.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	net, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse network in %q: %v", path, err)
	}
	return net, nil
}

// Parse parses a network description from the given input Reader.
//
// The format is line oriented. Blank lines and lines starting with '#'
// are ignored. A regulation line has the form "SRC -> TGT" ("->" for an
// activation, "-|" for an inhibition, "-?" for a regulation of unknown
// sign; a trailing '?' such as in "->?" marks the regulation as
// non-observable). An update line has the form "$VAR: EXPR", where EXPR
// is a boolean expression built (from lowest to highest priority) from
// "<=>", "=>", "|", "&", the unary "!", parentheses, variable names and
// the constants true/false (or 1/0). Variables are declared implicitly
// by appearing in either kind of line; a variable with no update line
// keeps an undetermined update function over its declared regulators.
func Parse(r io.Reader) (*Network, error) {
	net := NewNetwork()
	type update struct {
		name string
		expr Expr
		line int
	}
	var updates []update
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "$") {
			name, expr, err := parseUpdate(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", num, err)
			}
			updates = append(updates, update{name: name, expr: expr, line: num})
			net.AddVariable(name)
			continue
		}
		reg, err := parseRegulation(net, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", num, err)
		}
		if err := net.AddRegulation(reg); err != nil {
			return nil, fmt.Errorf("line %d: %v", num, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// Update expressions may reference variables in any order, so they
	// are registered only once every line has been read. Registration
	// follows the order of appearance in the expression, keeping the
	// variable ordering deterministic.
	for _, u := range updates {
		for _, name := range supportOrdered(u.expr) {
			net.AddVariable(name)
		}
		v, _ := net.Index(u.name)
		if err := net.SetFunction(v, u.expr); err != nil {
			return nil, fmt.Errorf("line %d: %v", u.line, err)
		}
	}
	if net.NbVars() == 0 {
		return nil, fmt.Errorf("network has no variables")
	}
	return net, nil
}

// parseRegulation parses a "SRC arrow TGT" line, declaring both
// variables on the fly.
func parseRegulation(net *Network, line string) (Regulation, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Regulation{}, fmt.Errorf("invalid line %q: expected \"source arrow target\"", line)
	}
	src, a, tgt := fields[0], fields[1], fields[2]
	if !validName(src) {
		return Regulation{}, fmt.Errorf("invalid variable name %q", src)
	}
	if !validName(tgt) {
		return Regulation{}, fmt.Errorf("invalid variable name %q", tgt)
	}
	reg := Regulation{Observable: true}
	if strings.HasSuffix(a, "?") && len(a) > 2 {
		reg.Observable = false
		a = a[:len(a)-1]
	}
	switch a {
	case "->":
		reg.Sign = Activation
	case "-|":
		reg.Sign = Inhibition
	case "-?":
		reg.Sign = Unknown
	default:
		return Regulation{}, fmt.Errorf("invalid regulation arrow %q", fields[1])
	}
	reg.Source = net.AddVariable(src)
	reg.Target = net.AddVariable(tgt)
	return reg, nil
}

// parseUpdate parses a "$VAR: EXPR" line.
func parseUpdate(line string) (string, Expr, error) {
	body := strings.TrimPrefix(line, "$")
	colon := strings.Index(body, ":")
	if colon < 0 {
		return "", nil, fmt.Errorf("invalid update line %q: missing ':'", line)
	}
	name := strings.TrimSpace(body[:colon])
	if !validName(name) {
		return "", nil, fmt.Errorf("invalid variable name %q", name)
	}
	expr, err := ParseExpr(body[colon+1:])
	if err != nil {
		return "", nil, fmt.Errorf("invalid update function for %q: %v", name, err)
	}
	return name, expr, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

type exprParser struct {
	s     scanner.Scanner
	eof   bool   // Have we reached eof yet?
	token string // Last token read
}

// ParseExpr parses a boolean update expression.
func ParseExpr(s string) (Expr, error) {
	p := exprParser{}
	p.s.Init(strings.NewReader(s))
	p.s.Error = func(*scanner.Scanner, string) {} // errors are reported through tokens
	p.scan()
	if p.eof {
		return nil, fmt.Errorf("expected expression, found EOF")
	}
	e, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if !p.eof {
		return nil, fmt.Errorf("unexpected trailing token %q at %s", p.token, p.s.Pos())
	}
	return e, nil
}

func isOperator(token string) bool {
	return token == "<" || token == "=" || token == "|" || token == "&"
}

func (p *exprParser) scan() {
	if p.eof {
		return
	}
	p.eof = p.s.Scan() == scanner.EOF
	p.token = p.s.TokenText()
}

// scanArrow consumes the "=>" part of an implication or equivalence
// arrow, the leading token having already been consumed.
func (p *exprParser) scanArrow(arrow string) error {
	if p.eof || p.token != "=" {
		return fmt.Errorf("invalid token while reading %q at %s", arrow, p.s.Pos())
	}
	p.scan()
	if p.eof || p.token != ">" {
		return fmt.Errorf("invalid token while reading %q at %s", arrow, p.s.Pos())
	}
	p.scan()
	if p.eof {
		return fmt.Errorf("unexpected EOF after %q", arrow)
	}
	return nil
}

func (p *exprParser) parseIff() (e Expr, err error) {
	e, err = p.parseImp()
	if err != nil {
		return nil, err
	}
	if p.eof || p.token != "<" {
		return e, nil
	}
	p.scan()
	if err := p.scanArrow("<=>"); err != nil {
		return nil, err
	}
	e2, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	return Iff{L: e, R: e2}, nil
}

func (p *exprParser) parseImp() (e Expr, err error) {
	e, err = p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.eof || p.token != "=" {
		return e, nil
	}
	if err := p.scanArrow("=>"); err != nil {
		return nil, err
	}
	e2, err := p.parseImp()
	if err != nil {
		return nil, err
	}
	return Imp{L: e, R: e2}, nil
}

func (p *exprParser) parseOr() (e Expr, err error) {
	e, err = p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.eof || p.token != "|" {
		return e, nil
	}
	p.scan()
	if p.eof {
		return nil, fmt.Errorf("unexpected EOF")
	}
	e2, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return Or{L: e, R: e2}, nil
}

func (p *exprParser) parseAnd() (e Expr, err error) {
	e, err = p.parseNot()
	if err != nil {
		return nil, err
	}
	if p.eof || p.token != "&" {
		return e, nil
	}
	p.scan()
	if p.eof {
		return nil, fmt.Errorf("unexpected EOF")
	}
	e2, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	return And{L: e, R: e2}, nil
}

func (p *exprParser) parseNot() (e Expr, err error) {
	if isOperator(p.token) {
		return nil, fmt.Errorf("unexpected token %q at %s", p.token, p.s.Pos())
	}
	if p.token == "!" {
		p.scan()
		if p.eof {
			return nil, fmt.Errorf("unexpected EOF")
		}
		e, err = p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{X: e}, nil
	}
	return p.parseBasic()
}

func (p *exprParser) parseBasic() (e Expr, err error) {
	if isOperator(p.token) || p.token == ")" {
		return nil, fmt.Errorf("unexpected token %q at %s", p.token, p.s.Pos())
	}
	if p.token == "(" {
		p.scan()
		if p.eof {
			return nil, fmt.Errorf("unexpected EOF")
		}
		e, err = p.parseIff()
		if err != nil {
			return nil, err
		}
		if p.eof {
			return nil, fmt.Errorf("expected closing parenthesis, found EOF at %s", p.s.Pos())
		}
		if p.token != ")" {
			return nil, fmt.Errorf("expected closing parenthesis, found %q at %s", p.token, p.s.Pos())
		}
		p.scan()
		return e, nil
	}
	defer p.scan()
	switch p.token {
	case "true", "1":
		return Const(true), nil
	case "false", "0":
		return Const(false), nil
	}
	if !validName(p.token) {
		return nil, fmt.Errorf("unexpected token %q at %s", p.token, p.s.Pos())
	}
	return Var(p.token), nil
}
