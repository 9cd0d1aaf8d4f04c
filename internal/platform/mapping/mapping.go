// Package mapping evaluates declarative field mappings over decoded JSON.
//
// An expression is one or more alternatives separated by '|'. Each
// alternative is either a dotted path into the record ("apply.url",
// "tags.0") or a quoted literal ('Unknown'). The first alternative that
// yields a non-empty value wins. Evaluation only reads the record.
package mapping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"oppsync/internal/core/domain"
)

// term is one alternative of an expression.
type term struct {
	literal string
	path    []string
	isLit   bool
}

// Expr is a compiled mapping expression.
type Expr struct {
	src   string
	terms []term
}

// String returns the source text.
func (e Expr) String() string { return e.src }

// Compile parses an expression.
func Compile(src string) (Expr, error) {
	e := Expr{src: src}
	parts, err := splitAlternatives(src)
	if err != nil {
		return e, err
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return e, fmt.Errorf("empty alternative in %q", src)
		}
		if q := p[0]; q == '\'' || q == '"' {
			if len(p) < 2 || p[len(p)-1] != q {
				return e, fmt.Errorf("unterminated literal in %q", src)
			}
			e.terms = append(e.terms, term{literal: p[1 : len(p)-1], isLit: true})
			continue
		}
		segs := strings.Split(p, ".")
		for _, s := range segs {
			if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t'\"") {
				return e, fmt.Errorf("invalid path %q", p)
			}
		}
		e.terms = append(e.terms, term{path: segs})
	}
	return e, nil
}

// splitAlternatives splits on '|' outside quotes.
func splitAlternatives(src string) ([]string, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	var (
		out   []string
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == '|':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated literal in %q", src)
	}
	return append(out, cur.String()), nil
}

// Eval returns the first non-empty alternative, or nil.
func (e Expr) Eval(record any) any {
	for _, t := range e.terms {
		if t.isLit {
			if t.literal != "" {
				return t.literal
			}
			continue
		}
		if v, ok := lookup(record, t.path); ok && !isEmpty(v) {
			return v
		}
	}
	return nil
}

// Lookup walks a dotted path through maps and slices. An empty path
// returns root.
func Lookup(root any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return root, root != nil
	}
	return lookup(root, strings.Split(path, "."))
}

func lookup(cur any, segs []string) (any, bool) {
	for _, s := range segs {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[s]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

// Mapping is a compiled target-field -> expression table.
type Mapping struct {
	fields map[string]Expr
}

// CompileMapping compiles every entry and returns the problems found, in
// target order. The mapping is usable only when no problem is returned.
func CompileMapping(table map[string]string) (*Mapping, []string) {
	m := &Mapping{fields: make(map[string]Expr, len(table))}
	var problems []string

	for _, target := range sortedKeys(table) {
		if !domain.IsRawItemField(target) {
			problems = append(problems, fmt.Sprintf("mapping target %q is not a known field", target))
			continue
		}
		expr, err := Compile(table[target])
		if err != nil {
			problems = append(problems, fmt.Sprintf("mapping for %q: %v", target, err))
			continue
		}
		m.fields[target] = expr
	}
	return m, problems
}

// Len returns the number of mapped targets.
func (m *Mapping) Len() int { return len(m.fields) }

// Apply evaluates every expression against record. List targets get a
// []string (strings are split on ';'); scalar targets get a string.
// Targets that resolve to nothing are left out.
func (m *Mapping) Apply(record any) map[string]any {
	out := make(map[string]any, len(m.fields))
	for target, expr := range m.fields {
		v := expr.Eval(record)
		if v == nil {
			continue
		}
		if domain.ListFields[target] {
			if list := ToStrings(v); len(list) > 0 {
				out[target] = list
			}
			continue
		}
		if s, ok := scalar(v); ok {
			out[target] = s
		}
	}
	return out
}

// ToStrings converts a decoded value into a list of strings. Strings are
// split on ';', arrays are flattened one level, empty entries are dropped.
func ToStrings(v any) []string {
	var out []string
	switch x := v.(type) {
	case string:
		for _, p := range strings.Split(x, ";") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	case []string:
		for _, p := range x {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	case []any:
		for _, el := range x {
			if s, ok := scalar(el); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	default:
		if s, ok := scalar(v); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// scalar renders strings, numbers and booleans; objects and arrays are rejected.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int, int64, bool:
		return fmt.Sprint(x), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
