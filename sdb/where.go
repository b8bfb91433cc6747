package sdb

import (
	"fmt"
	"reflect"
	"strings"
)

// operators maps the operator suffixes accepted in condition fields to
// their select expression form.
var operators = map[string]string{
	"eq":      "=",
	"noteq":   "!=",
	"gt":      ">",
	"gte":     ">=",
	"lt":      "<",
	"lte":     "<=",
	"like":    "like",
	"notlike": "not like",
	"btwn":    "between",
	"in":      "in",
}

// reservedKeywords are the select grammar words that need backquoting
// when used as attribute names.
var reservedKeywords = map[string]bool{
	"or": true, "and": true, "not": true, "from": true, "where": true,
	"select": true, "like": true, "null": true, "is": true, "order": true,
	"by": true, "asc": true, "desc": true, "in": true, "between": true,
	"intersection": true, "limit": true, "every": true,
}

// itemNameRef addresses the item name pseudo-attribute in expressions.
const itemNameRef = "itemName()"

const (
	connAnd = "AND"
	connOr  = "OR"
)

// condTerm is one comparison leaf.
type condTerm struct {
	attr  string
	op    string
	value any
	every bool
}

// condChild is either a leaf term or a nested subtree.
type condChild struct {
	term  *condTerm
	group *Cond
}

// Cond is an immutable boolean expression over attribute comparisons.
// The zero Cond is empty and renders no text, so conditions can be
// accumulated starting from nothing. And and Or return new values and
// never modify their receivers.
//
// Construction problems such as an unknown operator are carried inside
// the value and surface when the condition is compiled, which keeps
// builder chains free of error returns.
type Cond struct {
	conn     string
	children []condChild
	err      error
}

// Where builds a condition from a field key and a value. The key is an
// attribute name optionally followed by "__" and an operator name:
//
//	Where("name", "mike")        // name = 'mike'
//	Where("age__lt", 25)         // age < '25' through the encoder
//	Where("color__in", []string{"red", "blue"})
//	Where("deleted", nil)        // deleted IS NULL
//
// Operators: eq, noteq, gt, gte, lt, lte, like, notlike, btwn, in. A
// bare attribute name means equality.
func Where(field string, value any) Cond {
	attr, op, err := splitField(field)
	if err != nil {
		return Cond{err: err}
	}
	return newTerm(attr, op, value, false)
}

// Every builds a condition that must hold for every value of a
// multi-valued attribute rather than at least one.
func Every(field string, value any) Cond {
	attr, op, err := splitField(field)
	if err != nil {
		return Cond{err: err}
	}
	return newTerm(attr, op, value, true)
}

// ItemName builds an equality condition on the item name itself.
func ItemName(value any) Cond {
	return newTerm(itemNameRef, "eq", value, false)
}

// ItemNameWhere builds a condition on the item name with an explicit
// operator from the same table Where accepts, such as "in" or "like".
func ItemNameWhere(op string, value any) Cond {
	if _, ok := operators[op]; !ok {
		return Cond{err: fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, op)}
	}
	return newTerm(itemNameRef, op, value, false)
}

func newTerm(attr, op string, value any, every bool) Cond {
	if err := checkValue(op, value); err != nil {
		return Cond{err: err}
	}
	term := &condTerm{attr: attr, op: op, value: value, every: every}
	return Cond{conn: connAnd, children: []condChild{{term: term}}}
}

func splitField(field string) (attr, op string, err error) {
	parts := strings.Split(field, "__")
	if len(parts) > 2 || parts[0] == "" {
		return "", "", fmt.Errorf("%w: bad condition field %q", ErrInvalidQuery, field)
	}
	if len(parts) == 1 {
		return parts[0], "eq", nil
	}
	if _, ok := operators[parts[1]]; !ok {
		return "", "", fmt.Errorf("%w: unknown operator %q in field %q", ErrInvalidQuery, parts[1], field)
	}
	return parts[0], parts[1], nil
}

func checkValue(op string, value any) error {
	switch op {
	case "btwn":
		pair, ok := valueSlice(value)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("%w: between needs exactly two values", ErrInvalidQuery)
		}
	case "in":
		values, ok := valueSlice(value)
		if !ok || len(values) == 0 {
			return fmt.Errorf("%w: in needs a non-empty slice of values", ErrInvalidQuery)
		}
	}
	return nil
}

// valueSlice unpacks slice and array values. []byte counts as a scalar.
func valueSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []byte:
		return nil, false
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Err reports any construction problem carried by the condition, such as
// an unknown operator or a between with the wrong arity. Compiling a
// condition that carries an error returns it, so checking here is
// optional.
func (c Cond) Err() error { return c.err }

// And returns the conjunction of c and other.
func (c Cond) And(other Cond) Cond {
	return c.combine(other, connAnd)
}

// Or returns the disjunction of c and other.
func (c Cond) Or(other Cond) Cond {
	return c.combine(other, connOr)
}

func (c Cond) combine(other Cond, conn string) Cond {
	merged := c.clone()
	if merged.err == nil {
		merged.err = other.err
	}
	merged.add(other, conn)
	return merged
}

func (c Cond) clone() Cond {
	return Cond{
		conn:     c.conn,
		children: append([]condChild(nil), c.children...),
		err:      c.err,
	}
}

// add merges other into c under conn, flattening wherever associativity
// allows so rendered expressions carry no redundant parentheses.
func (c *Cond) add(other Cond, conn string) {
	if len(c.children) < 2 {
		c.conn = conn
	}
	if c.conn == conn {
		c.children = appendTree(c.children, other, conn)
		return
	}
	// Different connector: the current children move down one level as a
	// parenthesized group and other joins them at the top.
	prev := c.clone()
	c.conn = conn
	c.children = appendTree(nil, prev, conn)
	c.children = appendTree(c.children, other, conn)
}

// appendTree adds t's content to children. A tree whose connector
// matches conn, or with fewer than two children, contributes its
// children directly; anything else nests as a group.
func appendTree(children []condChild, t Cond, conn string) []condChild {
	if t.conn == conn || len(t.children) <= 1 {
		return append(children, t.children...)
	}
	group := t.clone()
	return append(children, condChild{group: &group})
}

// Expression compiles the condition to select expression text.
// Comparison values are encoded through enc under domain; a nil enc
// writes values as plain strings. An empty condition compiles to "".
func (c Cond) Expression(domain string, enc Encoder) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if enc == nil {
		enc = identityEncoder{}
	}
	return c.expression(domain, enc)
}

func (c Cond) expression(domain string, enc Encoder) (string, error) {
	parts := make([]string, 0, len(c.children))
	for _, child := range c.children {
		if child.term != nil {
			s, err := child.term.expression(domain, enc)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
			continue
		}
		s, err := child.group.expression(domain, enc)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+s+")")
	}
	return strings.Join(parts, " "+c.conn+" "), nil
}

func (t *condTerm) expression(domain string, enc Encoder) (string, error) {
	name := quoteName(t.attr)
	if t.every {
		name = "every(" + name + ")"
	}
	switch t.op {
	case "eq":
		if t.value == nil {
			return name + " IS NULL", nil
		}
	case "noteq":
		if t.value == nil {
			return name + " IS NOT NULL", nil
		}
	case "in":
		values, _ := valueSlice(t.value)
		encoded := make([]string, len(values))
		for i, v := range values {
			s, err := encodeValue(domain, t.attr, v, enc)
			if err != nil {
				return "", err
			}
			encoded[i] = s
		}
		return name + " in(" + strings.Join(encoded, ", ") + ")", nil
	case "btwn":
		pair, _ := valueSlice(t.value)
		lo, err := encodeValue(domain, t.attr, pair[0], enc)
		if err != nil {
			return "", err
		}
		hi, err := encodeValue(domain, t.attr, pair[1], enc)
		if err != nil {
			return "", err
		}
		return name + " between " + lo + " and " + hi, nil
	}
	v, err := encodeValue(domain, t.attr, t.value, enc)
	if err != nil {
		return "", err
	}
	return name + " " + operators[t.op] + " " + v, nil
}

// encodeValue runs value through the encoder and quotes the result for
// embedding in an expression.
func encodeValue(domain, attr string, value any, enc Encoder) (string, error) {
	s, err := enc.Encode(domain, attr, value)
	if err != nil {
		return "", err
	}
	return quoteValue(s), nil
}

// quoteValue single-quotes s, doubling any embedded quotes.
func quoteValue(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteName backquotes attribute names that collide with reserved words
// of the select grammar. Function references like itemName() pass
// through untouched.
func quoteName(name string) string {
	if reservedKeywords[strings.ToLower(name)] {
		return "`" + name + "`"
	}
	return name
}
