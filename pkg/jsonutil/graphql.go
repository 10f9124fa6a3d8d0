// Package jsonutil parses GraphQL response data into a generic value tree
// that the projection decoder walks.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseGraphQL parses the JSON-encoded GraphQL response data into a tree of
// map[string]any, []any, json.Number, string, bool and nil.
//
// The implementation is created on top of the JSON tokenizer available
// in "encoding/json".Decoder. Numbers are kept as json.Number so that
// scalar codecs decide how to read them: an ID of 9007199254740993 must
// not go through float64.
func ParseGraphQL(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{tokenizer: dec}
	v, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	tok, err := dec.Token()
	switch err {
	case io.EOF:
		// Expect to get io.EOF. There shouldn't be any more
		// tokens left after we've parsed the top-level value.
		return v, nil
	case nil:
		return nil, fmt.Errorf("invalid token '%v' after top-level value", tok)
	default:
		return nil, err
	}
}

// ParseObject is ParseGraphQL for data that must be a JSON object, which
// is the case for the "data" member of every GraphQL response.
func ParseObject(data []byte) (map[string]any, error) {
	v, err := ParseGraphQL(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", Describe(v))
	}
	return m, nil
}

// parser builds the value tree from a JSON tokenizer.
type parser struct {
	tokenizer interface {
		Token() (json.Token, error)
		More() bool
	}

	// Stack of what part of input JSON we're in the middle of - objects, arrays.
	parseState []json.Delim

	// path mirrors parseState with the key or index being parsed, for
	// error messages.
	path []string
}

func (p *parser) parseNext() (any, error) {
	tok, err := p.tokenizer.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, p.wrap(err)
	}
	return p.parseToken(tok)
}

func (p *parser) parseToken(tok json.Token) (any, error) {
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			return p.parseObject()
		case '[':
			return p.parseArray()
		default:
			return nil, p.wrap(fmt.Errorf("unexpected delimiter %q", tok))
		}
	case json.Number, string, bool, nil:
		return tok, nil
	default:
		return nil, p.wrap(fmt.Errorf("unexpected token %v", tok))
	}
}

func (p *parser) parseObject() (any, error) {
	p.parseState = append(p.parseState, '{')
	defer func() { p.parseState = p.parseState[:len(p.parseState)-1] }()

	obj := make(map[string]any)
	for p.tokenizer.More() {
		tok, err := p.tokenizer.Token()
		if err != nil {
			return nil, p.wrap(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, p.wrap(fmt.Errorf("expected object key, got %v", tok))
		}
		p.path = append(p.path, key)
		v, err := p.parseNext()
		p.path = p.path[:len(p.path)-1]
		if err != nil {
			return nil, err
		}
		obj[key] = v
	}
	if err := p.expectEnd('}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) parseArray() (any, error) {
	p.parseState = append(p.parseState, '[')
	defer func() { p.parseState = p.parseState[:len(p.parseState)-1] }()

	arr := make([]any, 0)
	for i := 0; p.tokenizer.More(); i++ {
		p.path = append(p.path, "["+strconv.Itoa(i)+"]")
		v, err := p.parseNext()
		p.path = p.path[:len(p.path)-1]
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if err := p.expectEnd(']'); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *parser) expectEnd(want json.Delim) error {
	tok, err := p.tokenizer.Token()
	if err != nil {
		return p.wrap(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return p.wrap(fmt.Errorf("expected %q, got %v", want, tok))
	}
	return nil
}

func (p *parser) wrap(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if len(p.path) == 0 {
		return err
	}
	return fmt.Errorf("%s: %w", FormatPath(p.path), err)
}

// FormatPath joins object keys and "[i]" index segments into a dotted
// path, e.g. "country.films[0].title".
func FormatPath(path []string) string {
	var b strings.Builder
	for _, seg := range path {
		if b.Len() > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Describe names the JSON kind of a parsed value, for error messages.
func Describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
