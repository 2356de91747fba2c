package jsontree

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// ObjectHook is called for every JSON object once all of its members have
// been parsed, innermost objects first. Its result replaces the object.
type ObjectHook func(obj *Object) (any, error)

var parseAPI = jsoniter.Config{}.Froze()

// Parse reads a single JSON document. Objects are passed through hook; with
// a nil hook they stay *Object. Integral numbers become int64, or uint64
// above math.MaxInt64; all other numbers float64.
func Parse(data []byte, hook ObjectHook) (any, error) {
	iter := jsoniter.ParseBytes(parseAPI, data)
	v, err := parse(iter, hook, nil)
	var se *typejsonErrors.SyntaxError
	if errors.As(err, &se) {
		se.Offset = errorOffset(data)
	}
	return v, err
}

// errorOffset replays data one byte at a time and returns how many bytes
// had been read when parsing failed.
func errorOffset(data []byte) int64 {
	cr := &countingReader{r: bytes.NewReader(data)}
	_, _ = parse(jsoniter.Parse(parseAPI, cr, 1), nil, nil)
	return cr.n
}

// ParseReader is Parse over a stream. Read failures are returned as is, not
// as syntax errors. Syntax errors carry no offset.
func ParseReader(r io.Reader, hook ObjectHook) (any, error) {
	er := &errReader{r: r}
	iter := jsoniter.Parse(parseAPI, er, 4096)
	return parse(iter, hook, er)
}

func parse(iter *jsoniter.Iterator, hook ObjectHook, er *errReader) (any, error) {
	p := &parser{iter: iter, hook: hook}
	v := p.value()
	if er != nil && er.err != nil {
		return nil, er.err
	}
	if p.hookErr != nil {
		return nil, p.hookErr
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, &typejsonErrors.SyntaxError{Msg: iter.Error.Error()}
	}
	iter.WhatIsNext()
	if er != nil && er.err != nil {
		return nil, er.err
	}
	if iter.Error != io.EOF {
		return nil, &typejsonErrors.SyntaxError{Msg: "unexpected data after top-level value"}
	}
	return v, nil
}

type parser struct {
	iter    *jsoniter.Iterator
	hook    ObjectHook
	hookErr error
}

func (p *parser) ok() bool {
	return p.hookErr == nil && (p.iter.Error == nil || p.iter.Error == io.EOF)
}

func (p *parser) value() any {
	iter := p.iter
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return p.number(string(iter.ReadNumber()))
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.ArrayValue:
		items := make([]any, 0)
		iter.ReadArrayCB(func(*jsoniter.Iterator) bool {
			items = append(items, p.value())
			return p.ok()
		})
		if !p.ok() {
			return nil
		}
		return items
	case jsoniter.ObjectValue:
		obj := NewObject(4)
		iter.ReadMapCB(func(_ *jsoniter.Iterator, key string) bool {
			obj.Set(key, p.value())
			return p.ok()
		})
		if !p.ok() {
			return nil
		}
		if p.hook == nil {
			return obj
		}
		out, err := p.hook(obj)
		if err != nil {
			p.hookErr = err
			return nil
		}
		return out
	default:
		iter.ReportError("parse", "expected a JSON value")
		return nil
	}
}

func (p *parser) number(lit string) any {
	if lit == "" || lit[0] == '+' {
		p.iter.ReportError("parse", "invalid number literal "+strconv.Quote(lit))
		return nil
	}
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return n
		}
		if lit[0] != '-' {
			if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
				return u
			}
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.iter.ReportError("parse", "invalid number literal "+strconv.Quote(lit))
		return nil
	}
	return f
}

type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) Read(b []byte) (int, error) {
	n, err := e.r.Read(b)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
