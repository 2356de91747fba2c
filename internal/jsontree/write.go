package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Format controls how a tree is written.
type Format struct {
	Indent     int  // spaces per nesting level, 0 for compact output
	EscapeHTML bool // escape <, > and & inside strings
	SortKeys   bool // sort members of ordered objects too
}

func (f Format) api() jsoniter.API {
	return jsoniter.Config{
		IndentionStep: f.Indent,
		EscapeHTML:    f.EscapeHTML,
		SortMapKeys:   true,
	}.Froze()
}

// Marshal writes tree as JSON text.
func Marshal(tree any, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tree, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams tree as JSON text to w. The tree may only contain nil,
// bool, strings, numbers, []any, map[string]any and *Object.
func Write(w io.Writer, tree any, f Format) error {
	stream := jsoniter.NewStream(f.api(), w, 512)
	tw := treeWriter{stream: stream, sortKeys: f.SortKeys, escapeHTML: f.EscapeHTML, indent: f.Indent}
	if err := tw.value(tree); err != nil {
		return err
	}
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

type treeWriter struct {
	stream     *jsoniter.Stream
	sortKeys   bool
	escapeHTML bool
	indent     int
}

func (tw treeWriter) value(v any) error {
	s := tw.stream
	switch x := v.(type) {
	case nil:
		s.WriteNil()
	case bool:
		s.WriteBool(x)
	case string:
		if tw.escapeHTML {
			s.WriteStringWithHTMLEscaped(x)
		} else {
			s.WriteString(x)
		}
	case int:
		s.WriteInt(x)
	case int64:
		s.WriteInt64(x)
	case int32:
		s.WriteInt32(x)
	case uint64:
		s.WriteUint64(x)
	case uint:
		s.WriteUint(x)
	case float64:
		return tw.float(x)
	case float32:
		return tw.float(float64(x))
	case jsoniter.Number:
		s.WriteRaw(string(x))
	case json.Number:
		s.WriteRaw(string(x))
	case []any:
		return tw.array(x)
	case *Object:
		keys := x.keys
		if tw.sortKeys {
			keys = x.Keys()
			sort.Strings(keys)
		}
		return tw.object(keys, x.values)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return tw.object(keys, x)
	default:
		return fmt.Errorf("jsontree: unsupported tree node %T", v)
	}
	return s.Error
}

// float always writes a fraction or exponent so floats stay floats when
// read back.
func (tw treeWriter) float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("jsontree: unsupported float value %v", f)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'f' && bytes.IndexByte(b, '.') < 0 {
		b = append(b, '.', '0')
	}
	tw.stream.WriteRaw(string(b))
	return nil
}

func (tw treeWriter) colon() string {
	if tw.indent > 0 {
		return ": "
	}
	return ":"
}

func (tw treeWriter) array(items []any) error {
	s := tw.stream
	if len(items) == 0 {
		s.WriteEmptyArray()
		return nil
	}
	s.WriteArrayStart()
	for i, item := range items {
		if i > 0 {
			s.WriteMore()
		}
		if err := tw.value(item); err != nil {
			return err
		}
	}
	s.WriteArrayEnd()
	return s.Error
}

func (tw treeWriter) object(keys []string, values map[string]any) error {
	s := tw.stream
	if len(keys) == 0 {
		s.WriteEmptyObject()
		return nil
	}
	s.WriteObjectStart()
	for i, k := range keys {
		if i > 0 {
			s.WriteMore()
		}
		if tw.escapeHTML {
			s.WriteStringWithHTMLEscaped(k)
			s.WriteRaw(tw.colon())
		} else {
			s.WriteObjectField(k)
		}
		if err := tw.value(values[k]); err != nil {
			return err
		}
	}
	s.WriteObjectEnd()
	return s.Error
}
