// Command typejson-inspect prints the type tags found in a type-tagged JSON
// document together with the JSON path of each tagged object. It only reads
// the tags; no type is resolved or rebuilt.
//
// Usage:
//
//	typejson-inspect [-indent] FILE|-
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/jsontree"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("typejson-inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	indent := fs.Bool("indent", false, "indent tags by how deeply they are nested in other tagged objects")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: typejson-inspect [-indent] FILE|-")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	log := logger.New(logger.Config{Level: logger.ErrorLevel, Output: stderr})

	in := stdin
	if name := fs.Arg(0); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			log.Error("Failed to open document", logger.Field{Key: "file", Value: name}, logger.Field{Key: "error", Value: err.Error()})
			return 1
		}
		defer f.Close()
		in = f
	}

	tree, err := jsontree.ParseReader(in, nil)
	if err != nil {
		log.Error("Failed to parse document", logger.Field{Key: "error", Value: err.Error()})
		return 1
	}

	for _, e := range outline(tree) {
		prefix := ""
		if *indent {
			prefix = strings.Repeat("  ", e.depth)
		}
		fmt.Fprintf(stdout, "%s%s\t%s\n", prefix, e.path, e.tag.Qualified())
	}
	return 0
}

type entry struct {
	path  string
	tag   interfaces.TypeTag
	depth int
}

// outline lists the tagged objects of tree in document order.
func outline(tree any) []entry {
	var out []entry
	var walk func(v any, path string, depth int)
	walk = func(v any, path string, depth int) {
		switch x := v.(type) {
		case *jsontree.Object:
			if tag, ok := tagOf(x); ok {
				out = append(out, entry{path: path, tag: tag, depth: depth})
				depth++
			}
			for _, k := range x.Keys() {
				if k == interfaces.ClassKey || k == interfaces.ModuleKey {
					continue
				}
				child, _ := x.Get(k)
				walk(child, path+member(k), depth)
			}
		case []any:
			for i, child := range x {
				walk(child, path+"["+strconv.Itoa(i)+"]", depth)
			}
		}
	}
	walk(tree, "$", 0)
	return out
}

func tagOf(obj *jsontree.Object) (interfaces.TypeTag, bool) {
	raw, ok := obj.Get(interfaces.ClassKey)
	if !ok {
		return interfaces.TypeTag{}, false
	}
	var tag interfaces.TypeTag
	tag.Class, _ = raw.(string)
	if mod, ok := obj.Get(interfaces.ModuleKey); ok {
		tag.Module, _ = mod.(string)
	}
	return tag, !tag.IsZero()
}

func member(key string) string {
	if key != "" && strings.IndexFunc(key, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0 {
		return "." + key
	}
	return "[" + strconv.Quote(key) + "]"
}
