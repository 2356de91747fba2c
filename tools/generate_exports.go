package main

import (
	"bufio"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportInfo holds information about an exportable item
type ExportInfo struct {
	Name      string
	Type      string // "type", "const", "var", "func"
	Category  string // grouping category
	Qualifier string // package identifier in exports.go
}

func main() {
	fmt.Println("Generating exports.go...")

	exports := []ExportInfo{}

	// Parse interfaces package for types, constants, and functions
	interfaceExports, err := parsePackageExports("interfaces", "interfaces")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing interfaces package: %v\n", err)
		os.Exit(1)
	}
	exports = append(exports, interfaceExports...)

	// Parse typejson_errors package for errors and error types
	errorExports, err := parsePackageExports("typejson_errors", "typejsonErrors")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing typejson_errors package: %v\n", err)
		os.Exit(1)
	}
	exports = append(exports, errorExports...)

	if err := generateExportsFile(exports); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating exports.go: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("exports.go generated successfully!")
}

func parsePackageExports(dir, qualifier string) ([]ExportInfo, error) {
	var exports []ExportInfo

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fileExports, err := parseFileExports(path, qualifier)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		exports = append(exports, fileExports...)
		return nil
	})

	return exports, err
}

func parseFileExports(filePath, qualifier string) ([]ExportInfo, error) {
	var exports []ExportInfo

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	add := func(name, kind, category string) {
		if qualifier == "typejsonErrors" {
			category = "errors"
		}
		exports = append(exports, ExportInfo{Name: name, Type: kind, Category: category, Qualifier: qualifier})
	}

	for _, decl := range node.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok && ast.IsExported(ts.Name.Name) {
						add(ts.Name.Name, "type", categorizeType(ts.Name.Name))
					}
				}
			case token.CONST:
				for _, spec := range d.Specs {
					if vs, ok := spec.(*ast.ValueSpec); ok {
						for _, name := range vs.Names {
							if ast.IsExported(name.Name) {
								add(name.Name, "const", "constants")
							}
						}
					}
				}
			case token.VAR:
				for _, spec := range d.Specs {
					if vs, ok := spec.(*ast.ValueSpec); ok {
						for _, name := range vs.Names {
							if ast.IsExported(name.Name) {
								add(name.Name, "var", "variables")
							}
						}
					}
				}
			}
		case *ast.FuncDecl:
			// methods are reached through their types
			if d.Recv == nil && d.Name != nil && ast.IsExported(d.Name.Name) {
				add(d.Name.Name, "func", "functions")
			}
		}
	}

	return exports, nil
}

func categorizeType(typeName string) string {
	switch {
	case strings.Contains(typeName, "Registry") || strings.Contains(typeName, "Provider") || strings.Contains(typeName, "Middleware"):
		return "interfaces"
	case strings.Contains(typeName, "Option"):
		return "configuration"
	case strings.Contains(typeName, "Marshaler") || strings.HasSuffix(typeName, "able"):
		return "hooks"
	default:
		return "types"
	}
}

func generateExportsFile(exports []ExportInfo) error {
	file, err := os.Create("exports.go")
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	defer w.Flush()

	// Write header
	fmt.Fprintln(w, "package typejson")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "//go:generate go run tools/generate_exports.go")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "import (")

	// Determine which imports are needed
	needsErrors := false
	needsInterfaces := false

	for _, export := range exports {
		if export.Qualifier == "typejsonErrors" {
			needsErrors = true
		} else {
			needsInterfaces = true
		}
	}

	if needsInterfaces {
		fmt.Fprintln(w, "\t\"github.com/MichaelAJay/go-typejson/interfaces\"")
	}
	if needsErrors {
		fmt.Fprintln(w, "\ttypejsonErrors \"github.com/MichaelAJay/go-typejson/typejson_errors\"")
	}

	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)

	// Group exports by category
	categories := make(map[string][]ExportInfo)
	for _, export := range exports {
		categories[export.Category] = append(categories[export.Category], export)
	}

	// Sort categories for consistent output
	var categoryNames []string
	for cat := range categories {
		categoryNames = append(categoryNames, cat)
	}
	sort.Strings(categoryNames)

	// Generate each category
	for _, catName := range categoryNames {
		items := categories[catName]
		sort.Slice(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})

		writeCategory(w, catName, items)
	}

	// Write validation section
	writeValidation(w, exports)

	return nil
}

func writeCategory(w *bufio.Writer, category string, items []ExportInfo) {
	if len(items) == 0 {
		return
	}

	// Category header
	fmt.Fprintln(w, "// =============================================================================")
	fmt.Fprintf(w, "// %s\n", strings.ToUpper(category))
	fmt.Fprintln(w, "// =============================================================================")

	// Group by type within category
	types := make(map[string][]ExportInfo)
	for _, item := range items {
		types[item.Type] = append(types[item.Type], item)
	}

	writeBlock(w, "type", types["type"])
	writeBlock(w, "const", types["const"])

	// Variables and functions share a var block
	varItems := append(append([]ExportInfo{}, types["var"]...), types["func"]...)
	writeBlock(w, "var", varItems)

	fmt.Fprintln(w)
}

func writeBlock(w *bufio.Writer, keyword string, items []ExportInfo) {
	if len(items) == 0 {
		return
	}
	width := 0
	for _, item := range items {
		if len(item.Name) > width {
			width = len(item.Name)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s (\n", keyword)
	for _, item := range items {
		fmt.Fprintf(w, "\t%-*s = %s.%s\n", width, item.Name, item.Qualifier, item.Name)
	}
	fmt.Fprintln(w, ")")
}

func writeValidation(w *bufio.Writer, exports []ExportInfo) {
	fmt.Fprintln(w, "// =============================================================================")
	fmt.Fprintln(w, "// COMPILE-TIME VALIDATION")
	fmt.Fprintln(w, "// =============================================================================")
	fmt.Fprintln(w, "// Ensure re-exported types maintain compatibility")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "var (")

	for _, export := range exports {
		if export.Type != "func" || !strings.HasPrefix(export.Name, "With") {
			continue
		}
		// Use appropriate zero values for different option constructors
		switch export.Name {
		case "WithName":
			fmt.Fprintf(w, "\t_ RegisterOption = interfaces.%s(\"\")\n", export.Name)
		default:
			fmt.Fprintf(w, "\t_ RegisterOption = interfaces.%s()\n", export.Name)
		}
	}
	fmt.Fprintln(w, "\t_ error = (*DecodeError)(nil)")
	fmt.Fprintln(w, "\t_ error = (*EncodeError)(nil)")
	fmt.Fprintln(w, "\t_ error = (*SyntaxError)(nil)")

	fmt.Fprintln(w, ")")
}
