package scan

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/pablor21/annomodel/annotations"
	"github.com/pablor21/annomodel/models"
)

// AnnotationParam is an annotation parameter whose value is an enum constant.
type AnnotationParam struct {
	Target     string // annotated declaration, e.g. "example.com/canvas.Widget.Fill"
	Annotation annotations.Annotation
	Param      string // parameter key; "" for positional arguments
	Record     *models.EnumRecord
	// Value is the model of Record, built once when the parameter is collected.
	// Every pass shares it, so its owning class resolves a single time.
	Value    *models.EnumValue
	Position token.Position
}

func (idx *Index) collectParams() []AnnotationParam {
	var out []AnnotationParam
	for _, pkg := range idx.pkgs {
		if pkg.Types == nil {
			continue
		}
		for _, file := range pkg.Syntax {
			w := paramWalker{idx: idx, pkg: pkg, file: file}
			w.walk()
			out = append(out, w.params...)
		}
	}
	return out
}

type paramWalker struct {
	idx    *Index
	pkg    *packages.Package
	file   *ast.File
	params []AnnotationParam
}

func (w *paramWalker) walk() {
	for _, decl := range w.file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			// A doc comment on an ungrouped declaration belongs to its single spec.
			var declDoc *ast.CommentGroup
			if !d.Lparen.IsValid() {
				declDoc = d.Doc
			}
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					target := w.target(s.Name.Name)
					w.collect(target, declDoc, s.Doc, s.Comment)
					if st, ok := s.Type.(*ast.StructType); ok {
						w.collectFields(target, st.Fields)
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						w.collect(w.target(name.Name), declDoc, s.Doc, s.Comment)
					}
				}
			}
		case *ast.FuncDecl:
			name := d.Name.Name
			if recv := receiverName(d); recv != "" {
				name = recv + "." + name
			}
			w.collect(w.target(name), d.Doc)
		}
	}
}

func (w *paramWalker) collectFields(target string, fields *ast.FieldList) {
	if fields == nil {
		return
	}
	for _, f := range fields.List {
		names := make([]string, 0, len(f.Names))
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
		if len(names) == 0 {
			names = append(names, embeddedName(f.Type))
		}
		for _, n := range names {
			w.collect(target+"."+n, f.Doc, f.Comment)
		}
	}
}

func (w *paramWalker) target(name string) string {
	return models.Descriptor(w.pkg.PkgPath, name)
}

func (w *paramWalker) collect(target string, groups ...*ast.CommentGroup) {
	for _, ann := range annotations.ParseAnnotations(groups) {
		if !w.idx.wantAnnotation(ann) {
			continue
		}
		for _, cand := range candidates(ann) {
			c, owner, ok := w.resolveConst(cand.ref)
			if !ok {
				continue
			}
			record := w.idx.recordFor(c, owner)
			value, err := models.FromStaticRecord(record)
			if err != nil {
				slog.Warn("Skipping annotation value", "target", target, "ref", cand.ref, "error", err)
				continue
			}
			w.params = append(w.params, AnnotationParam{
				Target:     target,
				Annotation: ann,
				Param:      cand.param,
				Record:     record,
				Value:      value,
				Position:   w.pkg.Fset.Position(ann.Pos),
			})
		}
	}
}

type candidate struct {
	param string
	ref   string
}

// candidates lists every value of ann that could name a constant: named
// parameter values (list elements included), positional arguments, and bare
// flags, which are positional identifiers such as @paint(Red). Quoted values
// are string literals and never name a constant.
func candidates(ann annotations.Annotation) []candidate {
	var out []candidate
	keys := make([]string, 0, len(ann.Raw))
	for k := range ann.Raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		raw := ann.Raw[k]
		if raw == "" && token.IsIdentifier(k) {
			out = append(out, candidate{ref: k})
			continue
		}
		for _, ref := range listElements(raw) {
			out = append(out, candidate{param: k, ref: ref})
		}
	}
	for _, raw := range ann.RawArgs {
		for _, ref := range listElements(raw) {
			out = append(out, candidate{ref: ref})
		}
	}
	return out
}

// listElements splits a raw value like "[a, b]" into its unquoted elements.
func listElements(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	var out []string
	for _, el := range strings.Split(raw, ",") {
		el = strings.TrimSpace(el)
		if el != "" && !annotations.IsQuoted(el) {
			out = append(out, el)
		}
	}
	return out
}

// resolveConst resolves Name or alias.Name, as written in w.file, to an enum constant.
func (w *paramWalker) resolveConst(ref string) (*types.Const, *types.TypeName, bool) {
	var obj types.Object
	if alias, name, qualified := strings.Cut(ref, "."); qualified {
		if !token.IsIdentifier(alias) || !token.IsIdentifier(name) {
			return nil, nil, false
		}
		tp := w.importedPackage(alias)
		if tp == nil {
			return nil, nil, false
		}
		obj = tp.Scope().Lookup(name)
	} else {
		if !token.IsIdentifier(ref) {
			return nil, nil, false
		}
		obj = w.pkg.Types.Scope().Lookup(ref)
	}

	c, ok := obj.(*types.Const)
	if !ok {
		return nil, nil, false
	}
	named, ok := types.Unalias(c.Type()).(*types.Named)
	if !ok {
		return nil, nil, false
	}
	if _, ok := w.idx.enums[descriptorOf(named.Obj())]; !ok {
		return nil, nil, false
	}
	return c, named.Obj(), true
}

// importedPackage finds the package the file imports under alias.
func (w *paramWalker) importedPackage(alias string) *types.Package {
	for _, imp := range w.file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := ""
		switch {
		case imp.Name != nil:
			name = imp.Name.Name
		case w.pkg.Imports[importPath] != nil:
			name = w.pkg.Imports[importPath].Name
		default:
			name = path.Base(importPath)
		}
		if name != alias {
			continue
		}
		for _, tp := range w.pkg.Types.Imports() {
			if tp.Path() == importPath {
				return tp
			}
		}
	}
	return nil
}

func receiverName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}
	return embeddedName(d.Recv.List[0].Type)
}

// embeddedName returns the type name of a receiver or embedded field expression.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}
