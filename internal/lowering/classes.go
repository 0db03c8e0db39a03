package lowering

import (
	"strings"

	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/jdyn"
)

// classInfo is the lowering-time view of one unit.
type classInfo struct {
	class *ast.Class
	id    string
	// fields maps a host field name to its relation, own fields first
	fields map[string]jdyn.Field
}

// classTable resolves host type names to module ids and field relations.
type classTable struct {
	byName map[string]*classInfo
	infos  []*classInfo
}

func newClassTable(units []*ast.Class) *classTable {
	t := &classTable{byName: map[string]*classInfo{}}
	for _, c := range units {
		info := &classInfo{class: c, id: config.SanitizeName(c.QualifiedName()), fields: map[string]jdyn.Field{}}
		t.infos = append(t.infos, info)
		for _, name := range []string{c.QualifiedName(), c.Name, info.id} {
			if _, taken := t.byName[name]; !taken {
				t.byName[name] = info
			}
		}
	}
	for _, info := range t.infos {
		t.collectFields(info, info.class, 0)
	}
	return t
}

// collectFields adds the fields of c and of its superclasses that are units.
func (t *classTable) collectFields(info *classInfo, c *ast.Class, depth int) {
	if c == nil || depth > len(t.infos) {
		return
	}
	owner := config.SanitizeName(c.QualifiedName())
	for _, f := range c.Fields {
		if _, ok := info.fields[f.Name]; ok {
			continue
		}
		typ, _ := t.resolve(f.Type)
		info.fields[f.Name] = jdyn.Field{Name: owner + "_" + f.Name, Type: typ}
	}
	if c.Superclass != "" {
		if super := t.lookup(c.Superclass); super != nil {
			t.collectFields(info, super.class, depth+1)
		}
	}
}

func (t *classTable) lookup(name string) *classInfo {
	return t.byName[name]
}

// ownFields returns the relations declared by the class itself, in source order.
func (info *classInfo) ownFields() []jdyn.Field {
	var out []jdyn.Field
	for _, f := range info.class.Fields {
		out = append(out, info.fields[f.Name])
	}
	return out
}

// resolve maps a host type to its relational type. The second result is
// false for array types, which have no relational counterpart.
func (t *classTable) resolve(ref *ast.TypeRef) (jdyn.Type, bool) {
	if ref == nil {
		return jdyn.Type{}, false
	}
	if ref.Array {
		return jdyn.Type{}, false
	}
	switch ref.Name {
	case "int", "long", "short", "byte", "char", "Integer", "java.lang.Integer":
		return jdyn.Int, true
	case "boolean", "Boolean", "java.lang.Boolean":
		return jdyn.Bool, true
	}
	return jdyn.Ref(t.classID(ref.Name)), true
}

// classID returns the module id of a class name. Names that are not units are
// taken from java.lang when unqualified.
func (t *classTable) classID(name string) string {
	if info := t.lookup(name); info != nil {
		return info.id
	}
	if !strings.Contains(name, ".") {
		name = "java.lang." + name
	}
	return config.SanitizeName(name)
}

// exceptionLiteral names the singleton signature standing for a thrown exception.
func (t *classTable) exceptionLiteral(name string) string {
	return t.classID(name) + "Lit"
}

// domain is the relation a quantified variable of the given type ranges over.
func domain(typ jdyn.Type) string {
	switch typ.Kind {
	case jdyn.KindInt:
		return "Int"
	case jdyn.KindBool:
		return "boolean"
	default:
		return typ.Class
	}
}
