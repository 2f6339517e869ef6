package types

// Implicitly imported java.lang names the front-end resolves without an import.
var javaLang = map[string]string{
	"Object":       "java.lang.Object",
	"String":       "java.lang.String",
	"CharSequence": "java.lang.CharSequence",
	"Number":       "java.lang.Number",
	"Integer":      "java.lang.Integer",
	"Long":         "java.lang.Long",
	"Short":        "java.lang.Short",
	"Byte":         "java.lang.Byte",
	"Character":    "java.lang.Character",
	"Boolean":      "java.lang.Boolean",
	"Float":        "java.lang.Float",
	"Double":       "java.lang.Double",
	"Math":         "java.lang.Math",
	"System":       "java.lang.System",
	"Comparable":   "java.lang.Comparable",
}

// superOf describes the java.lang hierarchy needed for assignability.
var superOf = map[string][]string{
	"java.lang.String":    {"java.lang.Object", "java.lang.CharSequence", "java.lang.Comparable"},
	"java.lang.Number":    {"java.lang.Object"},
	"java.lang.Integer":   {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Long":      {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Short":     {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Byte":      {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Float":     {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Double":    {"java.lang.Number", "java.lang.Comparable"},
	"java.lang.Character": {"java.lang.Object", "java.lang.Comparable"},
	"java.lang.Boolean":   {"java.lang.Object", "java.lang.Comparable"},
}

var boxes = map[string]string{
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"short":   "java.lang.Short",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"boolean": "java.lang.Boolean",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

var unboxes = func() map[string]string {
	m := make(map[string]string, len(boxes))
	for p, b := range boxes {
		m[b] = p
	}
	return m
}()

// ObjectFQN is the root of the reference hierarchy.
const ObjectFQN = "java.lang.Object"

// JavaLang resolves an implicitly imported simple name.
func JavaLang(simple string) (string, bool) {
	fqn, ok := javaLang[simple]
	return fqn, ok
}

// Box returns the wrapper class for a primitive keyword.
func Box(primitive string) (string, bool) {
	b, ok := boxes[primitive]
	return b, ok
}

// Unbox returns the primitive keyword for a wrapper class.
func Unbox(fqn string) (string, bool) {
	p, ok := unboxes[fqn]
	return p, ok
}

// IsPrimitiveName reports whether name is one of the eight primitive keywords.
func IsPrimitiveName(name string) bool {
	_, ok := boxes[name]
	return ok
}
