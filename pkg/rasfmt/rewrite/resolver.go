package rewrite

// Resolver supplies the old-name to new-name mappings produced by an
// external renaming engine. Implementations must return the input
// unchanged for names they do not map.
type Resolver interface {
	// MapClassName maps an internal class name such as
	// "org/example/Outer$Inner".
	MapClassName(name string) string

	// MapMethodName maps a method name. The owner is the original
	// (unmapped) internal name of the declaring class.
	MapMethodName(owner, name, desc string) string

	// MapMethodDescriptor maps a method descriptor such as
	// "(Ljava/lang/String;)V".
	MapMethodDescriptor(desc string) string

	// MapFieldName maps a field name. The owner is the original
	// (unmapped) internal name of the declaring class.
	MapFieldName(owner, name, desc string) string

	// MapFieldDescriptor maps a field descriptor such as "I" or
	// "Lorg/example/Type;".
	MapFieldDescriptor(desc string) string
}

// MapResolver is a Resolver backed by plain lookup maps, primarily for
// tests and tooling. Member keys are "owner.name" for methods and
// fields; descriptor keys are the descriptors themselves. Missing
// entries resolve to the input.
type MapResolver struct {
	Classes     map[string]string
	Methods     map[string]string
	Fields      map[string]string
	Descriptors map[string]string
}

// MapClassName implements Resolver.
func (m *MapResolver) MapClassName(name string) string {
	return lookup(m.Classes, name, name)
}

// MapMethodName implements Resolver.
func (m *MapResolver) MapMethodName(owner, name, desc string) string {
	return lookup(m.Methods, owner+"."+name, name)
}

// MapMethodDescriptor implements Resolver.
func (m *MapResolver) MapMethodDescriptor(desc string) string {
	return lookup(m.Descriptors, desc, desc)
}

// MapFieldName implements Resolver.
func (m *MapResolver) MapFieldName(owner, name, desc string) string {
	return lookup(m.Fields, owner+"."+name, name)
}

// MapFieldDescriptor implements Resolver.
func (m *MapResolver) MapFieldDescriptor(desc string) string {
	return lookup(m.Descriptors, desc, desc)
}

func lookup(m map[string]string, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
