package engine

// AccessHolder is any record exposing a mutable access-flag field.
type AccessHolder interface {
	// AccessFlags returns the current access flags.
	AccessFlags() int32

	// SetAccessFlags replaces the access flags.
	SetAccessFlags(flags int32)
}

// ClassModel is the engine's view of a class record, as provided by the
// external class-file reader.
type ClassModel interface {
	AccessHolder

	// Name returns the internal class name, e.g. "org/example/Foo".
	Name() string

	// Methods returns the class's method records.
	Methods() []MemberModel

	// Fields returns the class's field records.
	Fields() []MemberModel

	// InnerClasses returns the mirror records of the inner-class
	// table. These duplicate the access flags of the referenced
	// classes and are non-authoritative.
	InnerClasses() []InnerClassModel
}

// MemberModel is the engine's view of a method or field record.
type MemberModel interface {
	AccessHolder

	// Name returns the member name.
	Name() string

	// Descriptor returns the member descriptor, e.g. "()V" or "I".
	Descriptor() string
}

// InnerClassModel is the engine's view of one inner-class table entry.
type InnerClassModel interface {
	AccessHolder

	// Name returns the internal name of the referenced class.
	Name() string
}

// Class is a plain ClassModel implementation for tests, tooling, and
// embedders without their own class representation.
type Class struct {
	ClassName    string
	Access       int32
	MethodNodes  []*Member
	FieldNodes   []*Member
	InnerEntries []*InnerClassRef
}

// Name implements ClassModel.
func (c *Class) Name() string { return c.ClassName }

// AccessFlags implements AccessHolder.
func (c *Class) AccessFlags() int32 { return c.Access }

// SetAccessFlags implements AccessHolder.
func (c *Class) SetAccessFlags(flags int32) { c.Access = flags }

// Methods implements ClassModel.
func (c *Class) Methods() []MemberModel {
	out := make([]MemberModel, len(c.MethodNodes))
	for i, m := range c.MethodNodes {
		out[i] = m
	}
	return out
}

// Fields implements ClassModel.
func (c *Class) Fields() []MemberModel {
	out := make([]MemberModel, len(c.FieldNodes))
	for i, f := range c.FieldNodes {
		out[i] = f
	}
	return out
}

// InnerClasses implements ClassModel.
func (c *Class) InnerClasses() []InnerClassModel {
	out := make([]InnerClassModel, len(c.InnerEntries))
	for i, ic := range c.InnerEntries {
		out[i] = ic
	}
	return out
}

// Member is a plain MemberModel implementation.
type Member struct {
	MemberName string
	Desc       string
	Access     int32
}

// Name implements MemberModel.
func (m *Member) Name() string { return m.MemberName }

// Descriptor implements MemberModel.
func (m *Member) Descriptor() string { return m.Desc }

// AccessFlags implements AccessHolder.
func (m *Member) AccessFlags() int32 { return m.Access }

// SetAccessFlags implements AccessHolder.
func (m *Member) SetAccessFlags(flags int32) { m.Access = flags }

// InnerClassRef is a plain InnerClassModel implementation.
type InnerClassRef struct {
	InnerName string
	Access    int32
}

// Name implements InnerClassModel.
func (ic *InnerClassRef) Name() string { return ic.InnerName }

// AccessFlags implements AccessHolder.
func (ic *InnerClassRef) AccessFlags() int32 { return ic.Access }

// SetAccessFlags implements AccessHolder.
func (ic *InnerClassRef) SetAccessFlags(flags int32) { ic.Access = flags }
