// Package ir defines the external input contract: the already-linked,
// class-based intermediate representation this backend consumes. These
// types describe what an upstream linker hands the backend; the linker
// itself, the instruction-selection pass, and the classpath loader that
// produced this IR are all out of scope (see spec §1, §6).
package ir

// ClassKind distinguishes the handful of class shapes the backend must
// treat differently when building vtables and itables.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindModuleClass
	KindInterface
	KindAbstractClass
	KindHijackedClass
	KindJSClass
)

// TypeRef is a reference to a type as written in the linked IR, prior to
// being lowered to a Wasm StorageType. See preprocess.InferType.
type TypeRef struct {
	// Primitive is set for primitive refs (int, boolean, ...), to one of
	// the PrimitiveKind constants below.
	Primitive PrimitiveKind
	// IsPrimitive distinguishes a primitive TypeRef from a class/array one.
	IsPrimitive bool

	// ObjectClass is true for the top object type, which lowers to `any`.
	ObjectClass bool

	// ClassName is set for a reference to a user-defined class or interface.
	ClassName string

	// ArrayOf is set for an array type reference; it names the element's
	// TypeRef recursively.
	ArrayOf *TypeRef
}

// PrimitiveKind enumerates the primitive refs a TypeRef.Primitive may carry.
type PrimitiveKind int

const (
	PrimVoid PrimitiveKind = iota
	PrimBoolean
	PrimByte
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimChar
)

// MethodDef is a method as exposed by a linked class: its namespace-qualified
// name, ordered argument list, result type, and an optional body. Pass 1 of
// the preprocessor only checks whether body is present; its contents are
// only inspected by Pass 2, for Apply nodes; this
// package does not model full method bodies, only the shape needed to
// recover erased abstract slots (see internal/preprocess).
type MethodDef struct {
	Namespace  string
	Name       string
	Args       []Param
	ResultType TypeRef
	Body       *Tree // nil iff the method is abstract
}

// ConstructorNamespace marks a MethodDef as a constructor. Constructors are
// excluded from ClassInfo.Methods by the preprocessor because they are
// never virtually dispatched (spec §4.D Pass 1).
const ConstructorNamespace = "constructor"

// IsConstructor reports whether m is a constructor.
func (m MethodDef) IsConstructor() bool {
	return m.Namespace == ConstructorNamespace
}

// Param is a method parameter name paired with its declared type.
type Param struct {
	Name string
	Type TypeRef
}

// FieldDef is a field as exposed by a linked class.
type FieldDef struct {
	Name string
	Type TypeRef
}

// JSNativeLoadSpec describes how a JS-native class's global object is
// reached at runtime; opaque to this backend beyond being present or not.
type JSNativeLoadSpec struct {
	Spec string
}

// JSNativeMemberSpec is opaque JS-interop metadata for one member.
type JSNativeMemberSpec struct {
	MethodName string
	LoadSpec   string
}

// LinkedClass is one class as supplied by the upstream linker.
type LinkedClass struct {
	Name       string
	Kind       ClassKind
	Methods    []MethodDef
	Fields     []FieldDef
	SuperClass string // empty if none
	HasSuper   bool
	Interfaces []string
	Ancestors  []string // includes self + transitive supers/interfaces

	JSNativeLoadSpec *JSNativeLoadSpec
	JSNativeMembers  map[string]JSNativeMemberSpec

	// ExportedMembers are additional trees (e.g. top-level exports) that
	// Pass 2 must also walk for Apply nodes, beyond method bodies.
	ExportedMembers []*Tree
}

// Tree is a minimal IR expression tree: just enough structure for Pass 2 to
// find Apply nodes and their statically-typed receivers. Everything else in
// a method body is instruction-selection's concern (out of scope, see
// spec §1) and is represented opaquely as Children.
type Tree struct {
	Apply    *Apply
	Children []*Tree
}

// Apply is a virtual method call node: `receiver.methodName(args)`.
type Apply struct {
	Flags        ApplyFlags
	Receiver     TypeRef
	MethodName   string
	Args         []TypeRef
	ArgsResult   TypeRef
	HasArgsTypes bool
}

// ApplyFlags carries call-site modifiers (e.g. statically resolved) that
// this backend does not currently branch on, but that the contract reserves
// for the instruction-selection pass.
type ApplyFlags uint8

// ModuleInitializer is one of the two module-initializer shapes a driver
// may supply (see spec §4.C, §6).
type ModuleInitializer struct {
	ClassName  string
	MethodName string
	// WithArgs is true for the MainMethodWithArgs variant. Per spec §4.C
	// step 2 and §9, this variant is recognized but intentionally produces
	// no start instructions: argv plumbing is not yet supported.
	WithArgs bool
	Args     []string
}
