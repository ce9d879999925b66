package runtime

import "sort"

// Attr is a property attribute bitmask.
type Attr uint8

const (
	AttrDontEnum Attr = 1 << iota
	AttrReadOnly
	AttrPermanent
)

// Scriptable is the contract every guest-visible object satisfies.
type Scriptable interface {
	ClassName() string
	Get(name string) (Value, bool)
	GetIndex(index int) (Value, bool)
	Put(name string, value Value)
	PutIndex(index int, value Value)
	Has(name string) bool
	HasIndex(index int) bool
	Delete(name string)
	Ids() []Value
	Prototype() Scriptable
	SetPrototype(proto Scriptable)
	ParentScope() Scriptable
	SetParentScope(parent Scriptable)
}

type slot struct {
	value Value
	attrs Attr
}

// ScriptableObject is the default property-map implementation of Scriptable.
// Guest objects embed it and override the pieces they specialize.
type ScriptableObject struct {
	class   string
	proto   Scriptable
	parent  Scriptable
	named   map[string]slot
	indexed map[int]slot
}

// NewScriptableObject creates an empty object with the given class name.
func NewScriptableObject(class string) *ScriptableObject {
	return &ScriptableObject{class: class}
}

func (o *ScriptableObject) ClassName() string {
	if o.class == "" {
		return "Object"
	}
	return o.class
}

// Get looks the property up on the object, then along the prototype chain.
func (o *ScriptableObject) Get(name string) (Value, bool) {
	if s, ok := o.named[name]; ok {
		return s.value, true
	}
	for proto := o.proto; proto != nil; proto = proto.Prototype() {
		if v, ok := proto.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (o *ScriptableObject) GetIndex(index int) (Value, bool) {
	if s, ok := o.indexed[index]; ok {
		return s.value, true
	}
	for proto := o.proto; proto != nil; proto = proto.Prototype() {
		if v, ok := proto.GetIndex(index); ok {
			return v, true
		}
	}
	return nil, false
}

func (o *ScriptableObject) Put(name string, value Value) {
	if s, ok := o.named[name]; ok && s.attrs&AttrReadOnly != 0 {
		return
	}
	if o.named == nil {
		o.named = make(map[string]slot)
	}
	attrs := o.named[name].attrs
	o.named[name] = slot{value: value, attrs: attrs}
}

func (o *ScriptableObject) PutIndex(index int, value Value) {
	if s, ok := o.indexed[index]; ok && s.attrs&AttrReadOnly != 0 {
		return
	}
	if o.indexed == nil {
		o.indexed = make(map[int]slot)
	}
	attrs := o.indexed[index].attrs
	o.indexed[index] = slot{value: value, attrs: attrs}
}

func (o *ScriptableObject) Has(name string) bool {
	_, ok := o.named[name]
	return ok
}

func (o *ScriptableObject) HasIndex(index int) bool {
	_, ok := o.indexed[index]
	return ok
}

func (o *ScriptableObject) Delete(name string) {
	if s, ok := o.named[name]; ok && s.attrs&AttrPermanent != 0 {
		return
	}
	delete(o.named, name)
}

// Ids returns the enumerable own property keys, indices first in ascending
// order, then names.
func (o *ScriptableObject) Ids() []Value {
	indices := make([]int, 0, len(o.indexed))
	for i, s := range o.indexed {
		if s.attrs&AttrDontEnum == 0 {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	ids := make([]Value, 0, len(indices)+len(o.named))
	for _, i := range indices {
		ids = append(ids, i)
	}
	names := make([]string, 0, len(o.named))
	for name, s := range o.named {
		if s.attrs&AttrDontEnum == 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		ids = append(ids, name)
	}
	return ids
}

func (o *ScriptableObject) Prototype() Scriptable            { return o.proto }
func (o *ScriptableObject) SetPrototype(proto Scriptable)    { o.proto = proto }
func (o *ScriptableObject) ParentScope() Scriptable          { return o.parent }
func (o *ScriptableObject) SetParentScope(parent Scriptable) { o.parent = parent }

// DefineProperty installs a named property with the given attributes,
// replacing any attributes already on the slot.
func (o *ScriptableObject) DefineProperty(name string, value Value, attrs Attr) {
	if o.named == nil {
		o.named = make(map[string]slot)
	}
	o.named[name] = slot{value: value, attrs: attrs}
}

// DefineProperty installs an attributed named property on any Scriptable,
// falling back to a plain Put for objects without attribute storage.
func DefineProperty(target Scriptable, name string, value Value, attrs Attr) {
	type definer interface {
		DefineProperty(name string, value Value, attrs Attr)
	}
	if d, ok := target.(definer); ok {
		d.DefineProperty(name, value, attrs)
		return
	}
	target.Put(name, value)
}

// GetTopScopeValue walks the parent chain of start to the top scope and reads
// the named property there.
func GetTopScopeValue(start Scriptable, name string) Value {
	top := start
	for top.ParentScope() != nil {
		top = top.ParentScope()
	}
	if v, ok := top.Get(name); ok {
		return v
	}
	return Undefined
}

// ObjectPrototype returns the realm's shared Object prototype reachable from
// the given scope, or nil when the scope carries none.
func ObjectPrototype(scope Scriptable) Scriptable {
	ctor := GetTopScopeValue(scope, "Object")
	obj, ok := ctor.(Scriptable)
	if !ok {
		return nil
	}
	proto, ok := obj.Get("prototype")
	if !ok {
		return nil
	}
	p, _ := proto.(Scriptable)
	return p
}
