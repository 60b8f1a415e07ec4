package nimmy

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Interfaces

type Object interface {
	String() string
	Type() string
	IsTruthy() bool
}

type Hashable interface {
	Hash() uint32
}

// Core Types

type NilObj struct{}

func (n NilObj) String() string { return "nil" }
func (n NilObj) Type() string   { return "nil" }
func (n NilObj) IsTruthy() bool { return false }
func (n NilObj) Hash() uint32   { return 0 }

type BoolObj struct {
	Value bool
}

func (b BoolObj) String() string { return strconv.FormatBool(b.Value) }
func (b BoolObj) Type() string   { return "bool" }
func (b BoolObj) IsTruthy() bool { return b.Value }
func (b BoolObj) Hash() uint32 {
	h := fnv.New32a()
	if b.Value {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return h.Sum32()
}

type IntObj struct {
	Value int64
}

func (n IntObj) String() string { return strconv.FormatInt(n.Value, 10) }
func (n IntObj) Type() string   { return "int" }
func (n IntObj) IsTruthy() bool { return n.Value != 0 }
func (n IntObj) Hash() uint32   { return hashFloat(float64(n.Value)) }

type FloatObj struct {
	Value float64
}

func (n FloatObj) String() string { return formatFloat(n.Value) }
func (n FloatObj) Type() string   { return "float" }
func (n FloatObj) IsTruthy() bool { return n.Value != 0 }
func (n FloatObj) Hash() uint32   { return hashFloat(n.Value) }

// formatFloat renders a float with a trailing ".0" when it has no fractional
// or exponent part, so 2.0 does not print as "2".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Ints and floats that compare equal must hash equal for set membership.
func hashFloat(v float64) uint32 {
	h := fnv.New32a()
	binary.Write(h, binary.LittleEndian, v)
	return h.Sum32()
}

type StringObj struct {
	Value string
}

func (s StringObj) String() string { return s.Value }
func (s StringObj) Type() string   { return "string" }
func (s StringObj) IsTruthy() bool { return s.Value != "" }
func (s StringObj) Hash() uint32 {
	h := fnv.New32a()
	h.Write([]byte(s.Value))
	return h.Sum32()
}

// Container Types

type ArrayObj struct {
	Elements []Object
}

func (a *ArrayObj) String() string {
	var elements []string
	for _, e := range a.Elements {
		elements = append(elements, e.String())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}
func (a *ArrayObj) Type() string   { return "array" }
func (a *ArrayObj) IsTruthy() bool { return len(a.Elements) > 0 }
func (a *ArrayObj) Hash() uint32 {
	var h uint32 = 0x811c9dc5
	for _, elem := range a.Elements {
		h ^= hashObject(elem)
		h *= 0x01000193
	}
	return h
}

type TableObj struct {
	Entries map[string]Object
}

func NewTable() *TableObj {
	return &TableObj{Entries: make(map[string]Object)}
}

func (t *TableObj) SortedKeys() []string {
	keys := make([]string, 0, len(t.Entries))
	for k := range t.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *TableObj) String() string {
	var pairs []string
	for _, k := range t.SortedKeys() {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, t.Entries[k].String()))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
func (t *TableObj) Type() string   { return "table" }
func (t *TableObj) IsTruthy() bool { return len(t.Entries) > 0 }
func (t *TableObj) Hash() uint32 {
	var h uint32 = 0x811c9dc5
	for _, k := range t.SortedKeys() {
		h ^= StringObj{Value: k}.Hash()
		h *= 0x01000193
		h ^= hashObject(t.Entries[k])
		h *= 0x01000193
	}
	return h
}

// SetObj stores members in hash buckets with structural equality on
// collision. Tables do not use this shape: their keys are strings, so
// TableObj is a plain Go map.
type SetObj struct {
	buckets map[uint32][]Object
	size    int
}

func NewSet() *SetObj {
	return &SetObj{buckets: make(map[uint32][]Object)}
}

func (s *SetObj) Contains(v Object) bool {
	h := hashObject(v)
	for _, member := range s.buckets[h] {
		if ObjectsEqual(member, v) {
			return true
		}
	}
	return false
}

func (s *SetObj) Add(v Object) {
	h := hashObject(v)
	for _, member := range s.buckets[h] {
		if ObjectsEqual(member, v) {
			return
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	s.size++
}

func (s *SetObj) Remove(v Object) bool {
	h := hashObject(v)
	bucket := s.buckets[h]
	for i, member := range bucket {
		if ObjectsEqual(member, v) {
			s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			if len(s.buckets[h]) == 0 {
				delete(s.buckets, h)
			}
			s.size--
			return true
		}
	}
	return false
}

func (s *SetObj) Len() int { return s.size }

// Items returns the members in hash order, stable per bucket.
func (s *SetObj) Items() []Object {
	hashes := make([]uint32, 0, len(s.buckets))
	for h := range s.buckets {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	items := make([]Object, 0, s.size)
	for _, h := range hashes {
		items = append(items, s.buckets[h]...)
	}
	return items
}

func (s *SetObj) String() string {
	var elements []string
	for _, e := range s.Items() {
		elements = append(elements, e.String())
	}
	return "{" + strings.Join(elements, ", ") + "}"
}
func (s *SetObj) Type() string   { return "set" }
func (s *SetObj) IsTruthy() bool { return s.size > 0 }

type TypeObj struct {
	Name   string
	Fields []string
}

func (t *TypeObj) String() string { return fmt.Sprintf("<type %s>", t.Name) }
func (t *TypeObj) Type() string   { return "type" }
func (t *TypeObj) IsTruthy() bool { return true }

type InstanceObj struct {
	Desc   *TypeObj
	Fields map[string]Object
}

func (o *InstanceObj) String() string {
	var pairs []string
	for _, f := range o.Desc.Fields {
		pairs = append(pairs, fmt.Sprintf("%s: %s", f, o.Fields[f].String()))
	}
	return fmt.Sprintf("%s(%s)", o.Desc.Name, strings.Join(pairs, ", "))
}
func (o *InstanceObj) Type() string   { return o.Desc.Name }
func (o *InstanceObj) IsTruthy() bool { return true }
func (o *InstanceObj) Hash() uint32 {
	h := StringObj{Value: o.Desc.Name}.Hash()
	for _, f := range o.Desc.Fields {
		h ^= hashObject(o.Fields[f])
		h *= 0x01000193
	}
	return h
}

type RangeObj struct {
	Start     int64
	End       int64
	Exclusive bool
}

func (r *RangeObj) String() string {
	if r.Exclusive {
		return fmt.Sprintf("%d..<%d", r.Start, r.End)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
func (r *RangeObj) Type() string { return "range" }
func (r *RangeObj) IsTruthy() bool {
	return len(r.Values()) > 0
}
func (r *RangeObj) Hash() uint32 {
	h := fnv.New32a()
	binary.Write(h, binary.LittleEndian, r.Start)
	binary.Write(h, binary.LittleEndian, r.End)
	if r.Exclusive {
		h.Write([]byte{1})
	}
	return h.Sum32()
}

// Values materializes the range for iteration.
func (r *RangeObj) Values() []Object {
	end := r.End
	if r.Exclusive {
		end--
	}
	if end < r.Start {
		return nil
	}
	vals := make([]Object, 0, end-r.Start+1)
	for i := r.Start; i <= end; i++ {
		vals = append(vals, IntObj{Value: i})
	}
	return vals
}

// Callable Types

type FuncObj struct {
	Name    string
	Params  []string
	Body    []Stmt
	Closure *Scope
}

func (f *FuncObj) String() string { return fmt.Sprintf("<proc %s>", f.Name) }
func (f *FuncObj) Type() string   { return "proc" }
func (f *FuncObj) IsTruthy() bool { return true }

type NativeFuncObj struct {
	Name  string
	Arity int
	Call  func(vm *VM, args []Object) (Object, error)
}

func (f *NativeFuncObj) String() string { return fmt.Sprintf("<native proc %s>", f.Name) }
func (f *NativeFuncObj) Type() string   { return "native proc" }
func (f *NativeFuncObj) IsTruthy() bool { return true }

// Equality and ordering

func hashObject(v Object) uint32 {
	if h, ok := v.(Hashable); ok {
		return h.Hash()
	}
	h := fnv.New32a()
	h.Write([]byte(fmt.Sprintf("%p", v)))
	return h.Sum32()
}

// ObjectsEqual implements structural equality with int/float cross-comparison.
func ObjectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case NilObj:
		_, ok := b.(NilObj)
		return ok
	case BoolObj:
		bv, ok := b.(BoolObj)
		return ok && av.Value == bv.Value
	case IntObj:
		switch bv := b.(type) {
		case IntObj:
			return av.Value == bv.Value
		case FloatObj:
			return float64(av.Value) == bv.Value
		}
		return false
	case FloatObj:
		switch bv := b.(type) {
		case IntObj:
			return av.Value == float64(bv.Value)
		case FloatObj:
			return av.Value == bv.Value
		}
		return false
	case StringObj:
		bv, ok := b.(StringObj)
		return ok && av.Value == bv.Value
	case *ArrayObj:
		bv, ok := b.(*ArrayObj)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !ObjectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *TableObj:
		bv, ok := b.(*TableObj)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for k, v := range av.Entries {
			other, found := bv.Entries[k]
			if !found || !ObjectsEqual(v, other) {
				return false
			}
		}
		return true
	case *SetObj:
		bv, ok := b.(*SetObj)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, member := range av.Items() {
			if !bv.Contains(member) {
				return false
			}
		}
		return true
	case *InstanceObj:
		bv, ok := b.(*InstanceObj)
		if !ok || av.Desc.Name != bv.Desc.Name {
			return false
		}
		for k, v := range av.Fields {
			other, found := bv.Fields[k]
			if !found || !ObjectsEqual(v, other) {
				return false
			}
		}
		return true
	case *RangeObj:
		bv, ok := b.(*RangeObj)
		return ok && av.Start == bv.Start && av.End == bv.End && av.Exclusive == bv.Exclusive
	default:
		return a == b
	}
}

// CompareObjects returns -1/0/1 for int, float, int-float, and string pairs;
// ok is false for any other pairing.
func CompareObjects(a, b Object) (int, bool) {
	if as, aok := a.(StringObj); aok {
		if bs, bok := b.(StringObj); bok {
			return strings.Compare(as.Value, bs.Value), true
		}
		return 0, false
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return 0, false
	}
	if af < bf {
		return -1, true
	}
	if af > bf {
		return 1, true
	}
	return 0, true
}

func numericValue(v Object) (float64, bool) {
	switch n := v.(type) {
	case IntObj:
		return float64(n.Value), true
	case FloatObj:
		return n.Value, true
	}
	return 0, false
}

func isNaNObj(v Object) bool {
	f, ok := v.(FloatObj)
	return ok && math.IsNaN(f.Value)
}
