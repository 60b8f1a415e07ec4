package nimmy

import (
	"fmt"
	"strconv"
	"strings"
)

func nativeLen(obj Object) (int64, error) {
	switch v := obj.(type) {
	case *ArrayObj:
		return int64(len(v.Elements)), nil
	case StringObj:
		return int64(len(v.Value)), nil
	case *TableObj:
		return int64(len(v.Entries)), nil
	case *SetObj:
		return int64(v.Len()), nil
	}
	return 0, fmt.Errorf("cannot get length of %s", obj.Type())
}

func nativeStr(obj Object) string {
	return obj.String()
}

func nativeInt(obj Object) (Object, error) {
	switch v := obj.(type) {
	case IntObj:
		return v, nil
	case FloatObj:
		return IntObj{Value: int64(v.Value)}, nil
	case StringObj:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert string '%s' to int", v.Value)
		}
		return IntObj{Value: i}, nil
	case BoolObj:
		if v.Value {
			return IntObj{Value: 1}, nil
		}
		return IntObj{Value: 0}, nil
	}
	return nil, fmt.Errorf("cannot convert %s to int", obj.Type())
}

func nativeFloat(obj Object) (Object, error) {
	switch v := obj.(type) {
	case IntObj:
		return FloatObj{Value: float64(v.Value)}, nil
	case FloatObj:
		return v, nil
	case StringObj:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert string '%s' to float", v.Value)
		}
		return FloatObj{Value: f}, nil
	}
	return nil, fmt.Errorf("cannot convert %s to float", obj.Type())
}

func nativeTypeof(obj Object) string {
	return obj.Type()
}

func nativePush(arr *ArrayObj, v Object) Object {
	arr.Elements = append(arr.Elements, v)
	return NilObj{}
}

func nativePop(arr *ArrayObj) (Object, error) {
	if len(arr.Elements) == 0 {
		return nil, fmt.Errorf("cannot pop from an empty array")
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func nativeKeys(table *TableObj) *ArrayObj {
	keys := table.SortedKeys()
	elements := make([]Object, len(keys))
	for i, k := range keys {
		elements[i] = StringObj{Value: k}
	}
	return &ArrayObj{Elements: elements}
}

func nativeValues(table *TableObj) *ArrayObj {
	keys := table.SortedKeys()
	elements := make([]Object, len(keys))
	for i, k := range keys {
		elements[i] = table.Entries[k]
	}
	return &ArrayObj{Elements: elements}
}

func nativeHasKey(table *TableObj, key string) bool {
	_, ok := table.Entries[key]
	return ok
}

func nativeAbs(obj Object) (Object, error) {
	switch v := obj.(type) {
	case IntObj:
		if v.Value < 0 {
			return IntObj{Value: -v.Value}, nil
		}
		return v, nil
	case FloatObj:
		if v.Value < 0 {
			return FloatObj{Value: -v.Value}, nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("cannot take abs of %s", obj.Type())
}

func nativeMin(a, b Object) (Object, error) {
	cmp, ok := CompareObjects(a, b)
	if !ok {
		return nil, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
	}
	if cmp <= 0 {
		return a, nil
	}
	return b, nil
}

func nativeMax(a, b Object) (Object, error) {
	cmp, ok := CompareObjects(a, b)
	if !ok {
		return nil, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
	}
	if cmp >= 0 {
		return a, nil
	}
	return b, nil
}

func nativeContains(container, v Object) (bool, error) {
	switch c := container.(type) {
	case *ArrayObj:
		for _, el := range c.Elements {
			if ObjectsEqual(el, v) {
				return true, nil
			}
		}
		return false, nil
	case StringObj:
		s, ok := v.(StringObj)
		if !ok {
			return false, fmt.Errorf("cannot check membership of %s in string", v.Type())
		}
		return strings.Contains(c.Value, s.Value), nil
	case *TableObj:
		s, ok := v.(StringObj)
		if !ok {
			return false, fmt.Errorf("Table key must be a string")
		}
		_, found := c.Entries[s.Value]
		return found, nil
	case *SetObj:
		return c.Contains(v), nil
	}
	return false, fmt.Errorf("cannot check membership in %s", container.Type())
}

func nativeIncl(set *SetObj, v Object) Object {
	set.Add(v)
	return NilObj{}
}

func nativeExcl(set *SetObj, v Object) Object {
	set.Remove(v)
	return NilObj{}
}

func nativeCard(set *SetObj) int64 {
	return int64(set.Len())
}

func nativeDel(container, key Object) (Object, error) {
	switch c := container.(type) {
	case *TableObj:
		s, ok := key.(StringObj)
		if !ok {
			return nil, fmt.Errorf("Table key must be a string")
		}
		delete(c.Entries, s.Value)
		return NilObj{}, nil
	case *ArrayObj:
		i, ok := key.(IntObj)
		if !ok {
			return nil, fmt.Errorf("array index must be an integer, got %s", key.Type())
		}
		if i.Value < 0 || i.Value >= int64(len(c.Elements)) {
			return nil, fmt.Errorf("Array index %d out of bounds", i.Value)
		}
		c.Elements = append(c.Elements[:i.Value], c.Elements[i.Value+1:]...)
		return NilObj{}, nil
	}
	return nil, fmt.Errorf("cannot delete from %s", container.Type())
}

var Builtins = map[string]any{
	"len":      nativeLen,
	"str":      nativeStr,
	"int":      nativeInt,
	"float":    nativeFloat,
	"typeof":   nativeTypeof,
	"push":     nativePush,
	"pop":      nativePop,
	"keys":     nativeKeys,
	"values":   nativeValues,
	"hasKey":   nativeHasKey,
	"abs":      nativeAbs,
	"min":      nativeMin,
	"max":      nativeMax,
	"contains": nativeContains,
	"incl":     nativeIncl,
	"excl":     nativeExcl,
	"card":     nativeCard,
	"del":      nativeDel,
}

// BuiltinDocs holds one-line signatures for editor tooling.
var BuiltinDocs = map[string]string{
	"len":      "len(x) -> int",
	"str":      "str(x) -> string",
	"int":      "int(x) -> int",
	"float":    "float(x) -> float",
	"typeof":   "typeof(x) -> string",
	"push":     "push(array, value)",
	"pop":      "pop(array) -> value",
	"keys":     "keys(table) -> array",
	"values":   "values(table) -> array",
	"hasKey":   "hasKey(table, key) -> bool",
	"abs":      "abs(x) -> number",
	"min":      "min(a, b) -> value",
	"max":      "max(a, b) -> value",
	"contains": "contains(container, value) -> bool",
	"incl":     "incl(set, value)",
	"excl":     "excl(set, value)",
	"card":     "card(set) -> int",
	"del":      "del(container, key)",
}

func (vm *VM) loadBuiltins() {
	for name, fn := range Builtins {
		nativeFunc, err := CreateNativeFunction(name, fn)
		if err != nil {
			panic(err)
		}
		vm.globals.Define(name, nativeFunc, false)
	}
}
