package nimmy

import (
	"fmt"
	"reflect"
)

// CreateNativeFunction wraps a plain Go function as a callable value.
// The function may take a leading *VM parameter, any mix of Object (or
// concrete object types) and Go scalars, and may return (T), (T, error),
// (error), or nothing. Argument converters are precompiled once.
func CreateNativeFunction(name string, fn any) (*NativeFuncObj, error) {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("not a function: %v", fn)
	}

	wantsVM := false
	argOffset := 0
	if fnType.NumIn() > 0 && fnType.In(0) == reflect.TypeOf((*VM)(nil)) {
		wantsVM = true
		argOffset = 1
	}

	numArgs := fnType.NumIn() - argOffset
	isVariadic := fnType.IsVariadic()

	argConverters := make([]func(Object) (reflect.Value, error), numArgs)
	for i := 0; i < numArgs; i++ {
		argType := fnType.In(i + argOffset)
		if isVariadic && i == numArgs-1 {
			argType = argType.Elem()
		}
		argConverters[i] = createTypeConverter(argType)
	}

	returnsError := false
	if n := fnType.NumOut(); n > 0 && fnType.Out(n-1).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		returnsError = true
	}

	call := func(vm *VM, args []Object) (Object, error) {
		if isVariadic {
			if len(args) < numArgs-1 {
				return nil, fmt.Errorf("Expected %d arguments, got %d", numArgs-1, len(args))
			}
		} else if len(args) != numArgs {
			return nil, fmt.Errorf("Expected %d arguments, got %d", numArgs, len(args))
		}

		in := make([]reflect.Value, 0, len(args)+1)
		if wantsVM {
			in = append(in, reflect.ValueOf(vm))
		}
		for i, arg := range args {
			converter := argConverters[min(i, numArgs-1)]
			converted, err := converter(arg)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %v", i+1, err)
			}
			in = append(in, converted)
		}

		results := fnValue.Call(in)

		if returnsError {
			last := results[len(results)-1]
			if !last.IsNil() {
				return nil, last.Interface().(error)
			}
			results = results[:len(results)-1]
		}
		if len(results) == 0 {
			return NilObj{}, nil
		}
		return convertGoValueToObject(results[0])
	}

	return &NativeFuncObj{Name: name, Arity: numArgs, Call: call}, nil
}

func createTypeConverter(targetType reflect.Type) func(Object) (reflect.Value, error) {
	if targetType == reflect.TypeOf((*Object)(nil)).Elem() {
		return func(obj Object) (reflect.Value, error) {
			return reflect.ValueOf(obj), nil
		}
	}

	switch targetType.Kind() {
	case reflect.String:
		return func(obj Object) (reflect.Value, error) {
			if strObj, ok := obj.(StringObj); ok {
				return reflect.ValueOf(strObj.Value), nil
			}
			return reflect.Value{}, fmt.Errorf("expected string, got %s", obj.Type())
		}
	case reflect.Int, reflect.Int64:
		return func(obj Object) (reflect.Value, error) {
			if intObj, ok := obj.(IntObj); ok {
				return reflect.ValueOf(intObj.Value).Convert(targetType), nil
			}
			return reflect.Value{}, fmt.Errorf("expected int, got %s", obj.Type())
		}
	case reflect.Float64:
		return func(obj Object) (reflect.Value, error) {
			if f, ok := numericValue(obj); ok {
				return reflect.ValueOf(f), nil
			}
			return reflect.Value{}, fmt.Errorf("expected number, got %s", obj.Type())
		}
	case reflect.Bool:
		return func(obj Object) (reflect.Value, error) {
			if boolObj, ok := obj.(BoolObj); ok {
				return reflect.ValueOf(boolObj.Value), nil
			}
			return reflect.Value{}, fmt.Errorf("expected bool, got %s", obj.Type())
		}
	default:
		// Concrete object types: *ArrayObj, *SetObj, StringObj, ...
		return func(obj Object) (reflect.Value, error) {
			val := reflect.ValueOf(obj)
			if val.Type().AssignableTo(targetType) {
				return val, nil
			}
			return reflect.Value{}, fmt.Errorf("expected %s, got %s", typeNameFor(targetType), obj.Type())
		}
	}
}

func typeNameFor(t reflect.Type) string {
	switch t {
	case reflect.TypeOf((*ArrayObj)(nil)):
		return "array"
	case reflect.TypeOf((*TableObj)(nil)):
		return "table"
	case reflect.TypeOf((*SetObj)(nil)):
		return "set"
	case reflect.TypeOf((*RangeObj)(nil)):
		return "range"
	case reflect.TypeOf(StringObj{}):
		return "string"
	}
	return t.String()
}

func convertGoValueToObject(value reflect.Value) (Object, error) {
	if value.IsValid() && value.CanInterface() {
		if obj, ok := value.Interface().(Object); ok {
			return obj, nil
		}
	}

	switch value.Kind() {
	case reflect.String:
		return StringObj{Value: value.String()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntObj{Value: value.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IntObj{Value: int64(value.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return FloatObj{Value: value.Float()}, nil
	case reflect.Bool:
		return BoolObj{Value: value.Bool()}, nil
	case reflect.Slice:
		elements := make([]Object, value.Len())
		for i := 0; i < value.Len(); i++ {
			elem, err := convertGoValueToObject(value.Index(i))
			if err != nil {
				return nil, err
			}
			elements[i] = elem
		}
		return &ArrayObj{Elements: elements}, nil
	default:
		return nil, fmt.Errorf("unsupported Go type: %v", value.Kind())
	}
}
