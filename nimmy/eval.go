package nimmy

import (
	"fmt"
	"math"
	"strings"
)

// The recursive expression evaluator. It runs to completion inside a single
// step; user-defined calls reached here (inside larger expressions) take the
// eager path, not the frame stack.

func (vm *VM) evalExpr(e Expr) (Object, Error) {
	switch n := e.(type) {
	case *IntExpr:
		return IntObj{Value: n.Value}, nil
	case *FloatExpr:
		return FloatObj{Value: n.Value}, nil
	case *StringExpr:
		return StringObj{Value: n.Value}, nil
	case *BoolExpr:
		return BoolObj{Value: n.Value}, nil
	case *NilExpr:
		return NilObj{}, nil
	case *IdentExpr:
		v, ok := vm.scope.Lookup(n.Name.Value)
		if !ok {
			return nil, NewRuntimeError(fmt.Sprintf("Undefined variable '%s'", n.Name.Value), n.Token.Loc)
		}
		return v, nil
	case *UnaryOp:
		return vm.evalUnary(n)
	case *BinaryOp:
		return vm.evalBinary(n)
	case *RangeExpr:
		return vm.evalRange(n)
	case *CallExpr:
		prepared, err := vm.prepareCall(n)
		if err != nil {
			return nil, err
		}
		if prepared.fn != nil {
			return vm.callFunction(prepared.fn, prepared.args, prepared.loc)
		}
		return vm.invokeNonUser(prepared)
	case *IndexExpr:
		return vm.evalIndex(n)
	case *DotExpr:
		return vm.evalDot(n)
	case *ArrayExpr:
		elements := make([]Object, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := vm.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elements = append(elements, v)
		}
		return &ArrayObj{Elements: elements}, nil
	case *SetExpr:
		set := NewSet()
		for _, el := range n.Elements {
			v, err := vm.evalExpr(el)
			if err != nil {
				return nil, err
			}
			set.Add(v)
		}
		return set, nil
	case *TableExpr:
		table := NewTable()
		for _, prop := range n.Properties {
			v, err := vm.evalExpr(prop.Value)
			if err != nil {
				return nil, err
			}
			table.Entries[prop.Key.Value] = v
		}
		return table, nil
	}
	return nil, NewRuntimeError(fmt.Sprintf("Cannot evaluate %T", e), e.GetToken().Loc)
}

func (vm *VM) evalUnary(n *UnaryOp) (Object, Error) {
	v, err := vm.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op.Value {
	case "-":
		switch num := v.(type) {
		case IntObj:
			return IntObj{Value: -num.Value}, nil
		case FloatObj:
			return FloatObj{Value: -num.Value}, nil
		}
		return nil, NewRuntimeError(fmt.Sprintf("Cannot negate %s", v.Type()), n.Op.Loc)
	case "not":
		return BoolObj{Value: !v.IsTruthy()}, nil
	case "$":
		return StringObj{Value: v.String()}, nil
	}
	return nil, NewRuntimeError(fmt.Sprintf("Unknown unary operator '%s'", n.Op.Value), n.Op.Loc)
}

func (vm *VM) evalBinary(n *BinaryOp) (Object, Error) {
	// and/or short-circuit and produce a boolean from truthiness.
	if n.Op.Value == "and" || n.Op.Value == "or" {
		left, err := vm.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op.Value == "and" {
			if !left.IsTruthy() {
				return BoolObj{Value: false}, nil
			}
		} else {
			if left.IsTruthy() {
				return BoolObj{Value: true}, nil
			}
		}
		right, err := vm.evalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return BoolObj{Value: right.IsTruthy()}, nil
	}

	left, err := vm.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := vm.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	return vm.applyBinary(n.Op.Value, left, right, n.Op.Loc)
}

func (vm *VM) applyBinary(op string, left, right Object, loc Loc) (Object, Error) {
	switch op {
	case "+", "-", "*":
		if ls, ok := left.(*SetObj); ok {
			if rs, ok := right.(*SetObj); ok {
				return setOp(op, ls, rs), nil
			}
		}
		return arith(op, left, right, loc)
	case "/":
		lf, lok := numericValue(left)
		rf, rok := numericValue(right)
		if !lok || !rok {
			return nil, cannotApply(op, left, right, loc)
		}
		if rf == 0 {
			return nil, NewRuntimeError("Division by zero", loc)
		}
		return FloatObj{Value: lf / rf}, nil
	case "div":
		li, lok := left.(IntObj)
		ri, rok := right.(IntObj)
		if !lok || !rok {
			return nil, cannotApply(op, left, right, loc)
		}
		if ri.Value == 0 {
			return nil, NewRuntimeError("Division by zero", loc)
		}
		return IntObj{Value: li.Value / ri.Value}, nil
	case "mod", "%":
		if li, lok := left.(IntObj); lok {
			if ri, rok := right.(IntObj); rok {
				if ri.Value == 0 {
					return nil, NewRuntimeError("Modulo by zero", loc)
				}
				return IntObj{Value: li.Value % ri.Value}, nil
			}
		}
		lf, lok := numericValue(left)
		rf, rok := numericValue(right)
		if !lok || !rok {
			return nil, cannotApply(op, left, right, loc)
		}
		if rf == 0 {
			return nil, NewRuntimeError("Modulo by zero", loc)
		}
		return FloatObj{Value: math.Mod(lf, rf)}, nil
	case "&":
		return StringObj{Value: left.String() + right.String()}, nil
	case "==":
		return BoolObj{Value: ObjectsEqual(left, right)}, nil
	case "!=":
		return BoolObj{Value: !ObjectsEqual(left, right)}, nil
	case "<", "<=", ">", ">=":
		cmp, ok := CompareObjects(left, right)
		if !ok {
			return nil, NewRuntimeError(
				fmt.Sprintf("Cannot compare %s and %s", left.Type(), right.Type()), loc)
		}
		switch op {
		case "<":
			return BoolObj{Value: cmp < 0}, nil
		case "<=":
			return BoolObj{Value: cmp <= 0}, nil
		case ">":
			return BoolObj{Value: cmp > 0}, nil
		default:
			return BoolObj{Value: cmp >= 0}, nil
		}
	case "in":
		return vm.evalMembership(left, right, loc)
	}
	return nil, NewRuntimeError(fmt.Sprintf("Unknown operator '%s'", op), loc)
}

// arith handles + - * over int and float with promotion.
func arith(op string, left, right Object, loc Loc) (Object, Error) {
	if li, lok := left.(IntObj); lok {
		if ri, rok := right.(IntObj); rok {
			switch op {
			case "+":
				return IntObj{Value: li.Value + ri.Value}, nil
			case "-":
				return IntObj{Value: li.Value - ri.Value}, nil
			case "*":
				return IntObj{Value: li.Value * ri.Value}, nil
			}
		}
	}
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, cannotApply(op, left, right, loc)
	}
	switch op {
	case "+":
		return FloatObj{Value: lf + rf}, nil
	case "-":
		return FloatObj{Value: lf - rf}, nil
	default:
		return FloatObj{Value: lf * rf}, nil
	}
}

func setOp(op string, left, right *SetObj) *SetObj {
	result := NewSet()
	switch op {
	case "+":
		for _, v := range left.Items() {
			result.Add(v)
		}
		for _, v := range right.Items() {
			result.Add(v)
		}
	case "-":
		for _, v := range left.Items() {
			if !right.Contains(v) {
				result.Add(v)
			}
		}
	case "*":
		for _, v := range left.Items() {
			if right.Contains(v) {
				result.Add(v)
			}
		}
	}
	return result
}

func cannotApply(op string, left, right Object, loc Loc) Error {
	return NewRuntimeError(
		fmt.Sprintf("Cannot apply '%s' to %s and %s", op, left.Type(), right.Type()), loc)
}

func (vm *VM) evalMembership(left, right Object, loc Loc) (Object, Error) {
	switch container := right.(type) {
	case *ArrayObj:
		for _, el := range container.Elements {
			if ObjectsEqual(el, left) {
				return BoolObj{Value: true}, nil
			}
		}
		return BoolObj{Value: false}, nil
	case StringObj:
		ls, ok := left.(StringObj)
		if !ok {
			return nil, NewRuntimeError(
				fmt.Sprintf("Cannot check membership of %s in string", left.Type()), loc)
		}
		return BoolObj{Value: strings.Contains(container.Value, ls.Value)}, nil
	case *TableObj:
		ls, ok := left.(StringObj)
		if !ok {
			return nil, NewRuntimeError("Table key must be a string", loc)
		}
		_, found := container.Entries[ls.Value]
		return BoolObj{Value: found}, nil
	case *SetObj:
		return BoolObj{Value: container.Contains(left)}, nil
	}
	return nil, NewRuntimeError(
		fmt.Sprintf("Cannot check membership in %s", right.Type()), loc)
}

func (vm *VM) evalRange(n *RangeExpr) (Object, Error) {
	start, err := vm.evalExpr(n.Start)
	if err != nil {
		return nil, err
	}
	end, err := vm.evalExpr(n.End)
	if err != nil {
		return nil, err
	}
	si, sok := start.(IntObj)
	ei, eok := end.(IntObj)
	if !sok || !eok {
		return nil, NewRuntimeError(
			fmt.Sprintf("Range bounds must be integers, got %s and %s", start.Type(), end.Type()),
			n.Token.Loc)
	}
	return &RangeObj{Start: si.Value, End: ei.Value, Exclusive: n.Exclusive}, nil
}

func (vm *VM) evalIndex(n *IndexExpr) (Object, Error) {
	collection, err := vm.evalExpr(n.Collection)
	if err != nil {
		return nil, err
	}
	index, err := vm.evalExpr(n.Index)
	if err != nil {
		return nil, err
	}

	switch c := collection.(type) {
	case *ArrayObj:
		i, ok := index.(IntObj)
		if !ok {
			return nil, NewRuntimeError(
				fmt.Sprintf("Array index must be an integer, got %s", index.Type()), n.Token.Loc)
		}
		if i.Value < 0 || i.Value >= int64(len(c.Elements)) {
			return nil, NewRuntimeError(
				fmt.Sprintf("Array index %d out of bounds", i.Value), n.Token.Loc)
		}
		return c.Elements[i.Value], nil
	case StringObj:
		i, ok := index.(IntObj)
		if !ok {
			return nil, NewRuntimeError(
				fmt.Sprintf("String index must be an integer, got %s", index.Type()), n.Token.Loc)
		}
		if i.Value < 0 || i.Value >= int64(len(c.Value)) {
			return nil, NewRuntimeError(
				fmt.Sprintf("String index %d out of bounds", i.Value), n.Token.Loc)
		}
		return StringObj{Value: string(c.Value[i.Value])}, nil
	case *TableObj:
		key, ok := index.(StringObj)
		if !ok {
			return nil, NewRuntimeError("Table key must be a string", n.Token.Loc)
		}
		if v, found := c.Entries[key.Value]; found {
			return v, nil
		}
		return NilObj{}, nil
	}
	return nil, NewRuntimeError(fmt.Sprintf("Cannot index %s", collection.Type()), n.Token.Loc)
}

// evalDot resolves a dot expression: object field, then a function of that
// name through the scope chain (UFCS, invoked with the object as sole
// argument), then the len/card pseudo-properties.
func (vm *VM) evalDot(n *DotExpr) (Object, Error) {
	obj, err := vm.evalExpr(n.Obj)
	if err != nil {
		return nil, err
	}
	attr := n.Attr.Value

	if inst, ok := obj.(*InstanceObj); ok {
		if v, exists := inst.Fields[attr]; exists {
			return v, nil
		}
	}

	if fn, ok := vm.scope.Lookup(attr); ok {
		if isCallable(fn) {
			return vm.callObject(fn, []Object{obj}, n.Token.Loc)
		}
	}

	switch c := obj.(type) {
	case *ArrayObj:
		if attr == "len" {
			return IntObj{Value: int64(len(c.Elements))}, nil
		}
	case StringObj:
		if attr == "len" {
			return IntObj{Value: int64(len(c.Value))}, nil
		}
	case *TableObj:
		if attr == "len" {
			return IntObj{Value: int64(len(c.Entries))}, nil
		}
	case *SetObj:
		if attr == "len" || attr == "card" {
			return IntObj{Value: int64(c.Len())}, nil
		}
	}

	return nil, NewRuntimeError(
		fmt.Sprintf("Undefined field '%s' on %s", attr, obj.Type()), n.Token.Loc)
}

func isCallable(v Object) bool {
	switch v.(type) {
	case *FuncObj, *NativeFuncObj, *TypeObj:
		return true
	}
	return false
}

// preparedCall is a call whose callee and arguments are already evaluated.
// Either fn is set (a user-defined call) or callee holds a native function or
// type descriptor.
type preparedCall struct {
	fn     *FuncObj
	callee Object
	args   []Object
	loc    Loc
}

// prepareCall evaluates the callee and arguments of a call expression once,
// applying UFCS when the callee is a dot expression: the receiver is
// prepended to the argument list.
func (vm *VM) prepareCall(call *CallExpr) (*preparedCall, Error) {
	prepared := &preparedCall{loc: call.Token.Loc}

	if dot, ok := call.Callee.(*DotExpr); ok {
		recv, err := vm.evalExpr(dot.Obj)
		if err != nil {
			return nil, err
		}
		attr := dot.Attr.Value

		var callee Object
		var fieldVal Object
		if inst, ok := recv.(*InstanceObj); ok {
			if v, exists := inst.Fields[attr]; exists {
				fieldVal = v
				if isCallable(v) {
					callee = v
				}
			}
		}
		if callee == nil {
			if v, ok := vm.scope.Lookup(attr); ok && isCallable(v) {
				callee = v
			}
		}
		if callee == nil {
			if fieldVal != nil {
				return nil, NewRuntimeError(
					fmt.Sprintf("Cannot call %s", fieldVal.Type()), dot.Token.Loc)
			}
			return nil, NewRuntimeError(
				fmt.Sprintf("Undefined field '%s' on %s", attr, recv.Type()), dot.Token.Loc)
		}
		prepared.args = append(prepared.args, recv)
		if fn, ok := callee.(*FuncObj); ok {
			prepared.fn = fn
		} else {
			prepared.callee = callee
		}
	} else {
		callee, err := vm.evalExpr(call.Callee)
		if err != nil {
			return nil, err
		}
		if fn, ok := callee.(*FuncObj); ok {
			prepared.fn = fn
		} else {
			prepared.callee = callee
		}
	}

	for _, arg := range call.Arguments {
		v, err := vm.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		prepared.args = append(prepared.args, v)
	}
	return prepared, nil
}

// invokeNonUser dispatches a prepared call to a native function or type
// descriptor. User-defined callees are the caller's responsibility (frame
// entry or the eager path).
func (vm *VM) invokeNonUser(prepared *preparedCall) (Object, Error) {
	switch c := prepared.callee.(type) {
	case *NativeFuncObj:
		result, err := c.Call(vm, prepared.args)
		if err != nil {
			if nerr, ok := err.(Error); ok {
				return nil, nerr
			}
			return nil, NewRuntimeError(err.Error(), prepared.loc)
		}
		if result == nil {
			return NilObj{}, nil
		}
		return result, nil
	case *TypeObj:
		if len(prepared.args) != len(c.Fields) {
			return nil, NewRuntimeError(
				fmt.Sprintf("Expected %d arguments, got %d", len(c.Fields), len(prepared.args)),
				prepared.loc)
		}
		fields := make(map[string]Object, len(c.Fields))
		for i, name := range c.Fields {
			fields[name] = prepared.args[i]
		}
		return &InstanceObj{Desc: c, Fields: fields}, nil
	}
	return nil, NewRuntimeError(
		fmt.Sprintf("Cannot call %s", prepared.callee.Type()), prepared.loc)
}

// callObject invokes any callable eagerly.
func (vm *VM) callObject(callee Object, args []Object, loc Loc) (Object, Error) {
	if fn, ok := callee.(*FuncObj); ok {
		return vm.callFunction(fn, args, loc)
	}
	return vm.invokeNonUser(&preparedCall{callee: callee, args: args, loc: loc})
}

// callFunction is the eager user-call path: it builds the activation scope,
// runs the body to completion, and restores the caller's scope. The stepper
// never uses it for statement-position calls.
func (vm *VM) callFunction(fn *FuncObj, args []Object, loc Loc) (Object, Error) {
	if len(args) != len(fn.Params) {
		return nil, NewRuntimeError(
			fmt.Sprintf("Expected %d arguments, got %d", len(fn.Params), len(args)), loc)
	}

	saved := vm.scope
	activation := NewScope(fn.Closure)
	for i, param := range fn.Params {
		activation.Define(param, args[i], false)
	}
	vm.scope = activation

	for _, stmt := range fn.Body {
		if _, err := vm.execStmt(stmt); err != nil {
			vm.scope = saved
			return nil, err
		}
		if vm.ctrl != ctrlNone {
			break
		}
	}

	vm.scope = saved
	result := vm.retVal
	vm.retVal = nil
	vm.ctrl = ctrlNone
	if result == nil {
		result = NilObj{}
	}
	return result, nil
}

// execStmt executes one statement eagerly in the current scope. It is the
// engine behind the eager call path, Eval, and the interactive evaluator; the
// stepper has its own statement dispatch. The returned object is non-nil only
// for expression statements.
func (vm *VM) execStmt(s Stmt) (Object, Error) {
	switch n := s.(type) {
	case *DeclStmt:
		v, err := vm.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		vm.scope.Define(n.Name.Value, v, n.IsConst)
		return nil, nil
	case *AssignStmt:
		v, err := vm.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return nil, vm.applyAssign(n.Target, v)
	case *FuncDefStmt:
		vm.defineFunc(n)
		return nil, nil
	case *TypeDefStmt:
		vm.defineType(n)
		return nil, nil
	case *EchoStmt:
		return nil, vm.execEcho(n)
	case *IfStmt:
		for _, branch := range n.Branches {
			cond, err := vm.evalExpr(branch.Cond)
			if err != nil {
				return nil, err
			}
			if cond.IsTruthy() {
				return nil, vm.runBlock(branch.Body, NewScope(vm.scope))
			}
		}
		if n.Else != nil {
			return nil, vm.runBlock(n.Else, NewScope(vm.scope))
		}
		return nil, nil
	case *ForStmt:
		iterable, err := vm.evalExpr(n.Iterable)
		if err != nil {
			return nil, err
		}
		values, merr := materialize(iterable, n.Token.Loc)
		if merr != nil {
			return nil, merr
		}
		for _, v := range values {
			child := NewScope(vm.scope)
			child.Define(n.LoopVar.Value, v, false)
			if err := vm.runBlock(n.Body, child); err != nil {
				return nil, err
			}
			if vm.ctrl == ctrlBreak {
				vm.ctrl = ctrlNone
				break
			}
			if vm.ctrl == ctrlContinue {
				vm.ctrl = ctrlNone
				continue
			}
			if vm.ctrl == ctrlReturn {
				return nil, nil
			}
		}
		return nil, nil
	case *WhileStmt:
		cond, err := vm.evalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		child := NewScope(vm.scope)
		for cond.IsTruthy() {
			if err := vm.runBlock(n.Body, child); err != nil {
				return nil, err
			}
			if vm.ctrl == ctrlBreak {
				vm.ctrl = ctrlNone
				break
			}
			if vm.ctrl == ctrlContinue {
				vm.ctrl = ctrlNone
			}
			if vm.ctrl == ctrlReturn {
				return nil, nil
			}
			saved := vm.scope
			vm.scope = child
			cond, err = vm.evalExpr(n.Cond)
			vm.scope = saved
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	case *ReturnStmt:
		var v Object = NilObj{}
		if n.Value != nil {
			var err Error
			v, err = vm.evalExpr(n.Value)
			if err != nil {
				return nil, err
			}
		}
		vm.retVal = v
		vm.ctrl = ctrlReturn
		return nil, nil
	case *BreakStmt:
		vm.ctrl = ctrlBreak
		return nil, nil
	case *ContinueStmt:
		vm.ctrl = ctrlContinue
		return nil, nil
	case *ExprStmt:
		return vm.evalExpr(n.Value)
	}
	return nil, NewRuntimeError(fmt.Sprintf("Cannot execute %T", s), s.GetToken().Loc)
}

// runBlock executes statements in the given scope until a control-flow flag
// is raised.
func (vm *VM) runBlock(stmts []Stmt, scope *Scope) Error {
	saved := vm.scope
	vm.scope = scope
	defer func() { vm.scope = saved }()

	for _, stmt := range stmts {
		if _, err := vm.execStmt(stmt); err != nil {
			return err
		}
		if vm.ctrl != ctrlNone {
			return nil
		}
	}
	return nil
}

func (vm *VM) defineFunc(n *FuncDefStmt) {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Value
	}
	fn := &FuncObj{
		Name:    n.Name.Value,
		Params:  params,
		Body:    n.Body,
		Closure: vm.scope,
	}
	vm.scope.Define(n.Name.Value, fn, false)
}

func (vm *VM) defineType(n *TypeDefStmt) {
	fields := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = f.Value
	}
	vm.scope.Define(n.Name.Value, &TypeObj{Name: n.Name.Value, Fields: fields}, false)
}

func (vm *VM) execEcho(n *EchoStmt) Error {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		v, err := vm.evalExpr(arg)
		if err != nil {
			return err
		}
		parts[i] = v.String()
	}
	vm.output = append(vm.output, strings.Join(parts, " "))
	return nil
}

// applyAssign stores a value through an assignment target: identifier through
// the scope chain, index into a container, dot into an object field.
func (vm *VM) applyAssign(target Expr, v Object) Error {
	switch t := target.(type) {
	case *IdentExpr:
		found, isConst := vm.scope.Assign(t.Name.Value, v)
		if !found {
			return NewRuntimeError(fmt.Sprintf("Undefined variable '%s'", t.Name.Value), t.Token.Loc)
		}
		if isConst {
			return NewRuntimeError(fmt.Sprintf("Cannot assign to constant '%s'", t.Name.Value), t.Token.Loc)
		}
		return nil
	case *IndexExpr:
		collection, err := vm.evalExpr(t.Collection)
		if err != nil {
			return err
		}
		index, err := vm.evalExpr(t.Index)
		if err != nil {
			return err
		}
		switch c := collection.(type) {
		case *ArrayObj:
			i, ok := index.(IntObj)
			if !ok {
				return NewRuntimeError(
					fmt.Sprintf("Array index must be an integer, got %s", index.Type()), t.Token.Loc)
			}
			if i.Value < 0 || i.Value >= int64(len(c.Elements)) {
				return NewRuntimeError(
					fmt.Sprintf("Array index %d out of bounds", i.Value), t.Token.Loc)
			}
			c.Elements[i.Value] = v
			return nil
		case *TableObj:
			key, ok := index.(StringObj)
			if !ok {
				return NewRuntimeError("Table key must be a string", t.Token.Loc)
			}
			c.Entries[key.Value] = v
			return nil
		}
		return NewRuntimeError(fmt.Sprintf("Cannot index %s", collection.Type()), t.Token.Loc)
	case *DotExpr:
		obj, err := vm.evalExpr(t.Obj)
		if err != nil {
			return err
		}
		inst, ok := obj.(*InstanceObj)
		if !ok {
			return NewRuntimeError(
				fmt.Sprintf("Undefined field '%s' on %s", t.Attr.Value, obj.Type()), t.Token.Loc)
		}
		inst.Fields[t.Attr.Value] = v
		return nil
	}
	return NewRuntimeError("Invalid assignment target", target.GetToken().Loc)
}

// materialize computes the iteration values for a for statement.
func materialize(v Object, loc Loc) ([]Object, Error) {
	switch c := v.(type) {
	case *RangeObj:
		return c.Values(), nil
	case *ArrayObj:
		values := make([]Object, len(c.Elements))
		copy(values, c.Elements)
		return values, nil
	case StringObj:
		values := make([]Object, 0, len(c.Value))
		for i := 0; i < len(c.Value); i++ {
			values = append(values, StringObj{Value: string(c.Value[i])})
		}
		return values, nil
	}
	return nil, NewRuntimeError(fmt.Sprintf("Cannot iterate over %s", v.Type()), loc)
}
