package nimmy

import "strings"

// InteractiveResult is the outcome of evaluating a source fragment against
// the current paused state.
type InteractiveResult struct {
	Success bool
	Value   Object
	Error   string
	Output  []string
}

// RunInteractive parses and evaluates a fragment in the current scope at the
// current pause point, on the eager path. Bindings and container mutations
// made by the fragment persist; the line cursor, frame stack, scope pointer,
// and finished flag do not move. Echo output is captured in the result, not
// appended to the main output stream.
func (vm *VM) RunInteractive(source string) InteractiveResult {
	if strings.TrimSpace(source) == "" {
		return InteractiveResult{Success: true, Value: NilObj{}}
	}

	program, perr := ParseSource(source)
	if perr != nil {
		return InteractiveResult{Success: false, Error: perr.Error()}
	}

	savedLine := vm.line
	savedFinished := vm.finished
	savedScope := vm.scope
	savedCtrl := vm.ctrl
	savedRet := vm.retVal
	mainOutput := vm.output
	vm.output = nil

	restore := func() {
		vm.line = savedLine
		vm.finished = savedFinished
		vm.scope = savedScope
		vm.ctrl = savedCtrl
		vm.retVal = savedRet
	}

	var value Object = NilObj{}
	var runErr Error
	for _, stmt := range program.Stmts {
		v, err := vm.execStmt(stmt)
		if err != nil {
			runErr = err
			break
		}
		if v != nil {
			value = v
		}
		if vm.ctrl != ctrlNone {
			break
		}
	}

	captured := vm.output
	vm.output = mainOutput
	restore()

	if runErr != nil {
		return InteractiveResult{Success: false, Error: runErr.Error(), Output: captured}
	}
	return InteractiveResult{Success: true, Value: value, Output: captured}
}
