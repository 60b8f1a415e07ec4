package nimmy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	program, err := ParseSource(src)
	require.NoError(t, err)
	return program
}

func loadVM(t *testing.T, src string) *VM {
	t.Helper()
	vm := NewVM()
	vm.Load(mustParse(t, src))
	return vm
}

func stepAll(t *testing.T, vm *VM) {
	t.Helper()
	for !vm.IsFinished() {
		require.NoError(t, vm.Step())
	}
}

func globalInt(t *testing.T, vm *VM, name string) int64 {
	t.Helper()
	v, ok := vm.GetGlobal(name)
	require.True(t, ok, "global %s not found", name)
	i, ok := v.(IntObj)
	require.True(t, ok, "global %s is %s, not int", name, v.Type())
	return i.Value
}

func TestBasicStepping(t *testing.T) {
	vm := loadVM(t, "let a = 1\nlet b = 2\nlet c = 3\n")

	assert.Equal(t, 1, vm.CurrentLine())
	assert.False(t, vm.IsFinished())

	require.NoError(t, vm.Step())
	require.NoError(t, vm.Step())
	require.NoError(t, vm.Step())

	assert.True(t, vm.IsFinished())
	assert.Equal(t, int64(1), globalInt(t, vm, "a"))
	assert.Equal(t, int64(2), globalInt(t, vm, "b"))
	assert.Equal(t, int64(3), globalInt(t, vm, "c"))
}

func TestStepIntoFunction(t *testing.T) {
	src := `proc add(a, b) =
  return a + b

let result = add(3, 4)
`
	vm := loadVM(t, src)

	lines := []int{vm.CurrentLine()}
	for !vm.IsFinished() {
		require.NoError(t, vm.StepInto())
		if !vm.IsFinished() {
			lines = append(lines, vm.CurrentLine())
		}
	}

	if diff := cmp.Diff([]int{1, 4, 2}, lines); diff != "" {
		t.Errorf("line sequence mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(7), globalInt(t, vm, "result"))
}

func TestStepOverFunction(t *testing.T) {
	src := `proc add(a, b) =
  return a + b

let result = add(3, 4)

let y = 10
`
	vm := loadVM(t, src)

	require.NoError(t, vm.StepOver()) // proc definition
	assert.Equal(t, 4, vm.CurrentLine())

	require.NoError(t, vm.StepOver()) // runs add to completion
	assert.Equal(t, 6, vm.CurrentLine())
	assert.Equal(t, int64(7), globalInt(t, vm, "result"))

	require.NoError(t, vm.StepOver())
	assert.True(t, vm.IsFinished())
	assert.Equal(t, int64(10), globalInt(t, vm, "y"))
}

func TestContinueToBreakpointInsideFunction(t *testing.T) {
	src := `proc compute(n) =
  let a = n * 2
  let b = a + 1
  return b

let result = compute(5)
`
	vm := loadVM(t, src)
	vm.AddBreakpoint(3)

	require.NoError(t, vm.Continue())
	assert.False(t, vm.IsFinished())
	assert.Equal(t, 3, vm.CurrentLine())

	local, ok := vm.CurrentScope().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, IntObj{Value: 10}, local)

	require.NoError(t, vm.Continue())
	assert.True(t, vm.IsFinished())
	assert.Equal(t, int64(11), globalInt(t, vm, "result"))
}

func TestForLoopAccumulation(t *testing.T) {
	src := `var sum = 0
for i in 1..3:
  sum = sum + i
let done = true
`
	vm := loadVM(t, src)

	lines := []int{}
	for !vm.IsFinished() {
		require.NoError(t, vm.Step())
		if !vm.IsFinished() {
			lines = append(lines, vm.CurrentLine())
		}
	}

	bodyCount := 0
	for _, line := range lines {
		if line == 3 {
			bodyCount++
		}
	}
	assert.Equal(t, 3, bodyCount, "body line stepped, got sequence %v", lines)
	assert.Equal(t, int64(6), globalInt(t, vm, "sum"))

	done, ok := vm.GetGlobal("done")
	require.True(t, ok)
	assert.Equal(t, BoolObj{Value: true}, done)
}

func TestStepOutOfFunction(t *testing.T) {
	src := `proc inner(x) =
  let a = x + 1
  let b = a + 1
  return b

let r = inner(1)
let after = 99
`
	vm := loadVM(t, src)

	require.NoError(t, vm.Step()) // proc def
	require.NoError(t, vm.Step()) // enter inner
	assert.Equal(t, 1, vm.CallDepth())

	require.NoError(t, vm.StepOut())
	assert.Equal(t, 0, vm.CallDepth())
	assert.False(t, vm.IsFinished())
	assert.Equal(t, 7, vm.CurrentLine())
	assert.Equal(t, int64(3), globalInt(t, vm, "r"))
}

func TestCallDepthTracking(t *testing.T) {
	src := `proc inner(x) =
  return x + 1

proc outer(x) =
  let v = inner(x)
  return v * 2

let r = outer(10)
`
	vm := loadVM(t, src)

	maxDepth := 0
	for !vm.IsFinished() {
		require.NoError(t, vm.Step())
		if d := vm.CallDepth(); d > maxDepth {
			maxDepth = d
		}
	}
	assert.Equal(t, 2, maxDepth)
	assert.Equal(t, 0, vm.CallDepth())
	assert.Equal(t, int64(22), globalInt(t, vm, "r"))
}

func TestStepMatchesEagerEval(t *testing.T) {
	src := `proc square(x) =
  return x * x

var total = 0
for i in 1..4:
  if i mod 2 == 0:
    total = total + square(i)
let msg = "done"
`
	stepped := loadVM(t, src)
	stepAll(t, stepped)

	eager := NewVM()
	_, err := eager.Eval(mustParse(t, src))
	require.NoError(t, err)

	assert.Equal(t, globalInt(t, eager, "total"), globalInt(t, stepped, "total"))
	assert.Equal(t, int64(20), globalInt(t, stepped, "total"))

	a, _ := stepped.GetGlobal("msg")
	b, _ := eager.GetGlobal("msg")
	assert.True(t, ObjectsEqual(a, b))
}

func TestTopLevelLineSequence(t *testing.T) {
	src := `let a = 1
let b = a + 1
echo a, b
let c = b * 2
`
	vm := loadVM(t, src)

	lines := []int{vm.CurrentLine()}
	for {
		require.NoError(t, vm.Step())
		if vm.IsFinished() {
			break
		}
		lines = append(lines, vm.CurrentLine())
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, lines); diff != "" {
		t.Errorf("line sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestWhileLoopStepping(t *testing.T) {
	src := `var n = 0
while n < 3:
  n = n + 1
let done = n
`
	vm := loadVM(t, src)
	stepAll(t, vm)

	assert.Equal(t, int64(3), globalInt(t, vm, "n"))
	assert.Equal(t, int64(3), globalInt(t, vm, "done"))
}

func TestBreakAndContinue(t *testing.T) {
	t.Run("break leaves the loop", func(t *testing.T) {
		src := `var total = 0
for i in 1..10:
  if i == 4:
    break
  total = total + i
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		assert.Equal(t, int64(6), globalInt(t, vm, "total"))
	})

	t.Run("continue skips to the next iteration", func(t *testing.T) {
		src := `var total = 0
for i in 1..5:
  if i mod 2 == 0:
    continue
  total = total + i
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		assert.Equal(t, int64(9), globalInt(t, vm, "total"))
	})

	t.Run("break in while", func(t *testing.T) {
		src := `var n = 0
while true:
  n = n + 1
  if n == 5:
    break
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		assert.Equal(t, int64(5), globalInt(t, vm, "n"))
	})
}

func TestReturnSinkVariants(t *testing.T) {
	t.Run("assignment target", func(t *testing.T) {
		src := `proc five() =
  return 5

var x = 0
x = five()
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		assert.Equal(t, int64(5), globalInt(t, vm, "x"))
	})

	t.Run("index target", func(t *testing.T) {
		src := `proc five() =
  return 5

var arr = [1, 2, 3]
arr[1] = five()
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		v, _ := vm.GetGlobal("arr")
		arr := v.(*ArrayObj)
		assert.Equal(t, IntObj{Value: 5}, arr.Elements[1])
	})

	t.Run("discarded", func(t *testing.T) {
		src := `var hits = 0
proc bump() =
  hits = hits + 1
  return hits

bump()
bump()
`
		vm := loadVM(t, src)
		stepAll(t, vm)
		assert.Equal(t, int64(2), globalInt(t, vm, "hits"))
	})

	t.Run("let binding is const", func(t *testing.T) {
		src := `proc five() =
  return 5

let x = five()
x = 6
`
		vm := loadVM(t, src)
		var err Error
		for !vm.IsFinished() {
			err = vm.Step()
			if err != nil {
				break
			}
		}
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot assign to constant 'x'")
	})
}

func TestImplicitNilReturn(t *testing.T) {
	src := `proc noop(x) =
  let unused = x

let r = noop(1)
`
	vm := loadVM(t, src)
	stepAll(t, vm)

	v, ok := vm.GetGlobal("r")
	require.True(t, ok)
	assert.Equal(t, NilObj{}, v)
}

func TestClosuresCapturePerIterationScope(t *testing.T) {
	src := `var fns = []
for i in 1..3:
  proc get() =
    return i
  push(fns, get)
let a = fns[0]()
let b = fns[1]()
let c = fns[2]()
`
	vm := loadVM(t, src)
	stepAll(t, vm)

	assert.Equal(t, int64(1), globalInt(t, vm, "a"))
	assert.Equal(t, int64(2), globalInt(t, vm, "b"))
	assert.Equal(t, int64(3), globalInt(t, vm, "c"))
}

func TestBreakpointsPersistAcrossLoad(t *testing.T) {
	src := `let a = 1
let b = 2
let c = 3
`
	vm := loadVM(t, src)
	vm.AddBreakpoint(2)

	require.NoError(t, vm.Continue())
	assert.Equal(t, 2, vm.CurrentLine())

	vm.Load(mustParse(t, src))
	require.NoError(t, vm.Continue())
	assert.Equal(t, 2, vm.CurrentLine())
	assert.True(t, vm.HasBreakpoint(2))

	vm.RemoveBreakpoint(2)
	assert.False(t, vm.HasBreakpoint(2))
	vm.AddBreakpoint(3)
	vm.ClearBreakpoints()
	assert.False(t, vm.HasBreakpoint(3))
}

func TestEchoOutput(t *testing.T) {
	src := `echo "hello", 1 + 2
echo "next"
`
	vm := loadVM(t, src)
	stepAll(t, vm)

	if diff := cmp.Diff([]string{"hello 3", "next"}, vm.Output()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCollectsAndClearsOutput(t *testing.T) {
	vm := NewVM()
	out, err := vm.Run("echo \"a\"\necho \"b\"\n")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
	assert.Empty(t, vm.Output())

	out, err = vm.Run("let quiet = 1\n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestGlobalsSurviveReload(t *testing.T) {
	vm := NewVM()
	_, err := vm.Run("var counter = 41\n")
	require.NoError(t, err)

	vm.Load(mustParse(t, "counter = counter + 1\n"))
	stepAll(t, vm)
	assert.Equal(t, int64(42), globalInt(t, vm, "counter"))
}

func TestLoadEmptyProgram(t *testing.T) {
	vm := NewVM()
	vm.Load(mustParse(t, "\n"))
	assert.True(t, vm.IsFinished())
	require.NoError(t, vm.Step())
	assert.True(t, vm.IsFinished())
}

func TestRuntimeErrorPropagatesFromStep(t *testing.T) {
	vm := loadVM(t, "let a = 1\nlet b = missing\n")

	require.NoError(t, vm.Step())
	err := vm.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'missing'")
	assert.Contains(t, err.Error(), "runtime error at line 2")
}

func TestAddNativeAndSetGlobal(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.AddNative("double", func(n int64) int64 { return n * 2 }))
	vm.SetGlobal("seed", IntObj{Value: 21})

	_, err := vm.Run("let r = double(seed)\n")
	require.NoError(t, err)
	assert.Equal(t, int64(42), globalInt(t, vm, "r"))

	t.Run("native error carries statement location", func(t *testing.T) {
		require.NoError(t, vm.AddNative("boom", func() (Object, error) {
			return nil, assert.AnError
		}))
		_, err := vm.Run("let x = boom()\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "runtime error at line 1")
	})
}
