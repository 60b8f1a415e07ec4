package nimmy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveDoesNotPerturbState(t *testing.T) {
	vm := loadVM(t, "let a = 1\nlet b = 2\nlet c = 3\n")

	require.NoError(t, vm.Step())
	assert.Equal(t, 2, vm.CurrentLine())

	result := vm.RunInteractive("a + 100")
	assert.True(t, result.Success)
	assert.Equal(t, IntObj{Value: 101}, result.Value)

	assert.Equal(t, 2, vm.CurrentLine())
	assert.False(t, vm.IsFinished())

	require.NoError(t, vm.Step())
	assert.Equal(t, 3, vm.CurrentLine())
}

func TestInteractiveBindingsPersist(t *testing.T) {
	vm := loadVM(t, "let a = 1\nlet b = 2\n")
	require.NoError(t, vm.Step())

	result := vm.RunInteractive("var injected = a * 10")
	require.True(t, result.Success)

	result = vm.RunInteractive("injected + 1")
	require.True(t, result.Success)
	assert.Equal(t, IntObj{Value: 11}, result.Value)
}

func TestInteractiveSeesPausedLocals(t *testing.T) {
	src := `proc compute(n) =
  let a = n * 2
  let b = a + 1
  return b

let result = compute(5)
`
	vm := loadVM(t, src)
	vm.AddBreakpoint(3)
	require.NoError(t, vm.Continue())
	require.Equal(t, 3, vm.CurrentLine())

	result := vm.RunInteractive("a + n")
	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, IntObj{Value: 15}, result.Value)

	frames := len(vm.frames)
	scope := vm.CurrentScope()
	result = vm.RunInteractive("missing_thing")
	assert.False(t, result.Success)
	assert.Equal(t, frames, len(vm.frames))
	assert.Same(t, scope, vm.CurrentScope())

	require.NoError(t, vm.Continue())
	assert.True(t, vm.IsFinished())
	assert.Equal(t, int64(11), globalInt(t, vm, "result"))
}

func TestInteractiveRuntimeErrorLeavesStateAlone(t *testing.T) {
	vm := loadVM(t, "let a = 1\nlet b = 2\nlet c = 3\n")
	require.NoError(t, vm.Step())

	line := vm.CurrentLine()
	frames := len(vm.frames)
	scope := vm.CurrentScope()

	result := vm.RunInteractive("1 / 0")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Division by zero")
	assert.Contains(t, result.Error, "error")

	assert.Equal(t, line, vm.CurrentLine())
	assert.Equal(t, frames, len(vm.frames))
	assert.Same(t, scope, vm.CurrentScope())
	assert.False(t, vm.IsFinished())

	require.NoError(t, vm.Step())
	assert.Equal(t, 3, vm.CurrentLine())
}

func TestInteractiveParseError(t *testing.T) {
	vm := loadVM(t, "let a = 1\n")

	result := vm.RunInteractive("let = nope")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "error")
	assert.Nil(t, result.Value)
}

func TestInteractiveEchoCaptured(t *testing.T) {
	vm := loadVM(t, "echo \"main\"\nlet a = 1\n")
	require.NoError(t, vm.Step())

	result := vm.RunInteractive("echo \"one\", 1\necho \"two\"")
	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, []string{"one 1", "two"}, result.Output)

	// The fragment's echo output stays out of the main stream.
	assert.Equal(t, []string{"main"}, vm.Output())

	stepAll(t, vm)
	assert.Equal(t, []string{"main"}, vm.Output())
}

func TestInteractiveEmptyFragment(t *testing.T) {
	vm := loadVM(t, "let a = 1\n")

	for _, fragment := range []string{"", "   ", "\n\t  \n"} {
		result := vm.RunInteractive(fragment)
		assert.True(t, result.Success)
		assert.Equal(t, NilObj{}, result.Value)
		assert.Empty(t, result.Output)
	}
}

func TestInteractiveMutatesContainers(t *testing.T) {
	vm := loadVM(t, "var arr = [1, 2]\nlet n = len(arr)\n")
	require.NoError(t, vm.Step())

	result := vm.RunInteractive("push(arr, 3)")
	require.True(t, result.Success, "error: %s", result.Error)

	stepAll(t, vm)
	assert.Equal(t, int64(3), globalInt(t, vm, "n"))
}

func TestInteractiveFunctionCall(t *testing.T) {
	src := `proc double(x) =
  return x * 2

let r = double(4)
`
	vm := loadVM(t, src)
	require.NoError(t, vm.Step())

	result := vm.RunInteractive("double(21)")
	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, IntObj{Value: 42}, result.Value)
	assert.Equal(t, 4, vm.CurrentLine())
}
