package interpreter

import "time"

// defineBuiltins installs the native functions available in every global
// frame. `print` is implemented as a keyword statement, not a builtin
// (§7 open question), so only clock and type live here.
func (i *Interpreter) defineBuiltins() {
	i.globals.Define("clock", &NativeFn{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})

	i.globals.Define("type", &NativeFn{
		name:  "type",
		arity: 1,
		fn: func(_ *Interpreter, arguments []Value) (Value, error) {
			return typeName(arguments[0]), nil
		},
	})
}
