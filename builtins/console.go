package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/esgo/runtime"
)

func (l *library) createConsoleObject(out, errOut io.Writer) *runtime.Object {
	console := l.realm.NewPlainObject()

	log := printer(out)
	warn := printer(errOut)
	l.setMethod(console, "log", 0, log)
	l.setMethod(console, "info", 0, log)
	l.setMethod(console, "debug", 0, log)
	l.setMethod(console, "warn", 0, warn)
	l.setMethod(console, "error", 0, warn)

	return console
}

// formatArgs renders arguments the way node's console does: strings as-is,
// everything else inspected, separated by spaces.
func formatArgs(args []*runtime.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = runtime.Display(a)
	}
	return strings.Join(parts, " ")
}

func printer(w io.Writer) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fmt.Fprintln(w, formatArgs(args))
		return runtime.Undefined, nil
	}
}
