package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"clipforge/internal/engine"
)

func newEngine() *engine.Engine {
	return engine.New(engine.Options{})
}

// readOperation loads one operation from the file argument, or stdin when the
// argument is absent or "-". Kind aliases are resolved the same way the
// server resolves them.
func readOperation(args []string) (engine.Operation, error) {
	data, err := readInput(args)
	if err != nil {
		return engine.Operation{}, err
	}

	var op engine.Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return engine.Operation{}, fmt.Errorf("parse operation: %w", err)
	}
	kind, err := engine.ParseKind(string(op.Kind))
	if err != nil {
		return engine.Operation{}, err
	}
	op.Kind = kind
	return op, nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
