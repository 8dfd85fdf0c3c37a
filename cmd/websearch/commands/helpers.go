// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// printJSON writes v to stdout as the command's sole payload, per the CLI
// contract: stdout carries exactly the JSON result, diagnostics go to
// stderr.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return operationalError(fmt.Errorf("encode result: %w", err))
	}
	return nil
}

// readStdin reads all of stdin, used when --content is omitted.
func readStdin() (string, error) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", userError(fmt.Errorf("read stdin: %w", err))
	}
	return string(b), nil
}
