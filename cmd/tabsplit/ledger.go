package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mmynk/tabsplit/pkg/api"
)

// stdout is where commands write their report.
var stdout io.Writer = os.Stdout

// stdin is read when the ledger file is "-".
var stdin io.Reader = os.Stdin

// readDocument loads a ledger document from a file, or stdin for "-".
func readDocument(name string) (*api.Document, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return api.DecodeDocument(data)
}
