package main

import (
	"fmt"
	"io"

	"github.com/tisannai/mucgly/internal/hook"
	"github.com/tisannai/mucgly/internal/ioframe"
	"github.com/tisannai/mucgly/internal/parser"
	"github.com/tisannai/mucgly/script"
)

// processFiles runs each input path through its own Parser in turn, all
// writing to the same out sink, stopping at the first terminating
// Diagnostic. outputName is used only as the recorded output-sink name.
func processFiles(paths []string, outputName string, out io.Writer, template *hook.Config) (*parser.Diagnostic, error) {
	if outputName == "" {
		outputName = "<stdout>"
	}

	for _, path := range paths {
		d, err := processOne(path, outputName, out, template)
		if err != nil {
			return d, err
		}
		if d != nil {
			return d, nil
		}
	}
	return nil, nil
}

func processOne(path, outputName string, out io.Writer, template *hook.Config) (*parser.Diagnostic, error) {
	ps := parser.NewParseState(script.Noop{}, template)
	defer ps.Close()

	cfg, err := ps.Inputs.NewChildConfig(template)
	if err != nil {
		return nil, fmt.Errorf("mucgly: %s: %w", path, err)
	}

	r, name, err := ioframe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mucgly: open %q: %w", path, err)
	}
	ps.Inputs.Push(ioframe.NewInputSource(name, r, r, cfg))
	ps.Outputs.Push(ioframe.NewOutputSink(outputName, out, nil))

	p := parser.NewParser(ps)
	return p.Run()
}
