// Command mucgly runs the streaming macro preprocessor against one or more
// input files, writing the expanded result to an output path or stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tisannai/mucgly/internal/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	output     string
	hookbeg    string
	hookend    string
	hookesc    string
	eater      string
	configPath string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "mucgly [input...]",
		Short: "Expand embedded script macros in text files",
		Long: "mucgly streams one or more input files through a configurable\n" +
			"hook-begin/hook-end macro expander, writing the result to an\n" +
			"output path (or stdout, with no -o).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path (default: stdout)")
	cmd.Flags().StringVar(&f.hookbeg, "hookbeg", "", "override the hook-begin delimiter")
	cmd.Flags().StringVar(&f.hookend, "hookend", "", "override the hook-end delimiter")
	cmd.Flags().StringVar(&f.hookesc, "hookesc", "", "override the escape string")
	cmd.Flags().StringVar(&f.eater, "eater", "", "set the eater string")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a mucgly.toml default-template file")

	return cmd
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	template, err := loadTemplate(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.output != "" {
		file, ferr := os.Create(f.output)
		if ferr != nil {
			return fmt.Errorf("mucgly: create output %q: %w", f.output, ferr)
		}
		defer file.Close()
		out = file
	}

	logger := diag.NewLogger(cmd.ErrOrStderr())

	d, err := processFiles(args, f.output, out, template)
	if err != nil {
		return err
	}
	if d != nil {
		diag.Log(logger, d)
		if code := diag.ExitCode(d); code != 0 {
			os.Exit(code)
		}
	}
	return nil
}
