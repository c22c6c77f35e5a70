// Package main provides the uiloop CLI: run, validate, and export
// schemas for bounded UI interaction loops against scripted pages.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/uiloop/pkg/loop"
	"github.com/ormasoftchile/uiloop/pkg/render"
	"github.com/ormasoftchile/uiloop/pkg/schema"
	"github.com/ormasoftchile/uiloop/pkg/scripted"
	"github.com/ormasoftchile/uiloop/pkg/trace"
)

// Version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uiloop",
	Short: "Bounded UI interaction loops with evidence capture",
	Long:  "uiloop — run counted, pre-checked, or post-checked interaction loops against a page, with per-iteration evidence and a pass/fail verdict.",
}

func init() {
	rootCmd.AddCommand(validateCmd, runCmd, schemaCmd, versionCmd)

	runCmd.Flags().StringVar(&runFixture, "fixture", "", "path to the scripted page fixture YAML (required)")
	runCmd.Flags().StringVar(&runTrace, "trace", "", "append a JSONL trace of loop events to this file")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the report as JSON instead of styled text")
	runCmd.MarkFlagRequired("fixture")
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [request.yaml]",
	Short: "Validate a loop request YAML file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	req, errs := schema.ValidateFile(args[0])

	var errCount int
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "    at: %s\n", e.Path)
			}
			continue
		}
		errCount++
		fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", errCount, e.Phase, e.Message)
		if e.Path != "" {
			fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
		}
	}
	if errCount > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errCount)
	}

	fmt.Printf("✓ %s loop request is valid\n", req.Loop.Type)
	return nil
}

// --- run ---

var (
	runFixture string
	runTrace   string
	runJSON    bool
)

var runCmd = &cobra.Command{
	Use:   "run [request.yaml]",
	Short: "Execute a loop request against a scripted page fixture",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	req, errs := schema.ValidateFile(args[0])
	if schema.HasErrors(errs) {
		for _, e := range errs {
			if e.Severity != "warning" {
				fmt.Fprintf(os.Stderr, "  [%s] %s\n", e.Phase, e.Message)
			}
		}
		return fmt.Errorf("request validation failed")
	}

	fx, err := scripted.LoadFixtureFile(runFixture)
	if err != nil {
		return fmt.Errorf("fixture: %w", err)
	}
	pg, err := scripted.NewPage(fx)
	if err != nil {
		return fmt.Errorf("fixture: %w", err)
	}

	runID := "cli-" + uuid.NewString()
	cfg := loop.RunConfig{
		RunID:   runID,
		Session: pg,
	}
	if runTrace != "" {
		tw, err := trace.NewFileWriter(runTrace, runID)
		if err != nil {
			return err
		}
		cfg.Trace = tw
	}

	eng := loop.New(pg.Actions(), pg.Conditions(), cfg)
	rep, err := eng.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if runJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(render.Report(rep))
	}

	if rep.Summary.Status != "pass" {
		os.Exit(1)
	}
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema [request|fixture]",
	Short: "Export the JSON Schema for request or fixture documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error

	switch args[0] {
	case "request":
		data, err = schema.GenerateRequestJSONSchema()
	case "fixture":
		data, err = scripted.GenerateFixtureJSONSchema()
	default:
		return fmt.Errorf("unknown schema type %q — use 'request' or 'fixture'", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the uiloop version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
