package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsynth-go/fsynth"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate and apply operation plans",
		Long:  "Validate the structure of a plan file, or apply it against the filesystem",
	}

	cmd.AddCommand(newPlanValidateCommand())
	cmd.AddCommand(newPlanApplyCommand())
	return cmd
}

func newPlanValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file's structure and run each operation's Validate phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read plan file %s: %w", args[0], err)
			}

			plan, err := fsynth.LoadPlan(data)
			if err != nil {
				return err
			}

			ops, err := plan.Build()
			if err != nil {
				return err
			}

			fsys := filesystem.NewOSFileSystem()
			ctx := context.Background()
			for i, op := range ops {
				if err := op.Validate(ctx, fsys); err != nil {
					return fmt.Errorf("operation %d failed validation: %w", i+1, err)
				}
			}

			fmt.Printf("plan is valid: %d operations\n", len(ops))
			if plan.Description != "" {
				fmt.Printf("description: %s\n", plan.Description)
			}
			return nil
		},
	}
	return cmd
}

func newPlanApplyCommand() *cobra.Command {
	var (
		dryRun bool
		model  string
	)

	cmd := &cobra.Command{
		Use:   "apply [plan-file]",
		Short: "Apply a plan file's operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read plan file %s: %w", args[0], err)
			}

			plan, err := fsynth.LoadPlan(data)
			if err != nil {
				return err
			}

			ops, err := plan.Build()
			if err != nil {
				return err
			}

			if model == "" {
				model = plan.Model
			}
			if model == "" {
				model = "standard"
			}

			execModel, err := fsynth.ModelFromString(model)
			if err != nil {
				return err
			}

			fsys := filesystem.NewOSFileSystem()
			ctx := context.Background()

			results, err := fsynth.Run(ctx, fsys, ops,
				fsynth.WithModel(execModel),
				fsynth.WithDryRun(dryRun),
				fsynth.WithLogWriter(os.Stderr),
			)
			if err != nil {
				return err
			}

			for _, line := range results.Log {
				fmt.Println(line)
			}

			if results.Success {
				fmt.Printf("applied %d operations\n", results.ExecutedCount)
				return nil
			}

			fmt.Printf("plan failed: %d executed, %d skipped, %d rolled back\n",
				results.ExecutedCount, results.SkippedCount, results.RolledBackCount)
			for _, rec := range results.Errors {
				fmt.Printf("  %s %s(%s): %v\n", rec.Kind, rec.Phase, rec.Path, rec.Err)
			}
			return fmt.Errorf("plan execution failed")
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate every operation without executing any of them")
	cmd.Flags().StringVar(&model, "model", "", "execution model: standard, validate_first, best_effort, transactional (default: the plan's own model, or standard)")

	return cmd
}
