package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logue/drop-compress-image/internal/command"
	"github.com/logue/drop-compress-image/internal/desktop"
	"github.com/logue/drop-compress-image/internal/logging"
)

func newInvokeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <command> [json-args]",
		Short: "Run a command without opening a window",
		Example: `  drop-compress-image invoke echo_message '{"message":"hello"}'
  drop-compress-image invoke process_data '{"data":"foo","options":{"x":1}}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			// Console only: headless runs do not write to the log directory.
			opts := cfg.LoggingOptions()
			opts.Dir = ""
			opts.Stdout = true
			opts.Out = cmd.ErrOrStderr()
			logger, flush, err := setupLogger(opts)
			if err != nil {
				return err
			}
			defer flush()

			registry, err := command.New(desktop.Version)
			if err != nil {
				return err
			}

			payload := json.RawMessage("{}")
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("%w: arguments are not valid JSON", command.ErrInvalidPayload)
				}
				payload = json.RawMessage(args[1])
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logging.WithLogger(ctx, logger)

			result, err := registry.Invoke(ctx, args[0], logging.NewZerologSink(logger), payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands the UI can invoke",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := command.New(desktop.Version)
			if err != nil {
				return err
			}
			for _, name := range registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), desktop.Version)
		},
	}
}
