package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/client"
	"github.com/calebmweir/parley/runner"
)

var flagNoStream bool

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Send a single prompt and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagNoStream, "no-stream", false, "wait for the full reply instead of streaming")
}

func runOnce(ctx context.Context, prompt string) error {
	c := client.New()

	opts := []runner.Option{
		runner.WithModel(flagModel),
		runner.WithMaxTokens(flagMaxTokens),
	}
	if flagSystem != "" {
		opts = append(opts, runner.WithSystem(flagSystem))
	}

	run := runner.New(c, builtinTools(), []ai.Message{ai.NewUserMessage(prompt)}, opts...)

	if flagNoStream {
		for {
			resp, err := run.NextMessage(ctx)
			if err != nil {
				return err
			}
			if resp == nil {
				break
			}
			fmt.Println(resp.Text())
		}
		return nil
	}

	for {
		resp, err := run.NextMessageStream(ctx, printEvent)
		if err != nil {
			return err
		}
		if resp == nil {
			break
		}
		fmt.Println()
	}
	return nil
}

// gjsonArg extracts one string field from a tool call's JSON arguments.
func gjsonArg(arguments, field string) string {
	return gjson.Get(arguments, field).String()
}
