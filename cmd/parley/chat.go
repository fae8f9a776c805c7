package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/client"
	"github.com/calebmweir/parley/runner"
	"github.com/calebmweir/parley/schema"
	"github.com/calebmweir/parley/stream"
	"github.com/calebmweir/parley/tool"
)

var flagMaxIterations int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive streaming chat with tool execution",
	Long: `Chat starts an interactive session. Model output streams to the
terminal as it arrives, and tool calls the model requests are executed
automatically. Type "exit" or press Ctrl-D to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().IntVar(&flagMaxIterations, "max-iterations", runner.DefaultMaxIterations, "model turn budget per prompt")
}

// builtinTools registers the demonstration tools the chat session offers
// the model.
func builtinTools() *tool.Registry {
	registry := tool.NewRegistry()

	currentTime := schema.MustTool("current_time", "Get the current date and time",
		schema.Object().
			Field("timezone", schema.String().Desc("IANA timezone name, e.g. Europe/Paris")))
	registry.MustRegister(currentTime, func(ctx context.Context, call ai.ToolCall) (string, error) {
		loc := time.Local
		if tz := gjsonArg(call.Arguments, "timezone"); tz != "" {
			l, err := time.LoadLocation(tz)
			if err != nil {
				return "", fmt.Errorf("unknown timezone %q", tz)
			}
			loc = l
		}
		return time.Now().In(loc).Format(time.RFC1123), nil
	})

	return registry
}

func runChat(ctx context.Context) error {
	c := client.New()
	registry := builtinTools()

	opts := []runner.Option{
		runner.WithModel(flagModel),
		runner.WithMaxTokens(flagMaxTokens),
		runner.WithMaxIterations(flagMaxIterations),
		runner.WithTokenCounter(c),
		runner.WithCompaction(runner.CompactionConfig{
			Enabled: true,
			OnCompact: func(before, after int) {
				fmt.Fprintf(os.Stderr, "\n[history compacted: %d -> %d tokens]\n", before, after)
			},
		}),
	}
	if flagSystem != "" {
		opts = append(opts, runner.WithSystem(flagSystem))
	}
	if flagVerbose {
		opts = append(opts, runner.WithLogger(logrus.StandardLogger()))
	}

	run := runner.New(c, registry, nil, opts...)

	fmt.Printf("parley chat (%s). Type \"exit\" to quit.\n\n", flagModel)
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		run.FeedMessage(ai.NewUserMessage(line))

		for {
			resp, err := run.NextMessageStream(ctx, printEvent)
			if err != nil {
				fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
				break
			}
			if resp == nil {
				break
			}
			fmt.Println()
		}
	}
}

// printEvent writes streamed text and tool-call notices to the terminal.
func printEvent(evt stream.Event) {
	switch evt.Type {
	case stream.ContentBlockDelta:
		if evt.Delta != nil && evt.Delta.Kind == stream.DeltaText {
			fmt.Print(evt.Delta.Text)
		}
	case stream.ContentBlockStart:
		if evt.Block != nil && evt.Block.Type == ai.BlockTypeToolUse {
			fmt.Printf("\n[calling %s]\n", evt.Block.Name)
		}
	}
}
