// Package parley is a Go client library for a conversational-AI HTTP API.
//
// The root package holds the shared data model: messages built from typed
// content blocks, model responses, tool definitions, request options, and
// a categorized error taxonomy. The concern-specific packages build on it:
//
//   - client: typed HTTP bindings for the API (messages, token counting,
//     models, files, batches, skills) with cursor pagination and retry.
//   - stream: a pull-based decoder that turns a server-sent-event byte
//     stream into typed protocol events, plus derived projections over
//     the event sequence (text, tool input, thinking, citations).
//   - runner: an agentic tool-execution loop that drives multi-turn
//     conversations, dispatches model-requested tool calls to registered
//     handlers, and optionally compacts history when token usage grows.
//   - tool: a registry of named callables with schema-carrying
//     definitions and typed handlers.
//   - schema: a small fluent builder for JSON Schema tool parameters.
//   - mcp: an adapter that imports tools served over MCP into a registry.
//
// A minimal tool-calling conversation:
//
//	c := client.New(client.WithAPIKey(key))
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get the weather for a city", getWeather),
//	)
//
//	r := runner.New(c, registry,
//	    []parley.Message{parley.NewUserMessage("What's the weather in Oslo?")},
//	    runner.WithModel("sonnet-4"),
//	)
//
//	responses, err := r.RunUntilFinished(ctx)
package parley
