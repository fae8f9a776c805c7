// Package tool manages the named callables a conversation runner can
// dispatch to.
//
// A tool pairs a definition (name, description, JSON Schema for its input)
// with a Handler that executes it. Register plain handlers directly, or use
// the generic [Func] and [RegisterFunc] helpers to derive the input schema
// from a Go struct and unmarshal arguments automatically:
//
//	type WeatherArgs struct {
//	    City string `json:"city" desc:"City name" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get the weather for a city",
//	        func(ctx context.Context, args WeatherArgs) (string, error) {
//	            return lookupWeather(args.City)
//	        }),
//	)
//
// Handler failures are not errors at the registry boundary: Execute folds
// them into a ToolResult flagged is_error so the model can see the failure
// and recover. Only a call to a name that was never registered returns an
// error.
package tool
