// Package schema builds JSON Schema documents for tool input
// declarations through a fluent, validated API.
//
// Schemas are assembled from typed builders and serialized with Build
// or MustBuild:
//
//	input := schema.Object().
//		Field("location", schema.String().Desc("City name").Required()).
//		Field("unit", schema.String().Enum("celsius", "fahrenheit")).
//		Field("days", schema.Int().Min(1).Max(14)).
//		MustBuild()
//
// MustTool bundles a schema directly into a tool declaration:
//
//	forecast := schema.MustTool("get_forecast", "Get a weather forecast",
//		schema.Object().
//			Field("location", schema.String().Required()))
//
// Build validates constraints before serializing, so an inverted range
// or a malformed regex pattern surfaces as an error instead of a
// rejected API call.
package schema
