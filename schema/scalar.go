package schema

// String creates a string schema builder.
func String() *StringBuilder {
	return &StringBuilder{base{n: &node{Type: "string"}}}
}

// StringBuilder constructs string schemas.
type StringBuilder struct {
	base
}

// Desc sets the description.
func (b *StringBuilder) Desc(description string) *StringBuilder {
	b.n.Description = description
	return b
}

// Enum restricts the value to one of the provided options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// MinLength sets the minimum string length.
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.n.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum string length.
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.n.MaxLength = ptr(n)
	return b
}

// Pattern sets a regex the string must match.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Default sets the default value.
func (b *StringBuilder) Default(value string) *StringBuilder {
	b.n.Default = value
	return b
}

// Int creates an integer schema builder.
func Int() *IntBuilder {
	return &IntBuilder{base{n: &node{Type: "integer"}}}
}

// IntBuilder constructs integer schemas.
type IntBuilder struct {
	base
}

// Desc sets the description.
func (b *IntBuilder) Desc(description string) *IntBuilder {
	b.n.Description = description
	return b
}

// Min sets the inclusive minimum.
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.n.Minimum = ptr(float64(n))
	return b
}

// Max sets the inclusive maximum.
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.n.Maximum = ptr(float64(n))
	return b
}

// ExclusiveMin sets the exclusive minimum.
func (b *IntBuilder) ExclusiveMin(n int) *IntBuilder {
	b.n.ExclusiveMinimum = ptr(float64(n))
	return b
}

// ExclusiveMax sets the exclusive maximum.
func (b *IntBuilder) ExclusiveMax(n int) *IntBuilder {
	b.n.ExclusiveMaximum = ptr(float64(n))
	return b
}

// Enum restricts the value to specific integers.
func (b *IntBuilder) Enum(values ...int) *IntBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// Default sets the default value.
func (b *IntBuilder) Default(value int) *IntBuilder {
	b.n.Default = value
	return b
}

// Number creates a number (float) schema builder.
func Number() *NumberBuilder {
	return &NumberBuilder{base{n: &node{Type: "number"}}}
}

// NumberBuilder constructs number schemas.
type NumberBuilder struct {
	base
}

// Desc sets the description.
func (b *NumberBuilder) Desc(description string) *NumberBuilder {
	b.n.Description = description
	return b
}

// Min sets the inclusive minimum.
func (b *NumberBuilder) Min(n float64) *NumberBuilder {
	b.n.Minimum = ptr(n)
	return b
}

// Max sets the inclusive maximum.
func (b *NumberBuilder) Max(n float64) *NumberBuilder {
	b.n.Maximum = ptr(n)
	return b
}

// ExclusiveMin sets the exclusive minimum.
func (b *NumberBuilder) ExclusiveMin(n float64) *NumberBuilder {
	b.n.ExclusiveMinimum = ptr(n)
	return b
}

// ExclusiveMax sets the exclusive maximum.
func (b *NumberBuilder) ExclusiveMax(n float64) *NumberBuilder {
	b.n.ExclusiveMaximum = ptr(n)
	return b
}

// Enum restricts the value to specific numbers.
func (b *NumberBuilder) Enum(values ...float64) *NumberBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// Default sets the default value.
func (b *NumberBuilder) Default(value float64) *NumberBuilder {
	b.n.Default = value
	return b
}

// Bool creates a boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{base{n: &node{Type: "boolean"}}}
}

// BoolBuilder constructs boolean schemas.
type BoolBuilder struct {
	base
}

// Desc sets the description.
func (b *BoolBuilder) Desc(description string) *BoolBuilder {
	b.n.Description = description
	return b
}

// Default sets the default value.
func (b *BoolBuilder) Default(value bool) *BoolBuilder {
	b.n.Default = value
	return b
}
