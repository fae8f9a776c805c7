package tool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	t.Run("scalar kinds", func(t *testing.T) {
		type args struct {
			Name   string  `json:"name"`
			Count  int     `json:"count"`
			Ratio  float64 `json:"ratio"`
			Active bool    `json:"active"`
		}

		schema, err := SchemaFor[args]()
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"count": {"type": "integer"},
				"ratio": {"type": "number"},
				"active": {"type": "boolean"}
			}
		}`, string(schema))
	})

	t.Run("tags drive description, required and enum", func(t *testing.T) {
		type args struct {
			Location string `json:"location" desc:"City name" required:"true"`
			Unit     string `json:"unit" enum:"celsius,fahrenheit" desc:"Temperature unit"`
			Days     int    `json:"days" desc:"Forecast length"`
		}

		schema, err := SchemaFor[args]()
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "object",
			"properties": {
				"location": {"type": "string", "description": "City name"},
				"unit": {"type": "string", "description": "Temperature unit", "enum": ["celsius", "fahrenheit"]},
				"days": {"type": "integer", "description": "Forecast length"}
			},
			"required": ["location"]
		}`, string(schema))
	})

	t.Run("nested structs, slices and maps", func(t *testing.T) {
		type inner struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		}
		type args struct {
			Tags   []string       `json:"tags"`
			Point  inner          `json:"point"`
			Extras map[string]int `json:"extras"`
		}

		schema, err := SchemaFor[args]()
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "object",
			"properties": {
				"tags": {"type": "array", "items": {"type": "string"}},
				"point": {
					"type": "object",
					"properties": {
						"lat": {"type": "number"},
						"lon": {"type": "number"}
					}
				},
				"extras": {"type": "object"}
			}
		}`, string(schema))
	})

	t.Run("skipped and unexported fields", func(t *testing.T) {
		type args struct {
			Kept     string `json:"kept"`
			Skipped  string `json:"-"`
			Untagged string
			hidden   string
		}

		schema, err := SchemaFor[args]()
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "object",
			"properties": {
				"kept": {"type": "string"},
				"Untagged": {"type": "string"}
			}
		}`, string(schema))
	})

	t.Run("declaration order is stable", func(t *testing.T) {
		type args struct {
			Zebra string `json:"zebra"`
			Apple string `json:"apple"`
			Mango string `json:"mango"`
		}

		schema, err := SchemaFor[args]()
		require.NoError(t, err)
		zebra := strings.Index(string(schema), `"zebra"`)
		apple := strings.Index(string(schema), `"apple"`)
		mango := strings.Index(string(schema), `"mango"`)
		assert.Less(t, zebra, apple)
		assert.Less(t, apple, mango)
	})

	t.Run("non-struct types rejected", func(t *testing.T) {
		_, err := SchemaFor[string]()
		assert.Error(t, err)

		_, err = SchemaFor[[]int]()
		assert.Error(t, err)

		assert.Panics(t, func() { MustSchemaFor[int]() })
	})

	t.Run("pointer to struct accepted", func(t *testing.T) {
		type args struct {
			Name string `json:"name"`
		}
		schema, err := SchemaFor[*args]()
		require.NoError(t, err)
		assert.Contains(t, string(schema), `"name"`)
	})
}
