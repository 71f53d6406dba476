package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Location     string   `json:"location" description:"Preferred location"`
	MinBedrooms  int      `json:"min_bedrooms,omitempty" description:"Minimum bedrooms"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	PropertyType string   `json:"property_type,omitempty" enum:"Condo,Single Family Home,Luxury Home"`
	Features     []string `json:"features,omitempty"`
	internal     bool     //nolint:unused
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	location, ok := props["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", location["type"])
	assert.Equal(t, "Preferred location", location["description"])

	bedrooms, ok := props["min_bedrooms"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", bedrooms["type"])

	propertyType, ok := props["property_type"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Condo", "Single Family Home", "Luxury Home"}, propertyType["enum"])

	features, ok := props["features"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", features["type"])
	assert.Equal(t, map[string]any{"type": "string"}, features["items"])

	assert.NotContains(t, props, "internal")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"location"}, required)
}

func TestCreateSchemaPointerAndNonStruct(t *testing.T) {
	schema := CreateSchema(&searchArgs{})
	assert.Equal(t, "object", schema["type"])

	schema = CreateSchema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParameters(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	err := ValidateParameters(map[string]any{"location": "downtown"}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "location", vErr.Field)

	err = ValidateParameters(map[string]any{"location": 42}, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected type string")
}

func TestValidateParametersIntegerFromJSON(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	// JSON decoding yields float64 for every number.
	err := ValidateParameters(map[string]any{"location": "x", "min_bedrooms": float64(3)}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"location": "x", "min_bedrooms": 3.5}, schema)
	assert.Error(t, err)
}

func TestValidateParametersEnum(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	err := ValidateParameters(map[string]any{"location": "x", "property_type": "Condo"}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"location": "x", "property_type": "Castle"}, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in allowed set")
}

func TestValidateParametersExtraFieldsAllowed(t *testing.T) {
	schema := CreateSchema(searchArgs{})
	err := ValidateParameters(map[string]any{"location": "x", "unknown": "y"}, schema)
	assert.NoError(t, err)
}
