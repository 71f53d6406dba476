package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/testutil"
)

func TestFunctionToolCall(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	called := false
	ft := NewFunctionTool(
		"update_phone",
		"Record the customer's phone number",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"phone": map[string]any{"type": "string"},
			},
			"required": []string{"phone"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			called = true
			tc.SetState("phone", args["phone"])
			return "The phone number is updated", nil
		},
	)

	assert.Equal(t, "update_phone", ft.Name())

	result, err := ft.Call(tc, map[string]any{"phone": "555-0100"})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "The phone number is updated", result)

	v, ok := tc.GetState("phone")
	require.True(t, ok)
	assert.Equal(t, "555-0100", v)
}

func TestFunctionToolValidationError(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	ft := NewFunctionTool(
		"update_phone",
		"Record the customer's phone number",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"phone": map[string]any{"type": "string"},
			},
			"required": []string{"phone"},
		},
		func(*core.ToolContext, map[string]any) (any, error) { return nil, nil },
	)

	_, err := ft.Call(tc, map[string]any{})
	require.Error(t, err)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionToolExecutionError(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	ft := NewFunctionTool(
		"broken",
		"Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(*core.ToolContext, map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	)

	_, err := ft.Call(tc, map[string]any{})
	require.Error(t, err)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	ft := NewFunctionTool(
		"custom",
		"Returns a custom coded error",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(*core.ToolContext, map[string]any) (any, error) {
			return nil, NewToolError("custom", "not found", "NOT_FOUND")
		},
	)

	_, err := ft.Call(tc, map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "NOT_FOUND", toolErr.Code)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Name string `json:"name" description:"Customer name"`
	}

	ft := NewFunctionToolFromStruct(
		"update_name",
		"Record the customer's name",
		args{},
		func(*core.ToolContext, map[string]any) (any, error) { return "ok", nil },
	)

	schema := ft.Parameters()
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Equal(t, []string{"name"}, schema["required"])
}

func TestTransferToAgentTool(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	tr := NewTransferToAgentTool()
	result, err := tr.Call(tc, map[string]any{"agent": "property_finder"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"transferred": true, "agent": "property_finder"}, result)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, "property_finder", *tc.Actions().TransferToAgent)

	_, err = tr.Call(testutil.NewToolContext(t, "greeter"), map[string]any{})
	assert.Error(t, err)

	_, err = tr.Call(testutil.NewToolContext(t, "greeter"), map[string]any{"agent": ""})
	assert.Error(t, err)
}

func TestHandoffTool(t *testing.T) {
	tc := testutil.NewToolContext(t, "greeter")

	h := NewHandoffTool("transfer_to_scheduler", "Transfer to the viewing scheduler", "viewing_scheduler")
	assert.Equal(t, "transfer_to_scheduler", h.Name())

	_, err := h.Call(tc, map[string]any{})
	require.NoError(t, err)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, "viewing_scheduler", *tc.Actions().TransferToAgent)
}

func TestEndSessionTool(t *testing.T) {
	tc := testutil.NewToolContext(t, "support")

	es := NewEndSessionTool("Goodbye and thanks for calling.")
	result, err := es.Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Goodbye and thanks for calling.", result)
	require.NotNil(t, tc.Actions().EndSession)
	assert.True(t, *tc.Actions().EndSession)

	es = NewEndSessionTool("")
	result, err = es.Call(testutil.NewToolContext(t, "support"), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for contacting us. Goodbye.", result)
}

func TestToolErrorString(t *testing.T) {
	err := NewToolError("update_phone", "bad input", "VALIDATION_ERROR")
	assert.Equal(t, "tool error [VALIDATION_ERROR] in update_phone: bad input", err.Error())

	err = &ToolError{Tool: "update_phone", Message: "bad input"}
	assert.Equal(t, "tool error in update_phone: bad input", err.Error())
}
