package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/testutil"
)

func toolContext(t *testing.T, ud *UserData) *core.ToolContext {
	t.Helper()
	rc, _ := testutil.NewRunContext(t, agentInitial)
	rc.UserData = ud
	return core.NewToolContext(rc, "call-1")
}

func TestUpdateCustomerInfoPartialFields(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newUpdateCustomerInfoTool().Call(tc, map[string]any{
		"name":  "Jordan Lee",
		"email": "jordan@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thank you, I've updated your name, email.", res)
	assert.Equal(t, "Jordan Lee", ud.CustomerName)
	assert.Equal(t, "jordan@example.com", ud.CustomerEmail)
	assert.Empty(t, ud.CustomerPhone)
}

func TestRecordSatisfactionResponses(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newRecordSatisfactionTool().Call(tc, map[string]any{"rating": 5})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "positive feedback")
	assert.Equal(t, 5, ud.SatisfactionRating)

	res, err = newRecordSatisfactionTool().Call(tc, map[string]any{"rating": 3})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "always working to improve")

	res, err = newRecordSatisfactionTool().Call(tc, map[string]any{"rating": 1})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "sorry to hear that")

	_, err = newRecordSatisfactionTool().Call(tc, map[string]any{"rating": 9})
	assert.Error(t, err)
}

func TestIdentifyIssue(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newIdentifyIssueTool().Call(tc, map[string]any{
		"order_number": "ORD-1001",
		"product_id":   "P001",
		"issue_type":   "technical",
		"description":  "My headphones won't pair over bluetooth",
	})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "technical issue")
	assert.Equal(t, IssueTechnical, ud.IssueType)
	assert.Equal(t, "ORD-1001", ud.OrderNumber)
}

func TestProcessReturnFlow(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)
	args := map[string]any{"return_reason": "Too large for my desk"}

	res, err := newProcessReturnTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "order number and the product ID")

	ud.OrderNumber = "ORD-1002"
	ud.ProductID = "P999"
	res, err = newProcessReturnTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "unable to find product ID P999")

	ud.ProductID = "P004"
	res, err = newProcessReturnTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "subscription service")
	assert.False(t, ud.ReturnApproved)

	ud.ProductID = "P003"
	res, err = newProcessReturnTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "return has been approved")
	assert.True(t, ud.ReturnApproved)
	assert.Equal(t, "Too large for my desk", ud.ReturnReason)
}

func TestSendReturnLabel(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newSendReturnLabelTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "hasn't been approved yet")

	ud.ReturnApproved = true
	res, err = newSendReturnLabelTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "email address")

	ud.CustomerEmail = "jordan@example.com"
	ud.OrderNumber = "ORD-1002"
	ud.ProductID = "P003"
	res, err = newSendReturnLabelTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "sent a return shipping label to jordan@example.com")
	assert.True(t, ud.ReturnLabelSent)

	label, err := tc.LoadArtifact("return-label-ORD-1002")
	require.NoError(t, err)
	assert.Contains(t, string(label), "ORD-1002")
}

func TestLookupKnowledgeBase(t *testing.T) {
	assert.Equal(t, kbHeadphonesNotConnecting, LookupKnowledgeBase("My headphones won't connect over Bluetooth"))
	assert.Equal(t, kbTVNoPicture, LookupKnowledgeBase("The TV turns on but the screen stays black, no picture"))
	assert.Equal(t, kbSubscriptionAccess, LookupKnowledgeBase("I can't access my subscription content after login"))
	assert.Equal(t, kbGenericTroubleshooting, LookupKnowledgeBase("My office chair wobbles"))
}

func TestTroubleshootIssueNeedsDetails(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newTroubleshootIssueTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "more details")

	ud.IssueDescription = "tv has no picture"
	res, err = newTroubleshootIssueTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, kbTVNoPicture, res)
}

func TestProcessRefund(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)
	args := map[string]any{"amount": 199.99}

	res, err := newProcessRefundTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "order number")

	ud.OrderNumber = "ORD-1003"
	ud.CustomerEmail = "jordan@example.com"
	res, err = newProcessRefundTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "refund of $199.99")
	assert.True(t, ud.RefundApproved)
	assert.Equal(t, 199.99, ud.RefundAmount)
}

func TestManageSubscription(t *testing.T) {
	ud := NewUserData()
	ud.CustomerEmail = "jordan@example.com"
	tc := toolContext(t, ud)

	res, err := newManageSubscriptionTool().Call(tc, map[string]any{"action": "cancel"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "cancelled your subscription")

	res, err = newManageSubscriptionTool().Call(tc, map[string]any{"action": "pause"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "paused your subscription for 30 days")
}

func TestEscalationHandoffRecordsReason(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	_, err := newEscalationHandoff("to_manager", "Escalate.", "Complex billing issue").Call(tc, map[string]any{})
	require.NoError(t, err)

	assert.True(t, ud.Escalated)
	assert.Equal(t, "Complex billing issue", ud.EscalationReason)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, agentManager, *tc.Actions().TransferToAgent)
	require.NotNil(t, tc.Actions().Escalate)
	assert.True(t, *tc.Actions().Escalate)
}

func TestResolveEscalatedIssue(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newResolveEscalatedIssueTool().Call(tc, map[string]any{"resolution": "full refund"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "not seeing any escalated issue")

	ud.Escalated = true
	res, err = newResolveEscalatedIssueTool().Call(tc, map[string]any{
		"resolution":            "full refund",
		"special_accommodation": "20% off your next order",
	})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "full refund")
	assert.Contains(t, res.(string), "20% off your next order")
	assert.Contains(t, res.(string), "Is this resolution satisfactory")
}

func TestRoutingHandoffDefaultsIssueType(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	_, err := newRoutingHandoff("to_returns", "Route.", agentReturns, IssueReturn).Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, IssueReturn, ud.IssueType)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, agentReturns, *tc.Actions().TransferToAgent)

	// An already identified issue type is preserved
	ud2 := NewUserData()
	ud2.IssueType = IssueTechnical
	tc2 := toolContext(t, ud2)
	_, err = newRoutingHandoff("to_returns", "Route.", agentReturns, IssueReturn).Call(tc2, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, IssueTechnical, ud2.IssueType)
}

func TestSummarizeIncludesIssueSections(t *testing.T) {
	ud := NewUserData()
	ud.CustomerName = "Jordan Lee"
	ud.IssueType = IssueReturn
	ud.ReturnApproved = true

	summary := ud.Summarize()
	assert.Contains(t, summary, "Jordan Lee")
	assert.Contains(t, summary, "return_status")
	assert.NotContains(t, summary, "billing_status")
}
