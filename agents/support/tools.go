package support

import (
	"fmt"
	"strings"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/tool"
)

func userData(tc *core.ToolContext) (*UserData, error) {
	ud, ok := tc.UserData().(*UserData)
	if !ok {
		return nil, fmt.Errorf("session user data is not attached")
	}
	return ud, nil
}

type updateCustomerInfoArgs struct {
	Name  string `json:"name,omitempty" description:"The customer's full name"`
	Email string `json:"email,omitempty" description:"The customer's email address"`
	Phone string `json:"phone,omitempty" description:"The customer's phone number"`
}

func newUpdateCustomerInfoTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"update_customer_info",
		"Record the customer's contact information. Confirm the information with the customer before calling.",
		updateCustomerInfoArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			var updated []string
			if v, ok := tool.StringArg(args, "name"); ok {
				ud.CustomerName = v
				tc.SetState("customer_name", v)
				updated = append(updated, "name")
			}
			if v, ok := tool.StringArg(args, "email"); ok {
				ud.CustomerEmail = v
				tc.SetState("customer_email", v)
				updated = append(updated, "email")
			}
			if v, ok := tool.StringArg(args, "phone"); ok {
				ud.CustomerPhone = v
				tc.SetState("customer_phone", v)
				updated = append(updated, "phone")
			}

			if len(updated) == 0 {
				return "I didn't catch any contact details. Could you repeat them?", nil
			}

			return fmt.Sprintf("Thank you, I've updated your %s.", strings.Join(updated, ", ")), nil
		},
	)
}

type recordSatisfactionArgs struct {
	Rating int `json:"rating" description:"Customer satisfaction rating on a scale of 1-5"`
}

func newRecordSatisfactionTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"record_satisfaction",
		"Record the customer's satisfaction rating for the support experience, on a scale of 1-5.",
		recordSatisfactionArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			rating, _ := tool.IntArg(args, "rating")
			if rating < 1 || rating > 5 {
				return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
			}

			ud.SatisfactionRating = rating
			tc.SetState("satisfaction_rating", rating)

			switch {
			case rating >= 4:
				return "Thank you for your positive feedback! We're glad we could help you today.", nil
			case rating == 3:
				return "Thank you for your feedback. We're always working to improve our service.", nil
			default:
				return "I'm sorry to hear that. We take your feedback seriously and will use it to improve our service.", nil
			}
		},
	)
}

// commonTools are shared by every specialist persona.
func commonTools() []tool.Tool {
	return []tool.Tool{
		newUpdateCustomerInfoTool(),
		newRecordSatisfactionTool(),
		tool.NewEndSessionTool("Thank you for contacting support. Goodbye."),
	}
}

type identifyIssueArgs struct {
	OrderNumber string `json:"order_number,omitempty" description:"The customer's order number if applicable"`
	ProductID   string `json:"product_id,omitempty" description:"The product ID if applicable"`
	IssueType   string `json:"issue_type" description:"The type of issue the customer is experiencing" enum:"return,technical,billing,other"`
	Description string `json:"description" description:"Brief description of the customer's issue"`
}

func newIdentifyIssueTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"identify_issue",
		"Record the customer's issue type and basic details once identified.",
		identifyIssueArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if v, ok := tool.StringArg(args, "order_number"); ok {
				ud.OrderNumber = v
			}
			if v, ok := tool.StringArg(args, "product_id"); ok {
				ud.ProductID = v
			}
			issueType, _ := tool.StringArg(args, "issue_type")
			description, _ := tool.StringArg(args, "description")
			ud.IssueType = IssueType(issueType)
			ud.IssueDescription = description
			tc.SetState("issue_type", issueType)

			return fmt.Sprintf("Thank you for providing those details. I understand you're having a %s issue. I'll route you to the appropriate specialist.", issueType), nil
		},
	)
}

// newRoutingHandoff hands off to a specialist and defaults the issue type
// when the initial agent skipped identify_issue.
func newRoutingHandoff(name, description, target string, defaultIssue IssueType) tool.Tool {
	return tool.NewFunctionTool(
		name,
		description,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.IssueType == "" {
				ud.IssueType = defaultIssue
			}

			tc.TransferToAgent(target)
			return map[string]any{"transferred": true, "agent": target}, nil
		},
	)
}

// newEscalationHandoff transfers to the manager recording why.
func newEscalationHandoff(name, description, reason string) tool.Tool {
	return tool.NewFunctionTool(
		name,
		description,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			ud.Escalated = true
			ud.EscalationReason = reason
			tc.Escalate()
			tc.TransferToAgent(agentManager)

			return map[string]any{"transferred": true, "agent": agentManager}, nil
		},
	)
}

type processReturnArgs struct {
	ReturnReason string `json:"return_reason" description:"The reason for the return"`
}

func newProcessReturnTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"process_return",
		"Verify return eligibility and approve the return once the reason is known.",
		processReturnArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.OrderNumber == "" || ud.ProductID == "" {
				return "Before I can process your return, I'll need your order number and the product ID. Do you have those available?", nil
			}

			product, found := FindProduct(ud.ProductID)
			if !found {
				return fmt.Sprintf("I'm unable to find product ID %s in our system. Could you please verify the product ID?", ud.ProductID), nil
			}

			if product.IsSubscription() {
				return "This appears to be a subscription service, which follows our digital services cancellation policy. Let me transfer you to our billing department who can help with cancellations and refunds.", nil
			}

			reason, _ := tool.StringArg(args, "return_reason")
			ud.ReturnReason = reason
			ud.ReturnApproved = true
			tc.SetState("return_approved", true)

			return "Thank you for providing that information. Based on our policy, your return has been approved. Would you like me to email you a return shipping label?", nil
		},
	)
}

func newSendReturnLabelTool() tool.Tool {
	return tool.NewFunctionTool(
		"send_return_label",
		"Email the customer a return shipping label after they confirm they want one.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if !ud.ReturnApproved {
				return "I see that your return hasn't been approved yet. Let's first verify if your product is eligible for return.", nil
			}
			if ud.CustomerEmail == "" {
				return "I'll need your email address to send the return label. Could you please provide that?", nil
			}

			label := fmt.Sprintf("RETURN LABEL\nOrder: %s\nProduct: %s\nShip to: VoxMesh Returns Center, 100 Depot Way", ud.OrderNumber, ud.ProductID)
			if err := tc.SaveArtifact("return-label-"+ud.OrderNumber, []byte(label)); err != nil {
				return nil, err
			}

			ud.ReturnLabelSent = true
			tc.SetState("return_label_sent", true)

			return fmt.Sprintf("Great! I've sent a return shipping label to %s. Once you ship the item back, your refund will be processed within 5-7 business days after we receive it. Is there anything else I can help you with today?", ud.CustomerEmail), nil
		},
	)
}

func newTroubleshootIssueTool() tool.Tool {
	return tool.NewFunctionTool(
		"troubleshoot_issue",
		"Look up troubleshooting steps for the customer's recorded issue in the knowledge base.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.ProductID == "" && ud.IssueDescription == "" {
				return "To help troubleshoot your issue, I'll need more details about the product and the problem you're experiencing. Could you describe what's happening?", nil
			}

			return LookupKnowledgeBase(ud.IssueDescription), nil
		},
	)
}

type escalateTechnicalArgs struct {
	Reason string `json:"reason" description:"The reason for escalating the technical issue"`
}

func newEscalateTechnicalIssueTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"escalate_technical_issue",
		"Escalate to a manager when the technical issue can't be resolved with basic troubleshooting.",
		escalateTechnicalArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			reason, _ := tool.StringArg(args, "reason")
			ud.Escalated = true
			ud.EscalationReason = reason
			tc.Escalate()
			tc.TransferToAgent(agentManager)

			return map[string]any{"transferred": true, "agent": agentManager}, nil
		},
	)
}

type processRefundArgs struct {
	Amount float64 `json:"amount" description:"The amount to be refunded"`
}

func newProcessRefundTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"process_refund",
		"Process a refund for the customer's order.",
		processRefundArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.OrderNumber == "" {
				return "Before I can process a refund, I'll need your order number. Do you have that available?", nil
			}
			if ud.CustomerEmail == "" {
				return "I'll need your email address to process the refund. Could you please provide that?", nil
			}

			amount, _ := tool.FloatArg(args, "amount")
			ud.RefundAmount = amount
			ud.RefundApproved = true
			tc.SetState("refund_amount", amount)

			return fmt.Sprintf("I've processed a refund of $%.2f for your order. The refund will be credited back to your original payment method within 5-7 business days. You'll receive a confirmation email at %s. Is there anything else I can help you with today?", amount, ud.CustomerEmail), nil
		},
	)
}

type manageSubscriptionArgs struct {
	Action string `json:"action" description:"The action to take on the subscription" enum:"cancel,pause,resume"`
}

func newManageSubscriptionTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"manage_subscription",
		"Cancel, pause or resume the customer's subscription service.",
		manageSubscriptionArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.CustomerEmail == "" {
				return "I'll need your email address to locate your subscription. Could you please provide that?", nil
			}

			action, _ := tool.StringArg(args, "action")
			switch strings.ToLower(action) {
			case "cancel":
				return fmt.Sprintf("I've cancelled your subscription. You'll have access until the end of your current billing period. You'll receive a confirmation email at %s. Is there anything else I can help you with today?", ud.CustomerEmail), nil
			case "pause":
				return fmt.Sprintf("I've paused your subscription for 30 days. Your billing will resume after that period. You'll receive a confirmation email at %s. Is there anything else I can help you with today?", ud.CustomerEmail), nil
			case "resume":
				return fmt.Sprintf("I've resumed your subscription. Your next billing date will be updated accordingly. You'll receive a confirmation email at %s. Is there anything else I can help you with today?", ud.CustomerEmail), nil
			default:
				return "I'm not sure what action you want to take on your subscription. Would you like to cancel, pause, or resume your subscription?", nil
			}
		},
	)
}

type resolveEscalatedIssueArgs struct {
	Resolution           string `json:"resolution" description:"The resolution offered to the customer"`
	SpecialAccommodation string `json:"special_accommodation,omitempty" description:"Any special accommodation or exception made"`
}

func newResolveEscalatedIssueTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"resolve_escalated_issue",
		"Record the manager's resolution for an escalated issue.",
		resolveEscalatedIssueArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if !ud.Escalated {
				return "I'm not seeing any escalated issue in our system. Could you please explain the issue you're experiencing?", nil
			}

			resolution, _ := tool.StringArg(args, "resolution")
			response := fmt.Sprintf("I understand this has been a frustrating experience, and I appreciate your patience. Here's what I can do to resolve this issue: %s", resolution)

			if accommodation, ok := tool.StringArg(args, "special_accommodation"); ok {
				response += fmt.Sprintf(" Additionally, as a one-time special accommodation, I'm also offering: %s", accommodation)
			}

			response += " Is this resolution satisfactory for you?"

			return response, nil
		},
	)
}
