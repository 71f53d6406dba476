package support

import (
	"gopkg.in/yaml.v3"
)

// IssueType classifies the customer's problem for routing.
type IssueType string

const (
	IssueReturn    IssueType = "return"
	IssueTechnical IssueType = "technical"
	IssueBilling   IssueType = "billing"
	IssueOther     IssueType = "other"
)

// UserData is the shared per-session container the personas read and mutate
// through their tools.
type UserData struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	OrderNumber      string
	ProductID        string
	IssueType        IssueType
	IssueDescription string

	ReturnReason    string
	ReturnApproved  bool
	ReturnLabelSent bool

	RefundAmount   float64
	RefundApproved bool

	Escalated        bool
	EscalationReason string

	SatisfactionRating int
}

// NewUserData builds an empty container for a new session.
func NewUserData() *UserData { return &UserData{} }

// Summarize renders the container as YAML for inclusion in persona
// instructions so every specialist sees the state of the case.
func (u *UserData) Summarize() string {
	issueType := "unknown"
	if u.IssueType != "" {
		issueType = string(u.IssueType)
	}

	data := map[string]any{
		"customer_info": map[string]string{
			"name":  orUnknown(u.CustomerName),
			"email": orUnknown(u.CustomerEmail),
			"phone": orUnknown(u.CustomerPhone),
		},
		"issue_details": map[string]string{
			"order_number": orUnknown(u.OrderNumber),
			"product_id":   orUnknown(u.ProductID),
			"issue_type":   issueType,
			"description":  orUnknown(u.IssueDescription),
		},
		"escalation": map[string]any{
			"escalated": u.Escalated,
			"reason":    u.EscalationReason,
		},
		"satisfaction": u.SatisfactionRating,
	}

	if u.IssueType == IssueReturn {
		data["return_status"] = map[string]any{
			"reason":     u.ReturnReason,
			"approved":   u.ReturnApproved,
			"label_sent": u.ReturnLabelSent,
		}
	}
	if u.IssueType == IssueBilling {
		data["billing_status"] = map[string]any{
			"refund_amount": u.RefundAmount,
			"approved":      u.RefundApproved,
		}
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return ""
	}
	return string(out)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
