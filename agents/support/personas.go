package support

import (
	"github.com/voxmesh/voxmesh/agent"
	"github.com/voxmesh/voxmesh/model"
	"github.com/voxmesh/voxmesh/tool"
)

// Persona names used for handoff routing.
const (
	agentInitial   = "initial"
	agentReturns   = "returns"
	agentTechnical = "technical"
	agentBilling   = "billing"
	agentManager   = "manager"
)

// voices assigns a synthesizer voice per persona.
var voices = map[string]string{
	agentInitial:   "alloy",
	agentReturns:   "echo",
	agentTechnical: "nova",
	agentBilling:   "shimmer",
	agentManager:   "onyx",
}

// NewTeam assembles the support personas with the initial agent as the root
// of the handoff graph. All personas share the given language model.
func NewTeam(llm model.Model) (*agent.PersonaAgent, error) {
	initial := agent.NewPersonaAgent(agentInitial, llm,
		agent.WithInstruction(
			"You are the initial customer support agent for an electronics and home goods company. "+
				"Your job is to greet the customer, identify their issue, and route them to the appropriate "+
				"specialized agent. Be friendly and efficient in collecting the basic information needed.",
		),
		agent.WithGreeting("Greet the customer, thank them for calling support and ask what you can help with today."),
		agent.WithVoice(voices[agentInitial]),
		agent.WithTools(
			newIdentifyIssueTool(),
			newRoutingHandoff("to_returns",
				"Route the customer to the returns specialist for a return or refund request.",
				agentReturns, IssueReturn),
			newRoutingHandoff("to_technical",
				"Route the customer to technical support for a technical issue with a product.",
				agentTechnical, IssueTechnical),
			newRoutingHandoff("to_billing",
				"Route the customer to the billing specialist for a billing or payment issue.",
				agentBilling, IssueBilling),
			newEscalationHandoff("to_manager",
				"Route the customer to a manager for a complex issue or on request.",
				"Customer requested manager"),
		),
	)
	initial.RegisterTools(commonTools()...)

	returns := agent.NewPersonaAgent(agentReturns, llm,
		agent.WithInstruction(
			"You are a returns specialist for an electronics and home goods company. "+
				"Your job is to help customers process returns and refunds. Collect the necessary "+
				"information about the return reason, verify eligibility, and process the return "+
				"if applicable. Be empathetic but follow company policies.",
		),
		agent.WithGreeting("Introduce yourself as the returns specialist and ask about the product the customer wants to return."),
		agent.WithVoice(voices[agentReturns]),
		agent.WithTools(
			newProcessReturnTool(),
			newSendReturnLabelTool(),
			tool.NewHandoffTool("to_initial",
				"Return the customer to the initial agent for a different issue or to start over.",
				agentInitial),
			tool.NewHandoffTool("to_billing",
				"Route the customer to billing when the return involves refunds needing special handling.",
				agentBilling),
			newEscalationHandoff("to_manager",
				"Escalate to a manager when the customer is unsatisfied with the return policy.",
				"Complex return issue"),
		),
	)
	returns.RegisterTools(commonTools()...)

	technical := agent.NewPersonaAgent(agentTechnical, llm,
		agent.WithInstruction(
			"You are a technical support specialist for an electronics and home goods company. "+
				"Your job is to help customers troubleshoot and resolve technical issues with their products. "+
				"Provide clear, step-by-step instructions and verify if the suggested solutions work.",
		),
		agent.WithGreeting("Introduce yourself as the technical specialist and ask for details about the problem."),
		agent.WithVoice(voices[agentTechnical]),
		agent.WithTools(
			newTroubleshootIssueTool(),
			newEscalateTechnicalIssueTool(),
			tool.NewHandoffTool("to_initial",
				"Return the customer to the initial agent for a different issue or to start over.",
				agentInitial),
			tool.NewHandoffTool("to_returns",
				"Route the customer to returns when they want to return the product after troubleshooting.",
				agentReturns),
		),
	)
	technical.RegisterTools(commonTools()...)

	billing := agent.NewPersonaAgent(agentBilling, llm,
		agent.WithInstruction(
			"You are a billing and payments specialist for an electronics and home goods company. "+
				"Your job is to help customers with billing inquiries, process refunds, manage subscriptions, "+
				"and resolve payment issues. Be precise and trustworthy when handling financial matters.",
		),
		agent.WithGreeting("Introduce yourself as the billing specialist and ask about the billing concern."),
		agent.WithVoice(voices[agentBilling]),
		agent.WithTools(
			newProcessRefundTool(),
			newManageSubscriptionTool(),
			tool.NewHandoffTool("to_initial",
				"Return the customer to the initial agent for a different issue or to start over.",
				agentInitial),
			newEscalationHandoff("to_manager",
				"Escalate to a manager when the billing issue requires manager approval.",
				"Complex billing issue"),
		),
	)
	billing.RegisterTools(commonTools()...)

	manager := agent.NewPersonaAgent(agentManager, llm,
		agent.WithInstruction(
			"You are a customer support manager with authority to handle escalated issues and exceptions. "+
				"Your job is to resolve complex problems, address customer dissatisfaction, and make policy exceptions "+
				"when appropriate. Balance customer satisfaction with company policies and be empowered to offer "+
				"special accommodations in reasonable situations.",
		),
		agent.WithGreeting("Introduce yourself as the support manager, acknowledge the escalation and ask how you can make things right."),
		agent.WithVoice(voices[agentManager]),
		agent.WithTools(
			newResolveEscalatedIssueTool(),
			tool.NewHandoffTool("to_initial",
				"Return the customer to the initial agent when the issue is resolved or a new one comes up.",
				agentInitial),
			tool.NewHandoffTool("to_returns",
				"Route the issue to the returns department.",
				agentReturns),
			tool.NewHandoffTool("to_technical",
				"Route the issue to technical support.",
				agentTechnical),
			tool.NewHandoffTool("to_billing",
				"Route the issue to the billing department.",
				agentBilling),
		),
	)
	manager.RegisterTools(commonTools()...)

	if err := initial.SetSubAgents(returns, technical, billing, manager); err != nil {
		return nil, err
	}

	return initial, nil
}
