package realestate

import (
	"github.com/voxmesh/voxmesh/agent"
	"github.com/voxmesh/voxmesh/model"
	"github.com/voxmesh/voxmesh/tool"
)

// Persona names used for handoff routing.
const (
	agentGreeter          = "greeter"
	agentPropertyFinder   = "property_finder"
	agentViewingScheduler = "viewing_scheduler"
	agentMortgageAdvisor  = "mortgage_advisor"
)

// voices assigns a synthesizer voice per persona.
var voices = map[string]string{
	agentGreeter:          "alloy",
	agentPropertyFinder:   "echo",
	agentViewingScheduler: "alloy",
	agentMortgageAdvisor:  "onyx",
}

// NewTeam assembles the real estate personas with the greeter as the root of
// the handoff graph. All personas share the given language model.
func NewTeam(llm model.Model) (*agent.PersonaAgent, error) {
	greeter := agent.NewPersonaAgent(agentGreeter, llm,
		agent.WithInstruction(
			"You are a friendly virtual real estate agent. Your job is to understand what the caller needs "+
				"and direct them to the appropriate specialist on your team. "+
				"You can help with property searches, scheduling viewings, or connecting them with a mortgage advisor.",
		),
		agent.WithGreeting("Greet the caller warmly and ask how you can help with their real estate needs today."),
		agent.WithVoice(voices[agentGreeter]),
		agent.WithTools(
			tool.NewHandoffTool("to_property_finder",
				"Hand the caller to the property finder to search for properties based on their criteria.",
				agentPropertyFinder),
			tool.NewHandoffTool("to_viewing_scheduler",
				"Hand the caller to the viewing scheduler to book a visit for a property they are interested in.",
				agentViewingScheduler),
			tool.NewHandoffTool("to_mortgage_advisor",
				"Hand the caller to the mortgage advisor to discuss mortgage options or get pre-qualified.",
				agentMortgageAdvisor),
		),
	)

	finder := agent.NewPersonaAgent(agentPropertyFinder, llm,
		agent.WithInstruction(
			"You are a property finder specialist at a real estate agency. "+
				"Your job is to help customers find properties that match their criteria. "+
				"Ask about their preferences including price range, number of bedrooms and bathrooms, "+
				"property type, and location. Then search for and present matching properties.",
		),
		agent.WithGreeting("Introduce yourself as the property finding specialist and ask what kind of property the customer is looking for."),
		agent.WithVoice(voices[agentPropertyFinder]),
		agent.WithTools(
			newUpdatePreferencesTool(),
			newSearchPropertiesTool(),
			newExpressInterestTool(),
			newGuardedViewingHandoff(),
			tool.NewHandoffTool("to_greeter",
				"Return the caller to the main menu when they want to speak with another specialist.",
				agentGreeter),
		),
	)
	finder.RegisterTools(contactTools()...)

	scheduler := agent.NewPersonaAgent(agentViewingScheduler, llm,
		agent.WithInstruction(
			"You are a viewing scheduler at a real estate agency. "+
				"Your job is to help customers schedule viewings for properties they're interested in. "+
				"First confirm which property they want to view, then collect their preferred date and time, "+
				"and their contact information if we don't already have it.",
		),
		agent.WithGreeting("Introduce yourself as the viewing scheduler and confirm which property the customer would like to see."),
		agent.WithVoice(voices[agentViewingScheduler]),
		agent.WithTools(
			newScheduleViewingTool(),
			tool.NewHandoffTool("to_greeter",
				"Return the caller to the main menu when they want to speak with another specialist.",
				agentGreeter),
			tool.NewHandoffTool("to_mortgage_advisor",
				"Hand the caller to the mortgage advisor to discuss mortgage options or get pre-qualified.",
				agentMortgageAdvisor),
		),
	)
	scheduler.RegisterTools(contactTools()...)

	advisor := agent.NewPersonaAgent(agentMortgageAdvisor, llm,
		agent.WithInstruction(
			"You are a mortgage advisor at a real estate agency. "+
				"Your job is to help customers understand mortgage options and get pre-qualified. "+
				"Ask about their income, credit score, down payment amount, and existing debt "+
				"to determine how much they might qualify for.",
		),
		agent.WithGreeting("Introduce yourself as the mortgage advisor and offer to walk the customer through pre-qualification."),
		agent.WithVoice(voices[agentMortgageAdvisor]),
		agent.WithTools(
			newPrequalifyMortgageTool(),
			tool.NewHandoffTool("to_greeter",
				"Return the caller to the main menu when they want to speak with another specialist.",
				agentGreeter),
			tool.NewHandoffTool("to_property_finder",
				"Hand the caller to the property finder to search within their pre-qualified amount.",
				agentPropertyFinder),
		),
	)
	advisor.RegisterTools(contactTools()...)

	if err := greeter.SetSubAgents(finder, scheduler, advisor); err != nil {
		return nil, err
	}

	return greeter, nil
}
