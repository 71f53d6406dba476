package realestate

import (
	"fmt"
	"math"
	"slices"
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

type updateNameArgs struct {
	Name string `json:"name" description:"The customer's name"`
}

func newUpdateNameTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"update_name",
		"Record the customer's name. Confirm the spelling with the customer before calling.",
		updateNameArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}
			name, _ := tool.StringArg(args, "name")
			ud.CustomerName = name
			tc.SetState("customer_name", name)
			return fmt.Sprintf("Thank you, %s. I've updated your name in our system.", name), nil
		},
	)
}

type updatePhoneArgs struct {
	Phone string `json:"phone" description:"The customer's phone number"`
}

func newUpdatePhoneTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"update_phone",
		"Record the customer's phone number. Confirm the digits with the customer before calling.",
		updatePhoneArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}
			phone, _ := tool.StringArg(args, "phone")
			ud.CustomerPhone = phone
			tc.SetState("customer_phone", phone)
			return fmt.Sprintf("Got it. Your phone number (%s) has been recorded.", phone), nil
		},
	)
}

type updateEmailArgs struct {
	Email string `json:"email" description:"The customer's email address"`
}

func newUpdateEmailTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"update_email",
		"Record the customer's email address. Confirm the spelling with the customer before calling.",
		updateEmailArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}
			email, _ := tool.StringArg(args, "email")
			ud.CustomerEmail = email
			tc.SetState("customer_email", email)
			return fmt.Sprintf("Perfect. I've saved your email address as %s.", email), nil
		},
	)
}

func contactTools() []tool.Tool {
	return []tool.Tool{newUpdateNameTool(), newUpdatePhoneTool(), newUpdateEmailTool()}
}

type preferencesArgs struct {
	MinPrice     int    `json:"min_price,omitempty" description:"Minimum price the customer is willing to pay"`
	MaxPrice     int    `json:"max_price,omitempty" description:"Maximum price the customer is willing to pay"`
	MinBedrooms  int    `json:"min_bedrooms,omitempty" description:"Minimum number of bedrooms required"`
	MinBathrooms int    `json:"min_bathrooms,omitempty" description:"Minimum number of bathrooms required"`
	PropertyType string `json:"property_type,omitempty" description:"Type of property (e.g. 'Single Family Home', 'Condo', 'Townhouse')"`
	Location     string `json:"location,omitempty" description:"Preferred location or neighborhood"`
}

func newUpdatePreferencesTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"update_property_preferences",
		"Record the customer's property search preferences. Only pass the criteria the customer mentioned.",
		preferencesArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if v, ok := tool.IntArg(args, "min_price"); ok {
				ud.Preferences.MinPrice = v
			}
			if v, ok := tool.IntArg(args, "max_price"); ok {
				ud.Preferences.MaxPrice = v
			}
			if v, ok := tool.IntArg(args, "min_bedrooms"); ok {
				ud.Preferences.MinBedrooms = v
			}
			if v, ok := tool.IntArg(args, "min_bathrooms"); ok {
				ud.Preferences.MinBathrooms = v
			}
			if v, ok := tool.StringArg(args, "property_type"); ok {
				ud.Preferences.PropertyType = v
			}
			if v, ok := tool.StringArg(args, "location"); ok {
				ud.Preferences.Location = v
			}

			return "I've updated your property preferences. Now I can search for properties that match your criteria.", nil
		},
	)
}

// matchingProperties filters the inventory against the given preferences.
func matchingProperties(prefs Preferences) []Property {
	var matches []Property
	for _, p := range Inventory {
		if prefs.MinPrice > 0 && p.Price < prefs.MinPrice {
			continue
		}
		if prefs.MaxPrice > 0 && p.Price > prefs.MaxPrice {
			continue
		}
		if prefs.MinBedrooms > 0 && p.Bedrooms < prefs.MinBedrooms {
			continue
		}
		if prefs.MinBathrooms > 0 && p.Bathrooms < prefs.MinBathrooms {
			continue
		}
		if prefs.PropertyType != "" && !strings.EqualFold(p.Type, prefs.PropertyType) {
			continue
		}
		matches = append(matches, p)
	}
	return matches
}

func newSearchPropertiesTool() tool.Tool {
	return tool.NewFunctionTool(
		"search_properties",
		"Search the inventory for properties matching the customer's recorded preferences.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			matches := matchingProperties(ud.Preferences)
			if len(matches) == 0 {
				return "I couldn't find any properties matching your criteria. Would you like to adjust your preferences?", nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "I found %d properties matching your criteria:\n\n", len(matches))
			for i, p := range matches {
				fmt.Fprintf(&b, "Property %d: %s\n%s\n", i+1, p.Address, p.Describe())

				if !slices.Contains(ud.ViewedProperties, p.ID) {
					ud.ViewedProperties = append(ud.ViewedProperties, p.ID)
				}
			}

			return b.String(), nil
		},
	)
}

type expressInterestArgs struct {
	PropertyAddress string `json:"property_address" description:"The address of the property the customer is interested in"`
}

func newExpressInterestTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"express_interest",
		"Record that the customer is interested in a specific property.",
		expressInterestArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			address, _ := tool.StringArg(args, "property_address")
			p, found := FindPropertyByAddress(address)
			if !found {
				return fmt.Sprintf("I couldn't find a property with the address '%s' in our database. Could you please verify the address?", address), nil
			}

			if !slices.Contains(ud.InterestedProperties, p.ID) {
				ud.InterestedProperties = append(ud.InterestedProperties, p.ID)
				if err := tc.StoreMemory("Customer expressed interest in "+p.Address, map[string]any{"property_id": p.ID}); err != nil {
					return nil, err
				}
			}

			return fmt.Sprintf("Great! I've noted your interest in the property at %s. Would you like to schedule a viewing or learn more about this property?", address), nil
		},
	)
}

type scheduleViewingArgs struct {
	PropertyAddress string `json:"property_address" description:"The address of the property to view"`
	Date            string `json:"date" description:"The preferred date for the viewing (format: YYYY-MM-DD)"`
	Time            string `json:"time" description:"The preferred time for the viewing (format: HH:MM AM/PM)"`
}

func newScheduleViewingTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"schedule_viewing",
		"Schedule a property viewing once the property, date, time and contact details are confirmed.",
		scheduleViewingArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			address, _ := tool.StringArg(args, "property_address")
			if _, found := FindPropertyByAddress(address); !found {
				return fmt.Sprintf("I couldn't find a property with the address '%s' in our database. Could you please verify the address?", address), nil
			}

			if ud.CustomerName == "" || ud.CustomerPhone == "" {
				return "Before I can schedule a viewing, I'll need your name and phone number so our agent can contact you.", nil
			}

			date, _ := tool.StringArg(args, "date")
			timeOfDay, _ := tool.StringArg(args, "time")
			ud.ViewingDate = date
			ud.ViewingTime = timeOfDay
			tc.SetState("viewing_date", date)
			tc.SetState("viewing_time", timeOfDay)

			return fmt.Sprintf(
				"Great! I've scheduled a viewing for the property at %s on %s at %s. One of our agents will meet you there. They may call you at %s to confirm closer to the date.",
				address, date, timeOfDay, ud.CustomerPhone,
			), nil
		},
	)
}

type prequalifyArgs struct {
	AnnualIncome int `json:"annual_income" description:"The customer's annual income before taxes"`
	CreditScore  int `json:"credit_score" description:"The customer's credit score (typically 300-850)"`
	DownPayment  int `json:"down_payment" description:"The amount the customer can put as a down payment"`
	MonthlyDebt  int `json:"monthly_debt" description:"The customer's total monthly debt payments (excluding housing)"`
}

// prequalifyAmount estimates the maximum home price using a 43% debt-to-income
// ratio against a 30-year fixed mortgage at 6.5%, with credit score haircuts,
// rounded to the nearest thousand.
func prequalifyAmount(annualIncome, creditScore, downPayment, monthlyDebt int) int {
	monthlyIncome := float64(annualIncome) / 12
	maxMonthlyPayment := monthlyIncome*0.43 - float64(monthlyDebt)

	monthlyRate := 0.065 / 12
	loanTermMonths := 30 * 12

	loanAmount := maxMonthlyPayment * ((1 - math.Pow(1+monthlyRate, -float64(loanTermMonths))) / monthlyRate)
	maxHomePrice := loanAmount + float64(downPayment)

	if creditScore < 640 {
		maxHomePrice *= 0.8
	} else if creditScore < 700 {
		maxHomePrice *= 0.9
	}

	return int(math.Round(maxHomePrice/1000) * 1000)
}

func newPrequalifyMortgageTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"prequalify_mortgage",
		"Estimate how much the customer could qualify for from their income, credit score, down payment and monthly debt.",
		prequalifyArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if ud.CustomerName == "" || ud.CustomerPhone == "" || ud.CustomerEmail == "" {
				return "Before I can pre-qualify you, I'll need your full contact information (name, phone, and email).", nil
			}

			annualIncome, _ := tool.IntArg(args, "annual_income")
			creditScore, _ := tool.IntArg(args, "credit_score")
			downPayment, _ := tool.IntArg(args, "down_payment")
			monthlyDebt, _ := tool.IntArg(args, "monthly_debt")

			amount := prequalifyAmount(annualIncome, creditScore, downPayment, monthlyDebt)
			ud.Prequalified = true
			ud.PrequalifiedAmount = amount
			tc.SetState("prequalified_amount", amount)

			return fmt.Sprintf(
				"Based on the information you've provided, I estimate you could qualify for a home up to $%s. This is just an estimate - a formal pre-approval would require verification of your income, assets, and credit. Would you like me to connect you with a mortgage specialist to get officially pre-approved?",
				groupThousands(amount),
			), nil
		},
	)
}

// newGuardedViewingHandoff transfers to the viewing scheduler only after the
// customer has marked at least one property as interesting.
func newGuardedViewingHandoff() tool.Tool {
	return tool.NewFunctionTool(
		"to_viewing_scheduler",
		"Hand the customer to the viewing scheduler to book a visit for a property they are interested in.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			ud, err := userData(tc)
			if err != nil {
				return nil, err
			}

			if len(ud.InterestedProperties) == 0 {
				return "Before scheduling a viewing, please select at least one property you're interested in.", nil
			}

			recalled, err := tc.SearchMemory("expressed interest", 5)
			if err != nil {
				return nil, err
			}
			interests := make([]string, 0, len(recalled))
			for _, r := range recalled {
				interests = append(interests, r.Content)
			}

			tc.TransferToAgent(agentViewingScheduler)
			return map[string]any{
				"transferred":     true,
				"agent":           agentViewingScheduler,
				"noted_interests": interests,
			}, nil
		},
	)
}
