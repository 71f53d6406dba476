package realestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/testutil"
)

func toolContext(t *testing.T, ud *UserData) *core.ToolContext {
	t.Helper()
	rc, _ := testutil.NewRunContext(t, agentPropertyFinder)
	rc.UserData = ud
	return core.NewToolContext(rc, "call-1")
}

func TestUpdateContactTools(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newUpdateNameTool().Call(tc, map[string]any{"name": "Dana Smith"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "Dana Smith")
	assert.Equal(t, "Dana Smith", ud.CustomerName)

	_, err = newUpdatePhoneTool().Call(tc, map[string]any{"phone": "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", ud.CustomerPhone)

	_, err = newUpdateEmailTool().Call(tc, map[string]any{"email": "dana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", ud.CustomerEmail)

	v, ok := tc.GetState("customer_name")
	require.True(t, ok)
	assert.Equal(t, "Dana Smith", v)
}

func TestMatchingProperties(t *testing.T) {
	all := matchingProperties(Preferences{})
	assert.Len(t, all, len(Inventory))

	affordable := matchingProperties(Preferences{MaxPrice: 400000})
	require.Len(t, affordable, 2)
	assert.Equal(t, "P001", affordable[0].ID)
	assert.Equal(t, "P002", affordable[1].ID)

	big := matchingProperties(Preferences{MinBedrooms: 4, MinBathrooms: 3})
	require.Len(t, big, 2)
	assert.Equal(t, "P003", big[0].ID)
	assert.Equal(t, "P004", big[1].ID)

	condos := matchingProperties(Preferences{PropertyType: "condo"})
	require.Len(t, condos, 1)
	assert.Equal(t, "456 Oak Avenue", condos[0].Address)

	none := matchingProperties(Preferences{MinPrice: 600000})
	assert.Empty(t, none)
}

func TestSearchPropertiesRecordsViewed(t *testing.T) {
	ud := NewUserData()
	ud.Preferences.MaxPrice = 300000
	tc := toolContext(t, ud)

	res, err := newSearchPropertiesTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "I found 1 properties matching your criteria")
	assert.Contains(t, res.(string), "456 Oak Avenue")
	assert.Contains(t, res.(string), "$275,000")
	assert.Equal(t, []string{"P002"}, ud.ViewedProperties)

	// Searching again must not duplicate viewed entries
	_, err = newSearchPropertiesTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"P002"}, ud.ViewedProperties)
}

func TestExpressInterest(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newExpressInterestTool().Call(tc, map[string]any{"property_address": "123 main street"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "noted your interest")
	assert.Equal(t, []string{"P001"}, ud.InterestedProperties)

	recalled, err := tc.SearchMemory("123 Main Street", 5)
	require.NoError(t, err)
	require.Len(t, recalled, 1)
	assert.Equal(t, "P001", recalled[0].Metadata["property_id"])

	res, err = newExpressInterestTool().Call(tc, map[string]any{"property_address": "9 Nowhere Blvd"})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "couldn't find a property")
	assert.Len(t, ud.InterestedProperties, 1)
}

func TestScheduleViewingRequiresContact(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	args := map[string]any{
		"property_address": "789 Pine Road",
		"date":             "2026-09-01",
		"time":             "2:00 PM",
	}

	res, err := newScheduleViewingTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "name and phone number")
	assert.Empty(t, ud.ViewingDate)

	ud.CustomerName = "Dana Smith"
	ud.CustomerPhone = "555-0100"

	res, err = newScheduleViewingTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "scheduled a viewing for the property at 789 Pine Road")
	assert.Equal(t, "2026-09-01", ud.ViewingDate)
	assert.Equal(t, "2:00 PM", ud.ViewingTime)
}

func TestPrequalifyAmount(t *testing.T) {
	// 120k income, no debt: 43% of 10k monthly supports roughly 680k of
	// loan at 6.5% over 30 years, plus the 50k down payment.
	amount := prequalifyAmount(120000, 720, 50000, 0)
	assert.Equal(t, 730000, amount)

	// Fair credit takes a 10% haircut, poor credit 20%.
	fair := prequalifyAmount(120000, 680, 50000, 0)
	assert.Equal(t, 657000, fair)
	poor := prequalifyAmount(120000, 600, 50000, 0)
	assert.Equal(t, 584000, poor)

	// Existing debt reduces the supportable payment.
	withDebt := prequalifyAmount(120000, 720, 50000, 1000)
	assert.Less(t, withDebt, amount)
}

func TestPrequalifyMortgageRequiresFullContact(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	args := map[string]any{
		"annual_income": 120000,
		"credit_score":  720,
		"down_payment":  50000,
		"monthly_debt":  0,
	}

	res, err := newPrequalifyMortgageTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "full contact information")
	assert.False(t, ud.Prequalified)

	ud.CustomerName = "Dana Smith"
	ud.CustomerPhone = "555-0100"
	ud.CustomerEmail = "dana@example.com"

	res, err = newPrequalifyMortgageTool().Call(tc, args)
	require.NoError(t, err)
	assert.Contains(t, res.(string), "$730,000")
	assert.True(t, ud.Prequalified)
	assert.Equal(t, 730000, ud.PrequalifiedAmount)
}

func TestGuardedViewingHandoff(t *testing.T) {
	ud := NewUserData()
	tc := toolContext(t, ud)

	res, err := newGuardedViewingHandoff().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, res.(string), "select at least one property")
	assert.Nil(t, tc.Actions().TransferToAgent)

	ud2 := NewUserData()
	tc2 := toolContext(t, ud2)
	_, err = newExpressInterestTool().Call(tc2, map[string]any{"property_address": "123 Main Street"})
	require.NoError(t, err)

	res, err = newGuardedViewingHandoff().Call(tc2, map[string]any{})
	require.NoError(t, err)
	require.NotNil(t, tc2.Actions().TransferToAgent)
	assert.Equal(t, agentViewingScheduler, *tc2.Actions().TransferToAgent)

	// The scheduler sees which properties the customer already liked.
	reply, ok := res.(map[string]any)
	require.True(t, ok)
	interests, ok := reply["noted_interests"].([]string)
	require.True(t, ok)
	require.Len(t, interests, 1)
	assert.Contains(t, interests[0], "123 Main Street")
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "350,000", groupThousands(350000))
	assert.Equal(t, "1,250,500", groupThousands(1250500))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "0", groupThousands(0))
}
