package support

import (
	"slices"
	"strings"
)

// Product is one entry in the company's catalog.
type Product struct {
	ID               string
	Name             string
	Price            float64
	Warranty         string
	ReturnPeriodDays int
	BillingCycle     string
	Categories       []string
}

// IsSubscription reports whether the product follows the digital services
// cancellation policy instead of the physical return policy.
func (p Product) IsSubscription() bool {
	return slices.Contains(p.Categories, "Subscription")
}

// ProductDatabase is the sample catalog. A production deployment would back
// this with the order management system.
var ProductDatabase = []Product{
	{
		ID:               "P001",
		Name:             "Premium Wireless Headphones",
		Price:            199.99,
		Warranty:         "1 year limited warranty",
		ReturnPeriodDays: 30,
		Categories:       []string{"Electronics", "Audio"},
	},
	{
		ID:               "P002",
		Name:             `Ultra HD Smart TV 55"`,
		Price:            699.99,
		Warranty:         "2 year limited warranty",
		ReturnPeriodDays: 30,
		Categories:       []string{"Electronics", "Television"},
	},
	{
		ID:               "P003",
		Name:             "Ergonomic Office Chair",
		Price:            249.99,
		Warranty:         "5 year limited warranty",
		ReturnPeriodDays: 60,
		Categories:       []string{"Furniture", "Office"},
	},
	{
		ID:           "P004",
		Name:         "Premium Subscription",
		Price:        12.99,
		BillingCycle: "monthly",
		Categories:   []string{"Services", "Subscription"},
	},
}

// FindProduct looks up a catalog entry by product ID.
func FindProduct(id string) (Product, bool) {
	for _, p := range ProductDatabase {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return Product{}, false
}

// Knowledge base articles for common technical issues.
const (
	kbHeadphonesNotConnecting = "If your headphones aren't connecting via Bluetooth: " +
		"1. Ensure Bluetooth is enabled on your device. " +
		"2. Put the headphones in pairing mode (usually by holding the power button). " +
		"3. Make sure the headphones are charged. " +
		"4. If previously paired, try removing the device from your Bluetooth settings and reconnect. " +
		"5. Reset the headphones by holding the power button for 10 seconds."

	kbTVNoPicture = "If your TV has power but no picture: " +
		"1. Check that the correct input source is selected. " +
		"2. Verify all cables are securely connected. " +
		"3. Try unplugging the TV for 30 seconds, then plug it back in. " +
		"4. If using external devices, try disconnecting them and connecting directly to TV. " +
		"5. Try a factory reset through your TV settings."

	kbSubscriptionAccess = "If you're having trouble accessing your subscription content: " +
		"1. Verify your account is active and subscription hasn't expired. " +
		"2. Try logging out and back in. " +
		"3. Clear your browser cache and cookies. " +
		"4. Check if the service is experiencing an outage. " +
		"5. Try accessing from a different device or browser."

	kbGenericTroubleshooting = "Based on the information you've provided, I recommend the following general troubleshooting steps:\n\n" +
		"1. Power cycle the device (turn it off, unplug it for 30 seconds, then plug it back in and turn it on).\n" +
		"2. Ensure all connections are secure and properly attached.\n" +
		"3. Check for any available software or firmware updates.\n" +
		"4. Try using the device in a different environment or setup if possible.\n\n" +
		"Did any of these steps help resolve your issue?"
)

// LookupKnowledgeBase matches the issue description against known problem
// patterns and returns the relevant article. Falls back to generic steps.
func LookupKnowledgeBase(description string) string {
	desc := strings.ToLower(description)

	anyOf := func(terms ...string) bool {
		for _, term := range terms {
			if strings.Contains(desc, term) {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(desc, "headphone") && anyOf("connect", "bluetooth", "pair"):
		return kbHeadphonesNotConnecting
	case strings.Contains(desc, "tv") && anyOf("picture", "display", "screen"):
		return kbTVNoPicture
	case strings.Contains(desc, "subscription") && anyOf("access", "login", "content"):
		return kbSubscriptionAccess
	default:
		return kbGenericTroubleshooting
	}
}
