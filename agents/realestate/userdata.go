package realestate

import (
	"gopkg.in/yaml.v3"
)

// Preferences captures the customer's property search criteria. Zero values
// mean the criterion is unset and does not filter.
type Preferences struct {
	MinPrice     int    `yaml:"min_price"`
	MaxPrice     int    `yaml:"max_price"`
	MinBedrooms  int    `yaml:"min_bedrooms"`
	MinBathrooms int    `yaml:"min_bathrooms"`
	PropertyType string `yaml:"property_type"`
	Location     string `yaml:"location"`
}

// UserData is the shared per-session container the personas read and mutate
// through their tools.
type UserData struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Preferences Preferences

	ViewedProperties     []string
	InterestedProperties []string

	ViewingDate string
	ViewingTime string

	Prequalified       bool
	PrequalifiedAmount int
}

// NewUserData builds an empty container for a new session.
func NewUserData() *UserData { return &UserData{} }

// Summarize renders the container as YAML for inclusion in persona
// instructions so every specialist sees what the caller already provided.
func (u *UserData) Summarize() string {
	data := map[string]any{
		"customer_name":         orUnknown(u.CustomerName),
		"customer_phone":        orUnknown(u.CustomerPhone),
		"customer_email":        orUnknown(u.CustomerEmail),
		"property_preferences":  u.Preferences,
		"viewed_properties":     u.ViewedProperties,
		"interested_properties": u.InterestedProperties,
		"prequalified": map[string]any{
			"status": u.Prequalified,
			"amount": u.PrequalifiedAmount,
		},
	}

	if u.ViewingDate != "" {
		data["viewing_scheduled"] = map[string]string{
			"date": u.ViewingDate,
			"time": u.ViewingTime,
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
