// Package realestate implements a virtual real estate agency as a team of
// voice personas: a greeter that routes callers to a property finder, a
// viewing scheduler and a mortgage advisor. The personas share a per-session
// UserData container tracking contact details, search preferences, viewings
// and mortgage pre-qualification.
package realestate
