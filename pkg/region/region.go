package region

import "sort"

// Region is the coarse official-language region of an Indian state or territory.
type Region string

const (
	A       Region = "A"
	B       Region = "B"
	C       Region = "C"
	Unknown Region = "Unknown"
)

// stateRegions is matched exactly; callers must pass the canonical spelling.
var stateRegions = map[string]Region{
	"Bihar":                     A,
	"Haryana":                   A,
	"Himachal Pradesh":          A,
	"Madhya Pradesh":            A,
	"Rajasthan":                 A,
	"Uttar Pradesh":             A,
	"Jharkhand":                 A,
	"Chhattisgarh":              A,
	"Uttarakhand":               A,
	"Delhi":                     A,
	"Andaman & Nicobar Islands": A,

	"Gujarat":              B,
	"Maharashtra":          B,
	"Punjab":               B,
	"Chandigarh":           B,
	"Daman & Diu":          B,
	"Dadra & Nagar Haveli": B,

	"Andhra Pradesh":    C,
	"Arunachal Pradesh": C,
	"Assam":             C,
	"Goa":               C,
	"Kerala":            C,
	"Tamil Nadu":        C,
	"West Bengal":       C,
	"Karnataka":         C,
	"Odisha":            C,
	"Telangana":         C,
	"Sikkim":            C,
	"Tripura":           C,
	"Meghalaya":         C,
	"Mizoram":           C,
	"Nagaland":          C,
	"Manipur":           C,
	"Puducherry":        C,
	"Lakshadweep":       C,
	"Ladakh":            C,
	"Jammu & Kashmir":   C,
}

// Classify maps a state name to its region. Unlisted names, including case variants
// of listed ones, classify as Unknown.
func Classify(state string) Region {
	if r, ok := stateRegions[state]; ok {
		return r
	}
	return Unknown
}

// Parse normalises a stored region code.
func Parse(code string) Region {
	switch Region(code) {
	case A, B, C:
		return Region(code)
	default:
		return Unknown
	}
}

// Reported lists the regions that appear in the compliance report, in print order.
func Reported() []Region {
	return []Region{A, B, C}
}

// IsReported reports whether r is one of A, B or C.
func (r Region) IsReported() bool {
	return r == A || r == B || r == C
}

// States returns the table entries classified as r, sorted by name.
func States(r Region) []string {
	states := make([]string, 0, len(stateRegions))
	for state, region := range stateRegions {
		if region == r {
			states = append(states, state)
		}
	}
	sort.Strings(states)
	return states
}
