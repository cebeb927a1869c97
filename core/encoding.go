package core

import "fmt"

// Label pairs a widget label with the integer code the classifier was trained on
type Label struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

// Shipping modes as label-encoded in the training data
var shippingModes = []Label{
	{Name: "First Class", Code: 0},
	{Name: "Same Day", Code: 1},
	{Name: "Second Class", Code: 2},
	{Name: "Standard Class", Code: 3},
}

// Markets as label-encoded in the training data
var markets = []Label{
	{Name: "Africa", Code: 0},
	{Name: "Europe", Code: 1},
	{Name: "LATAM", Code: 2},
	{Name: "Pacific Asia", Code: 3},
	{Name: "USCA", Code: 4},
}

// Order regions offered in the dashboard. The training encoder knows more
// regions; those are reachable through a raw region ID.
var regions = []Label{
	{Name: "Central America", Code: 3},
	{Name: "Eastern Asia", Code: 5},
	{Name: "North Africa", Code: 10},
	{Name: "Southeast Asia", Code: 11},
	{Name: "Oceania", Code: 12},
	{Name: "South Asia", Code: 13},
	{Name: "Western Europe", Code: 22},
}

const (
	// MinRegionID and MaxRegionID bound raw region IDs accepted in place of a label
	MinRegionID = 0
	MaxRegionID = 22
)

// ShippingModes returns the shipping mode table in code order
func ShippingModes() []Label { return cloneLabels(shippingModes) }

// Markets returns the market table in code order
func Markets() []Label { return cloneLabels(markets) }

// Regions returns the region table in code order
func Regions() []Label { return cloneLabels(regions) }

// EncodeShippingMode maps a shipping mode label to its code
func EncodeShippingMode(name string) (int, error) {
	return lookup("shipping mode", shippingModes, name)
}

// EncodeMarket maps a market label to its code
func EncodeMarket(name string) (int, error) {
	return lookup("market", markets, name)
}

// EncodeRegion maps an order region label to its code
func EncodeRegion(name string) (int, error) {
	return lookup("order region", regions, name)
}

// RegionName returns the label for a region code, or "" if the dashboard has none
func RegionName(code int) string {
	for _, l := range regions {
		if l.Code == code {
			return l.Name
		}
	}
	return ""
}

func lookup(table string, labels []Label, name string) (int, error) {
	for _, l := range labels {
		if l.Name == name {
			return l.Code, nil
		}
	}
	return 0, EncodingError(fmt.Sprintf("%s %q", table, name), ErrUnknownLabel)
}

func cloneLabels(labels []Label) []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}
