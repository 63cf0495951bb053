package web

import "strings"

const DefaultNewsCategory = "technology"

// headlines is a canned feed; there is no news backend.
var headlines = map[string][]string{
	"general": {
		"AI Breakthrough: New Language Model Shows Remarkable Capabilities",
		"Space Exploration: Mars Mission Discovers Ancient Water Evidence",
		"Technology: Quantum Computing Milestone Achieved",
		"Science: Breakthrough in Renewable Energy Storage",
		"Health: New Medical Treatment Shows Promising Results",
	},
	"technology": {
		"Go 1.25 Released with Performance Improvements",
		"Machine Learning: New Framework Simplifies AI Development",
		"Cybersecurity: Major Vulnerability Discovered and Patched",
		"Cloud Computing: New Services Announced",
		"Mobile: Latest Smartphone Features Revealed",
	},
	"science": {
		"Climate Change: New Research Shows Accelerating Trends",
		"Biology: New Species Discovered in Amazon Rainforest",
		"Physics: Quantum Entanglement Experiment Succeeds",
		"Chemistry: Breakthrough in Carbon Capture Technology",
		"Astronomy: New Exoplanet Discovered in Habitable Zone",
	},
}

// Headlines returns up to count headlines of a category and the category
// actually used. Unknown categories fall back to general.
func (t *Tools) Headlines(category string, count int) ([]string, string) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = DefaultNewsCategory
	}
	list, ok := headlines[category]
	if !ok {
		category = "general"
		list = headlines[category]
	}
	if count <= 0 || count > len(list) {
		count = len(list)
	}
	return append([]string(nil), list[:count]...), category
}
