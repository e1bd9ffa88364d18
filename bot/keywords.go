package bot

import "strings"

var directionKeywords = []string{
	"directions", "route", "how to get", "navigate", "drive to", "walk to",
	"go to", "travel to", "trip to", "way to", "path to", "find route",
	"take me to", "get me to", "show me the way", "best route", "closest",
}

var planModificationKeywords = []string{
	"update", "update my", "update my plan", "update my travel plan", "update travel plan",
	"add to plan", "remove from plan", "delete from plan", "change plan",
	"modify plan", "edit plan", "add restaurant", "add hotel", "add activity",
	"remove restaurant", "remove hotel", "cancel booking", "replace with",
	"insert", "include", "exclude", "swap", "substitute",
}

// NeedsDirections reports whether text looks like a directions request
func NeedsDirections(text string) bool {
	return containsAny(text, directionKeywords)
}

// NeedsPlanModification reports whether text asks to change the travel plan
func NeedsPlanModification(text string) bool {
	return containsAny(text, planModificationKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
