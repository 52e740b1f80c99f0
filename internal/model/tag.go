package model

// AllowedTags is the closed vocabulary a post may be tagged with.
var AllowedTags = []string{
	"history",
	"american",
	"crime",
	"science",
	"fiction",
	"fantasy",
	"space",
	"adventure",
	"nature",
	"environment",
	"philosophy",
	"psychology",
	"health",
}

func IsAllowedTag(tag string) bool {
	for _, allowed := range AllowedTags {
		if allowed == tag {
			return true
		}
	}
	return false
}
