package service

import "strconv"

const (
	UserPageSize  = 9
	AdminPageSize = 6
)

// ParsePage reads a page number from a path or query value. Anything that
// is not a positive integer means page 1.
func ParsePage(param string) int {
	page, err := strconv.Atoi(param)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageLinks lists the page numbers 1..total.
func PageLinks(total int) []int {
	if total < 1 {
		return []int{}
	}
	links := make([]int, total)
	for i := range links {
		links[i] = i + 1
	}
	return links
}
