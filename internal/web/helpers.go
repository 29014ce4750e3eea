package web

import (
	"net/http"
	"strconv"
	"time"
)

// pageParam reads the 1-based ?page= parameter. Missing or invalid values
// mean the first page.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func monthOptions(selected string) []Option {
	opts := []Option{{Value: "", Label: "All months"}}
	for m := time.January; m <= time.December; m++ {
		v := strconv.Itoa(int(m))
		opts = append(opts, Option{Value: v, Label: m.String(), Selected: v == selected})
	}
	return opts
}

// yearOptions offers the current year and the four before it.
func yearOptions(selected string, now time.Time) []Option {
	opts := []Option{{Value: "", Label: "All years"}}
	for y := now.Year(); y >= now.Year()-4; y-- {
		v := strconv.Itoa(y)
		opts = append(opts, Option{Value: v, Label: v, Selected: v == selected})
	}
	return opts
}
