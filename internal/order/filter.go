package order

import "strings"

// StatusAll disables status filtering.
const StatusAll = "all"

// Filter keeps orders whose status equals status exactly (empty or "all"
// matches any) and whose customer name, email or id contains term, ignoring
// case. Neither argument is trimmed.
func Filter(orders []Order, status, term string) []Order {
	term = strings.ToLower(term)

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != StatusAll && string(o.Status) != status {
			continue
		}
		if term != "" && !matches(o, term) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(o Order, term string) bool {
	return strings.Contains(strings.ToLower(o.Customer.FullName), term) ||
		strings.Contains(strings.ToLower(o.Customer.Email), term) ||
		strings.Contains(strings.ToLower(o.ID), term)
}

type Stats struct {
	Total    int            `json:"total"`
	Revenue  int64          `json:"revenue"`
	ByStatus map[Status]int `json:"by_status"`
}

// ComputeStats counts every order; revenue skips cancelled ones.
func ComputeStats(orders []Order) Stats {
	st := Stats{Total: len(orders), ByStatus: make(map[Status]int, len(Statuses))}
	for _, s := range Statuses {
		st.ByStatus[s] = 0
	}
	for _, o := range orders {
		st.ByStatus[o.Status]++
		if o.Status != StatusCancelled {
			st.Revenue += o.Payment.Total
		}
	}
	return st
}
