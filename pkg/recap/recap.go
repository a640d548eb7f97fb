package recap

import (
	"sort"

	"suivitjm/models"
)

// ProjectCost is one project's total cost within a month of the recap.
// Name is empty when the project no longer resolves; such entries are kept,
// a dangling reference must not break the whole recap.
type ProjectCost struct {
	ProjectID uint    `json:"id"`
	Name      string  `json:"name"`
	TotalCost float64 `json:"totalCost"`
}

// MonthRecap aggregates one month of the requested year.
type MonthRecap struct {
	Month          string        `json:"month"`
	Year           int           `json:"year"`
	Projects       []ProjectCost `json:"projects"`
	TotalMonthCost float64       `json:"totalMonthCost"`
}

type groupKey struct {
	month     string
	projectID uint
}

// ComputeRecap prices every ledger entry of the given year at the owning
// collaborator's daily rate and groups the result by (month, project), then
// by month. A nil rate prices as zero, it is not an error. Placeholder
// comment entries carry no project and are skipped.
//
// The transformation is pure and fully recomputed on every call: totals are
// invariant under reordering of the input, months come out ascending by
// their zero-padded string, and projects keep first-appearance order within
// a month.
func ComputeRecap(cs []models.Collaborator, names map[uint]string, year int) []MonthRecap {
	totals := make(map[groupKey]float64)
	groupNames := make(map[groupKey]string)
	monthOrder := []string{}
	projectOrder := make(map[string][]uint)

	for _, c := range cs {
		rate := 0.0
		if c.DailyRate != nil {
			rate = *c.DailyRate
		}
		for _, w := range c.Workloads {
			if w.Year != year || w.ProjectID == nil {
				continue
			}
			key := groupKey{month: w.Month, projectID: *w.ProjectID}
			if _, seen := totals[key]; !seen {
				if _, seenMonth := projectOrder[w.Month]; !seenMonth {
					monthOrder = append(monthOrder, w.Month)
				}
				projectOrder[w.Month] = append(projectOrder[w.Month], *w.ProjectID)
				groupNames[key] = names[*w.ProjectID]
			}
			totals[key] += w.DaysWorked * rate
		}
	}

	sort.Strings(monthOrder)

	recaps := make([]MonthRecap, 0, len(monthOrder))
	for _, month := range monthOrder {
		mr := MonthRecap{Month: month, Year: year, Projects: []ProjectCost{}}
		for _, pid := range projectOrder[month] {
			key := groupKey{month: month, projectID: pid}
			mr.Projects = append(mr.Projects, ProjectCost{
				ProjectID: pid,
				Name:      groupNames[key],
				TotalCost: totals[key],
			})
			mr.TotalMonthCost += totals[key]
		}
		recaps = append(recaps, mr)
	}
	return recaps
}
