package recap

import "suivitjm/models"

// ProjectDays is one line of a monthly view: a static assignment paired with
// the days actually recorded for it in the requested period.
type ProjectDays struct {
	ProjectID  uint    `json:"projectId"`
	Name       string  `json:"name"`
	DaysWorked float64 `json:"daysWorked"`
}

// MonthlyView is the per-period projection of one collaborator: every project
// from the static list, each carrying the ledger days for (month, year) or 0,
// plus the period's comment.
type MonthlyView struct {
	CollaboratorID uint          `json:"id"`
	Name           string        `json:"name"`
	DailyRate      *float64      `json:"tjm"`
	Comment        string        `json:"comments"`
	Projects       []ProjectDays `json:"projects"`
}

// ResolveMonthly derives the monthly view for one collaborator. names maps
// project ids to display names; an assignment whose project no longer
// resolves keeps an empty name rather than failing the view.
//
// The comment is taken from the first ledger entry in the period that has a
// non-empty comment, or "" when none does. Entries from any other
// (month, year) never contribute days or comments.
func ResolveMonthly(c models.Collaborator, names map[uint]string, month string, year int) MonthlyView {
	period := make([]models.WorkloadEntry, 0, len(c.Workloads))
	for _, w := range c.Workloads {
		if w.Month == month && w.Year == year {
			period = append(period, w)
		}
	}

	projects := make([]ProjectDays, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		days := 0.0
		for _, w := range period {
			if w.ProjectID != nil && *w.ProjectID == a.ProjectID {
				days = w.DaysWorked
				break
			}
		}
		projects = append(projects, ProjectDays{
			ProjectID:  a.ProjectID,
			Name:       names[a.ProjectID],
			DaysWorked: days,
		})
	}

	comment := ""
	for _, w := range period {
		if w.Comment != "" {
			comment = w.Comment
			break
		}
	}

	return MonthlyView{
		CollaboratorID: c.ID,
		Name:           c.Name,
		DailyRate:      c.DailyRate,
		Comment:        comment,
		Projects:       projects,
	}
}

// ResolveMonthlyAll applies ResolveMonthly to every collaborator, preserving
// input order. Listing and single fetch share the exact same semantics.
func ResolveMonthlyAll(cs []models.Collaborator, names map[uint]string, month string, year int) []MonthlyView {
	views := make([]MonthlyView, 0, len(cs))
	for _, c := range cs {
		views = append(views, ResolveMonthly(c, names, month, year))
	}
	return views
}
