package recap

import (
	"testing"

	"suivitjm/models"
)

func twoCollaborators() []models.Collaborator {
	return []models.Collaborator{
		{
			ID: 1, Name: "Alice", DailyRate: fptr(500),
			Workloads: []models.WorkloadEntry{
				{ProjectID: uptr(10), DaysWorked: 6, Month: "03", Year: 2025},
				{ProjectID: uptr(20), DaysWorked: 2, Month: "03", Year: 2025},
				{ProjectID: uptr(10), DaysWorked: 4, Month: "04", Year: 2025},
			},
		},
		{
			ID: 2, Name: "Bob", DailyRate: fptr(400),
			Workloads: []models.WorkloadEntry{
				{ProjectID: uptr(10), DaysWorked: 5, Month: "03", Year: 2025},
				{ProjectID: uptr(10), DaysWorked: 1, Month: "03", Year: 2024},
			},
		},
	}
}

func TestComputeRecapSharedProject(t *testing.T) {
	names := map[uint]string{10: "ProjA", 20: "ProjB"}
	recaps := ComputeRecap(twoCollaborators(), names, 2025)

	if len(recaps) != 2 {
		t.Fatalf("expected months 03 and 04, got %d months", len(recaps))
	}
	march := recaps[0]
	if march.Month != "03" || march.Year != 2025 {
		t.Fatalf("unexpected first month: %+v", march)
	}
	// Alice 6*500 + Bob 5*400 on ProjA
	if march.Projects[0].Name != "ProjA" || march.Projects[0].TotalCost != 5000 {
		t.Fatalf("ProjA mismatch: %+v", march.Projects[0])
	}
	if march.TotalMonthCost != 5000+2*500 {
		t.Fatalf("month total mismatch: %v", march.TotalMonthCost)
	}
	if recaps[1].Month != "04" || recaps[1].TotalMonthCost != 4*500 {
		t.Fatalf("april mismatch: %+v", recaps[1])
	}
}

func TestComputeRecapReconciliation(t *testing.T) {
	recaps := ComputeRecap(twoCollaborators(), map[uint]string{10: "ProjA", 20: "ProjB"}, 2025)
	for _, mr := range recaps {
		sum := 0.0
		for _, p := range mr.Projects {
			sum += p.TotalCost
		}
		if sum != mr.TotalMonthCost {
			t.Fatalf("month %s: projects sum %v != totalMonthCost %v", mr.Month, sum, mr.TotalMonthCost)
		}
	}
}

func TestComputeRecapOrderInvariance(t *testing.T) {
	names := map[uint]string{10: "ProjA", 20: "ProjB"}
	cs := twoCollaborators()
	a := ComputeRecap(cs, names, 2025)

	// reverse every workload slice
	for i := range cs {
		w := cs[i].Workloads
		for l, r := 0, len(w)-1; l < r; l, r = l+1, r-1 {
			w[l], w[r] = w[r], w[l]
		}
	}
	b := ComputeRecap(cs, names, 2025)

	if len(a) != len(b) {
		t.Fatalf("month count changed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Month != b[i].Month || a[i].TotalMonthCost != b[i].TotalMonthCost {
			t.Fatalf("month %s totals diverge: %v vs %v", a[i].Month, a[i].TotalMonthCost, b[i].TotalMonthCost)
		}
	}
}

func TestComputeRecapNilRateContributesZero(t *testing.T) {
	cs := []models.Collaborator{{
		ID: 1, Name: "NoRate",
		Workloads: []models.WorkloadEntry{{ProjectID: uptr(10), DaysWorked: 12, Month: "05", Year: 2025}},
	}}
	recaps := ComputeRecap(cs, map[uint]string{10: "ProjA"}, 2025)
	if len(recaps) != 1 || recaps[0].TotalMonthCost != 0 {
		t.Fatalf("nil rate should price as zero: %+v", recaps)
	}
}

func TestComputeRecapKeepsDanglingProject(t *testing.T) {
	cs := []models.Collaborator{{
		ID: 1, Name: "Alice", DailyRate: fptr(100),
		Workloads: []models.WorkloadEntry{{ProjectID: uptr(77), DaysWorked: 2, Month: "01", Year: 2025}},
	}}
	recaps := ComputeRecap(cs, map[uint]string{}, 2025)
	if len(recaps) != 1 || len(recaps[0].Projects) != 1 {
		t.Fatalf("dangling project must still be counted: %+v", recaps)
	}
	p := recaps[0].Projects[0]
	if p.ProjectID != 77 || p.Name != "" || p.TotalCost != 200 {
		t.Fatalf("unexpected dangling entry: %+v", p)
	}
}

func TestComputeRecapSkipsPlaceholdersAndOtherYears(t *testing.T) {
	cs := []models.Collaborator{{
		ID: 1, Name: "Alice", DailyRate: fptr(100),
		Workloads: []models.WorkloadEntry{
			{ProjectID: nil, DaysWorked: 0, Month: "02", Year: 2025, Comment: "note"},
			{ProjectID: uptr(10), DaysWorked: 3, Month: "02", Year: 2024},
		},
	}}
	recaps := ComputeRecap(cs, map[uint]string{10: "ProjA"}, 2025)
	if len(recaps) != 0 {
		t.Fatalf("expected empty recap, got %+v", recaps)
	}
}

func TestComputeRecapMonthsSortedAscending(t *testing.T) {
	cs := []models.Collaborator{{
		ID: 1, Name: "Alice", DailyRate: fptr(100),
		Workloads: []models.WorkloadEntry{
			{ProjectID: uptr(10), DaysWorked: 1, Month: "11", Year: 2025},
			{ProjectID: uptr(10), DaysWorked: 1, Month: "02", Year: 2025},
			{ProjectID: uptr(10), DaysWorked: 1, Month: "09", Year: 2025},
		},
	}}
	recaps := ComputeRecap(cs, map[uint]string{10: "ProjA"}, 2025)
	want := []string{"02", "09", "11"}
	for i, mr := range recaps {
		if mr.Month != want[i] {
			t.Fatalf("month order %d: got %s want %s", i, mr.Month, want[i])
		}
	}
}
