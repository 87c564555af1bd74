package model

import "testing"

func TestCountStats(t *testing.T) {
	tools := []Tool{
		{ID: "1", Status: StatusAvailable},
		{ID: "2", Status: StatusAvailable},
		{ID: "3", Status: StatusBorrowed},
		{ID: "4", Status: StatusCheckedOut},
		{ID: "5", Status: StatusInRepair},
		{ID: "6", Status: StatusMaintenance},
		{ID: "7", Status: StatusBroken},
		{ID: "8", Status: "unknown"},
	}

	got := CountStats(tools)
	want := Stats{Total: 8, Available: 2, Borrowed: 2, Maintenance: 2, OutOfService: 1}
	if got != want {
		t.Errorf("CountStats() = %+v, want %+v", got, want)
	}

	if empty := CountStats(nil); empty != (Stats{}) {
		t.Errorf("CountStats(nil) = %+v, want zero", empty)
	}
}

func TestStatsOverlay(t *testing.T) {
	local := Stats{Total: 3, Available: 2, Borrowed: 1}
	total := 200
	active := 120

	got := local.Overlay(&ServerStats{TotalTools: &total, ActiveTools: &active})
	want := Stats{Total: 200, Available: 120, Borrowed: 1}
	if got != want {
		t.Errorf("Overlay() = %+v, want %+v", got, want)
	}

	if got := local.Overlay(nil); got != local {
		t.Errorf("Overlay(nil) = %+v, want %+v", got, local)
	}
}
