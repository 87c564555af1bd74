package model

// Stats are counters derived from a list of tools.
type Stats struct {
	Total        int `json:"total_tools" yaml:"total_tools"`
	Available    int `json:"available_tools" yaml:"available_tools"`
	Borrowed     int `json:"borrowed_tools" yaml:"borrowed_tools"`
	Maintenance  int `json:"maintenance_tools" yaml:"maintenance_tools"`
	OutOfService int `json:"out_of_service_tools" yaml:"out_of_service_tools"`
}

// CountStats computes Stats over tools.
func CountStats(tools []Tool) Stats {
	s := Stats{Total: len(tools)}
	for _, t := range tools {
		switch {
		case t.Status == StatusAvailable:
			s.Available++
		case IsBorrowed(t.Status):
			s.Borrowed++
		case IsInRepair(t.Status):
			s.Maintenance++
		case t.Status == StatusBroken:
			s.OutOfService++
		}
	}
	return s
}

// ServerStats is the payload of /api/stats. Fields the server omits stay nil.
type ServerStats struct {
	TotalTools        *int `json:"total_tools,omitempty" yaml:"total_tools,omitempty"`
	ActiveTools       *int `json:"active_tools,omitempty" yaml:"active_tools,omitempty"`
	AvailableTools    *int `json:"available_tools,omitempty" yaml:"available_tools,omitempty"`
	BorrowedTools     *int `json:"borrowed_tools,omitempty" yaml:"borrowed_tools,omitempty"`
	MaintenanceTools  *int `json:"maintenance_tools,omitempty" yaml:"maintenance_tools,omitempty"`
	OutOfServiceTools *int `json:"out_of_service_tools,omitempty" yaml:"out_of_service_tools,omitempty"`
}

// Overlay returns s with every field the server reported replacing the
// locally computed value.
func (s Stats) Overlay(server *ServerStats) Stats {
	if server == nil {
		return s
	}
	pick := func(local int, remote *int) int {
		if remote != nil {
			return *remote
		}
		return local
	}
	s.Total = pick(s.Total, server.TotalTools)
	s.Available = pick(s.Available, server.AvailableTools)
	if server.AvailableTools == nil && server.ActiveTools != nil {
		s.Available = *server.ActiveTools
	}
	s.Borrowed = pick(s.Borrowed, server.BorrowedTools)
	s.Maintenance = pick(s.Maintenance, server.MaintenanceTools)
	s.OutOfService = pick(s.OutOfService, server.OutOfServiceTools)
	return s
}
