package model

// Snapshot is an immutable view of every collection in the dataset.
// Aggregations read from it and never mutate it.
type Snapshot struct {
	Companies        []Company
	Cases            []Case
	Hearings         []Hearing
	Deadlines        []Deadline
	Tasks            []Task
	EvidenceRequests []EvidenceRequest
	EvidenceItems    []EvidenceItem
	Alerts           []Alert
	DownloadLogs     []DownloadLog

	caseIndex map[string]int
}

// Index builds the case lookup table. It must be called once after the
// collections are populated and before the snapshot is shared.
func (s *Snapshot) Index() {
	s.caseIndex = make(map[string]int, len(s.Cases))
	for i, c := range s.Cases {
		s.caseIndex[c.ID] = i
	}
}

// Case returns the case with the given id, or nil.
func (s *Snapshot) Case(id string) *Case {
	if id == "" {
		return nil
	}
	if s.caseIndex == nil {
		for i := range s.Cases {
			if s.Cases[i].ID == id {
				return &s.Cases[i]
			}
		}
		return nil
	}
	i, ok := s.caseIndex[id]
	if !ok {
		return nil
	}
	return &s.Cases[i]
}

// Company returns the company with the given id, or nil.
func (s *Snapshot) Company(id string) *Company {
	for i := range s.Companies {
		if s.Companies[i].ID == id {
			return &s.Companies[i]
		}
	}
	return nil
}
