package model

type EvidenceRequestStatus string

const (
	EvidenceRequestOpen         EvidenceRequestStatus = "open"
	EvidenceRequestPartiallyMet EvidenceRequestStatus = "partially_met"
	EvidenceRequestMet          EvidenceRequestStatus = "met"
	EvidenceRequestOverdue      EvidenceRequestStatus = "overdue"
)

var EvidenceRequestStatuses = []EvidenceRequestStatus{
	EvidenceRequestOpen, EvidenceRequestPartiallyMet, EvidenceRequestMet, EvidenceRequestOverdue,
}

var EvidenceRequestStatusLabels = map[EvidenceRequestStatus]string{
	EvidenceRequestOpen:         "Aberta",
	EvidenceRequestPartiallyMet: "Parcial",
	EvidenceRequestMet:          "Atendida",
	EvidenceRequestOverdue:      "Atrasada",
}

type EvidenceRequest struct {
	ID          string                `json:"id" yaml:"id"`
	CaseID      string                `json:"case_id" yaml:"case_id"`
	Title       string                `json:"title" yaml:"title"`
	Status      EvidenceRequestStatus `json:"status" yaml:"status"`
	RequestedAt string                `json:"requested_at" yaml:"requested_at"`
}

type EvidenceItemStatus string

const (
	EvidencePending   EvidenceItemStatus = "pending"
	EvidenceValidated EvidenceItemStatus = "validated"
	EvidenceRejected  EvidenceItemStatus = "rejected"
)

type EvidenceItem struct {
	ID       string             `json:"id" yaml:"id"`
	CaseID   string             `json:"case_id" yaml:"case_id"`
	Category string             `json:"category" yaml:"category"`
	Status   EvidenceItemStatus `json:"status" yaml:"status"`
}

type AlertSeverity string

const (
	AlertUrgent AlertSeverity = "urgent"
	AlertHigh   AlertSeverity = "high"
	AlertNormal AlertSeverity = "normal"
)

type Alert struct {
	ID       string        `json:"id" yaml:"id"`
	CaseID   string        `json:"case_id" yaml:"case_id"`
	Title    string        `json:"title" yaml:"title"`
	Severity AlertSeverity `json:"severity" yaml:"severity"`
	Treated  bool          `json:"treated" yaml:"treated"`
}

type DownloadLog struct {
	ID          string `json:"id" yaml:"id"`
	CaseID      string `json:"case_id" yaml:"case_id"`
	User        string `json:"user" yaml:"user"`
	Watermarked bool   `json:"watermarked" yaml:"watermarked"`
}
