package model

// Sector is the department a case is routed to when no person matches.
type Sector string

const (
	SectorLegal     Sector = "legal"
	SectorHR        Sector = "hr"
	SectorPayroll   Sector = "dp"
	SectorSales     Sector = "sales"
	SectorLogistics Sector = "logistics"
	SectorFleet     Sector = "fleet"
	SectorNone      Sector = "none"
)

type CaseStatus string

const (
	CaseInProgress CaseStatus = "in_progress"
	CaseClosed     CaseStatus = "closed"
)

// CaseStatuses lists statuses in display order.
var CaseStatuses = []CaseStatus{CaseInProgress, CaseClosed}

var CaseStatusLabels = map[CaseStatus]string{
	CaseInProgress: "Em andamento",
	CaseClosed:     "Encerrado",
}

type Confidentiality string

const (
	ConfidentialityNormal          Confidentiality = "normal"
	ConfidentialityRestricted      Confidentiality = "restricted"
	ConfidentialityUltraRestricted Confidentiality = "ultra_restricted"
)

var ConfidentialityLevels = []Confidentiality{ConfidentialityNormal, ConfidentialityRestricted, ConfidentialityUltraRestricted}

var ConfidentialityLabels = map[Confidentiality]string{
	ConfidentialityNormal:          "Normal",
	ConfidentialityRestricted:      "Restrito",
	ConfidentialityUltraRestricted: "Ultra Restrito",
}

type Company struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Case is a labor-law matter. Dates are calendar days formatted YYYY-MM-DD.
type Case struct {
	ID                string          `json:"id" yaml:"id"`
	Employee          string          `json:"employee" yaml:"employee"`
	CaseNumber        string          `json:"case_number" yaml:"case_number"`
	Responsible       string          `json:"responsible" yaml:"responsible"`
	Lawyer            string          `json:"lawyer" yaml:"lawyer"`
	ResponsibleSector Sector          `json:"responsible_sector" yaml:"responsible_sector"`
	CompanyID         string          `json:"company_id" yaml:"company_id"`
	Status            CaseStatus      `json:"status" yaml:"status"`
	Confidentiality   Confidentiality `json:"confidentiality" yaml:"confidentiality"`
	Theme             string          `json:"theme" yaml:"theme"`
	Court             string          `json:"court" yaml:"court"`
	FiledAt           string          `json:"filed_at" yaml:"filed_at"`
	ClosedAt          string          `json:"closed_at,omitempty" yaml:"closed_at"`
}

type Hearing struct {
	ID         string `json:"id" yaml:"id"`
	CaseID     string `json:"case_id" yaml:"case_id"`
	Date       string `json:"date" yaml:"date"`
	Time       string `json:"time" yaml:"time"`
	Type       string `json:"type" yaml:"type"`
	Court      string `json:"court" yaml:"court"`
	Employee   string `json:"employee" yaml:"employee"`
	CaseNumber string `json:"case_number" yaml:"case_number"`
	Status     string `json:"status" yaml:"status"`
}

type DeadlineStatus string

const (
	DeadlinePending DeadlineStatus = "pending"
	DeadlineMet     DeadlineStatus = "met"
)

type Deadline struct {
	ID         string         `json:"id" yaml:"id"`
	CaseID     string         `json:"case_id" yaml:"case_id"`
	DueDate    string         `json:"due_date" yaml:"due_date"`
	Title      string         `json:"title" yaml:"title"`
	Status     DeadlineStatus `json:"status" yaml:"status"`
	Employee   string         `json:"employee" yaml:"employee"`
	CaseNumber string         `json:"case_number" yaml:"case_number"`
}
