package domain

import (
	"strings"
	"time"
)

// Column names of the derived training table. Inference builds its one-row
// table with the same names.
const (
	ColumnDivorceStatus    = "Divorce_Status"
	ColumnReasonForDivorce = "Reason_for_Divorce"
	ColumnChildAge         = "Child_Age"
	ColumnFatherSalary     = "Father_Salary"
	ColumnMotherSalary     = "Mother_Salary"
	ColumnCustodyGrantedTo = "Custody_Granted_to"
	ColumnCompensation     = "Compensation"
)

const (
	DivorceStatusDivorced    = "Divorced"
	DivorceStatusNotDivorced = "Not Divorced"
)

// CaseRecord is the feature row shared by training and inference.
type CaseRecord struct {
	DivorceStatus    string  `json:"divorce_status"`
	ReasonForDivorce string  `json:"reason_for_divorce"`
	ChildAge         float64 `json:"child_age"`
	FatherSalary     float64 `json:"father_salary"`
	MotherSalary     float64 `json:"mother_salary"`
}

type TrainingExample struct {
	Record           CaseRecord
	CustodyGrantedTo string
	Compensation     float64
}

type Dataset struct {
	Source      string
	Fingerprint string
	Examples    []TrainingExample
	LoadedAt    time.Time
}

// DeriveDivorceStatus maps the raw yes/no column onto the training category.
func DeriveDivorceStatus(raw string) string {
	if raw == "Yes" {
		return DivorceStatusDivorced
	}
	return DivorceStatusNotDivorced
}

// NormalizeDivorceStatus accepts either the raw dataset form or the derived
// category and returns the derived category.
func NormalizeDivorceStatus(value string) string {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "yes", "divorced":
		return DivorceStatusDivorced
	case "no", "not divorced":
		return DivorceStatusNotDivorced
	default:
		return v
	}
}

// PredictionRequest mirrors the inbound payload; nil fields were not supplied.
type PredictionRequest struct {
	FatherSalary     *float64 `json:"father_salary"`
	MotherSalary     *float64 `json:"mother_salary"`
	DivorceStatus    *string  `json:"divorce_status"`
	ReasonForDivorce *string  `json:"reason_for_divorce"`
	ChildAge         *float64 `json:"child_age"`
}

// Record validates field presence in payload order and returns the feature row.
func (r *PredictionRequest) Record() (CaseRecord, error) {
	if r == nil {
		return CaseRecord{}, ErrNoData
	}
	switch {
	case r.FatherSalary == nil:
		return CaseRecord{}, &MissingFieldError{Field: "father_salary"}
	case r.MotherSalary == nil:
		return CaseRecord{}, &MissingFieldError{Field: "mother_salary"}
	case r.DivorceStatus == nil:
		return CaseRecord{}, &MissingFieldError{Field: "divorce_status"}
	case r.ReasonForDivorce == nil:
		return CaseRecord{}, &MissingFieldError{Field: "reason_for_divorce"}
	case r.ChildAge == nil:
		return CaseRecord{}, &MissingFieldError{Field: "child_age"}
	}
	return CaseRecord{
		DivorceStatus:    NormalizeDivorceStatus(*r.DivorceStatus),
		ReasonForDivorce: strings.TrimSpace(*r.ReasonForDivorce),
		ChildAge:         *r.ChildAge,
		FatherSalary:     *r.FatherSalary,
		MotherSalary:     *r.MotherSalary,
	}, nil
}

type Prediction struct {
	Custody      string  `json:"custody"`
	Compensation float64 `json:"compensation"`
}
