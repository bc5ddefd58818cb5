package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Sex is the closed set of values accepted for a patient's sex
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
	SexOther  Sex = "OTHER"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Status is the lifecycle state of a patient record.
// DELETED is terminal and never persisted: the row is removed physically.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDeleted
}

// CanTransitionTo reports whether a record in state s may move to next.
// Repeating ACTIVE or INACTIVE is allowed so deactivate/reactivate stay idempotent.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive, StatusInactive:
		return next.IsValid()
	default:
		return false
	}
}

// Patient represents a registered patient
type Patient struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	CPF           string     `gorm:"column:cpf;type:varchar(14);not null;uniqueIndex:uq_patients_cpf" json:"cpf"`
	RG            string     `gorm:"column:rg;type:varchar(20);not null;uniqueIndex:uq_patients_rg" json:"rg"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Sex           Sex        `gorm:"type:varchar(10);not null" json:"sex"`
	Phone         string     `gorm:"type:varchar(15);not null;uniqueIndex:uq_patients_phone" json:"phone"`
	Email         string     `gorm:"type:varchar(100)" json:"email,omitempty"`
	Address       string     `gorm:"type:varchar(200);not null" json:"address"`
	City          string     `gorm:"type:varchar(50);not null;index" json:"city"`
	State         string     `gorm:"type:varchar(2);not null;index" json:"state"`
	PostalCode    string     `gorm:"type:varchar(9)" json:"postal_code,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	RegisteredAt  time.Time  `gorm:"column:registered_at;not null" json:"registered_at"`
	LastUpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
	Status        Status     `gorm:"type:varchar(10);not null;default:ACTIVE;index" json:"status"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// Register puts a freshly built record into its initial state.
func (p *Patient) Register(now time.Time) {
	p.RegisteredAt = now
	p.LastUpdatedAt = nil
	p.Status = StatusActive
}

// ApplyChanges copies every mutable field from candidate.
// Identifier, registration time and lifecycle state are left untouched.
func (p *Patient) ApplyChanges(candidate *Patient, now time.Time) {
	p.Name = candidate.Name
	p.CPF = candidate.CPF
	p.RG = candidate.RG
	p.BirthDate = candidate.BirthDate
	p.Sex = candidate.Sex
	p.Phone = candidate.Phone
	p.Email = candidate.Email
	p.Address = candidate.Address
	p.City = candidate.City
	p.State = candidate.State
	p.PostalCode = candidate.PostalCode
	p.Notes = candidate.Notes
	p.touch(now)
}

func (p *Patient) Deactivate(now time.Time) error {
	return p.transition(StatusInactive, now)
}

func (p *Patient) Reactivate(now time.Time) error {
	return p.transition(StatusActive, now)
}

// MarkDeleted moves the in-memory snapshot to the terminal state after the row is removed.
func (p *Patient) MarkDeleted() error {
	if !p.Status.CanTransitionTo(StatusDeleted) {
		return &InvalidTransitionError{From: p.Status, To: StatusDeleted}
	}
	p.Status = StatusDeleted
	return nil
}

func (p *Patient) transition(next Status, now time.Time) error {
	if !p.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: p.Status, To: next}
	}
	p.Status = next
	p.touch(now)
	return nil
}

func (p *Patient) touch(now time.Time) {
	t := now
	p.LastUpdatedAt = &t
}

// Pagination
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type PageRequest struct {
	Page      int
	Size      int
	Direction SortDirection
}

// Offset saturates at math.MaxInt so an enormous page number lands past the
// last row instead of wrapping around to a negative offset.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

type PatientPage struct {
	Patients      []Patient
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

func NewPatientPage(patients []Patient, req PageRequest, total int64) *PatientPage {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int(total) / req.Size
		if int(total)%req.Size > 0 {
			totalPages++
		}
	}
	if patients == nil {
		patients = []Patient{}
	}
	return &PatientPage{
		Patients:      patients,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
