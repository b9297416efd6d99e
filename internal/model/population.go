package model

import (
	"fmt"
	"time"
)

// PopulationRecord is a census snapshot for one kebele.
// TotalPopulation is stored as supplied by the caller.
type PopulationRecord struct {
	ID              int64     `json:"id"`
	Kebele          string    `json:"kebele"`
	MaleCount       int64     `json:"maleCount"`
	FemaleCount     int64     `json:"femaleCount"`
	ChildrenCount   int64     `json:"childrenCount"`
	AdultCount      int64     `json:"adultCount"`
	ElderlyCount    int64     `json:"elderlyCount"`
	TotalPopulation int64     `json:"totalPopulation"`
	RecordDate      string    `json:"recordDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedBy       *int64    `json:"updatedBy,omitempty"`
}

type PopulationInput struct {
	Kebele          string `json:"kebele" validate:"required,max=100"`
	MaleCount       int64  `json:"maleCount" validate:"gte=0"`
	FemaleCount     int64  `json:"femaleCount" validate:"gte=0"`
	ChildrenCount   int64  `json:"childrenCount" validate:"gte=0"`
	AdultCount      int64  `json:"adultCount" validate:"gte=0"`
	ElderlyCount    int64  `json:"elderlyCount" validate:"gte=0"`
	TotalPopulation int64  `json:"totalPopulation" validate:"gte=0"`
	RecordDate      string `json:"recordDate" validate:"required,datetime=2006-01-02"`
	UpdatedBy       *int64 `json:"updatedBy,omitempty"`
}

// Discrepancies lists every way the stored counts disagree with TotalPopulation.
// Nothing is corrected; callers decide whether to warn or reject.
func (r PopulationInput) Discrepancies() []string {
	var out []string
	if sex := r.MaleCount + r.FemaleCount; sex != r.TotalPopulation {
		out = append(out, fmt.Sprintf("male+female=%d but totalPopulation=%d", sex, r.TotalPopulation))
	}
	if age := r.ChildrenCount + r.AdultCount + r.ElderlyCount; age != r.TotalPopulation {
		out = append(out, fmt.Sprintf("children+adult+elderly=%d but totalPopulation=%d", age, r.TotalPopulation))
	}
	return out
}
