package po

import (
	"errors"

	"rehoming/domain/person"
)

type CatPO struct {
	ID                     string  `gorm:"primaryKey;size:64"`
	PersonID               string  `gorm:"size:64;index;not null"`
	Name                   string  `gorm:"size:50;not null"`
	AgeCategory            string  `gorm:"size:20;not null"`
	Behavior               string  `gorm:"size:20;not null"`
	HealthStatus           string  `gorm:"size:20;not null"`
	MedicalHelpUrgency     string  `gorm:"size:20;not null"`
	IsCastrated            bool    `gorm:"not null"`
	AdditionalRequirements string  `gorm:"size:1000"`
	AdvertisementID        *string `gorm:"size:64;index"`
	IsAdopted              bool    `gorm:"not null;default:false"`
	PriorityScore          float64 `gorm:"not null;default:0"`
	Position               int     `gorm:"not null;default:0"`
}

func (CatPO) TableName() string {
	return "cats"
}

func FromCatDomain(c *person.Cat, position int) *CatPO {
	var adID *string
	if c.IsAssigned() {
		id := c.AdvertisementID()
		adID = &id
	}
	return &CatPO{
		ID:                     c.ID(),
		PersonID:               c.PersonID(),
		Name:                   c.Name().Value(),
		AgeCategory:            c.AgeCategory().String(),
		Behavior:               c.Behavior().String(),
		HealthStatus:           c.HealthStatus().String(),
		MedicalHelpUrgency:     c.MedicalHelpUrgency().String(),
		IsCastrated:            c.IsCastrated(),
		AdditionalRequirements: c.AdditionalRequirements().Value(),
		AdvertisementID:        adID,
		IsAdopted:              c.IsAdopted(),
		PriorityScore:          c.PriorityScore(),
		Position:               position,
	}
}

func (po *CatPO) ToDomain() (*person.Cat, error) {
	name, nameErr := person.NewCatName(po.Name)
	age, ageErr := person.ParseAgeCategory(po.AgeCategory)
	behavior, behaviorErr := person.ParseBehavior(po.Behavior)
	health, healthErr := person.ParseHealthStatus(po.HealthStatus)
	urgency, urgencyErr := person.ParseMedicalHelpUrgency(po.MedicalHelpUrgency)
	requirements, requirementsErr := person.NewDescription(po.AdditionalRequirements)
	if err := errors.Join(nameErr, ageErr, behaviorErr, healthErr, urgencyErr, requirementsErr); err != nil {
		return nil, corrupt("cat", po.ID, err)
	}

	adID := ""
	if po.AdvertisementID != nil {
		adID = *po.AdvertisementID
	}
	return person.RebuildCatFromDTO(person.CatReconstructionDTO{
		ID:                     po.ID,
		PersonID:               po.PersonID,
		Name:                   name,
		AgeCategory:            age,
		Behavior:               behavior,
		HealthStatus:           health,
		MedicalHelpUrgency:     urgency,
		IsCastrated:            po.IsCastrated,
		AdditionalRequirements: requirements,
		AdvertisementID:        adID,
		IsAdopted:              po.IsAdopted,
		PriorityScore:          po.PriorityScore,
	}), nil
}
