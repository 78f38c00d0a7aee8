package po

import (
	"errors"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
)

type AdvertisementPO struct {
	ID            string         `gorm:"primaryKey;size:64"`
	PersonID      string         `gorm:"size:64;index;not null"`
	Description   string         `gorm:"size:1000"`
	Pickup        AddressColumns `gorm:"embedded;embeddedPrefix:pickup_"`
	ContactEmail  string         `gorm:"size:255;not null"`
	ContactPhone  string         `gorm:"size:20;not null"`
	Status        string         `gorm:"size:30;index:idx_ads_status_expires;not null"`
	CreatedAt     time.Time      `gorm:"not null"`
	ExpiresOn     time.Time      `gorm:"index:idx_ads_status_expires;not null"`
	ClosedOn      *time.Time
	PriorityScore float64 `gorm:"index;not null;default:0"`
	Position      int     `gorm:"not null;default:0"`
}

func (AdvertisementPO) TableName() string {
	return "advertisements"
}

func FromAdvertisementDomain(a *person.Advertisement, position int) *AdvertisementPO {
	return &AdvertisementPO{
		ID:            a.ID(),
		PersonID:      a.PersonID(),
		Description:   a.Description().Value(),
		Pickup:        FromAddress(a.PickupAddress()),
		ContactEmail:  a.ContactEmail().Value(),
		ContactPhone:  a.ContactPhone().Value(),
		Status:        a.Status().String(),
		CreatedAt:     a.CreatedAt(),
		ExpiresOn:     a.ExpiresOn(),
		ClosedOn:      a.ClosedOn(),
		PriorityScore: a.PriorityScore(),
		Position:      position,
	}
}

// ToDomain catIDs 由 cats.advertisement_id 反查得到
func (po *AdvertisementPO) ToDomain(catIDs []string) (*person.Advertisement, error) {
	description, descriptionErr := person.NewDescription(po.Description)
	pickup, pickupErr := po.Pickup.ToDomain()
	email, emailErr := shared.NewEmail(po.ContactEmail)
	phone, phoneErr := shared.NewPhoneNumber(po.ContactPhone)
	status, statusErr := person.ParseAdvertisementStatus(po.Status)
	if err := errors.Join(descriptionErr, pickupErr, emailErr, phoneErr, statusErr); err != nil {
		return nil, corrupt("advertisement", po.ID, err)
	}

	var closedOn *time.Time
	if po.ClosedOn != nil {
		t := po.ClosedOn.UTC()
		closedOn = &t
	}
	return person.RebuildAdvertisementFromDTO(person.AdvertisementReconstructionDTO{
		ID:            po.ID,
		PersonID:      po.PersonID,
		Description:   description,
		PickupAddress: pickup,
		ContactEmail:  email,
		ContactPhone:  phone,
		Status:        status,
		CreatedAt:     po.CreatedAt.UTC(),
		ExpiresOn:     po.ExpiresOn.UTC(),
		ClosedOn:      closedOn,
		PriorityScore: po.PriorityScore,
		CatIDs:        catIDs,
	}), nil
}
