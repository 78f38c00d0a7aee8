package po

import (
	"errors"
	"fmt"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
)

type PersonPO struct {
	ID                  string         `gorm:"primaryKey;size:64"`
	Nickname            string         `gorm:"size:30;uniqueIndex;not null"`
	Email               string         `gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber         string         `gorm:"size:20;uniqueIndex;not null"`
	Role                string         `gorm:"size:20;index;not null"`
	Residency           AddressColumns `gorm:"embedded;embeddedPrefix:residency_"`
	DefaultPickup       AddressColumns `gorm:"embedded;embeddedPrefix:default_pickup_"`
	DefaultContactEmail string         `gorm:"size:255;not null"`
	DefaultContactPhone string         `gorm:"size:20;not null"`
	Version             int            `gorm:"default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (PersonPO) TableName() string {
	return "persons"
}

func FromPersonDomain(p *person.Person) *PersonPO {
	contact := p.DefaultContact()
	return &PersonPO{
		ID:                  p.ID(),
		Nickname:            p.Nickname().Value(),
		Email:               p.Email().Value(),
		PhoneNumber:         p.PhoneNumber().Value(),
		Role:                p.Role().String(),
		Residency:           FromAddress(p.ResidencyAddress()),
		DefaultPickup:       FromAddress(contact.PickupAddress),
		DefaultContactEmail: contact.Email.Value(),
		DefaultContactPhone: contact.PhoneNumber.Value(),
		Version:             p.Version(),
		CreatedAt:           p.CreatedAt(),
		UpdatedAt:           p.UpdatedAt(),
	}
}

// ToDomain 重建聚合；子表行由调用方先转换好传入
func (po *PersonPO) ToDomain(cats []*person.Cat, ads []*person.Advertisement) (*person.Person, error) {
	nickname, err := person.NewNickname(po.Nickname)
	if err != nil {
		return nil, corrupt("person", po.ID, err)
	}
	email, emailErr := shared.NewEmail(po.Email)
	phone, phoneErr := shared.NewPhoneNumber(po.PhoneNumber)
	role, roleErr := person.ParseRole(po.Role)
	residency, residencyErr := po.Residency.ToDomain()
	pickup, pickupErr := po.DefaultPickup.ToDomain()
	contactEmail, contactEmailErr := shared.NewEmail(po.DefaultContactEmail)
	contactPhone, contactPhoneErr := shared.NewPhoneNumber(po.DefaultContactPhone)
	if err := errors.Join(emailErr, phoneErr, roleErr, residencyErr, pickupErr, contactEmailErr, contactPhoneErr); err != nil {
		return nil, corrupt("person", po.ID, err)
	}

	return person.RebuildFromDTO(person.ReconstructionDTO{
		ID:               po.ID,
		Nickname:         nickname,
		Email:            email,
		PhoneNumber:      phone,
		Role:             role,
		ResidencyAddress: residency,
		DefaultContact: person.ContactInfo{
			PickupAddress: pickup,
			Email:         contactEmail,
			PhoneNumber:   contactPhone,
		},
		Cats:           cats,
		Advertisements: ads,
		Version:        po.Version,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}), nil
}

// corrupt 数据库中的行无法通过值对象校验
func corrupt(table, id string, err error) error {
	return fmt.Errorf("corrupt %s row %s: %w", table, id, err)
}
