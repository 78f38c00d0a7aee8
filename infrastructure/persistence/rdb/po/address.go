package po

import "rehoming/domain/shared"

// AddressColumns 以 embedded 方式展开到各表
type AddressColumns struct {
	Country string `gorm:"size:60;not null"`
	State   string `gorm:"size:60"`
	ZipCode string `gorm:"size:20;not null"`
	City    string `gorm:"size:60;not null"`
	Line    string `gorm:"size:150;not null"`
}

func FromAddress(a shared.Address) AddressColumns {
	return AddressColumns{
		Country: a.Country(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		City:    a.City(),
		Line:    a.Line(),
	}
}

func (c AddressColumns) ToDomain() (shared.Address, error) {
	return shared.NewAddress(c.Country, c.State, c.ZipCode, c.City, c.Line)
}
