package person

import (
	"rehoming/domain/person"
	"rehoming/domain/shared"
)

func toAddress(dto AddressDTO) (shared.Address, error) {
	return shared.NewAddress(dto.Country, dto.State, dto.ZipCode, dto.City, dto.Line)
}

func toContact(dto *ContactDTO) (*person.ContactInfo, error) {
	if dto == nil {
		return nil, nil
	}
	address, err := toAddress(dto.PickupAddress)
	if err != nil {
		return nil, err
	}
	email, err := shared.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	phone, err := shared.NewPhoneNumber(dto.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &person.ContactInfo{PickupAddress: address, Email: email, PhoneNumber: phone}, nil
}

func toProfile(nickname, email, phone string, residency AddressDTO, contact *ContactDTO) (person.Profile, error) {
	nick, err := person.NewNickname(nickname)
	if err != nil {
		return person.Profile{}, err
	}
	mail, err := shared.NewEmail(email)
	if err != nil {
		return person.Profile{}, err
	}
	tel, err := shared.NewPhoneNumber(phone)
	if err != nil {
		return person.Profile{}, err
	}
	address, err := toAddress(residency)
	if err != nil {
		return person.Profile{}, err
	}
	defaultContact, err := toContact(contact)
	if err != nil {
		return person.Profile{}, err
	}
	return person.Profile{
		Nickname:         nick,
		Email:            mail,
		PhoneNumber:      tel,
		ResidencyAddress: address,
		DefaultContact:   defaultContact,
	}, nil
}

func toCatAttributes(f CatFields) (person.CatAttributes, error) {
	name, err := person.NewCatName(f.Name)
	if err != nil {
		return person.CatAttributes{}, err
	}
	age, err := person.ParseAgeCategory(f.AgeCategory)
	if err != nil {
		return person.CatAttributes{}, err
	}
	behavior, err := person.ParseBehavior(f.Behavior)
	if err != nil {
		return person.CatAttributes{}, err
	}
	health, err := person.ParseHealthStatus(f.HealthStatus)
	if err != nil {
		return person.CatAttributes{}, err
	}
	urgency, err := person.ParseMedicalHelpUrgency(f.MedicalHelpUrgency)
	if err != nil {
		return person.CatAttributes{}, err
	}
	requirements, err := person.NewDescription(f.AdditionalRequirements)
	if err != nil {
		return person.CatAttributes{}, err
	}
	return person.CatAttributes{
		Name:                   name,
		AgeCategory:            age,
		Behavior:               behavior,
		HealthStatus:           health,
		MedicalHelpUrgency:     urgency,
		IsCastrated:            f.IsCastrated,
		AdditionalRequirements: requirements,
	}, nil
}

// mergeDetails 在 base 上覆盖请求里给出的字段
func mergeDetails(base person.AdvertisementDetails, description *string, pickup *AddressDTO, email, phone string) (person.AdvertisementDetails, error) {
	details := base
	if description != nil {
		d, err := person.NewDescription(*description)
		if err != nil {
			return details, err
		}
		details.Description = d
	}
	if pickup != nil {
		address, err := toAddress(*pickup)
		if err != nil {
			return details, err
		}
		details.PickupAddress = address
	}
	if email != "" {
		mail, err := shared.NewEmail(email)
		if err != nil {
			return details, err
		}
		details.ContactEmail = mail
	}
	if phone != "" {
		tel, err := shared.NewPhoneNumber(phone)
		if err != nil {
			return details, err
		}
		details.ContactPhone = tel
	}
	return details, nil
}

func fromAddress(a shared.Address) AddressDTO {
	return AddressDTO{
		Country: a.Country(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		City:    a.City(),
		Line:    a.Line(),
	}
}

func toPersonResponse(p *person.Person) *PersonResponse {
	contact := p.DefaultContact()
	cats := p.Cats()
	ads := p.Advertisements()

	resp := &PersonResponse{
		ID:               p.ID(),
		Nickname:         p.Nickname().Value(),
		Email:            p.Email().Value(),
		PhoneNumber:      p.PhoneNumber().Value(),
		Role:             p.Role().String(),
		ResidencyAddress: fromAddress(p.ResidencyAddress()),
		DefaultContact: ContactDTO{
			PickupAddress: fromAddress(contact.PickupAddress),
			Email:         contact.Email.Value(),
			PhoneNumber:   contact.PhoneNumber.Value(),
		},
		Cats:           make([]*CatResponse, len(cats)),
		Advertisements: make([]*AdvertisementResponse, len(ads)),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
	for i, c := range cats {
		resp.Cats[i] = toCatResponse(c)
	}
	for i, a := range ads {
		resp.Advertisements[i] = toAdvertisementResponse(a)
	}
	return resp
}

func toCatResponse(c *person.Cat) *CatResponse {
	return &CatResponse{
		ID:                     c.ID(),
		Name:                   c.Name().Value(),
		AgeCategory:            c.AgeCategory().String(),
		Behavior:               c.Behavior().String(),
		HealthStatus:           c.HealthStatus().String(),
		MedicalHelpUrgency:     c.MedicalHelpUrgency().String(),
		IsCastrated:            c.IsCastrated(),
		AdditionalRequirements: c.AdditionalRequirements().Value(),
		AdvertisementID:        c.AdvertisementID(),
		IsAdopted:              c.IsAdopted(),
		PriorityScore:          c.PriorityScore(),
	}
}

func toAdvertisementResponse(a *person.Advertisement) *AdvertisementResponse {
	return &AdvertisementResponse{
		ID:            a.ID(),
		PersonID:      a.PersonID(),
		Description:   a.Description().Value(),
		PickupAddress: fromAddress(a.PickupAddress()),
		ContactEmail:  a.ContactEmail().Value(),
		ContactPhone:  a.ContactPhone().Value(),
		Status:        a.Status().String(),
		CatIDs:        a.CatIDs(),
		PriorityScore: a.PriorityScore(),
		CreatedAt:     a.CreatedAt(),
		ExpiresOn:     a.ExpiresOn(),
		ClosedOn:      a.ClosedOn(),
	}
}

func toCatResponses(cats []*person.Cat) []*CatResponse {
	out := make([]*CatResponse, len(cats))
	for i, c := range cats {
		out[i] = toCatResponse(c)
	}
	return out
}

func toAdvertisementResponses(ads []*person.Advertisement) []*AdvertisementResponse {
	out := make([]*AdvertisementResponse, len(ads))
	for i, a := range ads {
		out[i] = toAdvertisementResponse(a)
	}
	return out
}
