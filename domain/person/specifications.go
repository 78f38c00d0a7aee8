package person

import (
	"context"
	"time"

	"rehoming/domain/shared"
)

// ByEmailSpecification filters persons by email
type ByEmailSpecification struct {
	Email shared.Email
}

func (spec ByEmailSpecification) IsSatisfiedBy(ctx context.Context, entity *Person) bool {
	return entity.Email().Equals(spec.Email)
}

// ByNicknameSpecification filters persons by nickname
type ByNicknameSpecification struct {
	Nickname Nickname
}

func (spec ByNicknameSpecification) IsSatisfiedBy(ctx context.Context, entity *Person) bool {
	return entity.Nickname().Equals(spec.Nickname)
}

// ByPhoneNumberSpecification filters persons by phone number
type ByPhoneNumberSpecification struct {
	PhoneNumber shared.PhoneNumber
}

func (spec ByPhoneNumberSpecification) IsSatisfiedBy(ctx context.Context, entity *Person) bool {
	return entity.PhoneNumber().Equals(spec.PhoneNumber)
}

// ByRoleSpecification filters persons by role
type ByRoleSpecification struct {
	Role Role
}

func (spec ByRoleSpecification) IsSatisfiedBy(ctx context.Context, entity *Person) bool {
	return entity.Role() == spec.Role
}

// HasAdvertisementDueForExpirySpecification 拥有至少一个已到期的 Active 广告
type HasAdvertisementDueForExpirySpecification struct {
	Now time.Time
}

func (spec HasAdvertisementDueForExpirySpecification) IsSatisfiedBy(ctx context.Context, entity *Person) bool {
	for _, ad := range entity.Advertisements() {
		if ad.IsDueForExpiry(spec.Now) {
			return true
		}
	}
	return false
}

func NewByEmailSpecification(email shared.Email) shared.Specification[*Person] {
	return ByEmailSpecification{Email: email}
}

func NewByNicknameSpecification(nickname Nickname) shared.Specification[*Person] {
	return ByNicknameSpecification{Nickname: nickname}
}

func NewByPhoneNumberSpecification(phone shared.PhoneNumber) shared.Specification[*Person] {
	return ByPhoneNumberSpecification{PhoneNumber: phone}
}

func NewByRoleSpecification(role Role) shared.Specification[*Person] {
	return ByRoleSpecification{Role: role}
}

func NewHasAdvertisementDueForExpirySpecification(now time.Time) shared.Specification[*Person] {
	return HasAdvertisementDueForExpirySpecification{Now: now}
}
