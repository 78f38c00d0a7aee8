package person

import (
	"context"

	"rehoming/domain/shared"
)

// DomainService 人员领域服务：跨聚合的唯一性规则
// 只查询，不调用 Save
type DomainService struct {
	repository Repository
}

func NewDomainService(repo Repository) *DomainService {
	return &DomainService{repository: repo}
}

// EnsureContactDetailsAreUnique 邮箱、昵称、电话在系统内唯一
// excludePersonID 非空时忽略该人员自身（资料更新场景）
func (s *DomainService) EnsureContactDetailsAreUnique(
	ctx context.Context,
	email shared.Email,
	nickname Nickname,
	phone shared.PhoneNumber,
	excludePersonID string,
) error {
	spec := shared.Or(
		NewByEmailSpecification(email),
		shared.Or(NewByNicknameSpecification(nickname), NewByPhoneNumberSpecification(phone)),
	)

	matches, err := s.repository.FindBySpecification(ctx, spec)
	if err != nil {
		return err
	}

	for _, other := range matches {
		if other.ID() == excludePersonID {
			continue
		}
		switch {
		case other.Email().Equals(email):
			return NewDuplicateContactError("email", email.Value())
		case other.Nickname().Equals(nickname):
			return NewDuplicateContactError("nickname", nickname.Value())
		case other.PhoneNumber().Equals(phone):
			return NewDuplicateContactError("phone_number", phone.Value())
		}
	}
	return nil
}
