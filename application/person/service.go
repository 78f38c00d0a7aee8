package person

import (
	"context"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/pkg/logger"

	"go.uber.org/zap"
)

// Clock 当前时间来源，测试中替换为固定时间
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// ApplicationService 人员应用服务：编排 Person 聚合上的用例
// 每个命令一个 UoW：加载 → 调用聚合方法 → Save → 注册事件
type ApplicationService struct {
	personRepo    person.Repository
	domainService *person.DomainService
	uowFactory    shared.UnitOfWorkFactory
	calculator    person.PriorityScoreCalculator
	clock         Clock
}

type Option func(*ApplicationService)

func WithClock(clock Clock) Option {
	return func(s *ApplicationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewApplicationService(
	personRepo person.Repository,
	uowFactory shared.UnitOfWorkFactory,
	calculator person.PriorityScoreCalculator,
	opts ...Option,
) *ApplicationService {
	s := &ApplicationService{
		personRepo:    personRepo,
		domainService: person.NewDomainService(personRepo),
		uowFactory:    uowFactory,
		calculator:    calculator,
		clock:         systemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate 加载人员，在同一事务内执行 fn 并保存
func (s *ApplicationService) mutate(ctx context.Context, personID string, fn func(ctx context.Context, p *person.Person) error) (*person.Person, error) {
	var p *person.Person
	uow := s.uowFactory.New()

	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.personRepo.FindByID(ctx, personID)
		if err != nil {
			return err
		}
		if err := fn(ctx, p); err != nil {
			return err
		}
		if err := s.personRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ============================================================================
// 人员
// ============================================================================

// RegisterPerson 注册新人员，昵称、邮箱、电话必须全局唯一
func (s *ApplicationService) RegisterPerson(ctx context.Context, req RegisterPersonRequest) (*PersonResponse, error) {
	profile, err := toProfile(req.Nickname, req.Email, req.PhoneNumber, req.ResidencyAddress, req.DefaultContact)
	if err != nil {
		return nil, err
	}
	role := person.RoleRegular
	if req.Role != "" {
		if role, err = person.ParseRole(req.Role); err != nil {
			return nil, err
		}
	}

	var p *person.Person
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.domainService.EnsureContactDetailsAreUnique(ctx, profile.Email, profile.Nickname, profile.PhoneNumber, ""); err != nil {
			return err
		}

		var err error
		p, err = person.NewPerson(profile, role)
		if err != nil {
			return err
		}
		if err := s.personRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Person registered",
		zap.String("person_id", p.ID()),
		zap.String("role", p.Role().String()),
	)
	return toPersonResponse(p), nil
}

func (s *ApplicationService) GetPerson(ctx context.Context, personID string) (*PersonResponse, error) {
	p, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	return toPersonResponse(p), nil
}

func (s *ApplicationService) ListPersons(ctx context.Context, req ListPersonsRequest) ([]*PersonResponse, error) {
	var spec shared.Specification[*person.Person]
	if req.Role != "" {
		role, err := person.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		spec = person.NewByRoleSpecification(role)
	}

	persons, err := s.personRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]*PersonResponse, len(persons))
	for i, p := range persons {
		out[i] = toPersonResponse(p)
	}
	return out, nil
}

// UpdatePersonProfile 唯一性检查排除本人
func (s *ApplicationService) UpdatePersonProfile(ctx context.Context, req UpdatePersonProfileRequest) (*PersonResponse, error) {
	profile, err := toProfile(req.Nickname, req.Email, req.PhoneNumber, req.ResidencyAddress, req.DefaultContact)
	if err != nil {
		return nil, err
	}

	p, err := s.mutate(ctx, req.PersonID, func(ctx context.Context, p *person.Person) error {
		if err := s.domainService.EnsureContactDetailsAreUnique(ctx, profile.Email, profile.Nickname, profile.PhoneNumber, p.ID()); err != nil {
			return err
		}
		return p.UpdateProfile(profile)
	})
	if err != nil {
		return nil, err
	}
	return toPersonResponse(p), nil
}

func (s *ApplicationService) ChangeRole(ctx context.Context, req ChangeRoleRequest) (*PersonResponse, error) {
	role, err := person.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	p, err := s.mutate(ctx, req.PersonID, func(_ context.Context, p *person.Person) error {
		return p.ChangeRole(role)
	})
	if err != nil {
		return nil, err
	}
	return toPersonResponse(p), nil
}

// ============================================================================
// 猫
// ============================================================================

func (s *ApplicationService) AddCat(ctx context.Context, req AddCatRequest) (*CatResponse, error) {
	attrs, err := toCatAttributes(req.CatFields)
	if err != nil {
		return nil, err
	}

	var cat *person.Cat
	_, err = s.mutate(ctx, req.PersonID, func(_ context.Context, p *person.Person) error {
		var err error
		cat, err = p.AddCat(s.calculator, attrs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCatResponse(cat), nil
}

// UpdateCat 重新计算优先级分数，并传播到所属广告
func (s *ApplicationService) UpdateCat(ctx context.Context, req UpdateCatRequest) (*CatResponse, error) {
	attrs, err := toCatAttributes(req.CatFields)
	if err != nil {
		return nil, err
	}

	p, err := s.mutate(ctx, req.PersonID, func(_ context.Context, p *person.Person) error {
		return p.UpdateCat(req.CatID, s.calculator, attrs)
	})
	if err != nil {
		return nil, err
	}
	cat, err := p.Cat(req.CatID)
	if err != nil {
		return nil, err
	}
	return toCatResponse(cat), nil
}

func (s *ApplicationService) RemoveCat(ctx context.Context, personID, catID string) error {
	_, err := s.mutate(ctx, personID, func(_ context.Context, p *person.Person) error {
		return p.RemoveCat(catID)
	})
	return err
}

func (s *ApplicationService) ListCats(ctx context.Context, personID string) ([]*CatResponse, error) {
	p, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	return toCatResponses(p.Cats()), nil
}

// ============================================================================
// 广告
// ============================================================================

// AddAdvertisement 创建日期取当前时间；未给出的取猫地址和联系方式使用人员默认值
func (s *ApplicationService) AddAdvertisement(ctx context.Context, req AddAdvertisementRequest) (*AdvertisementResponse, error) {
	var ad *person.Advertisement
	_, err := s.mutate(ctx, req.PersonID, func(_ context.Context, p *person.Person) error {
		contact := p.DefaultContact()
		base := person.AdvertisementDetails{
			PickupAddress: contact.PickupAddress,
			ContactEmail:  contact.Email,
			ContactPhone:  contact.PhoneNumber,
		}
		details, err := mergeDetails(base, &req.Description, req.PickupAddress, req.ContactEmail, req.ContactPhone)
		if err != nil {
			return err
		}
		ad, err = p.AddAdvertisement(s.clock(), req.CatIDs, details)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAdvertisementResponse(ad), nil
}

// UpdateAdvertisement 只覆盖请求中给出的字段
func (s *ApplicationService) UpdateAdvertisement(ctx context.Context, req UpdateAdvertisementRequest) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, req.PersonID, req.AdvertisementID, func(p *person.Person, ad *person.Advertisement) error {
		base := person.AdvertisementDetails{
			Description:   ad.Description(),
			PickupAddress: ad.PickupAddress(),
			ContactEmail:  ad.ContactEmail(),
			ContactPhone:  ad.ContactPhone(),
		}
		details, err := mergeDetails(base, req.Description, req.PickupAddress, req.ContactEmail, req.ContactPhone)
		if err != nil {
			return err
		}
		return p.UpdateAdvertisement(ad.ID(), details)
	})
}

func (s *ApplicationService) ReplaceAdvertisementCats(ctx context.Context, req ReplaceAdvertisementCatsRequest) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, req.PersonID, req.AdvertisementID, func(p *person.Person, ad *person.Advertisement) error {
		return p.ReplaceCatsOfAdvertisement(ad.ID(), req.CatIDs)
	})
}

// MarkThumbnailUploaded 首次上传缩略图时激活广告，重复调用无副作用
func (s *ApplicationService) MarkThumbnailUploaded(ctx context.Context, personID, advertisementID string) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, personID, advertisementID, func(p *person.Person, ad *person.Advertisement) error {
		return p.ActivateAdvertisementIfThumbnailIsUploadedForTheFirstTime(ad.ID())
	})
}

// CloseAdvertisement 关闭广告，关联的猫全部标记为已领养
func (s *ApplicationService) CloseAdvertisement(ctx context.Context, personID, advertisementID string) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, personID, advertisementID, func(p *person.Person, ad *person.Advertisement) error {
		return p.CloseAdvertisement(ad.ID(), s.clock())
	})
}

func (s *ApplicationService) ExpireAdvertisement(ctx context.Context, personID, advertisementID string) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, personID, advertisementID, func(p *person.Person, ad *person.Advertisement) error {
		return p.ExpireAdvertisement(ad.ID(), s.clock())
	})
}

// RefreshAdvertisement 有效期从当前时间重新计算
func (s *ApplicationService) RefreshAdvertisement(ctx context.Context, personID, advertisementID string) (*AdvertisementResponse, error) {
	return s.mutateAdvertisement(ctx, personID, advertisementID, func(p *person.Person, ad *person.Advertisement) error {
		return p.RefreshAdvertisement(ad.ID(), s.clock())
	})
}

func (s *ApplicationService) RemoveAdvertisement(ctx context.Context, personID, advertisementID string) error {
	_, err := s.mutate(ctx, personID, func(_ context.Context, p *person.Person) error {
		return p.RemoveAdvertisement(advertisementID)
	})
	return err
}

func (s *ApplicationService) GetAdvertisement(ctx context.Context, personID, advertisementID string) (*AdvertisementResponse, error) {
	p, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return nil, err
	}
	return toAdvertisementResponse(ad), nil
}

func (s *ApplicationService) ListAdvertisements(ctx context.Context, personID string) ([]*AdvertisementResponse, error) {
	p, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	return toAdvertisementResponses(p.Advertisements()), nil
}

func (s *ApplicationService) mutateAdvertisement(
	ctx context.Context,
	personID, advertisementID string,
	fn func(p *person.Person, ad *person.Advertisement) error,
) (*AdvertisementResponse, error) {
	p, err := s.mutate(ctx, personID, func(_ context.Context, p *person.Person) error {
		ad, err := p.Advertisement(advertisementID)
		if err != nil {
			return err
		}
		return fn(p, ad)
	})
	if err != nil {
		return nil, err
	}
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return nil, err
	}
	return toAdvertisementResponse(ad), nil
}

// ExpireDueAdvertisements 后台扫描：每个人员一个事务，单个失败只记录日志不影响其他人员
func (s *ApplicationService) ExpireDueAdvertisements(ctx context.Context, batchSize int) (*ExpireDueResult, error) {
	now := s.clock()
	ids, err := s.personRepo.FindIDsWithAdvertisementsDueForExpiry(ctx, now, batchSize)
	if err != nil {
		return nil, err
	}

	result := &ExpireDueResult{PersonsScanned: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		var expired []string
		_, err := s.mutate(ctx, id, func(_ context.Context, p *person.Person) error {
			expired = p.ExpireDueAdvertisements(now)
			return nil
		})
		if err != nil {
			result.Failures++
			logger.FromContext(ctx).Warn("Failed to expire advertisements",
				zap.String("person_id", id),
				zap.Error(err),
			)
			continue
		}
		result.AdvertisementsExpired += len(expired)
	}
	return result, nil
}
