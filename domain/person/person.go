/*
Package person 人员聚合 - 领域层核心

Person 是一致性边界：它拥有自己名下的猫(Cat)和领养广告(Advertisement)，
并且是修改这两类实体的唯一入口。聚合负责的不变量：

  - 一只猫同一时刻最多属于一个广告，且该广告属于同一人员
  - 广告至少引用一只猫，分数等于其当前成员猫分数的最大值
  - 广告状态只能按状态机迁移
  - 已分配给广告的猫不能删除

每个方法先完成全部校验再修改状态，失败时聚合保持调用前的状态。
*/
package person

import (
	"fmt"
	"slices"
	"time"

	"rehoming/domain/shared"

	"github.com/google/uuid"
)

// Person 人员聚合根
type Person struct {
	id               string
	nickname         Nickname
	email            shared.Email
	phoneNumber      shared.PhoneNumber
	role             Role
	residencyAddress shared.Address
	defaultContact   ContactInfo

	// arena: 按 ID 索引，order 切片保证列表顺序稳定
	cats           map[string]*Cat
	catOrder       []string
	advertisements map[string]*Advertisement
	adOrder        []string

	version   int
	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent

	// dirty tracking，仓储据此删除子表行
	removedCatIDs []string
	removedAdIDs  []string
	isNew         bool
}

// ContactInfo 发布广告时默认使用的取猫地址和联系方式
type ContactInfo struct {
	PickupAddress shared.Address
	Email         shared.Email
	PhoneNumber   shared.PhoneNumber
}

// Profile 注册和资料更新共用的字段
type Profile struct {
	Nickname         Nickname
	Email            shared.Email
	PhoneNumber      shared.PhoneNumber
	ResidencyAddress shared.Address
	// DefaultContact 为空时退回到居住地址、邮箱和电话
	DefaultContact *ContactInfo
}

func (p Profile) validate() error {
	if p.Nickname.Value() == "" {
		return shared.NewValidationError("person", "nickname", "nickname is required")
	}
	if p.Email.IsZero() {
		return shared.NewValidationError("person", "email", "email is required")
	}
	if p.PhoneNumber.IsZero() {
		return shared.NewValidationError("person", "phone_number", "phone number is required")
	}
	if p.ResidencyAddress.IsZero() {
		return shared.NewValidationError("person", "residency_address", "residency address is required")
	}
	if p.DefaultContact != nil {
		if p.DefaultContact.PickupAddress.IsZero() || p.DefaultContact.Email.IsZero() || p.DefaultContact.PhoneNumber.IsZero() {
			return shared.NewValidationError("person", "default_contact", "default contact must be complete")
		}
	}
	return nil
}

func (p Profile) contact() ContactInfo {
	if p.DefaultContact != nil {
		return *p.DefaultContact
	}
	return ContactInfo{
		PickupAddress: p.ResidencyAddress,
		Email:         p.Email,
		PhoneNumber:   p.PhoneNumber,
	}
}

// ============================================================================
// 工厂方法
// ============================================================================

// NewPerson 注册新人员；昵称/邮箱/电话的全局唯一性由 DomainService 在外部保证
func NewPerson(profile Profile, role Role) (*Person, error) {
	if err := profile.validate(); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, newEnumError("role", role.String())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate person ID: %w", err)
	}

	now := time.Now().UTC()
	p := &Person{
		id:               id.String(),
		nickname:         profile.Nickname,
		email:            profile.Email,
		phoneNumber:      profile.PhoneNumber,
		role:             role,
		residencyAddress: profile.ResidencyAddress,
		defaultContact:   profile.contact(),
		cats:             make(map[string]*Cat),
		advertisements:   make(map[string]*Advertisement),
		createdAt:        now,
		updatedAt:        now,
		isNew:            true,
	}

	p.record(&PersonRegisteredEvent{
		eventBase: newEventBase(p.id, now),
		nickname:  p.nickname.Value(),
		email:     p.email.Value(),
		role:      role,
	})
	return p, nil
}

// UpdateProfile 替换资料和默认联系方式，不影响已发布的广告
func (p *Person) UpdateProfile(profile Profile) error {
	if err := profile.validate(); err != nil {
		return err
	}

	p.nickname = profile.Nickname
	p.email = profile.Email
	p.phoneNumber = profile.PhoneNumber
	p.residencyAddress = profile.ResidencyAddress
	p.defaultContact = profile.contact()
	p.touch()

	p.record(&PersonProfileUpdatedEvent{eventBase: newEventBase(p.id, p.updatedAt)})
	return nil
}

// ChangeRole 管理员调整角色
func (p *Person) ChangeRole(role Role) error {
	if !role.IsValid() {
		return newEnumError("role", role.String())
	}
	if p.role == role {
		return nil
	}
	p.role = role
	p.touch()
	p.record(&PersonProfileUpdatedEvent{eventBase: newEventBase(p.id, p.updatedAt)})
	return nil
}

// ============================================================================
// 猫管理
// ============================================================================

// AddCat 创建猫并立即计算优先级分数
func (p *Person) AddCat(calculator PriorityScoreCalculator, attrs CatAttributes) (*Cat, error) {
	if calculator == nil {
		return nil, NewMissingCalculatorError()
	}
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cat ID: %w", err)
	}

	cat := &Cat{id: id.String(), personID: p.id}
	cat.apply(attrs)
	cat.priorityScore = calculator.Calculate(cat)

	p.cats[cat.id] = cat
	p.catOrder = append(p.catOrder, cat.id)
	p.touch()

	p.record(&CatAddedEvent{
		eventBase:     newEventBase(p.id, p.updatedAt),
		catID:         cat.id,
		name:          cat.name.Value(),
		priorityScore: cat.priorityScore,
	})
	return cat, nil
}

// UpdateCat 修改猫的属性并重新计算分数；若猫已分配，广告分数同步更新
func (p *Person) UpdateCat(catID string, calculator PriorityScoreCalculator, attrs CatAttributes) error {
	if calculator == nil {
		return NewMissingCalculatorError()
	}
	if err := attrs.validate(); err != nil {
		return err
	}
	cat, err := p.Cat(catID)
	if err != nil {
		return err
	}

	// 在副本上计算，计算器看到的是更新后的属性
	updated := *cat
	updated.apply(attrs)
	updated.priorityScore = calculator.Calculate(&updated)
	*cat = updated
	p.touch()

	p.record(&CatUpdatedEvent{
		eventBase:     newEventBase(p.id, p.updatedAt),
		catID:         cat.id,
		priorityScore: cat.priorityScore,
	})

	if cat.advertisementID != "" {
		if ad, ok := p.advertisements[cat.advertisementID]; ok {
			p.recomputeScore(ad)
		}
	}
	return nil
}

// RemoveCat 删除未分配的猫
func (p *Person) RemoveCat(catID string) error {
	cat, err := p.Cat(catID)
	if err != nil {
		return err
	}
	if cat.advertisementID != "" {
		return NewCatAssignedError(cat.id, cat.advertisementID)
	}

	delete(p.cats, cat.id)
	p.catOrder = removeID(p.catOrder, cat.id)
	if !p.isNew {
		p.removedCatIDs = append(p.removedCatIDs, cat.id)
	}
	p.touch()

	p.record(&CatRemovedEvent{eventBase: newEventBase(p.id, p.updatedAt), catID: cat.id})
	return nil
}

// HighestPriorityScoreFromGivenCats 给定猫中的最高分；任何 ID 不属于本人员都视为参数错误
func (p *Person) HighestPriorityScoreFromGivenCats(catIDs []string) (float64, error) {
	if len(catIDs) == 0 {
		return 0, shared.NewValidationError("cat", "cat_ids", "at least one cat id is required")
	}

	var highest float64
	for i, id := range catIDs {
		if id == "" {
			return 0, NewEmptyIdentityError("cat_id")
		}
		cat, ok := p.cats[id]
		if !ok {
			return 0, NewCatNotOwnedError(id, p.id)
		}
		if i == 0 || cat.priorityScore > highest {
			highest = cat.priorityScore
		}
	}
	return highest, nil
}

// ============================================================================
// 广告生命周期
// ============================================================================

// AddAdvertisement 创建广告并原子地分配给定的猫
func (p *Person) AddAdvertisement(dateOfCreation time.Time, catIDs []string, details AdvertisementDetails) (*Advertisement, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}
	cats, err := p.resolveCatsForAssignment("", catIDs)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate advertisement ID: %w", err)
	}

	ad := &Advertisement{
		id:        id.String(),
		personID:  p.id,
		status:    AdvertisementStatusThumbnailNotUploaded,
		createdAt: dateOfCreation,
		expiresOn: dateOfCreation.Add(ExpiringPeriod),
		catIDs:    make(map[string]struct{}, len(cats)),
	}
	ad.applyDetails(details)
	for _, cat := range cats {
		ad.catIDs[cat.id] = struct{}{}
		cat.advertisementID = ad.id
	}
	ad.priorityScore = p.maxScore(ad)

	p.advertisements[ad.id] = ad
	p.adOrder = append(p.adOrder, ad.id)
	p.touch()

	p.record(&AdvertisementCreatedEvent{
		eventBase:       newEventBase(p.id, dateOfCreation),
		advertisementID: ad.id,
		catIDs:          ad.CatIDs(),
		priorityScore:   ad.priorityScore,
		expiresOn:       ad.expiresOn,
	})
	return ad, nil
}

// UpdateAdvertisement 只替换描述性字段，状态、猫和分数不变
func (p *Person) UpdateAdvertisement(advertisementID string, details AdvertisementDetails) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if ad.IsClosed() {
		return NewAdvertisementClosedError(ad.id)
	}
	if err := details.validate(); err != nil {
		return err
	}

	ad.applyDetails(details)
	p.touch()

	p.record(&AdvertisementUpdatedEvent{eventBase: newEventBase(p.id, p.updatedAt), advertisementID: ad.id})
	return nil
}

// ReplaceCatsOfAdvertisement 用新集合替换广告的猫
// 先校验完整的新集合，再释放移出的猫，最后分配新加入的猫
func (p *Person) ReplaceCatsOfAdvertisement(advertisementID string, newCatIDs []string) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if ad.IsClosed() {
		return NewAdvertisementClosedError(ad.id)
	}
	cats, err := p.resolveCatsForAssignment(ad.id, newCatIDs)
	if err != nil {
		return err
	}

	next := make(map[string]struct{}, len(cats))
	for _, cat := range cats {
		next[cat.id] = struct{}{}
	}
	for id := range ad.catIDs {
		if _, keep := next[id]; !keep {
			if cat, ok := p.cats[id]; ok {
				cat.advertisementID = ""
			}
		}
	}
	for _, cat := range cats {
		cat.advertisementID = ad.id
	}
	ad.catIDs = next
	ad.priorityScore = p.maxScore(ad)
	p.touch()

	p.record(&AdvertisementCatsReplacedEvent{
		eventBase:       newEventBase(p.id, p.updatedAt),
		advertisementID: ad.id,
		catIDs:          ad.CatIDs(),
		priorityScore:   ad.priorityScore,
	})
	return nil
}

// ActivateAdvertisementIfThumbnailIsUploadedForTheFirstTime 首次上传缩略图后激活广告
// 已经越过 ThumbnailNotUploaded 时什么都不做
func (p *Person) ActivateAdvertisementIfThumbnailIsUploadedForTheFirstTime(advertisementID string) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if !ad.activate() {
		return nil
	}
	p.touch()

	p.record(&AdvertisementActivatedEvent{eventBase: newEventBase(p.id, p.updatedAt), advertisementID: ad.id})
	return nil
}

// CloseAdvertisement 关闭即领养成功：所有成员猫标记为已领养
func (p *Person) CloseAdvertisement(advertisementID string, closedOn time.Time) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if err := ad.close(closedOn); err != nil {
		return err
	}

	adopted := ad.CatIDs()
	for _, id := range adopted {
		if cat, ok := p.cats[id]; ok {
			cat.isAdopted = true
		}
	}
	p.touch()

	p.record(&AdvertisementClosedEvent{
		eventBase:       newEventBase(p.id, closedOn),
		advertisementID: ad.id,
		adoptedCatIDs:   adopted,
	})
	return nil
}

// ExpireAdvertisement 要求 Active，不影响猫的领养状态
func (p *Person) ExpireAdvertisement(advertisementID string, expiredOn time.Time) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if err := ad.expire(); err != nil {
		return err
	}
	p.touch()

	p.record(&AdvertisementExpiredEvent{eventBase: newEventBase(p.id, expiredOn), advertisementID: ad.id})
	return nil
}

// RefreshAdvertisement 延长有效期；Expired 的广告回到 Active
func (p *Person) RefreshAdvertisement(advertisementID string, refreshedOn time.Time) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}
	if err := ad.refresh(refreshedOn); err != nil {
		return err
	}
	p.touch()

	p.record(&AdvertisementRefreshedEvent{
		eventBase:       newEventBase(p.id, refreshedOn),
		advertisementID: ad.id,
		expiresOn:       ad.expiresOn,
	})
	return nil
}

// RemoveAdvertisement 释放所有成员猫后删除广告
func (p *Person) RemoveAdvertisement(advertisementID string) error {
	ad, err := p.Advertisement(advertisementID)
	if err != nil {
		return err
	}

	released := ad.CatIDs()
	for _, id := range released {
		if cat, ok := p.cats[id]; ok && cat.advertisementID == ad.id {
			cat.advertisementID = ""
		}
	}

	delete(p.advertisements, ad.id)
	p.adOrder = removeID(p.adOrder, ad.id)
	if !p.isNew {
		p.removedAdIDs = append(p.removedAdIDs, ad.id)
	}
	p.touch()

	p.record(&AdvertisementRemovedEvent{
		eventBase:       newEventBase(p.id, p.updatedAt),
		advertisementID: ad.id,
		releasedCatIDs:  released,
	})
	return nil
}

// ExpireDueAdvertisements 让所有到期的 Active 广告过期，返回被过期的广告 ID
func (p *Person) ExpireDueAdvertisements(now time.Time) []string {
	var expired []string
	for _, id := range p.adOrder {
		ad := p.advertisements[id]
		if !ad.IsDueForExpiry(now) {
			continue
		}
		if err := p.ExpireAdvertisement(id, now); err == nil {
			expired = append(expired, id)
		}
	}
	return expired
}

// ============================================================================
// 内部辅助
// ============================================================================

// resolveCatsForAssignment 校验待分配的猫：非空、属于本人员、未分配给其他广告
// ownerAdID 为当前广告 ID（新建时为空），已属于它的猫视为合法
func (p *Person) resolveCatsForAssignment(ownerAdID string, catIDs []string) ([]*Cat, error) {
	if len(catIDs) == 0 {
		return nil, NewEmptyCatSetError()
	}

	seen := make(map[string]struct{}, len(catIDs))
	cats := make([]*Cat, 0, len(catIDs))
	for _, id := range catIDs {
		if id == "" {
			return nil, NewEmptyIdentityError("cat_id")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		cat, ok := p.cats[id]
		if !ok {
			return nil, NewCatNotOwnedError(id, p.id)
		}
		if cat.advertisementID != "" && cat.advertisementID != ownerAdID {
			return nil, NewCatAlreadyAssignedError(cat.id, cat.advertisementID)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func (p *Person) maxScore(ad *Advertisement) float64 {
	var highest float64
	first := true
	for id := range ad.catIDs {
		cat, ok := p.cats[id]
		if !ok {
			continue
		}
		if first || cat.priorityScore > highest {
			highest = cat.priorityScore
			first = false
		}
	}
	return highest
}

func (p *Person) recomputeScore(ad *Advertisement) {
	old := ad.priorityScore
	ad.priorityScore = p.maxScore(ad)
	if old != ad.priorityScore {
		p.record(&AdvertisementPriorityChangedEvent{
			eventBase:       newEventBase(p.id, p.updatedAt),
			advertisementID: ad.id,
			oldScore:        old,
			newScore:        ad.priorityScore,
		})
	}
}

func (p *Person) record(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

func (p *Person) touch() {
	p.updatedAt = time.Now().UTC()
}

func removeID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// ============================================================================
// 查询
// ============================================================================

// Cat 按 ID 查找本人员的猫
func (p *Person) Cat(catID string) (*Cat, error) {
	if catID == "" {
		return nil, NewEmptyIdentityError("cat_id")
	}
	cat, ok := p.cats[catID]
	if !ok {
		return nil, NewCatNotFoundError(catID)
	}
	return cat, nil
}

// Advertisement 按 ID 查找本人员的广告
func (p *Person) Advertisement(advertisementID string) (*Advertisement, error) {
	if advertisementID == "" {
		return nil, NewEmptyIdentityError("advertisement_id")
	}
	ad, ok := p.advertisements[advertisementID]
	if !ok {
		return nil, NewAdvertisementNotFoundError(advertisementID)
	}
	return ad, nil
}

// Cats 按添加顺序返回
func (p *Person) Cats() []*Cat {
	cats := make([]*Cat, 0, len(p.catOrder))
	for _, id := range p.catOrder {
		cats = append(cats, p.cats[id])
	}
	return cats
}

// Advertisements 按创建顺序返回
func (p *Person) Advertisements() []*Advertisement {
	ads := make([]*Advertisement, 0, len(p.adOrder))
	for _, id := range p.adOrder {
		ads = append(ads, p.advertisements[id])
	}
	return ads
}

func (p *Person) ID() string                       { return p.id }
func (p *Person) Nickname() Nickname               { return p.nickname }
func (p *Person) Email() shared.Email              { return p.email }
func (p *Person) PhoneNumber() shared.PhoneNumber  { return p.phoneNumber }
func (p *Person) Role() Role                       { return p.role }
func (p *Person) ResidencyAddress() shared.Address { return p.residencyAddress }
func (p *Person) DefaultContact() ContactInfo      { return p.defaultContact }
func (p *Person) Version() int                     { return p.version }
func (p *Person) CreatedAt() time.Time             { return p.createdAt }
func (p *Person) UpdatedAt() time.Time             { return p.updatedAt }

// PullEvents 取出并清空事件
func (p *Person) PullEvents() []shared.DomainEvent {
	events := p.events
	p.events = nil
	return events
}

// ============================================================================
// 仓储层专用
// ============================================================================

// ReconstructionDTO 仅供仓储层从数据库重建聚合
type ReconstructionDTO struct {
	ID               string
	Nickname         Nickname
	Email            shared.Email
	PhoneNumber      shared.PhoneNumber
	Role             Role
	ResidencyAddress shared.Address
	DefaultContact   ContactInfo
	Cats             []*Cat
	Advertisements   []*Advertisement
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Person {
	p := &Person{
		id:               dto.ID,
		nickname:         dto.Nickname,
		email:            dto.Email,
		phoneNumber:      dto.PhoneNumber,
		role:             dto.Role,
		residencyAddress: dto.ResidencyAddress,
		defaultContact:   dto.DefaultContact,
		cats:             make(map[string]*Cat, len(dto.Cats)),
		advertisements:   make(map[string]*Advertisement, len(dto.Advertisements)),
		version:          dto.Version,
		createdAt:        dto.CreatedAt,
		updatedAt:        dto.UpdatedAt,
	}
	for _, cat := range dto.Cats {
		p.cats[cat.id] = cat
		p.catOrder = append(p.catOrder, cat.id)
	}
	for _, ad := range dto.Advertisements {
		p.advertisements[ad.id] = ad
		p.adOrder = append(p.adOrder, ad.id)
	}
	return p
}

// IsNew 新建（尚未持久化）的聚合
func (p *Person) IsNew() bool { return p.isNew }

// RemovedCatIDs 加载后被删除的猫
func (p *Person) RemovedCatIDs() []string { return slices.Clone(p.removedCatIDs) }

// RemovedAdvertisementIDs 加载后被删除的广告
func (p *Person) RemovedAdvertisementIDs() []string { return slices.Clone(p.removedAdIDs) }

// IncrementVersionForSave 持久化成功后由仓储调用
func (p *Person) IncrementVersionForSave() {
	p.version++
}

// ClearDirtyTracking 持久化成功后清空跟踪状态
func (p *Person) ClearDirtyTracking() {
	p.isNew = false
	p.removedCatIDs = nil
	p.removedAdIDs = nil
}

var _ shared.AggregateRoot = (*Person)(nil)
