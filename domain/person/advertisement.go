package person

import (
	"sort"
	"time"

	"rehoming/domain/shared"
)

// ExpiringPeriodInDays 广告有效期（天）
const ExpiringPeriodInDays = 30

// ExpiringPeriod 创建或刷新时加到参考时间上的时长
const ExpiringPeriod = ExpiringPeriodInDays * 24 * time.Hour

// Advertisement 聚合内实体：引用同一人员名下的一组猫
// 猫的成员关系以 ID 集合保存，不持有 *Cat 引用
type Advertisement struct {
	id            string
	personID      string
	description   Description
	pickupAddress shared.Address
	contactEmail  shared.Email
	contactPhone  shared.PhoneNumber
	status        AdvertisementStatus
	createdAt     time.Time
	expiresOn     time.Time
	closedOn      *time.Time
	priorityScore float64
	catIDs        map[string]struct{}
}

// AdvertisementDetails 广告的可编辑描述性字段
type AdvertisementDetails struct {
	Description   Description
	PickupAddress shared.Address
	ContactEmail  shared.Email
	ContactPhone  shared.PhoneNumber
}

func (d AdvertisementDetails) validate() error {
	if d.PickupAddress.IsZero() {
		return shared.NewValidationError("advertisement", "pickup_address", "pickup address is required")
	}
	if d.ContactEmail.IsZero() {
		return shared.NewValidationError("advertisement", "contact_email", "contact email is required")
	}
	if d.ContactPhone.IsZero() {
		return shared.NewValidationError("advertisement", "contact_phone_number", "contact phone number is required")
	}
	return nil
}

func (a *Advertisement) applyDetails(d AdvertisementDetails) {
	a.description = d.Description
	a.pickupAddress = d.PickupAddress
	a.contactEmail = d.ContactEmail
	a.contactPhone = d.ContactPhone
}

// ============================================================================
// 状态机
// ============================================================================

func (a *Advertisement) activate() bool {
	if a.status != AdvertisementStatusThumbnailNotUploaded {
		return false
	}
	a.status = AdvertisementStatusActive
	return true
}

func (a *Advertisement) close(closedOn time.Time) error {
	if a.status != AdvertisementStatusActive {
		return NewActiveStatusRequiredError()
	}
	a.status = AdvertisementStatusClosed
	a.closedOn = &closedOn
	return nil
}

func (a *Advertisement) expire() error {
	if a.status != AdvertisementStatusActive {
		return NewActiveStatusRequiredError()
	}
	a.status = AdvertisementStatusExpired
	return nil
}

func (a *Advertisement) refresh(refreshedOn time.Time) error {
	switch a.status {
	case AdvertisementStatusActive, AdvertisementStatusExpired:
	default:
		return NewInvalidRefreshStateError(a.status)
	}
	a.expiresOn = refreshedOn.Add(ExpiringPeriod)
	a.status = AdvertisementStatusActive
	return nil
}

func (a *Advertisement) ID() string                       { return a.id }
func (a *Advertisement) PersonID() string                 { return a.personID }
func (a *Advertisement) Description() Description         { return a.description }
func (a *Advertisement) PickupAddress() shared.Address    { return a.pickupAddress }
func (a *Advertisement) ContactEmail() shared.Email       { return a.contactEmail }
func (a *Advertisement) ContactPhone() shared.PhoneNumber { return a.contactPhone }
func (a *Advertisement) Status() AdvertisementStatus      { return a.status }
func (a *Advertisement) CreatedAt() time.Time             { return a.createdAt }
func (a *Advertisement) ExpiresOn() time.Time             { return a.expiresOn }
func (a *Advertisement) PriorityScore() float64           { return a.priorityScore }
func (a *Advertisement) IsClosed() bool                   { return a.status == AdvertisementStatusClosed }

// ClosedOn 未关闭时返回 nil
func (a *Advertisement) ClosedOn() *time.Time {
	if a.closedOn == nil {
		return nil
	}
	t := *a.closedOn
	return &t
}

// CatIDs 返回排序后的猫 ID 副本
func (a *Advertisement) CatIDs() []string {
	ids := make([]string, 0, len(a.catIDs))
	for id := range a.catIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsDueForExpiry Active 且已到期
func (a *Advertisement) IsDueForExpiry(now time.Time) bool {
	return a.status == AdvertisementStatusActive && !a.expiresOn.After(now)
}

// AdvertisementReconstructionDTO 仅供仓储层使用；CatIDs 由 cats.advertisement_id 推导
type AdvertisementReconstructionDTO struct {
	ID            string
	PersonID      string
	Description   Description
	PickupAddress shared.Address
	ContactEmail  shared.Email
	ContactPhone  shared.PhoneNumber
	Status        AdvertisementStatus
	CreatedAt     time.Time
	ExpiresOn     time.Time
	ClosedOn      *time.Time
	PriorityScore float64
	CatIDs        []string
}

func RebuildAdvertisementFromDTO(dto AdvertisementReconstructionDTO) *Advertisement {
	catIDs := make(map[string]struct{}, len(dto.CatIDs))
	for _, id := range dto.CatIDs {
		catIDs[id] = struct{}{}
	}
	return &Advertisement{
		id:            dto.ID,
		personID:      dto.PersonID,
		description:   dto.Description,
		pickupAddress: dto.PickupAddress,
		contactEmail:  dto.ContactEmail,
		contactPhone:  dto.ContactPhone,
		status:        dto.Status,
		createdAt:     dto.CreatedAt,
		expiresOn:     dto.ExpiresOn,
		closedOn:      dto.ClosedOn,
		priorityScore: dto.PriorityScore,
		catIDs:        catIDs,
	}
}
