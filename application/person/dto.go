package person

import "time"

// AddressDTO 地址的入参和返回模型
type AddressDTO struct {
	Country string `json:"country" binding:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code" binding:"required"`
	City    string `json:"city" binding:"required"`
	Line    string `json:"line" binding:"required"`
}

// ContactDTO 发布广告时使用的默认联系方式
type ContactDTO struct {
	PickupAddress AddressDTO `json:"pickup_address" binding:"required"`
	Email         string     `json:"email" binding:"required"`
	PhoneNumber   string     `json:"phone_number" binding:"required"`
}

// RegisterPersonRequest 注册入参；role 为空时为 Regular
type RegisterPersonRequest struct {
	Nickname         string      `json:"nickname" binding:"required"`
	Email            string      `json:"email" binding:"required"`
	PhoneNumber      string      `json:"phone_number" binding:"required"`
	Role             string      `json:"role"`
	ResidencyAddress AddressDTO  `json:"residency_address" binding:"required"`
	DefaultContact   *ContactDTO `json:"default_contact"`
}

// UpdatePersonProfileRequest DefaultContact 为空时退回居住地址和本人联系方式
type UpdatePersonProfileRequest struct {
	PersonID         string      `json:"-"`
	Nickname         string      `json:"nickname" binding:"required"`
	Email            string      `json:"email" binding:"required"`
	PhoneNumber      string      `json:"phone_number" binding:"required"`
	ResidencyAddress AddressDTO  `json:"residency_address" binding:"required"`
	DefaultContact   *ContactDTO `json:"default_contact"`
}

// ListPersonsRequest role 为空时列出全部人员
type ListPersonsRequest struct {
	Role string `form:"role"`
}

type ChangeRoleRequest struct {
	PersonID string `json:"-"`
	Role     string `json:"role" binding:"required"`
}

// CatFields 新增和修改猫共用的字段
type CatFields struct {
	Name                   string `json:"name" binding:"required"`
	AgeCategory            string `json:"age_category" binding:"required"`
	Behavior               string `json:"behavior" binding:"required"`
	HealthStatus           string `json:"health_status" binding:"required"`
	MedicalHelpUrgency     string `json:"medical_help_urgency" binding:"required"`
	IsCastrated            bool   `json:"is_castrated"`
	AdditionalRequirements string `json:"additional_requirements"`
}

type AddCatRequest struct {
	PersonID string `json:"-"`
	CatFields
}

type UpdateCatRequest struct {
	PersonID string `json:"-"`
	CatID    string `json:"-"`
	CatFields
}

// AddAdvertisementRequest 取猫地址和联系方式省略时使用人员的默认联系方式
type AddAdvertisementRequest struct {
	PersonID      string      `json:"-"`
	CatIDs        []string    `json:"cat_ids" binding:"required,min=1"`
	Description   string      `json:"description"`
	PickupAddress *AddressDTO `json:"pickup_address"`
	ContactEmail  string      `json:"contact_email"`
	ContactPhone  string      `json:"contact_phone"`
}

// UpdateAdvertisementRequest 省略的字段保持原值
type UpdateAdvertisementRequest struct {
	PersonID        string      `json:"-"`
	AdvertisementID string      `json:"-"`
	Description     *string     `json:"description"`
	PickupAddress   *AddressDTO `json:"pickup_address"`
	ContactEmail    string      `json:"contact_email"`
	ContactPhone    string      `json:"contact_phone"`
}

type ReplaceAdvertisementCatsRequest struct {
	PersonID        string   `json:"-"`
	AdvertisementID string   `json:"-"`
	CatIDs          []string `json:"cat_ids" binding:"required,min=1"`
}

// PersonResponse 人员返回模型，包含猫和广告
type PersonResponse struct {
	ID               string                   `json:"id"`
	Nickname         string                   `json:"nickname"`
	Email            string                   `json:"email"`
	PhoneNumber      string                   `json:"phone_number"`
	Role             string                   `json:"role"`
	ResidencyAddress AddressDTO               `json:"residency_address"`
	DefaultContact   ContactDTO               `json:"default_contact"`
	Cats             []*CatResponse           `json:"cats"`
	Advertisements   []*AdvertisementResponse `json:"advertisements"`
	Version          int                      `json:"version"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type CatResponse struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	AgeCategory            string  `json:"age_category"`
	Behavior               string  `json:"behavior"`
	HealthStatus           string  `json:"health_status"`
	MedicalHelpUrgency     string  `json:"medical_help_urgency"`
	IsCastrated            bool    `json:"is_castrated"`
	AdditionalRequirements string  `json:"additional_requirements"`
	AdvertisementID        string  `json:"advertisement_id,omitempty"`
	IsAdopted              bool    `json:"is_adopted"`
	PriorityScore          float64 `json:"priority_score"`
}

type AdvertisementResponse struct {
	ID            string     `json:"id"`
	PersonID      string     `json:"person_id"`
	Description   string     `json:"description"`
	PickupAddress AddressDTO `json:"pickup_address"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	Status        string     `json:"status"`
	CatIDs        []string   `json:"cat_ids"`
	PriorityScore float64    `json:"priority_score"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresOn     time.Time  `json:"expires_on"`
	ClosedOn      *time.Time `json:"closed_on,omitempty"`
}

// ExpireDueResult 一轮过期扫描的统计
type ExpireDueResult struct {
	PersonsScanned        int `json:"persons_scanned"`
	AdvertisementsExpired int `json:"advertisements_expired"`
	Failures              int `json:"failures"`
}
