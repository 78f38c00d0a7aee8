package person

import (
	"strings"

	"rehoming/domain/shared"
)

// ============================================================================
// 封闭枚举 - 持久化为字符串，代码中作为类型使用
// ParseXxx 在边界处拒绝未知取值，String() 返回持久化格式
// ============================================================================

// AgeCategory 猫的年龄段
type AgeCategory string

const (
	AgeCategoryBaby      AgeCategory = "Baby"
	AgeCategoryYoungster AgeCategory = "Youngster"
	AgeCategoryAdult     AgeCategory = "Adult"
	AgeCategorySenior    AgeCategory = "Senior"
)

var ageCategories = []AgeCategory{AgeCategoryBaby, AgeCategoryYoungster, AgeCategoryAdult, AgeCategorySenior}

func ParseAgeCategory(s string) (AgeCategory, error) {
	return parseEnum(s, ageCategories, "age_category")
}

func (a AgeCategory) String() string { return string(a) }
func (a AgeCategory) IsValid() bool  { return contains(ageCategories, a) }

// Behavior 猫的性格
type Behavior string

const (
	BehaviorFriendly   Behavior = "Friendly"
	BehaviorUnfriendly Behavior = "Unfriendly"
)

var behaviors = []Behavior{BehaviorFriendly, BehaviorUnfriendly}

func ParseBehavior(s string) (Behavior, error) {
	return parseEnum(s, behaviors, "behavior")
}

func (b Behavior) String() string { return string(b) }
func (b Behavior) IsValid() bool  { return contains(behaviors, b) }

// HealthStatus 健康状况
type HealthStatus string

const (
	HealthStatusGood           HealthStatus = "Good"
	HealthStatusUnknown        HealthStatus = "Unknown"
	HealthStatusChronicMinor   HealthStatus = "ChronicMinor"
	HealthStatusChronicSerious HealthStatus = "ChronicSerious"
	HealthStatusTerminal       HealthStatus = "Terminal"
)

var healthStatuses = []HealthStatus{
	HealthStatusGood,
	HealthStatusUnknown,
	HealthStatusChronicMinor,
	HealthStatusChronicSerious,
	HealthStatusTerminal,
}

func ParseHealthStatus(s string) (HealthStatus, error) {
	return parseEnum(s, healthStatuses, "health_status")
}

func (h HealthStatus) String() string { return string(h) }
func (h HealthStatus) IsValid() bool  { return contains(healthStatuses, h) }

// MedicalHelpUrgency 就医紧迫程度
type MedicalHelpUrgency string

const (
	MedicalHelpUrgencyNoNeed       MedicalHelpUrgency = "NoNeed"
	MedicalHelpUrgencyShouldSeeVet MedicalHelpUrgency = "ShouldSeeVet"
	MedicalHelpUrgencyHaveToSeeVet MedicalHelpUrgency = "HaveToSeeVet"
)

var medicalHelpUrgencies = []MedicalHelpUrgency{
	MedicalHelpUrgencyNoNeed,
	MedicalHelpUrgencyShouldSeeVet,
	MedicalHelpUrgencyHaveToSeeVet,
}

func ParseMedicalHelpUrgency(s string) (MedicalHelpUrgency, error) {
	return parseEnum(s, medicalHelpUrgencies, "medical_help_urgency")
}

func (m MedicalHelpUrgency) String() string { return string(m) }
func (m MedicalHelpUrgency) IsValid() bool  { return contains(medicalHelpUrgencies, m) }

// Role 用户角色
type Role string

const (
	RoleRegular       Role = "Regular"
	RoleShelter       Role = "Shelter"
	RoleAdministrator Role = "Administrator"
)

var roles = []Role{RoleRegular, RoleShelter, RoleAdministrator}

func ParseRole(s string) (Role, error) {
	return parseEnum(s, roles, "role")
}

func (r Role) String() string { return string(r) }
func (r Role) IsValid() bool  { return contains(roles, r) }

// AdvertisementStatus 广告状态
//
//	ThumbnailNotUploaded -> Active -> Closed (终态)
//	                               -> Expired -> Active (刷新)
type AdvertisementStatus string

const (
	AdvertisementStatusThumbnailNotUploaded AdvertisementStatus = "ThumbnailNotUploaded"
	AdvertisementStatusActive               AdvertisementStatus = "Active"
	AdvertisementStatusClosed               AdvertisementStatus = "Closed"
	AdvertisementStatusExpired              AdvertisementStatus = "Expired"
)

var advertisementStatuses = []AdvertisementStatus{
	AdvertisementStatusThumbnailNotUploaded,
	AdvertisementStatusActive,
	AdvertisementStatusClosed,
	AdvertisementStatusExpired,
}

func ParseAdvertisementStatus(s string) (AdvertisementStatus, error) {
	return parseEnum(s, advertisementStatuses, "status")
}

func (s AdvertisementStatus) String() string { return string(s) }
func (s AdvertisementStatus) IsValid() bool  { return contains(advertisementStatuses, s) }

func parseEnum[T ~string](s string, values []T, field string) (T, error) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	var zero T
	return zero, shared.NewValidationError("person", field, "unknown "+field+" value: "+s)
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
