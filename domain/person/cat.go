package person

// Cat 聚合内实体：只能通过 Person 的方法创建和修改
type Cat struct {
	id                     string
	personID               string
	name                   CatName
	ageCategory            AgeCategory
	behavior               Behavior
	healthStatus           HealthStatus
	medicalHelpUrgency     MedicalHelpUrgency
	isCastrated            bool
	additionalRequirements Description
	advertisementID        string // 空字符串表示未分配
	isAdopted              bool
	priorityScore          float64
}

// CatAttributes 猫的可变分类属性，AddCat/UpdateCat 共用
type CatAttributes struct {
	Name                   CatName
	AgeCategory            AgeCategory
	Behavior               Behavior
	HealthStatus           HealthStatus
	MedicalHelpUrgency     MedicalHelpUrgency
	IsCastrated            bool
	AdditionalRequirements Description
}

func (a CatAttributes) validate() error {
	if a.Name.Value() == "" {
		return NewCatNameRequiredError()
	}
	if !a.AgeCategory.IsValid() {
		return newEnumError("age_category", a.AgeCategory.String())
	}
	if !a.Behavior.IsValid() {
		return newEnumError("behavior", a.Behavior.String())
	}
	if !a.HealthStatus.IsValid() {
		return newEnumError("health_status", a.HealthStatus.String())
	}
	if !a.MedicalHelpUrgency.IsValid() {
		return newEnumError("medical_help_urgency", a.MedicalHelpUrgency.String())
	}
	return nil
}

func (c *Cat) apply(attrs CatAttributes) {
	c.name = attrs.Name
	c.ageCategory = attrs.AgeCategory
	c.behavior = attrs.Behavior
	c.healthStatus = attrs.HealthStatus
	c.medicalHelpUrgency = attrs.MedicalHelpUrgency
	c.isCastrated = attrs.IsCastrated
	c.additionalRequirements = attrs.AdditionalRequirements
}

func (c *Cat) ID() string                             { return c.id }
func (c *Cat) PersonID() string                       { return c.personID }
func (c *Cat) Name() CatName                          { return c.name }
func (c *Cat) AgeCategory() AgeCategory               { return c.ageCategory }
func (c *Cat) Behavior() Behavior                     { return c.behavior }
func (c *Cat) HealthStatus() HealthStatus             { return c.healthStatus }
func (c *Cat) MedicalHelpUrgency() MedicalHelpUrgency { return c.medicalHelpUrgency }
func (c *Cat) IsCastrated() bool                      { return c.isCastrated }
func (c *Cat) AdditionalRequirements() Description    { return c.additionalRequirements }
func (c *Cat) AdvertisementID() string                { return c.advertisementID }
func (c *Cat) IsAssigned() bool                       { return c.advertisementID != "" }
func (c *Cat) IsAdopted() bool                        { return c.isAdopted }
func (c *Cat) PriorityScore() float64                 { return c.priorityScore }

// CatReconstructionDTO 仅供仓储层从数据库重建
type CatReconstructionDTO struct {
	ID                     string
	PersonID               string
	Name                   CatName
	AgeCategory            AgeCategory
	Behavior               Behavior
	HealthStatus           HealthStatus
	MedicalHelpUrgency     MedicalHelpUrgency
	IsCastrated            bool
	AdditionalRequirements Description
	AdvertisementID        string
	IsAdopted              bool
	PriorityScore          float64
}

func RebuildCatFromDTO(dto CatReconstructionDTO) *Cat {
	return &Cat{
		id:                     dto.ID,
		personID:               dto.PersonID,
		name:                   dto.Name,
		ageCategory:            dto.AgeCategory,
		behavior:               dto.Behavior,
		healthStatus:           dto.HealthStatus,
		medicalHelpUrgency:     dto.MedicalHelpUrgency,
		isCastrated:            dto.IsCastrated,
		additionalRequirements: dto.AdditionalRequirements,
		advertisementID:        dto.AdvertisementID,
		isAdopted:              dto.IsAdopted,
		priorityScore:          dto.PriorityScore,
	}
}
