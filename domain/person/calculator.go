package person

// PriorityScoreCalculator 优先级计算策略：猫属性的纯函数，不做 I/O
type PriorityScoreCalculator interface {
	Calculate(cat *Cat) float64
}

// CalculatorFunc 让普通函数满足 PriorityScoreCalculator
type CalculatorFunc func(cat *Cat) float64

func (f CalculatorFunc) Calculate(cat *Cat) float64 { return f(cat) }

// PriorityWeights 各维度的权重，分值表固定，权重来自配置
type PriorityWeights struct {
	Urgency           float64
	Age               float64
	Behavior          float64
	Health            float64
	NotCastratedBonus float64
}

func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		Urgency:           3,
		Age:               1.5,
		Behavior:          1,
		Health:            2,
		NotCastratedBonus: 5,
	}
}

var (
	urgencyPoints = map[MedicalHelpUrgency]float64{
		MedicalHelpUrgencyNoNeed:       0,
		MedicalHelpUrgencyShouldSeeVet: 5,
		MedicalHelpUrgencyHaveToSeeVet: 10,
	}
	agePoints = map[AgeCategory]float64{
		AgeCategoryBaby:      2,
		AgeCategoryYoungster: 1,
		AgeCategoryAdult:     3,
		AgeCategorySenior:    6,
	}
	behaviorPoints = map[Behavior]float64{
		BehaviorFriendly:   1,
		BehaviorUnfriendly: 4,
	}
	healthPoints = map[HealthStatus]float64{
		HealthStatusGood:           0,
		HealthStatusUnknown:        2,
		HealthStatusChronicMinor:   4,
		HealthStatusChronicSerious: 7,
		HealthStatusTerminal:       10,
	}
)

// DefaultPriorityScoreCalculator 加权求和：越难被领养、越需要就医的猫排得越靠前
type DefaultPriorityScoreCalculator struct {
	weights PriorityWeights
}

func NewDefaultPriorityScoreCalculator(weights PriorityWeights) *DefaultPriorityScoreCalculator {
	return &DefaultPriorityScoreCalculator{weights: weights}
}

func (c *DefaultPriorityScoreCalculator) Calculate(cat *Cat) float64 {
	if cat == nil {
		return 0
	}

	score := c.weights.Urgency*urgencyPoints[cat.MedicalHelpUrgency()] +
		c.weights.Age*agePoints[cat.AgeCategory()] +
		c.weights.Behavior*behaviorPoints[cat.Behavior()] +
		c.weights.Health*healthPoints[cat.HealthStatus()]
	if !cat.IsCastrated() {
		score += c.weights.NotCastratedBonus
	}

	// 配置里的负权重不应让分数变成负数
	if score < 0 {
		return 0
	}
	return score
}

var _ PriorityScoreCalculator = (*DefaultPriorityScoreCalculator)(nil)
