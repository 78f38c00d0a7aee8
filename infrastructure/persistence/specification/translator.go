package specification

import (
	"fmt"

	"rehoming/domain/person"
	"rehoming/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Translator converts domain specifications to GORM queries
// Infrastructure layer handles framework-specific concerns
type Translator interface {
	// Translate returns a scope usable with db.Scopes, or an error for unsupported specifications
	Translate(spec shared.Specification[*person.Person]) (func(*gorm.DB) *gorm.DB, error)
}

// GormTranslator 把人员规约翻译成 persons 表上的 clause 表达式
// 组合规约递归展开，Or/Not 通过 clause.Or/clause.Not 正确加括号
type GormTranslator struct{}

func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

func (t *GormTranslator) Translate(spec shared.Specification[*person.Person]) (func(*gorm.DB) *gorm.DB, error) {
	if spec == nil {
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	}
	expr, err := t.Expression(spec)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(expr)
	}, nil
}

// Expression 规约对应的 WHERE 表达式
func (t *GormTranslator) Expression(spec shared.Specification[*person.Person]) (clause.Expression, error) {
	switch s := spec.(type) {
	case shared.AndSpecification[*person.Person]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return clause.And(left, right), nil
	case shared.OrSpecification[*person.Person]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return clause.Or(left, right), nil
	case shared.NotSpecification[*person.Person]:
		inner, err := t.Expression(s.Spec)
		if err != nil {
			return nil, err
		}
		return clause.Not(inner), nil
	case person.ByEmailSpecification:
		return column("email", s.Email.Value()), nil
	case person.ByNicknameSpecification:
		return column("nickname", s.Nickname.Value()), nil
	case person.ByPhoneNumberSpecification:
		return column("phone_number", s.PhoneNumber.Value()), nil
	case person.ByRoleSpecification:
		return column("role", s.Role.String()), nil
	case person.HasAdvertisementDueForExpirySpecification:
		return clause.Expr{
			SQL:  "EXISTS (SELECT 1 FROM advertisements WHERE advertisements.person_id = persons.id AND advertisements.status = ? AND advertisements.expires_on <= ?)",
			Vars: []any{person.AdvertisementStatusActive.String(), s.Now.UTC()},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported specification type %T", spec)
	}
}

func (t *GormTranslator) pair(left, right shared.Specification[*person.Person]) (clause.Expression, clause.Expression, error) {
	l, err := t.Expression(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := t.Expression(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func column(name string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Table: "persons", Name: name}, Value: value}
}
