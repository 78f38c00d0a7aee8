package rdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence"
	"rehoming/infrastructure/persistence/rdb/po"
	"rehoming/infrastructure/persistence/specification"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonRepository 人员聚合的 GORM 实现：persons + cats + advertisements 三张表
type PersonRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db, translator: specification.NewGormTranslator()}
}

func (r *PersonRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate entry") ||
		strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "SQLSTATE 23505")
}

// duplicateField 从唯一索引冲突信息里猜出冲突字段
func duplicateField(err error, p *po.PersonPO) (string, string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "nickname"):
		return "nickname", p.Nickname
	case strings.Contains(msg, "phone_number"):
		return "phone_number", p.PhoneNumber
	default:
		return "email", p.Email
	}
}

func (r *PersonRepository) Save(ctx context.Context, p *person.Person) error {
	ctx = persistence.ContextWithAggregateID(ctx, p.ID())
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx.WithContext(ctx), p)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, p)
	})
}

func (r *PersonRepository) saveWithTx(tx *gorm.DB, p *person.Person) error {
	personPO := po.FromPersonDomain(p)

	if p.IsNew() {
		if err := tx.Create(personPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				field, value := duplicateField(err, personPO)
				return person.NewDuplicateContactError(field, value)
			}
			return err
		}
	} else {
		expectedVersion := p.Version()

		// 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入。
		result := tx.Model(&po.PersonPO{}).
			Where("id = ? AND version = ?", p.ID(), expectedVersion).
			Updates(map[string]any{
				"nickname":                personPO.Nickname,
				"email":                   personPO.Email,
				"phone_number":            personPO.PhoneNumber,
				"role":                    personPO.Role,
				"residency_country":       personPO.Residency.Country,
				"residency_state":         personPO.Residency.State,
				"residency_zip_code":      personPO.Residency.ZipCode,
				"residency_city":          personPO.Residency.City,
				"residency_line":          personPO.Residency.Line,
				"default_pickup_country":  personPO.DefaultPickup.Country,
				"default_pickup_state":    personPO.DefaultPickup.State,
				"default_pickup_zip_code": personPO.DefaultPickup.ZipCode,
				"default_pickup_city":     personPO.DefaultPickup.City,
				"default_pickup_line":     personPO.DefaultPickup.Line,
				"default_contact_email":   personPO.DefaultContactEmail,
				"default_contact_phone":   personPO.DefaultContactPhone,
				"version":                 expectedVersion + 1,
				"updated_at":              personPO.UpdatedAt,
			})

		if result.Error != nil {
			if isDuplicateKeyError(result.Error) {
				field, value := duplicateField(result.Error, personPO)
				return person.NewDuplicateContactError(field, value)
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.PersonPO{}).Where("id = ?", p.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return person.NewPersonNotFoundError(p.ID())
			}
			return person.NewConcurrentModificationError(p.ID())
		}
	}

	if err := r.syncChildren(tx, p); err != nil {
		return err
	}

	if !p.IsNew() {
		p.IncrementVersionForSave()
	}
	p.ClearDirtyTracking()
	return nil
}

// syncChildren 删除已移除的行，其余整体 upsert
// 广告的猫集合不单独存表，由 cats.advertisement_id 表达
func (r *PersonRepository) syncChildren(tx *gorm.DB, p *person.Person) error {
	if removed := p.RemovedCatIDs(); len(removed) > 0 {
		if err := tx.Where("person_id = ? AND id IN ?", p.ID(), removed).Delete(&po.CatPO{}).Error; err != nil {
			return fmt.Errorf("delete cats: %w", err)
		}
	}
	if removed := p.RemovedAdvertisementIDs(); len(removed) > 0 {
		if err := tx.Where("person_id = ? AND id IN ?", p.ID(), removed).Delete(&po.AdvertisementPO{}).Error; err != nil {
			return fmt.Errorf("delete advertisements: %w", err)
		}
	}

	ads := p.Advertisements()
	if len(ads) > 0 {
		adPOs := make([]*po.AdvertisementPO, len(ads))
		for i, ad := range ads {
			adPOs[i] = po.FromAdvertisementDomain(ad, i)
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&adPOs).Error; err != nil {
			return fmt.Errorf("upsert advertisements: %w", err)
		}
	}

	cats := p.Cats()
	if len(cats) > 0 {
		catPOs := make([]*po.CatPO, len(cats))
		for i, cat := range cats {
			catPOs[i] = po.FromCatDomain(cat, i)
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&catPOs).Error; err != nil {
			return fmt.Errorf("upsert cats: %w", err)
		}
	}
	return nil
}

func (r *PersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if id == "" {
		return nil, person.NewEmptyIdentityError("person_id")
	}

	db := r.getDB(persistence.ContextWithAggregateID(ctx, id))
	var personPO po.PersonPO
	result := db.First(&personPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, person.NewPersonNotFoundError(id)
		}
		return nil, result.Error
	}

	persons, err := r.hydrate(db, []po.PersonPO{personPO})
	if err != nil {
		return nil, err
	}
	return persons[0], nil
}

func (r *PersonRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*person.Person]) ([]*person.Person, error) {
	scope, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)
	var personPOs []po.PersonPO
	if err := db.Model(&po.PersonPO{}).Scopes(scope).Order("persons.created_at ASC").Find(&personPOs).Error; err != nil {
		return nil, err
	}
	if len(personPOs) == 0 {
		return []*person.Person{}, nil
	}
	return r.hydrate(db, personPOs)
}

func (r *PersonRepository) FindIDsWithAdvertisementsDueForExpiry(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	err := r.getDB(ctx).Model(&po.AdvertisementPO{}).
		Distinct("person_id").
		Where("status = ? AND expires_on <= ?", person.AdvertisementStatusActive.String(), now.UTC()).
		Order("person_id").
		Limit(limit).
		Pluck("person_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find persons with due advertisements: %w", err)
	}
	return ids, nil
}

// hydrate 批量加载子表，避免 N+1 查询
func (r *PersonRepository) hydrate(db *gorm.DB, personPOs []po.PersonPO) ([]*person.Person, error) {
	ids := make([]string, len(personPOs))
	for i := range personPOs {
		ids[i] = personPOs[i].ID
	}

	var catPOs []po.CatPO
	if err := db.Where("person_id IN ?", ids).Order("position ASC").Find(&catPOs).Error; err != nil {
		return nil, fmt.Errorf("load cats: %w", err)
	}
	var adPOs []po.AdvertisementPO
	if err := db.Where("person_id IN ?", ids).Order("position ASC").Find(&adPOs).Error; err != nil {
		return nil, fmt.Errorf("load advertisements: %w", err)
	}

	catsByPerson := make(map[string][]*person.Cat, len(ids))
	catIDsByAd := make(map[string][]string)
	for i := range catPOs {
		cat, err := catPOs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		catsByPerson[cat.PersonID()] = append(catsByPerson[cat.PersonID()], cat)
		if cat.IsAssigned() {
			catIDsByAd[cat.AdvertisementID()] = append(catIDsByAd[cat.AdvertisementID()], cat.ID())
		}
	}

	adsByPerson := make(map[string][]*person.Advertisement, len(ids))
	for i := range adPOs {
		ad, err := adPOs[i].ToDomain(catIDsByAd[adPOs[i].ID])
		if err != nil {
			return nil, err
		}
		adsByPerson[ad.PersonID()] = append(adsByPerson[ad.PersonID()], ad)
	}

	persons := make([]*person.Person, len(personPOs))
	for i := range personPOs {
		p, err := personPOs[i].ToDomain(catsByPerson[personPOs[i].ID], adsByPerson[personPOs[i].ID])
		if err != nil {
			return nil, err
		}
		persons[i] = p
	}
	return persons, nil
}

var _ person.Repository = (*PersonRepository)(nil)
