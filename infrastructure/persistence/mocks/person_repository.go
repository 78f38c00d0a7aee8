package mocks

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
)

// MockPersonRepository 内存版人员仓储，database.driver=memory 时也用它
// 保存的是快照，调用方拿到的聚合和存储互不共享指针
type MockPersonRepository struct {
	persons map[string]*person.Person
	mu      sync.RWMutex
}

func NewMockPersonRepository() *MockPersonRepository {
	return &MockPersonRepository{
		persons: make(map[string]*person.Person),
	}
}

func (r *MockPersonRepository) Save(ctx context.Context, p *person.Person) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.persons[p.ID()]
	if p.IsNew() {
		if exists {
			return person.NewDuplicateContactError("id", p.ID())
		}
	} else {
		if !exists {
			return person.NewPersonNotFoundError(p.ID())
		}
		if stored.Version() != p.Version() {
			return person.NewConcurrentModificationError(p.ID())
		}
	}
	for id, other := range r.persons {
		if id == p.ID() {
			continue
		}
		switch {
		case other.Email().Equals(p.Email()):
			return person.NewDuplicateContactError("email", p.Email().Value())
		case other.Nickname().Equals(p.Nickname()):
			return person.NewDuplicateContactError("nickname", p.Nickname().Value())
		case other.PhoneNumber().Equals(p.PhoneNumber()):
			return person.NewDuplicateContactError("phone_number", p.PhoneNumber().Value())
		}
	}

	if !p.IsNew() {
		p.IncrementVersionForSave()
	}
	p.ClearDirtyTracking()
	r.persons[p.ID()] = snapshot(p)
	return nil
}

func (r *MockPersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if id == "" {
		return nil, person.NewEmptyIdentityError("person_id")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.persons[id]
	if !ok {
		return nil, person.NewPersonNotFoundError(id)
	}
	return snapshot(stored), nil
}

func (r *MockPersonRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*person.Person]) ([]*person.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*person.Person, 0)
	for _, p := range r.persons {
		if spec == nil || spec.IsSatisfiedBy(ctx, p) {
			result = append(result, snapshot(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result, nil
}

func (r *MockPersonRepository) FindIDsWithAdvertisementsDueForExpiry(ctx context.Context, now time.Time, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec := person.NewHasAdvertisementDueForExpirySpecification(now)
	ids := make([]string, 0)
	for id, p := range r.persons {
		if spec.IsSatisfiedBy(ctx, p) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Count 测试辅助
func (r *MockPersonRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.persons)
}

// snapshot 通过重建 DTO 深拷贝聚合
func snapshot(p *person.Person) *person.Person {
	cats := make([]*person.Cat, 0, len(p.Cats()))
	for _, c := range p.Cats() {
		cats = append(cats, person.RebuildCatFromDTO(person.CatReconstructionDTO{
			ID:                     c.ID(),
			PersonID:               c.PersonID(),
			Name:                   c.Name(),
			AgeCategory:            c.AgeCategory(),
			Behavior:               c.Behavior(),
			HealthStatus:           c.HealthStatus(),
			MedicalHelpUrgency:     c.MedicalHelpUrgency(),
			IsCastrated:            c.IsCastrated(),
			AdditionalRequirements: c.AdditionalRequirements(),
			AdvertisementID:        c.AdvertisementID(),
			IsAdopted:              c.IsAdopted(),
			PriorityScore:          c.PriorityScore(),
		}))
	}
	ads := make([]*person.Advertisement, 0, len(p.Advertisements()))
	for _, a := range p.Advertisements() {
		ads = append(ads, person.RebuildAdvertisementFromDTO(person.AdvertisementReconstructionDTO{
			ID:            a.ID(),
			PersonID:      a.PersonID(),
			Description:   a.Description(),
			PickupAddress: a.PickupAddress(),
			ContactEmail:  a.ContactEmail(),
			ContactPhone:  a.ContactPhone(),
			Status:        a.Status(),
			CreatedAt:     a.CreatedAt(),
			ExpiresOn:     a.ExpiresOn(),
			ClosedOn:      a.ClosedOn(),
			PriorityScore: a.PriorityScore(),
			CatIDs:        a.CatIDs(),
		}))
	}
	return person.RebuildFromDTO(person.ReconstructionDTO{
		ID:               p.ID(),
		Nickname:         p.Nickname(),
		Email:            p.Email(),
		PhoneNumber:      p.PhoneNumber(),
		Role:             p.Role(),
		ResidencyAddress: p.ResidencyAddress(),
		DefaultContact:   p.DefaultContact(),
		Cats:             cats,
		Advertisements:   ads,
		Version:          p.Version(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	})
}

var _ person.Repository = (*MockPersonRepository)(nil)
