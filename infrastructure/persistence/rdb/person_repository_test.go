package rdb

import (
	"context"
	"testing"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence/rdb/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PersonRepositorySuite struct {
	suite.Suite
	db   *gorm.DB
	repo *PersonRepository
	ctx  context.Context
}

func (s *PersonRepositorySuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.repo = NewPersonRepository(s.db)
	s.ctx = context.Background()
}

func TestPersonRepositorySuite(t *testing.T) {
	suite.Run(t, new(PersonRepositorySuite))
}

func (s *PersonRepositorySuite) TestSaveAndFindByID_RoundTrip() {
	t := s.T()
	p := newPerson(t, "tom_owner", "tom@example.com", "+48 600 100 200")
	catA := addCat(t, p, "Alfa")
	catB := addCat(t, p, "Beta")
	addCat(t, p, "Gamma")
	ad := addActiveAd(t, p, creation, catA.ID(), catB.ID())

	require.NoError(t, s.repo.Save(s.ctx, p))
	assert.False(t, p.IsNew())
	assert.Equal(t, 0, p.Version())

	loaded, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.Nickname(), loaded.Nickname())
	assert.True(t, p.Email().Equals(loaded.Email()))
	assert.Equal(t, p.ResidencyAddress(), loaded.ResidencyAddress())
	assert.Equal(t, p.DefaultContact(), loaded.DefaultContact())
	assert.Equal(t, person.RoleRegular, loaded.Role())
	require.Len(t, loaded.Cats(), 3)
	assert.Equal(t, "Alfa", loaded.Cats()[0].Name().Value())

	loadedAd, err := loaded.Advertisement(ad.ID())
	require.NoError(t, err)
	assert.Equal(t, person.AdvertisementStatusActive, loadedAd.Status())
	assert.ElementsMatch(t, []string{catA.ID(), catB.ID()}, loadedAd.CatIDs())
	assert.Equal(t, 10.0, loadedAd.PriorityScore())
	assert.True(t, creation.Add(person.ExpiringPeriod).Equal(loadedAd.ExpiresOn()))
	assert.Nil(t, loadedAd.ClosedOn())
}

func (s *PersonRepositorySuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, person.ErrPersonNotFound)
	assert.ErrorIs(s.T(), err, shared.ErrNotFound)

	_, err = s.repo.FindByID(s.ctx, "")
	assert.ErrorIs(s.T(), err, person.ErrEmptyIdentity)
}

func (s *PersonRepositorySuite) TestSave_UpdateBumpsVersionAndSyncsChildren() {
	t := s.T()
	p := newPerson(t, "ann_owner", "ann@example.com", "+48 600 100 201")
	kept := addCat(t, p, "Kept")
	addCat(t, p, "Dropped")
	require.NoError(t, s.repo.Save(s.ctx, p))

	loaded, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	for _, c := range loaded.Cats() {
		if c.Name().Value() == "Dropped" {
			require.NoError(t, loaded.RemoveCat(c.ID()))
		}
	}
	ad := addActiveAd(t, loaded, creation, kept.ID())
	require.NoError(t, loaded.CloseAdvertisement(ad.ID(), creation.Add(time.Hour)))
	require.NoError(t, s.repo.Save(s.ctx, loaded))
	assert.Equal(t, 1, loaded.Version())

	var catCount int64
	require.NoError(t, s.db.Model(&po.CatPO{}).Where("person_id = ?", p.ID()).Count(&catCount).Error)
	assert.Equal(t, int64(1), catCount)

	reloaded, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Version())
	cat, err := reloaded.Cat(kept.ID())
	require.NoError(t, err)
	assert.True(t, cat.IsAdopted())
	assert.Equal(t, ad.ID(), cat.AdvertisementID())

	reloadedAd, err := reloaded.Advertisement(ad.ID())
	require.NoError(t, err)
	assert.Equal(t, person.AdvertisementStatusClosed, reloadedAd.Status())
	require.NotNil(t, reloadedAd.ClosedOn())
	assert.True(t, creation.Add(time.Hour).Equal(*reloadedAd.ClosedOn()))
}

func (s *PersonRepositorySuite) TestSave_RemovedAdvertisementReleasesCats() {
	t := s.T()
	p := newPerson(t, "eve_owner", "eve@example.com", "+48 600 100 202")
	cat := addCat(t, p, "Mruczek")
	ad := addActiveAd(t, p, creation, cat.ID())
	require.NoError(t, s.repo.Save(s.ctx, p))

	loaded, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.RemoveAdvertisement(ad.ID()))
	require.NoError(t, s.repo.Save(s.ctx, loaded))

	reloaded, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Advertisements())
	reloadedCat, err := reloaded.Cat(cat.ID())
	require.NoError(t, err)
	assert.False(t, reloadedCat.IsAssigned())
}

func (s *PersonRepositorySuite) TestSave_StaleVersionIsConcurrentModification() {
	t := s.T()
	p := newPerson(t, "bob_owner", "bob@example.com", "+48 600 100 203")
	require.NoError(t, s.repo.Save(s.ctx, p))

	first, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)
	second, err := s.repo.FindByID(s.ctx, p.ID())
	require.NoError(t, err)

	addCat(t, first, "First")
	require.NoError(t, s.repo.Save(s.ctx, first))

	addCat(t, second, "Second")
	err = s.repo.Save(s.ctx, second)
	assert.ErrorIs(t, err, person.ErrConcurrentModification)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func (s *PersonRepositorySuite) TestSave_DuplicateContact() {
	t := s.T()
	require.NoError(t, s.repo.Save(s.ctx, newPerson(t, "first_one", "dup@example.com", "+48 600 100 204")))

	err := s.repo.Save(s.ctx, newPerson(t, "second_one", "dup@example.com", "+48 600 100 205"))
	assert.ErrorIs(t, err, person.ErrDuplicateContact)

	err = s.repo.Save(s.ctx, newPerson(t, "first_one", "other@example.com", "+48 600 100 206"))
	assert.ErrorIs(t, err, person.ErrDuplicateContact)
}

func (s *PersonRepositorySuite) TestFindBySpecification() {
	t := s.T()
	alice := newPerson(t, "alice", "alice@example.com", "+48 600 100 210")
	bob := newPerson(t, "bob_b", "bob.b@example.com", "+48 600 100 211")
	carol := newPerson(t, "carol", "carol@example.com", "+48 600 100 212")
	require.NoError(t, carol.ChangeRole(person.RoleShelter))
	for _, p := range []*person.Person{alice, bob, carol} {
		require.NoError(t, s.repo.Save(s.ctx, p))
	}

	spec := shared.Or(
		person.NewByEmailSpecification(alice.Email()),
		person.NewByNicknameSpecification(bob.Nickname()),
	)
	found, err := s.repo.FindBySpecification(s.ctx, spec)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID(), bob.ID()}, ids(found))

	found, err = s.repo.FindBySpecification(s.ctx, shared.Not(person.NewByRoleSpecification(person.RoleRegular)))
	require.NoError(t, err)
	assert.Equal(t, []string{carol.ID()}, ids(found))

	found, err = s.repo.FindBySpecification(s.ctx, shared.And(
		person.NewByRoleSpecification(person.RoleRegular),
		shared.Not(person.NewByPhoneNumberSpecification(alice.PhoneNumber())),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID()}, ids(found))
}

type unknownSpec struct{}

func (unknownSpec) IsSatisfiedBy(context.Context, *person.Person) bool { return true }

func (s *PersonRepositorySuite) TestFindBySpecification_Unsupported() {
	_, err := s.repo.FindBySpecification(s.ctx, unknownSpec{})
	assert.ErrorContains(s.T(), err, "unsupported specification")
}

func (s *PersonRepositorySuite) TestDueForExpiry() {
	t := s.T()
	now := creation.Add(person.ExpiringPeriod + time.Hour)

	due := newPerson(t, "due_owner", "due@example.com", "+48 600 100 220")
	addActiveAd(t, due, creation, addCat(t, due, "Old").ID())
	fresh := newPerson(t, "fresh_owner", "fresh@example.com", "+48 600 100 221")
	addActiveAd(t, fresh, now, addCat(t, fresh, "New").ID())
	for _, p := range []*person.Person{due, fresh} {
		require.NoError(t, s.repo.Save(s.ctx, p))
	}

	got, err := s.repo.FindIDsWithAdvertisementsDueForExpiry(s.ctx, now, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{due.ID()}, got)

	found, err := s.repo.FindBySpecification(s.ctx, person.NewHasAdvertisementDueForExpirySpecification(now))
	require.NoError(t, err)
	assert.Equal(t, []string{due.ID()}, ids(found))
}

func ids(persons []*person.Person) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = p.ID()
	}
	return out
}
