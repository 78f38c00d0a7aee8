package rdb

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var creation = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var fixedScore = person.CalculatorFunc(func(*person.Cat) float64 { return 10 })

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func newPerson(t *testing.T, nickname, email, phone string) *person.Person {
	t.Helper()
	nick, err := person.NewNickname(nickname)
	require.NoError(t, err)
	mail, err := shared.NewEmail(email)
	require.NoError(t, err)
	tel, err := shared.NewPhoneNumber(phone)
	require.NoError(t, err)
	addr, err := shared.NewAddress("Poland", "", "00-001", "Warsaw", "Marszalkowska 1")
	require.NoError(t, err)

	p, err := person.NewPerson(person.Profile{
		Nickname:         nick,
		Email:            mail,
		PhoneNumber:      tel,
		ResidencyAddress: addr,
	}, person.RoleRegular)
	require.NoError(t, err)
	return p
}

func addCat(t *testing.T, p *person.Person, name string) *person.Cat {
	t.Helper()
	catName, err := person.NewCatName(name)
	require.NoError(t, err)
	cat, err := p.AddCat(fixedScore, person.CatAttributes{
		Name:               catName,
		AgeCategory:        person.AgeCategorySenior,
		Behavior:           person.BehaviorFriendly,
		HealthStatus:       person.HealthStatusGood,
		MedicalHelpUrgency: person.MedicalHelpUrgencyNoNeed,
		IsCastrated:        true,
	})
	require.NoError(t, err)
	return cat
}

func addActiveAd(t *testing.T, p *person.Person, created time.Time, catIDs ...string) *person.Advertisement {
	t.Helper()
	desc, err := person.NewDescription("Two calm seniors")
	require.NoError(t, err)
	contact := p.DefaultContact()
	ad, err := p.AddAdvertisement(created, catIDs, person.AdvertisementDetails{
		Description:   desc,
		PickupAddress: contact.PickupAddress,
		ContactEmail:  contact.Email,
		ContactPhone:  contact.PhoneNumber,
	})
	require.NoError(t, err)
	require.NoError(t, p.ActivateAdvertisementIfThumbnailIsUploadedForTheFirstTime(ad.ID()))
	return ad
}
