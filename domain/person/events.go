package person

import (
	"time"

	"rehoming/domain/shared"
)

const (
	EventPersonRegistered            = "person.registered"
	EventPersonProfileUpdated        = "person.profile_updated"
	EventCatAdded                    = "person.cat_added"
	EventCatUpdated                  = "person.cat_updated"
	EventCatRemoved                  = "person.cat_removed"
	EventAdvertisementCreated        = "person.advertisement_created"
	EventAdvertisementUpdated        = "person.advertisement_updated"
	EventAdvertisementCatsReplaced   = "person.advertisement_cats_replaced"
	EventAdvertisementActivated      = "person.advertisement_activated"
	EventAdvertisementClosed         = "person.advertisement_closed"
	EventAdvertisementExpired        = "person.advertisement_expired"
	EventAdvertisementRefreshed      = "person.advertisement_refreshed"
	EventAdvertisementRemoved        = "person.advertisement_removed"
	EventAdvertisementPriorityChange = "person.advertisement_priority_changed"
)

// AllEventNames 所有人员聚合事件名，用于批量订阅
func AllEventNames() []string {
	return []string{
		EventPersonRegistered,
		EventPersonProfileUpdated,
		EventCatAdded,
		EventCatUpdated,
		EventCatRemoved,
		EventAdvertisementCreated,
		EventAdvertisementUpdated,
		EventAdvertisementCatsReplaced,
		EventAdvertisementActivated,
		EventAdvertisementClosed,
		EventAdvertisementExpired,
		EventAdvertisementRefreshed,
		EventAdvertisementRemoved,
		EventAdvertisementPriorityChange,
	}
}

// eventBase 所有事件的聚合 ID 都是人员 ID
type eventBase struct {
	personID   string
	occurredOn time.Time
}

func newEventBase(personID string, occurredOn time.Time) eventBase {
	if occurredOn.IsZero() {
		occurredOn = time.Now().UTC()
	}
	return eventBase{personID: personID, occurredOn: occurredOn}
}

func (e eventBase) OccurredOn() time.Time  { return e.occurredOn }
func (e eventBase) GetAggregateID() string { return e.personID }
func (e eventBase) PersonID() string       { return e.personID }

type PersonRegisteredEvent struct {
	eventBase
	nickname string
	email    string
	role     Role
}

func (e *PersonRegisteredEvent) EventName() string { return EventPersonRegistered }
func (e *PersonRegisteredEvent) Nickname() string  { return e.nickname }
func (e *PersonRegisteredEvent) Email() string     { return e.email }
func (e *PersonRegisteredEvent) Role() Role        { return e.role }
func (e *PersonRegisteredEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "nickname": e.nickname, "email": e.email, "role": e.role.String()}
}

type PersonProfileUpdatedEvent struct {
	eventBase
}

func (e *PersonProfileUpdatedEvent) EventName() string { return EventPersonProfileUpdated }
func (e *PersonProfileUpdatedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID}
}

type CatAddedEvent struct {
	eventBase
	catID         string
	name          string
	priorityScore float64
}

func (e *CatAddedEvent) EventName() string      { return EventCatAdded }
func (e *CatAddedEvent) CatID() string          { return e.catID }
func (e *CatAddedEvent) Name() string           { return e.name }
func (e *CatAddedEvent) PriorityScore() float64 { return e.priorityScore }
func (e *CatAddedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "cat_id": e.catID, "name": e.name, "priority_score": e.priorityScore}
}

type CatUpdatedEvent struct {
	eventBase
	catID         string
	priorityScore float64
}

func (e *CatUpdatedEvent) EventName() string      { return EventCatUpdated }
func (e *CatUpdatedEvent) CatID() string          { return e.catID }
func (e *CatUpdatedEvent) PriorityScore() float64 { return e.priorityScore }
func (e *CatUpdatedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "cat_id": e.catID, "priority_score": e.priorityScore}
}

type CatRemovedEvent struct {
	eventBase
	catID string
}

func (e *CatRemovedEvent) EventName() string { return EventCatRemoved }
func (e *CatRemovedEvent) CatID() string     { return e.catID }
func (e *CatRemovedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "cat_id": e.catID}
}

type AdvertisementCreatedEvent struct {
	eventBase
	advertisementID string
	catIDs          []string
	priorityScore   float64
	expiresOn       time.Time
}

func (e *AdvertisementCreatedEvent) EventName() string       { return EventAdvertisementCreated }
func (e *AdvertisementCreatedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementCreatedEvent) CatIDs() []string        { return append([]string(nil), e.catIDs...) }
func (e *AdvertisementCreatedEvent) PriorityScore() float64  { return e.priorityScore }
func (e *AdvertisementCreatedEvent) ExpiresOn() time.Time    { return e.expiresOn }
func (e *AdvertisementCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"person_id":        e.personID,
		"advertisement_id": e.advertisementID,
		"cat_ids":          e.CatIDs(),
		"priority_score":   e.priorityScore,
		"expires_on":       e.expiresOn,
	}
}

type AdvertisementUpdatedEvent struct {
	eventBase
	advertisementID string
}

func (e *AdvertisementUpdatedEvent) EventName() string       { return EventAdvertisementUpdated }
func (e *AdvertisementUpdatedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementUpdatedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "advertisement_id": e.advertisementID}
}

type AdvertisementCatsReplacedEvent struct {
	eventBase
	advertisementID string
	catIDs          []string
	priorityScore   float64
}

func (e *AdvertisementCatsReplacedEvent) EventName() string       { return EventAdvertisementCatsReplaced }
func (e *AdvertisementCatsReplacedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementCatsReplacedEvent) CatIDs() []string        { return append([]string(nil), e.catIDs...) }
func (e *AdvertisementCatsReplacedEvent) PriorityScore() float64  { return e.priorityScore }
func (e *AdvertisementCatsReplacedEvent) Payload() map[string]any {
	return map[string]any{
		"person_id":        e.personID,
		"advertisement_id": e.advertisementID,
		"cat_ids":          e.CatIDs(),
		"priority_score":   e.priorityScore,
	}
}

type AdvertisementActivatedEvent struct {
	eventBase
	advertisementID string
}

func (e *AdvertisementActivatedEvent) EventName() string       { return EventAdvertisementActivated }
func (e *AdvertisementActivatedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementActivatedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "advertisement_id": e.advertisementID}
}

// AdvertisementClosedEvent 关闭即领养成功
type AdvertisementClosedEvent struct {
	eventBase
	advertisementID string
	adoptedCatIDs   []string
}

func (e *AdvertisementClosedEvent) EventName() string       { return EventAdvertisementClosed }
func (e *AdvertisementClosedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementClosedEvent) AdoptedCatIDs() []string {
	return append([]string(nil), e.adoptedCatIDs...)
}
func (e *AdvertisementClosedEvent) Payload() map[string]any {
	return map[string]any{
		"person_id":        e.personID,
		"advertisement_id": e.advertisementID,
		"adopted_cat_ids":  e.AdoptedCatIDs(),
		"closed_on":        e.occurredOn,
	}
}

type AdvertisementExpiredEvent struct {
	eventBase
	advertisementID string
}

func (e *AdvertisementExpiredEvent) EventName() string       { return EventAdvertisementExpired }
func (e *AdvertisementExpiredEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementExpiredEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "advertisement_id": e.advertisementID, "expired_on": e.occurredOn}
}

type AdvertisementRefreshedEvent struct {
	eventBase
	advertisementID string
	expiresOn       time.Time
}

func (e *AdvertisementRefreshedEvent) EventName() string       { return EventAdvertisementRefreshed }
func (e *AdvertisementRefreshedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementRefreshedEvent) ExpiresOn() time.Time    { return e.expiresOn }
func (e *AdvertisementRefreshedEvent) Payload() map[string]any {
	return map[string]any{"person_id": e.personID, "advertisement_id": e.advertisementID, "expires_on": e.expiresOn}
}

type AdvertisementRemovedEvent struct {
	eventBase
	advertisementID string
	releasedCatIDs  []string
}

func (e *AdvertisementRemovedEvent) EventName() string       { return EventAdvertisementRemoved }
func (e *AdvertisementRemovedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementRemovedEvent) ReleasedCatIDs() []string {
	return append([]string(nil), e.releasedCatIDs...)
}
func (e *AdvertisementRemovedEvent) Payload() map[string]any {
	return map[string]any{
		"person_id":        e.personID,
		"advertisement_id": e.advertisementID,
		"released_cat_ids": e.ReleasedCatIDs(),
	}
}

// AdvertisementPriorityChangedEvent 成员猫的分数变化导致广告分数变化
type AdvertisementPriorityChangedEvent struct {
	eventBase
	advertisementID string
	oldScore        float64
	newScore        float64
}

func (e *AdvertisementPriorityChangedEvent) EventName() string       { return EventAdvertisementPriorityChange }
func (e *AdvertisementPriorityChangedEvent) AdvertisementID() string { return e.advertisementID }
func (e *AdvertisementPriorityChangedEvent) OldScore() float64       { return e.oldScore }
func (e *AdvertisementPriorityChangedEvent) NewScore() float64       { return e.newScore }
func (e *AdvertisementPriorityChangedEvent) Payload() map[string]any {
	return map[string]any{
		"person_id":        e.personID,
		"advertisement_id": e.advertisementID,
		"old_score":        e.oldScore,
		"new_score":        e.newScore,
	}
}

var (
	_ shared.DomainEvent    = (*PersonRegisteredEvent)(nil)
	_ shared.DomainEvent    = (*AdvertisementClosedEvent)(nil)
	_ shared.PayloadCarrier = (*AdvertisementClosedEvent)(nil)
)
