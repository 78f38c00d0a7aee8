/*
Package person - 人员聚合领域错误定义

每个错误同时包装两个哨兵：
  - 具体哨兵（如 ErrCatNotFound），用于精确判断
  - 类别哨兵（shared.ErrNotFound 等），用于 API 层按类别映射状态码

构造函数经 newError 调用 shared.CaptureStack(4)，多跳过一帧，堆栈仍从调用 NewXxxError 的位置开始。
*/
package person

import (
	"errors"
	"fmt"

	"rehoming/domain/shared"
)

var (
	ErrPersonNotFound        = errors.New("person not found")
	ErrCatNotFound           = errors.New("cat not found")
	ErrAdvertisementNotFound = errors.New("advertisement not found")

	// ErrActiveStatusRequired Close/Expire 要求广告处于 Active
	ErrActiveStatusRequired = errors.New("active advertisement status is required")

	// ErrAdvertisementClosed 已关闭的广告是终态，不允许任何修改
	ErrAdvertisementClosed = errors.New("advertisement is closed")

	ErrCatAssigned        = errors.New("cat is assigned to an advertisement")
	ErrCatAlreadyAssigned = errors.New("cat is already assigned to another advertisement")
	ErrEmptyCatSet        = errors.New("advertisement must reference at least one cat")

	// ErrCatNotOwned 引用了不属于本人员的猫（跨聚合误用）
	ErrCatNotOwned = errors.New("cat does not belong to person")

	ErrMissingCalculator = errors.New("priority score calculator is required")
	ErrEmptyIdentity     = errors.New("identity cannot be empty")

	// ErrConcurrentModification 乐观锁冲突，调用方应重试
	ErrConcurrentModification = errors.New("person was modified by another transaction, please retry")

	// ErrDuplicateContact 邮箱/昵称/电话已被其他人员占用
	ErrDuplicateContact = errors.New("contact detail is already taken")
)

func NewPersonNotFoundError(personID string) error {
	return newError(ErrPersonNotFound, shared.ErrNotFound, "person", "", "person not found: "+personID)
}

func NewCatNotFoundError(catID string) error {
	return newError(ErrCatNotFound, shared.ErrNotFound, "cat", "", "cat not found: "+catID)
}

func NewAdvertisementNotFoundError(advertisementID string) error {
	return newError(ErrAdvertisementNotFound, shared.ErrNotFound, "advertisement", "",
		"advertisement not found: "+advertisementID)
}

func NewActiveStatusRequiredError() error {
	return newError(ErrActiveStatusRequired, shared.ErrInvalidState, "advertisement", "status",
		"Active advertisement status is required for that operation")
}

// NewInvalidRefreshStateError Refresh 只接受 Active 或 Expired
func NewInvalidRefreshStateError(current AdvertisementStatus) error {
	return newError(ErrActiveStatusRequired, shared.ErrInvalidState, "advertisement", "status",
		"Active or Expired advertisement status is required for that operation, current: "+current.String())
}

func NewAdvertisementClosedError(advertisementID string) error {
	return newError(ErrAdvertisementClosed, shared.ErrInvalidState, "advertisement", "status",
		"advertisement "+advertisementID+" is closed and cannot be modified")
}

func NewCatAssignedError(catID, advertisementID string) error {
	return newError(ErrCatAssigned, shared.ErrInvalidOperation, "cat", "advertisement_id",
		fmt.Sprintf("cat %s is assigned to advertisement %s and cannot be removed", catID, advertisementID))
}

func NewCatAlreadyAssignedError(catID, advertisementID string) error {
	return newError(ErrCatAlreadyAssigned, shared.ErrInvalidOperation, "cat", "advertisement_id",
		fmt.Sprintf("cat %s is already assigned to advertisement %s", catID, advertisementID))
}

func NewEmptyCatSetError() error {
	return newError(ErrEmptyCatSet, shared.ErrInvalidOperation, "advertisement", "cat_ids",
		"advertisement must reference at least one cat")
}

func NewCatNotOwnedError(catID, personID string) error {
	return newError(ErrCatNotOwned, shared.ErrInvalidInput, "cat", "cat_ids",
		fmt.Sprintf("cat %s does not belong to person %s", catID, personID))
}

func NewMissingCalculatorError() error {
	return newError(ErrMissingCalculator, shared.ErrInvalidInput, "cat", "priority_score",
		"priority score calculator is required")
}

func NewEmptyIdentityError(field string) error {
	return newError(ErrEmptyIdentity, shared.ErrInvalidInput, "person", field, field+" cannot be empty")
}

func NewCatNameRequiredError() error {
	return newError(shared.ErrInvalidInput, shared.ErrInvalidInput, "cat", "name", "cat name cannot be empty")
}

func newEnumError(field, value string) error {
	return newError(shared.ErrInvalidInput, shared.ErrInvalidInput, "person", field,
		"unknown "+field+" value: "+value)
}

func NewConcurrentModificationError(personID string) error {
	return newError(ErrConcurrentModification, shared.ErrConflict, "person", "version",
		"person "+personID+" was modified by another transaction, please retry")
}

func NewDuplicateContactError(field, value string) error {
	return newError(ErrDuplicateContact, shared.ErrConflict, "person", field,
		fmt.Sprintf("%s %q is already taken", field, value))
}

// personDomainError 人员领域错误（带堆栈）
type personDomainError struct {
	sentinel error
	kind     error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func newError(sentinel, kind error, entity, field, message string) *personDomainError {
	return &personDomainError{
		sentinel: sentinel,
		kind:     kind,
		entity:   entity,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(4),
	}
}

func (e *personDomainError) Error() string { return e.message }

func (e *personDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }

func (e *personDomainError) Entity() string { return e.entity }
func (e *personDomainError) Field() string  { return e.field }

// Stack 实现 shared.Stacker 接口
func (e *personDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}
	return shared.FormatStack(e.stack)
}
