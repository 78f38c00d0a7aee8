package person

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"rehoming/domain/shared"
)

const (
	NicknameMinLength    = 3
	NicknameMaxLength    = 30
	CatNameMaxLength     = 50
	DescriptionMaxLength = 1000
)

var nicknameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.\-]+$`)

// Nickname 值对象 - 公开展示的用户名
type Nickname struct {
	value string
}

func NewNickname(nickname string) (Nickname, error) {
	nickname = strings.TrimSpace(nickname)
	length := utf8.RuneCountInString(nickname)

	if length == 0 {
		return Nickname{}, shared.NewValidationError("nickname", "nickname", "nickname cannot be empty")
	}
	if length < NicknameMinLength || length > NicknameMaxLength {
		return Nickname{}, shared.NewValidationError("nickname", "nickname",
			fmt.Sprintf("nickname must be between %d and %d characters", NicknameMinLength, NicknameMaxLength))
	}
	if !nicknameRegex.MatchString(nickname) {
		return Nickname{}, shared.NewValidationError("nickname", "nickname",
			"nickname may only contain letters, digits, '_', '.' and '-'")
	}

	return Nickname{value: nickname}, nil
}

func (n Nickname) Value() string              { return n.value }
func (n Nickname) String() string             { return n.value }
func (n Nickname) Equals(other Nickname) bool { return n.value == other.value }

// CatName 值对象
type CatName struct {
	value string
}

func NewCatName(name string) (CatName, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return CatName{}, shared.NewValidationError("cat", "name", "cat name cannot be empty")
	}
	if utf8.RuneCountInString(name) > CatNameMaxLength {
		return CatName{}, shared.NewValidationError("cat", "name",
			fmt.Sprintf("cat name cannot be longer than %d characters", CatNameMaxLength))
	}

	return CatName{value: name}, nil
}

func (n CatName) Value() string             { return n.value }
func (n CatName) String() string            { return n.value }
func (n CatName) Equals(other CatName) bool { return n.value == other.value }

// Description 值对象 - 可以为空的自由文本（广告描述、猫的额外要求）
type Description struct {
	value string
}

func NewDescription(text string) (Description, error) {
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) > DescriptionMaxLength {
		return Description{}, shared.NewValidationError("description", "description",
			fmt.Sprintf("description cannot be longer than %d characters", DescriptionMaxLength))
	}

	return Description{value: text}, nil
}

func (d Description) Value() string                 { return d.value }
func (d Description) String() string                { return d.value }
func (d Description) Equals(other Description) bool { return d.value == other.value }
func (d Description) IsEmpty() bool                 { return d.value == "" }
