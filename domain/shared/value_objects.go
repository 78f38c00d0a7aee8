package shared

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	EmailMaxLength       = 255
	PhoneNumberMaxLength = 20

	AddressCountryMaxLength = 60
	AddressStateMaxLength   = 60
	AddressZipCodeMaxLength = 20
	AddressCityMaxLength    = 60
	AddressLineMaxLength    = 150
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,}[0-9]$`)
)

// Email 值对象 - 不可变的邮箱地址
type Email struct {
	value string
}

// NewEmail 创建新的 Email 值对象（去空格、转小写后校验）
func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return Email{}, NewValidationError("email", "email", "email cannot be empty")
	}
	if utf8.RuneCountInString(email) > EmailMaxLength {
		return Email{}, NewValidationError("email", "email",
			fmt.Sprintf("email cannot be longer than %d characters", EmailMaxLength))
	}
	if !emailRegex.MatchString(email) {
		return Email{}, NewValidationError("email", "email", "invalid email format: "+email)
	}

	return Email{value: email}, nil
}

func (e Email) Value() string           { return e.value }
func (e Email) String() string          { return e.value }
func (e Email) Equals(other Email) bool { return e.value == other.value }
func (e Email) IsZero() bool            { return e.value == "" }

// PhoneNumber 值对象 - 允许国际前缀 "+", 空格、短横线和括号
type PhoneNumber struct {
	value string
}

// NewPhoneNumber 创建新的 PhoneNumber 值对象
func NewPhoneNumber(phone string) (PhoneNumber, error) {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return PhoneNumber{}, NewValidationError("phone_number", "phone_number", "phone number cannot be empty")
	}
	if utf8.RuneCountInString(phone) > PhoneNumberMaxLength {
		return PhoneNumber{}, NewValidationError("phone_number", "phone_number",
			fmt.Sprintf("phone number cannot be longer than %d characters", PhoneNumberMaxLength))
	}
	if !phoneRegex.MatchString(phone) {
		return PhoneNumber{}, NewValidationError("phone_number", "phone_number", "invalid phone number format: "+phone)
	}

	return PhoneNumber{value: phone}, nil
}

func (p PhoneNumber) Value() string                 { return p.value }
func (p PhoneNumber) String() string                { return p.value }
func (p PhoneNumber) Equals(other PhoneNumber) bool { return p.value == other.value }
func (p PhoneNumber) IsZero() bool                  { return p.value == "" }

// Address 值对象 - 居住地址或领养取猫地址
type Address struct {
	country string
	state   string
	zipCode string
	city    string
	line    string
}

// NewAddress 创建新的 Address 值对象；state 可以为空，其余字段必填
func NewAddress(country, state, zipCode, city, line string) (Address, error) {
	country = strings.TrimSpace(country)
	state = strings.TrimSpace(state)
	zipCode = strings.TrimSpace(zipCode)
	city = strings.TrimSpace(city)
	line = strings.TrimSpace(line)

	fields := []struct {
		name     string
		value    string
		max      int
		required bool
	}{
		{"country", country, AddressCountryMaxLength, true},
		{"state", state, AddressStateMaxLength, false},
		{"zip_code", zipCode, AddressZipCodeMaxLength, true},
		{"city", city, AddressCityMaxLength, true},
		{"line", line, AddressLineMaxLength, true},
	}
	for _, f := range fields {
		if f.required && f.value == "" {
			return Address{}, NewValidationError("address", f.name, "address "+f.name+" cannot be empty")
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return Address{}, NewValidationError("address", f.name,
				fmt.Sprintf("address %s cannot be longer than %d characters", f.name, f.max))
		}
	}

	return Address{
		country: country,
		state:   state,
		zipCode: zipCode,
		city:    city,
		line:    line,
	}, nil
}

func (a Address) Country() string { return a.country }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zipCode }
func (a Address) City() string    { return a.city }
func (a Address) Line() string    { return a.line }
func (a Address) IsZero() bool    { return a == Address{} }

func (a Address) Equals(other Address) bool { return a == other }

func (a Address) String() string {
	parts := []string{a.line, a.zipCode + " " + a.city}
	if a.state != "" {
		parts = append(parts, a.state)
	}
	parts = append(parts, a.country)
	return strings.Join(parts, ", ")
}
