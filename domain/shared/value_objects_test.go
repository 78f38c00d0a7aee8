package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	email, err := NewEmail("  Owner@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", email.Value())
	assert.True(t, email.Equals(Email{value: "owner@example.com"}))

	for _, bad := range []string{"", "no-at-sign", strings.Repeat("a", 300) + "@example.com"} {
		_, err := NewEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestNewPhoneNumber(t *testing.T) {
	for _, ok := range []string{"+48 123 456 789", "22 123-45-67", "123456789"} {
		_, err := NewPhoneNumber(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "abc", "12"} {
		_, err := NewPhoneNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestNewAddress(t *testing.T) {
	addr, err := NewAddress(" Poland ", "", "00-001", "Warsaw", "Marszalkowska 1")
	require.NoError(t, err)
	assert.Equal(t, "Poland", addr.Country())
	assert.False(t, addr.IsZero())
	assert.Equal(t, "Marszalkowska 1, 00-001 Warsaw, Poland", addr.String())
	assert.True(t, Address{}.IsZero())

	_, err = NewAddress("Poland", "", "", "Warsaw", "Marszalkowska 1")
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "zip_code", domainErr.Field)
}

func TestDomainError_StackAndUnwrap(t *testing.T) {
	err := NewNotFoundError("cat")
	assert.ErrorIs(t, err, ErrNotFound)

	var stacker Stacker
	require.ErrorAs(t, err, &stacker)
	stack := stacker.Stack()
	require.NotEmpty(t, stack)
	assert.Contains(t, stack[0], "TestDomainError_StackAndUnwrap")
}
