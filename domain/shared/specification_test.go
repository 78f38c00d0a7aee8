package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type evenSpec struct{}

func (evenSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

type positiveSpec struct{}

func (positiveSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n > 0 }

func TestCompositeSpecifications(t *testing.T) {
	ctx := context.Background()
	even, positive := Specification[int](evenSpec{}), Specification[int](positiveSpec{})

	tests := []struct {
		name string
		spec Specification[int]
		in   int
		want bool
	}{
		{"and both", And(even, positive), 4, true},
		{"and one", And(even, positive), -2, false},
		{"or one", Or(even, positive), 3, true},
		{"or none", Or(even, positive), -3, false},
		{"not", Not(even), 3, true},
		{"nested", And(positive, Not(even)), 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.IsSatisfiedBy(ctx, tt.in))
		})
	}
}
