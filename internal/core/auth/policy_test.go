package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

func TestPolicy(t *testing.T) {
	policy := NewPolicy()
	p := domain.Principal{ID: 5, DisplayName: "alice"}

	assert.True(t, policy.CanModifyUser(p, 5))
	assert.False(t, policy.CanModifyUser(p, 6))
	assert.False(t, policy.CanModifyUser(domain.Principal{}, 5))

	assert.True(t, policy.CanModifyTask(p, 5))
	assert.False(t, policy.CanModifyTask(p, 6))
	assert.False(t, policy.CanModifyTask(p, 0))
}
