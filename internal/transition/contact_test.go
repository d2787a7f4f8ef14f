package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/operations-api/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestApplyContact_PromotionFlagsDemotion(t *testing.T) {
	c := domain.Contact{FirstName: "Kari", LastName: "Nordmann"}

	next, demote, err := ApplyContact(c, ContactChanges{IsPrimary: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, next.IsPrimary)
	assert.True(t, demote, "promotion must demote the previous primary")
}

func TestApplyContact_AlreadyPrimaryNoDemotion(t *testing.T) {
	c := domain.Contact{IsPrimary: true}

	next, demote, err := ApplyContact(c, ContactChanges{IsPrimary: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, next.IsPrimary)
	assert.False(t, demote)
}

func TestApplyContact_DemotionDoesNotTouchOthers(t *testing.T) {
	c := domain.Contact{IsPrimary: true}

	next, demote, err := ApplyContact(c, ContactChanges{IsPrimary: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, next.IsPrimary)
	assert.False(t, demote)
}

func TestApplyContact_PartialMerge(t *testing.T) {
	c := domain.Contact{FirstName: "Kari", LastName: "Nordmann", Email: "kari@example.com"}

	next, _, err := ApplyContact(c, ContactChanges{Phone: strPtr("+47 123 45 678")})
	require.NoError(t, err)
	assert.Equal(t, "Kari", next.FirstName)
	assert.Equal(t, "kari@example.com", next.Email)
	assert.Equal(t, "+47 123 45 678", next.Phone)
}
