package context_test

import (
	"context"
	"testing"

	"github.com/muhammadheryan/artisanhub/constant"
	utilsContext "github.com/muhammadheryan/artisanhub/utils/context"
	"github.com/stretchr/testify/assert"
)

func TestWithUser(t *testing.T) {
	ctx := utilsContext.WithUser(context.Background(), 42, constant.RoleSeller)

	id, ok := utilsContext.GetUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	role, ok := utilsContext.GetRole(ctx)
	assert.True(t, ok)
	assert.Equal(t, constant.RoleSeller, role)
}

func TestGetUser_Empty(t *testing.T) {
	_, ok := utilsContext.GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = utilsContext.GetRole(context.Background())
	assert.False(t, ok)
}
