package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/pkg/apierror"
)

func TestCategoryLifecycle(t *testing.T) {
	repo := newMockCategoryRepo()
	handler := NewCategoryHandler(repo)

	category, err := handler.Create(context.Background(), CategoryCommand{
		Name: "Periféricos", Description: "Teclados, ratones y afines",
	})
	require.NoError(t, err)
	assert.True(t, category.Active)

	updated, err := handler.Update(context.Background(), CategoryCommand{
		ID: category.ID, Name: "Accesorios",
	})
	require.NoError(t, err)
	assert.Equal(t, "Accesorios", updated.Name)

	require.NoError(t, handler.Deactivate(context.Background(), category.ID))
	stored, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestCategoryValidation(t *testing.T) {
	handler := NewCategoryHandler(newMockCategoryRepo())

	_, err := handler.Create(context.Background(), CategoryCommand{Description: "sin nombre"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = handler.Update(context.Background(), CategoryCommand{ID: 99, Name: "Nada"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
