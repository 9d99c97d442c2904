package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/pkg/apierror"
)

func TestCreateCompany(t *testing.T) {
	repo := newMockCompanyRepo()
	handler := NewCompanyHandler(repo)

	company, err := handler.Create(context.Background(), CompanyCommand{
		Name: "ComercioLibre S.A.", RUC: "1790012345001", Address: "Av. Amazonas 123",
	})
	require.NoError(t, err)
	assert.True(t, company.Active)
	assert.Equal(t, "1790012345001", company.RUC)
}

func TestCreateCompany_DuplicateRUC(t *testing.T) {
	repo := newMockCompanyRepo()
	repo.add("ComercioLibre S.A.", "1790012345001")
	handler := NewCompanyHandler(repo)

	_, err := handler.Create(context.Background(), CompanyCommand{
		Name: "Otra Empresa", RUC: "1790012345001",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Equal(t, apierror.CodeAlreadyExists, apierror.CodeOf(err))
}

func TestUpdateCompany_RUCChangeChecksUniqueness(t *testing.T) {
	repo := newMockCompanyRepo()
	repo.add("Empresa Uno", "1790012345001")
	repo.add("Empresa Dos", "1790099999001")
	handler := NewCompanyHandler(repo)

	_, err := handler.Update(context.Background(), CompanyCommand{
		ID: 1, Name: "Empresa Uno", RUC: "1790099999001",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// Keeping the own RUC is not a conflict.
	updated, err := handler.Update(context.Background(), CompanyCommand{
		ID: 1, Name: "Empresa Uno Renombrada", RUC: "1790012345001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Empresa Uno Renombrada", updated.Name)
}

func TestCompanyValidation(t *testing.T) {
	handler := NewCompanyHandler(newMockCompanyRepo())

	_, err := handler.Create(context.Background(), CompanyCommand{Name: "Sin RUC"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestDeactivateCompany(t *testing.T) {
	repo := newMockCompanyRepo()
	repo.add("ComercioLibre S.A.", "1790012345001")
	handler := NewCompanyHandler(repo)

	require.NoError(t, handler.Deactivate(context.Background(), 1))

	stored, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}
