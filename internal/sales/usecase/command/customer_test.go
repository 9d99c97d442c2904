package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/pkg/apierror"
)

func TestCreateCustomer_HappyPath(t *testing.T) {
	repo := newMockCustomerRepo()
	handler := NewCustomerHandler(repo)

	customer, err := handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "0991234567",
	})
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.True(t, customer.Active)

	stored, err := repo.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, stored.ID)
}

func TestCreateCustomer_DuplicateEmailConflict(t *testing.T) {
	repo := newMockCustomerRepo()
	handler := NewCustomerHandler(repo)

	_, err := handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com",
	})
	require.NoError(t, err)

	_, err = handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Otra", LastName: "Ana", Email: "ana@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Equal(t, apierror.CodeAlreadyExists, apierror.CodeOf(err))
}

func TestCreateCustomer_InvalidInput(t *testing.T) {
	handler := NewCustomerHandler(newMockCustomerRepo())

	cases := []struct {
		name string
		cmd  CreateCustomerCommand
	}{
		{"missing first name", CreateCustomerCommand{LastName: "García", Email: "ana@example.com"}},
		{"missing last name", CreateCustomerCommand{FirstName: "Ana", Email: "ana@example.com"}},
		{"missing email", CreateCustomerCommand{FirstName: "Ana", LastName: "García"}},
		{"bad email", CreateCustomerCommand{FirstName: "Ana", LastName: "García", Email: "no-es-email"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Create(context.Background(), tc.cmd)
			require.Error(t, err)
			assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
		})
	}
}

func TestUpdateCustomer_EmailChangeChecksUniqueness(t *testing.T) {
	repo := newMockCustomerRepo()
	handler := NewCustomerHandler(repo)

	first, err := handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com",
	})
	require.NoError(t, err)
	_, err = handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Luis", LastName: "Pérez", Email: "luis@example.com",
	})
	require.NoError(t, err)

	// Keeping the same email is fine.
	updated, err := handler.Update(context.Background(), UpdateCustomerCommand{
		ID: first.ID, FirstName: "Ana María", LastName: "García", Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FirstName)

	// Moving onto another customer's email is a conflict.
	_, err = handler.Update(context.Background(), UpdateCustomerCommand{
		ID: first.ID, FirstName: "Ana", LastName: "García", Email: "luis@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.CodeAlreadyExists, apierror.CodeOf(err))
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	handler := NewCustomerHandler(newMockCustomerRepo())

	_, err := handler.Update(context.Background(), UpdateCustomerCommand{
		ID: 99, FirstName: "Ana", LastName: "García", Email: "ana@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestDeactivateCustomer(t *testing.T) {
	repo := newMockCustomerRepo()
	handler := NewCustomerHandler(repo)

	customer, err := handler.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ana", LastName: "García", Email: "ana@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, handler.Deactivate(context.Background(), customer.ID))

	stored, err := repo.FindByID(customer.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	err = handler.Deactivate(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
