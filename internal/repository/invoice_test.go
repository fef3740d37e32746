package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/repository"
)

func TestInvoiceLifecycleStamps(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewInvoiceRepository(tenant.DB)
	ctx := context.Background()

	inv, err := repo.Create(ctx, domain.Invoice{
		OrganizationID: tenant.OrgID,
		Number:         "INV-1001",
		AmountCents:    25000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.Nil(t, inv.IssuedAt)

	sent, err := repo.SetStatus(ctx, inv.ID, domain.InvoiceSent)
	require.NoError(t, err)
	require.NotNil(t, sent.IssuedAt)
	assert.Nil(t, sent.PaidAt)

	paid, err := repo.SetStatus(ctx, inv.ID, domain.InvoicePaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	// issued_at keeps the original stamp.
	assert.Equal(t, sent.IssuedAt.Unix(), paid.IssuedAt.Unix())
}

func TestInvoiceDuplicateNumberConflicts(t *testing.T) {
	m := newTestManager(t)
	tenant := newTestTenant(t, m, "acme")
	repo := repository.NewInvoiceRepository(tenant.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Invoice{
		OrganizationID: tenant.OrgID,
		Number:         "INV-1001",
		AmountCents:    100,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.Invoice{
		OrganizationID: tenant.OrgID,
		Number:         "INV-1001",
		AmountCents:    200,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
