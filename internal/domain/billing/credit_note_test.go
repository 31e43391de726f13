package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSentCreditNote(t *testing.T) *CreditNote {
	t.Helper()
	cn, err := NewCreditNote(uuid.New(), "AVOIR-2026-0001", uuid.New(), "Acme SARL", time.Now())
	require.NoError(t, err)
	_, err = cn.AddItem("Returned goods", d("1"), d("250"), d("20"), d("0"))
	require.NoError(t, err)
	require.NoError(t, cn.Send())
	return cn
}

func TestCreditNote_StatusTransitions(t *testing.T) {
	tests := []struct {
		from    CreditNoteStatus
		to      CreditNoteStatus
		allowed bool
	}{
		{CreditNoteStatusDraft, CreditNoteStatusSent, true},
		{CreditNoteStatusDraft, CreditNoteStatusCancelled, true},
		{CreditNoteStatusDraft, CreditNoteStatusApplied, false},
		{CreditNoteStatusSent, CreditNoteStatusApplied, true},
		{CreditNoteStatusSent, CreditNoteStatusCancelled, true},
		{CreditNoteStatusApplied, CreditNoteStatusCancelled, false},
		{CreditNoteStatusApplied, CreditNoteStatusDraft, false},
		{CreditNoteStatusCancelled, CreditNoteStatusSent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCreditNote_ApplyToInvoice(t *testing.T) {
	cn := newSentCreditNote(t)
	invoiceID := uuid.New()

	assert.Error(t, cn.ApplyToInvoice(uuid.Nil))

	require.NoError(t, cn.ApplyToInvoice(invoiceID))
	assert.Equal(t, CreditNoteStatusApplied, cn.Status)
	require.NotNil(t, cn.AppliedInvoiceID)
	assert.Equal(t, invoiceID, *cn.AppliedInvoiceID)
	assert.NotNil(t, cn.AppliedAt)

	events := cn.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCreditNoteApplied, events[0].EventType())

	// applied is terminal
	assert.Error(t, cn.ApplyToInvoice(uuid.New()))
	assert.Error(t, cn.Cancel())
}

func TestCreditNote_Permissions(t *testing.T) {
	perms := PermissionsForCreditNote(CreditNoteStatusDraft)
	assert.True(t, perms.CanEdit)
	assert.True(t, perms.CanDelete)

	perms = PermissionsForCreditNote(CreditNoteStatusSent)
	assert.False(t, perms.CanEdit)
	assert.True(t, perms.CanDelete)
	assert.True(t, perms.CanApply)

	// an applied credit cannot be deleted
	perms = PermissionsForCreditNote(CreditNoteStatusApplied)
	assert.False(t, perms.CanDelete)
	assert.False(t, perms.CanApply)
	assert.False(t, perms.CanCancel)

	perms = PermissionsForCreditNote(CreditNoteStatusCancelled)
	assert.True(t, perms.CanDelete)
}

func TestCreditNote_SendRequiresLines(t *testing.T) {
	cn, err := NewCreditNote(uuid.New(), "AVOIR-2026-0002", uuid.New(), "Acme SARL", time.Now())
	require.NoError(t, err)

	assert.Error(t, cn.Send())

	cn.SetReason("Billing mistake on FAC-2026-0012")
	_, err = cn.AddItem("Overbilled hours", d("2"), d("80"), d("20"), d("0"))
	require.NoError(t, err)
	require.NoError(t, cn.Send())
	assert.NotNil(t, cn.SentAt)
}

func TestCreditNote_Cancel(t *testing.T) {
	cn := newSentCreditNote(t)
	require.NoError(t, cn.Cancel())
	assert.Equal(t, CreditNoteStatusCancelled, cn.Status)
	assert.Error(t, cn.Send())
}
