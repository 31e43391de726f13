package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeliveryNote(t *testing.T) *DeliveryNote {
	t.Helper()
	dn, err := NewDeliveryNote(uuid.New(), "BL-202608-001", uuid.New(), "Acme SARL", time.Now())
	require.NoError(t, err)
	_, err = dn.AddItem("Pallet of widgets", d("10"), d("25"), d("20"), d("0"))
	require.NoError(t, err)
	return dn
}

func TestDeliveryNote_StatusFlowIsStrictlyForward(t *testing.T) {
	tests := []struct {
		from    DeliveryNoteStatus
		to      DeliveryNoteStatus
		allowed bool
	}{
		{DeliveryNoteStatusPending, DeliveryNoteStatusSent, true},
		{DeliveryNoteStatusPending, DeliveryNoteStatusDelivered, false},
		{DeliveryNoteStatusSent, DeliveryNoteStatusDelivered, true},
		{DeliveryNoteStatusSent, DeliveryNoteStatusPending, false},
		{DeliveryNoteStatusDelivered, DeliveryNoteStatusSigned, true},
		{DeliveryNoteStatusDelivered, DeliveryNoteStatusSent, false},
		{DeliveryNoteStatusSigned, DeliveryNoteStatusDelivered, false},
		{DeliveryNoteStatusSigned, DeliveryNoteStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDeliveryNote_Lifecycle(t *testing.T) {
	dn := newTestDeliveryNote(t)

	require.NoError(t, dn.Send())
	assert.Equal(t, DeliveryNoteStatusSent, dn.Status)

	// skipping steps is not allowed
	assert.Error(t, dn.MarkSigned("J. Dupont"))

	require.NoError(t, dn.MarkDelivered())
	assert.Equal(t, DeliveryNoteStatusDelivered, dn.Status)
	assert.NotNil(t, dn.DeliveredAt)

	events := dn.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDeliveryNoteDelivered, events[0].EventType())

	assert.Error(t, dn.MarkSigned(""))
	require.NoError(t, dn.MarkSigned("J. Dupont"))
	assert.Equal(t, DeliveryNoteStatusSigned, dn.Status)
	assert.Equal(t, "J. Dupont", dn.SignedBy)
}

func TestDeliveryNote_Permissions(t *testing.T) {
	perms := PermissionsForDeliveryNote(DeliveryNoteStatusPending)
	assert.True(t, perms.CanEdit)
	assert.True(t, perms.CanDelete)

	perms = PermissionsForDeliveryNote(DeliveryNoteStatusSent)
	assert.False(t, perms.CanEdit)
	assert.True(t, perms.CanDelete)
	assert.True(t, perms.CanMarkDelivered)

	// delivered goods cannot be deleted
	perms = PermissionsForDeliveryNote(DeliveryNoteStatusDelivered)
	assert.False(t, perms.CanDelete)
	assert.True(t, perms.CanMarkSigned)

	perms = PermissionsForDeliveryNote(DeliveryNoteStatusSigned)
	assert.False(t, perms.CanDelete)
	assert.False(t, perms.CanMarkSigned)
}

func TestDeliveryNote_EditOnlyWhilePending(t *testing.T) {
	dn := newTestDeliveryNote(t)
	require.NoError(t, dn.Send())

	_, err := dn.AddItem("Late addition", d("1"), d("5"), d("0"), d("0"))
	assert.Error(t, err)
}
