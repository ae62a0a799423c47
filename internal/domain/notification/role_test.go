package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	for _, r := range AllRoles() {
		assert.True(t, r.IsValid(), r)
	}
	assert.Len(t, AllRoles(), 7)

	_, ok := ParseRole("farmer")
	assert.False(t, ok)
	r, ok := ParseRole("port_inspector")
	assert.True(t, ok)
	assert.Equal(t, RolePortInspector, r)
}

type stubDispatcher struct {
	calls  []Role
	reject map[Role]bool
}

func (s *stubDispatcher) Notify(_ context.Context, role Role, _ Payload) DispatchResult {
	s.calls = append(s.calls, role)
	if s.reject[role] {
		return DispatchResult{Role: role, Err: errors.New("store down")}
	}
	return DispatchResult{Role: role, Accepted: true}
}

func TestNotifyAll(t *testing.T) {
	d := &stubDispatcher{reject: map[Role]bool{RoleWarehouse: true}}

	receipt := NotifyAll(context.Background(), d, Payload{Type: TypeBatchHarvested},
		RoleLandInspector, RoleWarehouse, RoleRegulatorDDGOTS, Role("farmer"))

	assert.Equal(t, []Role{RoleLandInspector, RoleWarehouse, RoleRegulatorDDGOTS, Role("farmer")}, d.calls)
	assert.Equal(t, Receipt{
		"land_inspector":   Notified,
		"warehouse":        Notified,
		"regulator_ddgots": Notified,
	}, receipt, "a failed save keeps its role; an unknown role is left out")
	assert.Equal(t, []string{"land_inspector", "regulator_ddgots", "warehouse"}, receipt.Roles())
}

func TestNotifyAll_NilDispatcher(t *testing.T) {
	assert.Empty(t, NotifyAll(context.Background(), nil, Payload{}, RoleBuyer))
}

type capturingDispatcher struct {
	seen map[Role]string
}

func (c *capturingDispatcher) Notify(_ context.Context, role Role, p Payload) DispatchResult {
	c.seen[role] = p.RecipientID
	return DispatchResult{Role: role, Accepted: true}
}

func TestNotifyRecipients(t *testing.T) {
	d := &capturingDispatcher{seen: map[Role]string{}}

	receipt := NotifyRecipients(context.Background(), d, Payload{Type: TypeLotAccepted, RecipientID: "ignored"},
		Recipient{Role: RoleBuyer, ID: "B1"},
		Recipient{Role: RoleRegulatorDDGOTS},
	)

	assert.Equal(t, map[Role]string{RoleBuyer: "B1", RoleRegulatorDDGOTS: ""}, d.seen)
	assert.Equal(t, []string{"buyer", "regulator_ddgots"}, receipt.Roles())
}
