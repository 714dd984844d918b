package core

import "fmt"

// OrderKind is what an arrow asks its unit to do.
type OrderKind int

const (
	OrderMove OrderKind = iota
	OrderAttack
	OrderSupportAttack
	OrderSupportDefense
	OrderSuppressiveFire
	OrderLoadUnload
)

var orderKindNames = [...]string{
	OrderMove:            "Move",
	OrderAttack:          "Attack",
	OrderSupportAttack:   "Support Attack",
	OrderSupportDefense:  "Support Defense",
	OrderSuppressiveFire: "Suppressive Fire",
	OrderLoadUnload:      "Load/Unload",
}

// AllOrderKinds lists every order kind in declaration order.
var AllOrderKinds = []OrderKind{
	OrderMove, OrderAttack, OrderSupportAttack, OrderSupportDefense, OrderSuppressiveFire, OrderLoadUnload,
}

func (k OrderKind) String() string {
	if k < 0 || int(k) >= len(orderKindNames) {
		return fmt.Sprintf("OrderKind(%d)", int(k))
	}
	return orderKindNames[k]
}

// ParseOrderKind converts a display name back into an OrderKind.
func ParseOrderKind(s string) (OrderKind, error) {
	for i, name := range orderKindNames {
		if name == s {
			return OrderKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrderKind, s)
}

func (k OrderKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(orderKindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOrderKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *OrderKind) UnmarshalText(b []byte) error {
	v, err := ParseOrderKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsStrike reports kinds that push power onto a hostile cell.
func (k OrderKind) IsStrike() bool {
	return k == OrderAttack || k == OrderSupportAttack || k == OrderSuppressiveFire
}

// IsSupport reports kinds that split the unit's support stat.
func (k OrderKind) IsSupport() bool {
	return k == OrderSupportAttack || k == OrderSupportDefense || k == OrderSuppressiveFire
}

// Moves reports kinds that relocate the unit.
func (k OrderKind) Moves() bool {
	return k == OrderMove || k == OrderLoadUnload
}

// ArrowScope records how an arrow is tied to a unit.
type ArrowScope int

const (
	// ScopeNation arrows belong to whichever unit of the nation stands at
	// the chain head. Kept for maps saved before per-unit arrows existed.
	ScopeNation ArrowScope = iota
	ScopeUnit
)

func (s ArrowScope) String() string {
	if s == ScopeUnit {
		return "unit"
	}
	return "nation"
}

// Arrow is a single order edge. Chains are sequences of arrows whose start
// equals the previous arrow's end.
type Arrow struct {
	ID     string
	From   Coordinate
	To     Coordinate
	Order  OrderKind
	Nation NationID
	UnitID string
	Scope  ArrowScope
}

// NewUnitArrow creates an arrow scoped to u.
func NewUnitArrow(u *Unit, from, to Coordinate, kind OrderKind) *Arrow {
	return &Arrow{
		ID:     newID(),
		From:   from,
		To:     to,
		Order:  kind,
		Nation: u.Nation,
		UnitID: u.ID,
		Scope:  ScopeUnit,
	}
}

// NewNationArrow creates a legacy nation-scoped arrow.
func NewNationArrow(nation NationID, from, to Coordinate, kind OrderKind) *Arrow {
	return &Arrow{ID: newID(), From: from, To: to, Order: kind, Nation: nation, Scope: ScopeNation}
}

func (a *Arrow) EntityID() string { return a.ID }
func (a *Arrow) Kind() EntityKind { return KindArrow }
func (a *Arrow) sealed()          {}

func (a *Arrow) String() string {
	return fmt.Sprintf("%s %s->%s", a.Order, a.From, a.To)
}
