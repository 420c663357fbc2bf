package gate

import (
	"errors"
	"testing"

	"go-sitesafety-ws/internal/model"
)

const (
	appCode     = "5119"
	supportCode = "3449"
)

func newStore(t *testing.T, id, code string) model.Store {
	t.Helper()
	s := model.Store{ID: id, Name: id, Category: model.CategoryDepartment}
	if err := s.SetAccessCode(code); err != nil {
		t.Fatalf("hash: %v", err)
	}
	return s
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action action
		from   State
		valid  bool
	}{
		{actUnlock, StateLocked, true},
		{actUnlock, StateStoreSelection, false},
		{actChooseStore, StateStoreSelection, true},
		{actChooseStore, StateRoleSelection, false},
		{actSubmitStoreCode, StateStoreSelection, true},
		{actSubmitStoreCode, StateLocked, false},
		{actPickRole, StateRoleSelection, true},
		{actPickRole, StateFieldWork, false},
		{actEnterMonitoring, StateRoleSelection, true},
		{actEnterMonitoring, StateMonitoring, false},
		{actBack, StateFieldWork, true},
		{actBack, StateMonitoring, true},
		{actBack, StateRoleSelection, false},
		{actChangeStore, StateRoleSelection, true},
		{actChangeStore, StateMonitoring, true},
		{actChangeStore, StateLocked, false},
		{"unknown", StateLocked, false},
	}

	for _, tt := range cases {
		if got := validTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("validTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestFullPathToFieldWorkAndBack(t *testing.T) {
	g := New(appCode, supportCode)
	store := newStore(t, "dept-1", "1123")

	s, err := g.Unlock(Locked(), appCode)
	if err != nil || s.State != StateStoreSelection || !s.AppUnlocked {
		t.Fatalf("unlock: %+v %v", s, err)
	}
	if s, err = g.ChooseStore(s, store.ID); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if s, err = g.SubmitStoreCode(s, store, "1123"); err != nil || s.State != StateRoleSelection || s.StoreID != store.ID {
		t.Fatalf("store code: %+v %v", s, err)
	}
	if s.PendingStoreID != "" {
		t.Fatalf("pending store should be cleared: %+v", s)
	}
	if s, err = g.PickRole(s, model.RoleSafety); err != nil || s.State != StateFieldWork || s.Role != model.RoleSafety {
		t.Fatalf("role: %+v %v", s, err)
	}
	if !s.Scoped() || !s.Valid() {
		t.Fatalf("field work session should be scoped and valid: %+v", s)
	}

	if s, err = Back(s); err != nil || s.State != StateRoleSelection || s.Role != "" || s.StoreID != store.ID {
		t.Fatalf("back: %+v %v", s, err)
	}
	if s, err = g.EnterMonitoring(s, supportCode); err != nil || s.State != StateMonitoring || s.Role != model.RoleSupport {
		t.Fatalf("monitoring: %+v %v", s, err)
	}
	if s, err = ChangeStore(s); err != nil || s != (Session{State: StateStoreSelection, AppUnlocked: true}) {
		t.Fatalf("change store: %+v %v", s, err)
	}
	if s = Lock(); s != Locked() {
		t.Fatalf("lock: %+v", s)
	}
}

func TestWrongCodeLeavesStateUnchanged(t *testing.T) {
	g := New(appCode, supportCode)
	store := newStore(t, "dept-1", "1123")

	locked := Locked()
	storeSel := Session{State: StateStoreSelection, AppUnlocked: true, PendingStoreID: store.ID}
	roleSel := Session{State: StateRoleSelection, AppUnlocked: true, StoreID: store.ID}

	cases := []struct {
		name string
		in   Session
		step func(Session) (Session, error)
	}{
		{"app passcode", locked, func(s Session) (Session, error) { return g.Unlock(s, "0000") }},
		{"empty app passcode", locked, func(s Session) (Session, error) { return g.Unlock(s, "") }},
		{"store code", storeSel, func(s Session) (Session, error) { return g.SubmitStoreCode(s, store, "1111") }},
		{"support passcode", roleSel, func(s Session) (Session, error) { return g.EnterMonitoring(s, appCode) }},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.step(tt.in)
			if !errors.Is(err, ErrWrongCode) {
				t.Fatalf("err = %v, want ErrWrongCode", err)
			}
			if got != tt.in {
				t.Fatalf("state changed: %+v -> %+v", tt.in, got)
			}
		})
	}
}

func TestStoreCodeRequiresChosenStore(t *testing.T) {
	g := New(appCode, supportCode)
	a := newStore(t, "dept-a", "1111")
	b := newStore(t, "dept-b", "2222")

	s, _ := g.Unlock(Locked(), appCode)

	// Nothing chosen yet
	if got, err := g.SubmitStoreCode(s, a, "1111"); !errors.Is(err, ErrNoStoreChosen) || got != s {
		t.Fatalf("no store chosen: %+v %v", got, err)
	}

	// B chosen, A's correct code is still refused
	s, _ = g.ChooseStore(s, b.ID)
	if got, err := g.SubmitStoreCode(s, a, "1111"); !errors.Is(err, ErrNoStoreChosen) || got != s {
		t.Fatalf("other store: %+v %v", got, err)
	}

	// Re-choosing replaces the pending store
	s, _ = g.ChooseStore(s, a.ID)
	got, err := g.SubmitStoreCode(s, a, "1111")
	if err != nil || got.StoreID != a.ID {
		t.Fatalf("re-chosen store: %+v %v", got, err)
	}
}

func TestPickRole(t *testing.T) {
	g := New(appCode, supportCode)
	roleSel := Session{State: StateRoleSelection, AppUnlocked: true, StoreID: "dept-1"}

	for _, r := range model.FieldRoles {
		s, err := g.PickRole(roleSel, r)
		if err != nil || s.State != StateFieldWork || s.Role != r {
			t.Fatalf("%s: %+v %v", r, s, err)
		}
	}

	if s, err := g.PickRole(roleSel, model.RoleSupport); !errors.Is(err, ErrPasscodeRequired) || s != roleSel {
		t.Fatalf("support: %+v %v", s, err)
	}
	if s, err := g.PickRole(roleSel, "JANITOR"); !errors.Is(err, ErrUnknownRole) || s != roleSel {
		t.Fatalf("unknown: %+v %v", s, err)
	}
}

func TestOutOfOrderActionsAreRejected(t *testing.T) {
	g := New(appCode, supportCode)
	store := newStore(t, "dept-1", "1123")
	locked := Locked()

	if _, err := g.ChooseStore(locked, store.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("choose while locked: %v", err)
	}
	if _, err := g.PickRole(locked, model.RoleFacility); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("role while locked: %v", err)
	}
	if _, err := g.EnterMonitoring(locked, supportCode); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("monitoring while locked: %v", err)
	}
	if _, err := Back(locked); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("back while locked: %v", err)
	}
	if _, err := ChangeStore(locked); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("change store while locked: %v", err)
	}

	unlocked := Session{State: StateStoreSelection, AppUnlocked: true}
	if got, err := g.Unlock(unlocked, appCode); !errors.Is(err, ErrInvalidTransition) || got != unlocked {
		t.Fatalf("unlock twice: %+v %v", got, err)
	}
}

func TestSessionValid(t *testing.T) {
	cases := []struct {
		name  string
		s     Session
		valid bool
	}{
		{"locked", Locked(), true},
		{"locked with store", Session{State: StateLocked, StoreID: "x"}, false},
		{"store selection", Session{State: StateStoreSelection, AppUnlocked: true, PendingStoreID: "x"}, true},
		{"role selection without store", Session{State: StateRoleSelection, AppUnlocked: true}, false},
		{"field work as support", Session{State: StateFieldWork, AppUnlocked: true, StoreID: "x", Role: model.RoleSupport}, false},
		{"monitoring", Session{State: StateMonitoring, AppUnlocked: true, StoreID: "x", Role: model.RoleSupport}, true},
		{"unknown state", Session{State: "OPEN"}, false},
	}
	for _, tt := range cases {
		if got := tt.s.Valid(); got != tt.valid {
			t.Fatalf("%s: Valid()=%v, want %v", tt.name, got, tt.valid)
		}
	}
}
