// Package gate implements the sequential access gates: app passcode, store
// code, then role. Transitions are pure functions from one Session value to
// the next; a rejected step returns the input Session unchanged.
package gate

import (
	"crypto/subtle"
	"errors"

	"go-sitesafety-ws/internal/model"
)

// State is the gate stage a session has reached
type State string

const (
	StateLocked         State = "LOCKED"
	StateStoreSelection State = "STORE_SELECTION"
	StateRoleSelection  State = "ROLE_SELECTION"
	StateFieldWork      State = "FIELD_WORK"
	StateMonitoring     State = "MONITORING"
)

var (
	ErrWrongCode         = errors.New("incorrect code")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrNoStoreChosen     = errors.New("choose a store before entering its code")
	ErrPasscodeRequired  = errors.New("the monitoring role requires the support passcode")
	ErrUnknownRole       = errors.New("unknown role")
)

// Session is the unlocked scope of one operator
type Session struct {
	State          State      `json:"state"`
	AppUnlocked    bool       `json:"app_unlocked"`
	StoreID        string     `json:"store_id,omitempty"`
	PendingStoreID string     `json:"pending_store_id,omitempty"`
	Role           model.Role `json:"role,omitempty"`
}

// Locked is the initial session
func Locked() Session {
	return Session{State: StateLocked}
}

// Scoped reports whether the session has both a store and a role
func (s Session) Scoped() bool {
	return s.State == StateFieldWork || s.State == StateMonitoring
}

type action string

const (
	actUnlock          action = "unlock"
	actChooseStore     action = "choose_store"
	actSubmitStoreCode action = "submit_store_code"
	actPickRole        action = "pick_role"
	actEnterMonitoring action = "enter_monitoring"
	actBack            action = "back"
	actChangeStore     action = "change_store"
)

var allowed = map[action][]State{
	actUnlock:          {StateLocked},
	actChooseStore:     {StateStoreSelection},
	actSubmitStoreCode: {StateStoreSelection},
	actPickRole:        {StateRoleSelection},
	actEnterMonitoring: {StateRoleSelection},
	actBack:            {StateFieldWork, StateMonitoring},
	actChangeStore:     {StateRoleSelection, StateFieldWork, StateMonitoring},
}

func validTransition(a action, from State) bool {
	for _, st := range allowed[a] {
		if st == from {
			return true
		}
	}
	return false
}

// Gate holds the two shared secrets that are not stored per store
type Gate struct {
	appCode     string
	supportCode string
}

func New(appCode, supportCode string) *Gate {
	return &Gate{appCode: appCode, supportCode: supportCode}
}

func codeMatches(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// Unlock opens the app with the global passcode
func (g *Gate) Unlock(s Session, code string) (Session, error) {
	if !validTransition(actUnlock, s.State) {
		return s, ErrInvalidTransition
	}
	if !codeMatches(g.appCode, code) {
		return s, ErrWrongCode
	}
	return Session{State: StateStoreSelection, AppUnlocked: true}, nil
}

// ChooseStore marks storeID as the store whose code will be entered next.
// Choosing again replaces the previous choice.
func (g *Gate) ChooseStore(s Session, storeID string) (Session, error) {
	if !validTransition(actChooseStore, s.State) {
		return s, ErrInvalidTransition
	}
	if storeID == "" {
		return s, ErrNoStoreChosen
	}
	s.PendingStoreID = storeID
	return s, nil
}

// SubmitStoreCode checks code against the pending store only. store must be
// the record of the pending store; any other store is rejected.
func (g *Gate) SubmitStoreCode(s Session, store model.Store, code string) (Session, error) {
	if !validTransition(actSubmitStoreCode, s.State) {
		return s, ErrInvalidTransition
	}
	if s.PendingStoreID == "" || store.ID != s.PendingStoreID {
		return s, ErrNoStoreChosen
	}
	if !store.CheckAccessCode(code) {
		return s, ErrWrongCode
	}
	return Session{
		State:       StateRoleSelection,
		AppUnlocked: true,
		StoreID:     store.ID,
	}, nil
}

// PickRole enters field work for an inspector role. The support role has its
// own passcode and goes through EnterMonitoring.
func (g *Gate) PickRole(s Session, role model.Role) (Session, error) {
	if !validTransition(actPickRole, s.State) {
		return s, ErrInvalidTransition
	}
	if !role.Valid() {
		return s, ErrUnknownRole
	}
	if !role.IsFieldRole() {
		return s, ErrPasscodeRequired
	}
	s.Role = role
	s.State = StateFieldWork
	return s, nil
}

// EnterMonitoring selects the support role with the support passcode
func (g *Gate) EnterMonitoring(s Session, code string) (Session, error) {
	if !validTransition(actEnterMonitoring, s.State) {
		return s, ErrInvalidTransition
	}
	if !codeMatches(g.supportCode, code) {
		return s, ErrWrongCode
	}
	s.Role = model.RoleSupport
	s.State = StateMonitoring
	return s, nil
}

// Back clears the role and keeps the store
func Back(s Session) (Session, error) {
	if !validTransition(actBack, s.State) {
		return s, ErrInvalidTransition
	}
	s.Role = ""
	s.State = StateRoleSelection
	return s, nil
}

// ChangeStore clears store and role but keeps the app unlocked
func ChangeStore(s Session) (Session, error) {
	if !validTransition(actChangeStore, s.State) {
		return s, ErrInvalidTransition
	}
	return Session{State: StateStoreSelection, AppUnlocked: true}, nil
}

// Lock clears everything. It is valid from any state.
func Lock() Session {
	return Locked()
}

// Valid reports whether the fields of s agree with its state. Sessions read
// back from a token are checked with it before use.
func (s Session) Valid() bool {
	switch s.State {
	case StateLocked:
		return !s.AppUnlocked && s.StoreID == "" && s.PendingStoreID == "" && s.Role == ""
	case StateStoreSelection:
		return s.AppUnlocked && s.StoreID == "" && s.Role == ""
	case StateRoleSelection:
		return s.AppUnlocked && s.StoreID != "" && s.PendingStoreID == "" && s.Role == ""
	case StateFieldWork:
		return s.AppUnlocked && s.StoreID != "" && s.Role.IsFieldRole()
	case StateMonitoring:
		return s.AppUnlocked && s.StoreID != "" && s.Role == model.RoleSupport
	}
	return false
}
