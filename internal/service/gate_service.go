package service

import (
	"errors"

	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
	"go-sitesafety-ws/pkg/jwt"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrInvalidScope  = errors.New("scope token does not describe a valid session")
)

type GateService interface {
	Unlock(code string) (*ScopeResponse, error)
	ChooseStore(sess gate.Session, storeID string) (*ScopeResponse, error)
	SubmitStoreCode(sess gate.Session, code string) (*ScopeResponse, error)
	PickRole(sess gate.Session, role string) (*ScopeResponse, error)
	EnterMonitoring(sess gate.Session, code string) (*ScopeResponse, error)
	Back(sess gate.Session) (*ScopeResponse, error)
	ChangeStore(sess gate.Session) (*ScopeResponse, error)
	Lock() (*ScopeResponse, error)

	Decode(token string) (gate.Session, error)
	Describe(sess gate.Session) (*ScopeResponse, error)
}

// ScopeResponse carries the new token and what it unlocks
type ScopeResponse struct {
	Token      string            `json:"token"`
	Session    gate.Session      `json:"session"`
	Store      *model.Store      `json:"store,omitempty"`
	Capability *model.Capability `json:"capability,omitempty"`
}

type gateService struct {
	gate      *gate.Gate
	storeRepo repository.StoreRepository
	signer    *jwt.Signer
}

func NewGateService(g *gate.Gate, storeRepo repository.StoreRepository, signer *jwt.Signer) GateService {
	return &gateService{
		gate:      g,
		storeRepo: storeRepo,
		signer:    signer,
	}
}

func (s *gateService) Unlock(code string) (*ScopeResponse, error) {
	next, err := s.gate.Unlock(gate.Locked(), code)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) ChooseStore(sess gate.Session, storeID string) (*ScopeResponse, error) {
	if storeID != "" {
		if _, err := s.storeRepo.FindByID(storeID); err != nil {
			return nil, ErrStoreNotFound
		}
	}
	next, err := s.gate.ChooseStore(sess, storeID)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) SubmitStoreCode(sess gate.Session, code string) (*ScopeResponse, error) {
	if sess.PendingStoreID == "" {
		return nil, gate.ErrNoStoreChosen
	}
	store, err := s.storeRepo.FindByID(sess.PendingStoreID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	next, err := s.gate.SubmitStoreCode(sess, *store, code)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) PickRole(sess gate.Session, role string) (*ScopeResponse, error) {
	r, ok := model.ParseRole(role)
	if !ok {
		return nil, gate.ErrUnknownRole
	}
	next, err := s.gate.PickRole(sess, r)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) EnterMonitoring(sess gate.Session, code string) (*ScopeResponse, error) {
	next, err := s.gate.EnterMonitoring(sess, code)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) Back(sess gate.Session) (*ScopeResponse, error) {
	next, err := gate.Back(sess)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

func (s *gateService) ChangeStore(sess gate.Session) (*ScopeResponse, error) {
	next, err := gate.ChangeStore(sess)
	if err != nil {
		return nil, err
	}
	return s.issue(next)
}

// Lock returns a token for the locked state. Clients may also just drop their token.
func (s *gateService) Lock() (*ScopeResponse, error) {
	return s.issue(gate.Lock())
}

// Decode validates a scope token and rebuilds the session it carries
func (s *gateService) Decode(token string) (gate.Session, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return gate.Session{}, err
	}
	sess := gate.Session{
		State:          gate.State(claims.Stage),
		AppUnlocked:    claims.Stage != string(gate.StateLocked),
		StoreID:        claims.StoreID,
		PendingStoreID: claims.PendingStoreID,
		Role:           model.Role(claims.Role),
	}
	if !sess.Valid() {
		return gate.Session{}, ErrInvalidScope
	}
	return sess, nil
}

// Describe reports the session without issuing a new token
func (s *gateService) Describe(sess gate.Session) (*ScopeResponse, error) {
	resp := &ScopeResponse{Session: sess}
	return resp, s.decorate(resp)
}

func (s *gateService) issue(next gate.Session) (*ScopeResponse, error) {
	token, err := s.signer.GenerateToken(string(next.State), next.StoreID, next.PendingStoreID, string(next.Role))
	if err != nil {
		return nil, err
	}
	resp := &ScopeResponse{Token: token, Session: next}
	return resp, s.decorate(resp)
}

func (s *gateService) decorate(resp *ScopeResponse) error {
	if resp.Session.StoreID != "" {
		store, err := s.storeRepo.FindByID(resp.Session.StoreID)
		if err != nil {
			return ErrStoreNotFound
		}
		resp.Store = store
	}
	if resp.Session.Role != "" {
		capability := resp.Session.Role.Capability()
		resp.Capability = &capability
	}
	return nil
}
