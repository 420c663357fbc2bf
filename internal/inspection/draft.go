// Package inspection holds in-progress inspection forms. The first photo of a
// draft is classified in the background and the result pre-fills fields the
// operator has not touched.
package inspection

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/model"

	"github.com/google/uuid"
)

// MaxPhotos per inspection
const MaxPhotos = 5

var (
	ErrWorkTypeRequired = errors.New("enter today's main work type")
	ErrNotFieldRole     = errors.New("only field roles submit inspections")
	ErrTooManyPhotos    = errors.New("an inspection holds at most 5 photos")
	ErrPhotoIndex       = errors.New("photo index out of range")
	ErrEmptyPhoto       = errors.New("photo is empty")
	ErrInvalidRisk      = errors.New("unknown risk level")
	ErrDraftNotFound    = errors.New("draft not found")
)

// ValidateSubmission applies the role specific rules shared by drafts and
// direct submissions
func ValidateSubmission(role model.Role, workType string) error {
	capability := role.Capability()
	if !capability.FieldRole {
		return ErrNotFieldRole
	}
	if capability.ValidatesWorkType && strings.TrimSpace(workType) == "" {
		return ErrWorkTypeRequired
	}
	return nil
}

// View is a point-in-time copy of a draft
type View struct {
	ID         uuid.UUID          `json:"id"`
	SiteID     uuid.UUID          `json:"site_id"`
	SiteName   string             `json:"site_name"`
	Role       model.Role         `json:"role"`
	WorkType   string             `json:"work_type"`
	Photos     []string           `json:"photos"`
	RiskLevel  model.RiskLevel    `json:"risk_level"`
	Notes      string             `json:"notes"`
	Checklist  model.Checklist    `json:"checklist"`
	Analyzing  bool               `json:"analyzing"`
	Suggestion *ai.Classification `json:"suggestion,omitempty"`
}

// Draft is safe for concurrent use
type Draft struct {
	mu sync.Mutex
	wg sync.WaitGroup

	assistant ai.Assistant

	id       uuid.UUID
	storeID  string
	site     model.Site
	role     model.Role
	workType string
	photos   []string
	risk     model.RiskLevel
	notes    string
	checks   model.Checklist

	riskEdited  bool
	notesEdited bool

	// Bumped when a new first photo starts a classification
	gen        uint64
	analyzing  bool
	suggestion *ai.Classification
}

// NewDraft starts an empty form for site. The checklist starts all
// non-compliant and the risk level NORMAL.
func NewDraft(site model.Site, role model.Role, assistant ai.Assistant) (*Draft, error) {
	if !role.IsFieldRole() {
		return nil, ErrNotFieldRole
	}
	return &Draft{
		assistant: assistant,
		id:        uuid.New(),
		storeID:   site.StoreID,
		site:      site,
		role:      role,
		photos:    make([]string, 0, MaxPhotos),
		risk:      model.RiskNormal,
		checks:    model.NewChecklist(false, false, false, false),
	}, nil
}

func (d *Draft) ID() uuid.UUID { return d.id }

func (d *Draft) StoreID() string { return d.storeID }

func (d *Draft) Role() model.Role { return d.role }

// AddPhoto appends image. When it is the only photo a classification starts;
// its result is applied later by the background goroutine.
func (d *Draft) AddPhoto(ctx context.Context, image string) error {
	if image == "" {
		return ErrEmptyPhoto
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.photos) >= MaxPhotos {
		return ErrTooManyPhotos
	}
	first := len(d.photos) == 0
	d.photos = append(d.photos, image)
	if !first || d.assistant == nil {
		return nil
	}

	d.gen++
	gen := d.gen
	d.analyzing = true
	d.suggestion = nil

	// The request context ends with the HTTP call, the classification must not
	bg := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		c := d.assistant.ClassifyPhoto(bg, image)
		d.applySuggestion(gen, c)
	}()
	return nil
}

func (d *Draft) applySuggestion(gen uint64, c ai.Classification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return
	}
	d.analyzing = false
	d.suggestion = &c

	if !d.riskEdited && c.Risk.Severity() > model.RiskNormal.Severity() {
		d.risk = c.Risk
	}
	if !d.notesEdited && d.notes == "" && c.Description != "" {
		d.notes = c.Description
	}
}

// RemovePhoto drops the photo at index. Removing the last photo abandons a
// pending classification.
func (d *Draft) RemovePhoto(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.photos) {
		return ErrPhotoIndex
	}
	d.photos = append(d.photos[:index], d.photos[index+1:]...)
	if len(d.photos) == 0 && d.analyzing {
		d.gen++
		d.analyzing = false
	}
	return nil
}

func (d *Draft) SetRisk(level model.RiskLevel) error {
	if !level.Valid() {
		return ErrInvalidRisk
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.risk = level
	d.riskEdited = true
	return nil
}

func (d *Draft) SetNotes(notes string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = notes
	d.notesEdited = true
}

func (d *Draft) SetWorkType(workType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.workType = workType
}

// SetChecklist overwrites the reported items; nil items keep their value
func (d *Draft) SetChecklist(c model.Checklist) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.PPE != nil {
		d.checks.PPE = c.PPE
	}
	if c.FireSafety != nil {
		d.checks.FireSafety = c.FireSafety
	}
	if c.Environment != nil {
		d.checks.Environment = c.Environment
	}
	if c.Electrical != nil {
		d.checks.Electrical = c.Electrical
	}
}

func (d *Draft) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	photos := make([]string, len(d.photos))
	copy(photos, d.photos)
	return View{
		ID:         d.id,
		SiteID:     d.site.ID,
		SiteName:   d.site.Name,
		Role:       d.role,
		WorkType:   d.workType,
		Photos:     photos,
		RiskLevel:  d.risk,
		Notes:      d.notes,
		Checklist:  d.checks,
		Analyzing:  d.analyzing,
		Suggestion: d.suggestion,
	}
}

// Wait blocks until every started classification has finished
func (d *Draft) Wait() {
	d.wg.Wait()
}

// Build validates the draft and produces the log to append. It never waits
// for a pending classification: the current field values are submitted.
func (d *Draft) Build(now time.Time) (model.InspectionLog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := ValidateSubmission(d.role, d.workType); err != nil {
		return model.InspectionLog{}, err
	}

	photos := make([]string, len(d.photos))
	copy(photos, d.photos)
	return model.InspectionLog{
		SiteID:        d.site.ID,
		StoreID:       d.storeID,
		SiteName:      d.site.Name,
		WorkType:      strings.TrimSpace(d.workType),
		Timestamp:     now,
		Photos:        photos,
		RiskLevel:     d.risk,
		Notes:         d.notes,
		InspectorName: d.role.Capability().InspectorName,
		InspectorRole: d.role,
		Checklist:     d.checks,
	}, nil
}
