// Package workflow implements the review-record lifecycle shared by leave,
// overtime and weekly reports: filed Pending by the owner, decided exactly
// once by an authorized reviewer.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinichr/internal/store"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	ErrInvalidStatus   = errors.New("status must be Approved or Rejected")
	ErrNotFound        = errors.New("request not found")
	ErrAlreadyReviewed = errors.New("request already reviewed")
)

const dateFormat = "2006-01-02"

// Engine drives one record kind rooted at Root (e.g. "leave"), with
// documents at Root/{uid}/{id}.
type Engine struct {
	Store store.Store
	Root  string
	Now   func() time.Time
}

func New(st store.Store, root string) *Engine {
	return &Engine{Store: st, Root: root, Now: time.Now}
}

func (e *Engine) Today() string {
	return e.Now().Format(dateFormat)
}

// File appends record under the owner's subtree and returns the generated id.
// Callers stamp status and createdAt on the record themselves so each kind
// keeps its own typed model.
func (e *Engine) File(ctx context.Context, uid string, record any) (string, error) {
	return e.Store.Push(ctx, e.Root+"/"+uid, record)
}

// Entry is one listed record. Its JSON form is the stored document merged
// with the listing metadata, mirroring the wire shape clients expect.
type Entry struct {
	ID          string
	UID         string
	DisplayName string
	EmployeeID  string
	CreatedAt   string
	Data        json.RawMessage
}

func (e Entry) MarshalJSON() ([]byte, error) {
	merged := map[string]any{}
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &merged); err != nil {
			return nil, err
		}
	}
	merged["id"] = e.ID
	if e.UID != "" {
		merged["uid"] = e.UID
		merged["display_name"] = e.DisplayName
		merged["employee_id"] = e.EmployeeID
	}
	return json.Marshal(merged)
}

type createdAtProbe struct {
	CreatedAt string `json:"createdAt"`
}

func (e *Engine) ListOwn(ctx context.Context, uid string) ([]Entry, error) {
	children, err := e.Store.Children(ctx, e.Root+"/"+uid)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(children))
	for id, raw := range children {
		var probe createdAtProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("decode %s record %s: %w", e.Root, id, err)
		}
		entries = append(entries, Entry{ID: id, CreatedAt: probe.CreatedAt, Data: raw})
	}
	sortEntries(entries)
	return entries, nil
}

type profileProbe struct {
	DisplayName string `json:"displayName"`
	EmployeeID  string `json:"employeeID"`
}

// ListAll aggregates every owner's records, enriched with the submitter's
// display name and employee id, most recent first.
func (e *Engine) ListAll(ctx context.Context) ([]Entry, error) {
	owners, err := e.Store.ChildKeys(ctx, e.Root)
	if err != nil {
		return nil, err
	}
	profiles, err := e.Store.Children(ctx, "users")
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, uid := range owners {
		var profile profileProbe
		if raw, ok := profiles[uid]; ok {
			if err := json.Unmarshal(raw, &profile); err != nil {
				return nil, fmt.Errorf("decode profile %s: %w", uid, err)
			}
		}
		children, err := e.Store.Children(ctx, e.Root+"/"+uid)
		if err != nil {
			return nil, err
		}
		for id, raw := range children {
			var probe createdAtProbe
			if err := json.Unmarshal(raw, &probe); err != nil {
				return nil, fmt.Errorf("decode %s record %s/%s: %w", e.Root, uid, id, err)
			}
			entries = append(entries, Entry{
				ID:          id,
				UID:         uid,
				DisplayName: profile.DisplayName,
				EmployeeID:  profile.EmployeeID,
				CreatedAt:   probe.CreatedAt,
				Data:        raw,
			})
		}
	}
	sortEntries(entries)
	return entries, nil
}

// Most recent first; ties keep a stable (uid, id) order so repeated
// listings agree.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt != entries[j].CreatedAt {
			return entries[i].CreatedAt > entries[j].CreatedAt
		}
		if entries[i].UID != entries[j].UID {
			return entries[i].UID < entries[j].UID
		}
		return entries[i].ID < entries[j].ID
	})
}

type statusProbe struct {
	Status string `json:"status"`
}

// Decide transitions the record at (uid, id) from Pending to status,
// stamping the reviewer and date. A record already decided stays as it is.
// Returns the record as it was before the transition.
func (e *Engine) Decide(ctx context.Context, uid, id, status, reviewerUID string) (json.RawMessage, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	var prev json.RawMessage
	err := e.Store.Transform(ctx, e.Root+"/"+uid+"/"+id, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, ErrNotFound
		}
		var probe statusProbe
		if err := json.Unmarshal(current, &probe); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", e.Root, err)
		}
		if probe.Status != StatusPending {
			return nil, ErrAlreadyReviewed
		}

		merged := map[string]any{}
		if err := json.Unmarshal(current, &merged); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", e.Root, err)
		}
		merged["status"] = status
		merged["reviewedBy"] = reviewerUID
		merged["reviewedAt"] = e.Today()

		prev = current
		return merged, nil
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}
