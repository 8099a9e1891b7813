package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinichr/internal/domain/auth"
	"clinichr/internal/store"
)

var (
	ErrAlreadyTimedIn  = errors.New("already timed in today")
	ErrNotTimedIn      = errors.New("no time-in record found for today")
	ErrAlreadyTimedOut = errors.New("already timed out today")
)

const (
	dateFormat  = "2006-01-02"
	clockFormat = "03:04 PM"

	bulkTimeOutClock = "05:00 PM"
	bulkTimeOutHours = 8
)

// Service drives the per-(uid, date) state machine
// NoRecord -> TimedIn -> TimedOut. Guards run inside store.Transform so two
// concurrent punches on the same day cannot both pass a precondition.
type Service struct {
	Store store.Store
	Now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{Store: st, Now: time.Now}
}

func recordPath(uid, date string) string {
	return "attendance/" + uid + "/" + date
}

// TimeIn records the day's clock-in. Valid only when no record with a
// time-in exists for (uid, today).
func (s *Service) TimeIn(ctx context.Context, uid, timeIn, shiftStatus string) (string, error) {
	today := s.Now().Format(dateFormat)
	err := s.Store.Transform(ctx, recordPath(uid, today), func(current json.RawMessage) (any, error) {
		if current != nil {
			var existing Record
			if err := json.Unmarshal(current, &existing); err != nil {
				return nil, fmt.Errorf("decode attendance record: %w", err)
			}
			if existing.TimeIn != "" {
				return nil, ErrAlreadyTimedIn
			}
		}
		return Record{TimeIn: timeIn, Status: shiftStatus}, nil
	})
	if err != nil {
		return "", err
	}
	return today, nil
}

// TimeOut completes the day's record. Valid only from the TimedIn state.
func (s *Service) TimeOut(ctx context.Context, uid, timeOut string, totalHours, extraHours float64) error {
	today := s.Now().Format(dateFormat)
	return s.Store.Transform(ctx, recordPath(uid, today), func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, ErrNotTimedIn
		}
		var record Record
		if err := json.Unmarshal(current, &record); err != nil {
			return nil, fmt.Errorf("decode attendance record: %w", err)
		}
		if record.TimeIn == "" {
			return nil, ErrNotTimedIn
		}
		if record.TimeOut != "" {
			return nil, ErrAlreadyTimedOut
		}
		record.TimeOut = timeOut
		record.TotalHours = totalHours
		record.ExtraHours = extraHours
		return record, nil
	})
}

func (s *Service) ListOwn(ctx context.Context, uid string) ([]DayRecord, error) {
	days, err := s.Store.Children(ctx, "attendance/"+uid)
	if err != nil {
		return nil, err
	}
	records := make([]DayRecord, 0, len(days))
	for date, raw := range days {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode attendance record %s: %w", date, err)
		}
		records = append(records, DayRecord{Date: date, Record: record})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

// ListAll aggregates every non-admin active employee's records, enriched
// with profile fields. With a date filter each employee contributes a single
// row for that date, present or not, so rosters render a full column.
func (s *Service) ListAll(ctx context.Context, date string) ([]EmployeeDayRecord, error) {
	employees, err := s.Store.ChildKeys(ctx, "attendance")
	if err != nil {
		return nil, err
	}
	profiles, err := s.Store.Children(ctx, "users")
	if err != nil {
		return nil, err
	}

	var result []EmployeeDayRecord
	for _, uid := range employees {
		var profile auth.Identity
		if raw, ok := profiles[uid]; ok {
			if err := json.Unmarshal(raw, &profile); err != nil {
				return nil, fmt.Errorf("decode profile %s: %w", uid, err)
			}
		}
		if auth.IsAdminRole(profile.Role) || profile.Status == "inactive" {
			continue
		}

		days, err := s.Store.Children(ctx, "attendance/"+uid)
		if err != nil {
			return nil, err
		}

		if date != "" {
			row := EmployeeDayRecord{UID: uid, Date: date, DisplayName: profile.DisplayName, EmployeeID: profile.EmployeeID}
			if raw, ok := days[date]; ok {
				if err := json.Unmarshal(raw, &row.Record); err != nil {
					return nil, fmt.Errorf("decode attendance record %s/%s: %w", uid, date, err)
				}
			}
			result = append(result, row)
			continue
		}

		for day, raw := range days {
			row := EmployeeDayRecord{UID: uid, Date: day, DisplayName: profile.DisplayName, EmployeeID: profile.EmployeeID}
			if err := json.Unmarshal(raw, &row.Record); err != nil {
				return nil, fmt.Errorf("decode attendance record %s/%s: %w", uid, day, err)
			}
			result = append(result, row)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].UID == result[j].UID {
			return result[i].Date < result[j].Date
		}
		return result[i].UID < result[j].UID
	})
	return result, nil
}

// BulkTimeOut force-completes the given employees' records for date. Only
// records currently in the TimedIn state are touched; everything else is
// skipped without error. Returns the uids actually updated.
func (s *Service) BulkTimeOut(ctx context.Context, actorUID, date string, uids []string) ([]string, error) {
	errSkip := errors.New("skip")
	timedOutAt := s.Now().Format(clockFormat)

	updated := []string{}
	for _, uid := range uids {
		err := s.Store.Transform(ctx, recordPath(uid, date), func(current json.RawMessage) (any, error) {
			if current == nil {
				return nil, errSkip
			}
			var record Record
			if err := json.Unmarshal(current, &record); err != nil {
				return nil, fmt.Errorf("decode attendance record: %w", err)
			}
			if record.TimeIn == "" || record.TimeOut != "" {
				return nil, errSkip
			}
			record.TimeOut = bulkTimeOutClock
			record.TotalHours = bulkTimeOutHours
			record.AdminTimedOut = true
			record.AdminTimedOutAt = timedOutAt
			record.AdminTimedOutBy = actorUID
			return record, nil
		})
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, uid)
	}
	return updated, nil
}
