package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/google/uuid"
)

type fakeDayRecordRepo struct {
	mu      sync.Mutex
	records map[string]attendance.DayRecord
	upserts int
}

func newFakeDayRecordRepo() *fakeDayRecordRepo {
	return &fakeDayRecordRepo{records: make(map[string]attendance.DayRecord)}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeDayRecordRepo) put(r attendance.DayRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.records[recordKey(r.EmployeeID, r.Date)] = r
}

func (f *fakeDayRecordRepo) get(employeeID string, date time.Time) (attendance.DayRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[recordKey(employeeID, date)]
	return r, ok
}

func (f *fakeDayRecordRepo) GetDayRecord(_ context.Context, employeeID string, date time.Time) (*attendance.DayRecord, error) {
	r, ok := f.get(employeeID, date)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeDayRecordRepo) UpsertDayRecord(_ context.Context, record attendance.DayRecord) (attendance.DayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.EmployeeID, record.Date)
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
	} else if record.ID == "" {
		record.ID = uuid.NewString()
	}
	f.records[key] = record
	f.upserts++
	return record, nil
}

// WithDayLock relies on the service's in-process lock.
func (f *fakeDayRecordRepo) WithDayLock(ctx context.Context, _ string, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeDayRecordRepo) ListByPeriod(_ context.Context, period attendance.Period, employeeID *string) ([]attendance.DayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.DayRecord
	for _, r := range f.records {
		if !period.Contains(r.Date) {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeDayRecordRepo) ListHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	all, _ := f.ListByPeriod(ctx, attendance.Period{Start: time.Time{}, End: time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)}, &employeeID)
	return all, int64(len(all)), nil
}

func (f *fakeDayRecordRepo) CreateAbsences(_ context.Context, records []attendance.DayRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range records {
		key := recordKey(r.EmployeeID, r.Date)
		if _, ok := f.records[key]; ok {
			continue
		}
		r.ID = uuid.NewString()
		r.Status = attendance.StatusAbsent
		f.records[key] = r
		n++
	}
	return n, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		f.employees[e.ID] = e
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByLineUserID(_ context.Context, lineUserID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.LineUserID == lineUserID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = uuid.NewString()
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) List(context.Context, employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, ok := f.employees[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActive(context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Status == employee.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Update(context.Context, employee.UpdateEmployeeRequest) (employee.Employee, error) {
	return employee.Employee{}, nil
}

func (f *fakeEmployeeRepo) Approve(context.Context, employee.ApproveEmployeeRequest) (employee.Employee, error) {
	return employee.Employee{}, nil
}

func (f *fakeEmployeeRepo) Reject(context.Context, employee.RejectEmployeeRequest) (employee.Employee, error) {
	return employee.Employee{}, nil
}

type staticProvider struct {
	snap settings.Snapshot
}

func (p *staticProvider) Get(context.Context) (settings.Snapshot, error)     { return p.snap, nil }
func (p *staticProvider) Refresh(context.Context) (settings.Snapshot, error) { return p.snap, nil }
func (p *staticProvider) Invalidate()                                        {}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (n *recordingNotifier) Enqueue(msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) Close(context.Context) error { return nil }

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
