// Package servicetest holds in-memory repositories for service tests.
package servicetest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// Clock returns a fixed time.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Transactor runs fn directly. Err, when set, is returned without calling fn.
type Transactor struct {
	Err   error
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}

var _ database.Transactor = (*Transactor)(nil)

// Employees is an in-memory employee.EmployeeRepository.
type Employees struct {
	mu   sync.Mutex
	byID map[string]employee.Employee
	Err  error
}

func NewEmployees(emps ...employee.Employee) *Employees {
	e := &Employees{byID: make(map[string]employee.Employee)}
	for _, emp := range emps {
		e.byID[emp.ID] = emp
	}
	return e
}

var _ employee.EmployeeRepository = (*Employees)(nil)

func (e *Employees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return employee.Employee{}, e.Err
	}
	emp, ok := e.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// Create rejects duplicate employee numbers or emails like the unique
// constraints do.
func (e *Employees) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return employee.Employee{}, e.Err
	}
	for _, existing := range e.byID {
		if existing.EmployeeNumber == emp.EmployeeNumber || existing.Email == emp.Email {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
	}
	if emp.ID == "" {
		emp.ID = uuid.Must(uuid.NewV7()).String()
	}
	e.byID[emp.ID] = emp
	return emp, nil
}

func (e *Employees) Update(_ context.Context, emp employee.Employee) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	if _, ok := e.byID[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	for id, existing := range e.byID {
		if id != emp.ID && (existing.EmployeeNumber == emp.EmployeeNumber || existing.Email == emp.Email) {
			return employee.ErrEmployeeExists
		}
	}
	e.byID[emp.ID] = emp
	return nil
}

func (e *Employees) SetActive(_ context.Context, id string, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	emp, ok := e.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.IsActive = active
	e.byID[id] = emp
	return nil
}

func (e *Employees) CountActive(ctx context.Context) (int64, error) {
	active, err := e.ListActive(ctx)
	return int64(len(active)), err
}

func (e *Employees) ListActive(_ context.Context) ([]employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	var out []employee.Employee
	for _, emp := range e.byID {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Attendances is an in-memory attendance.AttendanceRepository. Employee
// profile columns are joined from Employees when it is set.
type Attendances struct {
	mu        sync.Mutex
	byID      map[string]attendance.Attendance
	seq       int
	Employees *Employees
	Err       error
}

func NewAttendances(emps *Employees, records ...attendance.Attendance) *Attendances {
	a := &Attendances{byID: make(map[string]attendance.Attendance), Employees: emps}
	for _, r := range records {
		if r.ID == "" {
			a.seq++
			r.ID = fmt.Sprintf("att-%d", a.seq)
		}
		a.byID[r.ID] = r
	}
	return a
}

func (a *Attendances) join(r attendance.Attendance) attendance.Attendance {
	if a.Employees == nil {
		return r
	}
	a.Employees.mu.Lock()
	emp, ok := a.Employees.byID[r.EmployeeID]
	a.Employees.mu.Unlock()
	if ok {
		r.EmployeeName = &emp.Name
		r.EmployeeNumber = &emp.EmployeeNumber
		r.EmployeeTitle = emp.Title
		r.EmployeeDivision = emp.Division
	}
	return r
}

func (a *Attendances) Create(_ context.Context, r attendance.Attendance) (attendance.Attendance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return attendance.Attendance{}, a.Err
	}
	for _, existing := range a.byID {
		if existing.EmployeeID == r.EmployeeID && existing.Date.Equal(r.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	if r.ID == "" {
		a.seq++
		r.ID = fmt.Sprintf("att-%d", a.seq)
	}
	a.byID[r.ID] = r
	return r, nil
}

func (a *Attendances) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return attendance.Attendance{}, a.Err
	}
	r, ok := a.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a.join(r), nil
}

func (a *Attendances) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	for _, r := range a.byID {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			return &r, nil
		}
	}
	return nil, nil
}

func (a *Attendances) Update(_ context.Context, r attendance.Attendance) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	if _, ok := a.byID[r.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.byID[r.ID] = r
	return nil
}

func (a *Attendances) List(_ context.Context, f attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, 0, a.Err
	}

	var matched []attendance.Attendance
	for _, r := range a.byID {
		day := r.Date.Format("2006-01-02")
		switch {
		case f.EmployeeID != nil && r.EmployeeID != *f.EmployeeID,
			f.Date != nil && day != *f.Date,
			f.StartDate != nil && day < *f.StartDate,
			f.EndDate != nil && day > *f.EndDate,
			f.Status != nil && string(r.Status) != *f.Status:
			continue
		}
		matched = append(matched, a.join(r))
	}

	sort.Slice(matched, func(i, j int) bool {
		if f.SortOrder == "asc" {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].Date.After(matched[j].Date)
	})

	total := int64(len(matched))
	start := min((max(f.Page, 1)-1)*f.Limit, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (a *Attendances) ListByRange(_ context.Context, employeeID *string, start, end time.Time) ([]attendance.Attendance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	var out []attendance.Attendance
	for _, r := range a.byID {
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, a.join(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return strings.Compare(deref(out[i].CheckInTime), deref(out[j].CheckInTime)) > 0
	})
	return out, nil
}

func (a *Attendances) ListEmployeesWithoutRecord(ctx context.Context, date time.Time) ([]string, error) {
	active, err := a.Employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	var ids []string
	for _, emp := range active {
		found := false
		for _, r := range a.byID {
			if r.EmployeeID == emp.ID && r.Date.Equal(date) {
				found = true
				break
			}
		}
		if !found {
			ids = append(ids, emp.ID)
		}
	}
	return ids, nil
}

// ListAttendance lets Attendances stand in for report.ReportRepository.
func (a *Attendances) ListAttendance(ctx context.Context, q report.ReportQuery) ([]attendance.Attendance, error) {
	records, err := a.ListByRange(ctx, q.EmployeeID, q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	if q.Status == nil {
		return records, nil
	}
	var out []attendance.Attendance
	for _, r := range records {
		if string(r.Status) == *q.Status {
			out = append(out, r)
		}
	}
	return out, nil
}

// All returns every stored record ordered by ID.
func (a *Attendances) All() []attendance.Attendance {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]attendance.Attendance, 0, len(a.byID))
	for _, r := range a.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Settings is an in-memory policy.SettingsRepository.
type Settings struct {
	mu    sync.Mutex
	byKey map[string]policy.Setting
	Err   error
}

func NewSettings(s policy.Snapshot) *Settings {
	repo := &Settings{byKey: make(map[string]policy.Setting)}
	for _, row := range policy.ToSettings(s) {
		repo.byKey[row.Key] = row
	}
	return repo
}

func (s *Settings) GetAll(_ context.Context) ([]policy.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	rows := make([]policy.Setting, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, s.byKey[k])
	}
	return rows, nil
}

func (s *Settings) Upsert(_ context.Context, rows []policy.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, row := range rows {
		s.byKey[row.Key] = row
	}
	return nil
}

// Audit is an in-memory audit.Repository.
type Audit struct {
	mu     sync.Mutex
	events []audit.Event
	Err    error
}

func (a *Audit) Append(_ context.Context, e audit.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.events = append(a.events, e)
	return nil
}

func (a *Audit) Events() []audit.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.events)
}

// LeaveQuotas is an in-memory leave.LeaveQuotaRepository keyed by employee
// and year.
type LeaveQuotas struct {
	mu     sync.Mutex
	quotas map[string]leave.LeaveQuota
	Err    error
}

func NewLeaveQuotas(quotas ...leave.LeaveQuota) *LeaveQuotas {
	l := &LeaveQuotas{quotas: make(map[string]leave.LeaveQuota)}
	for _, q := range quotas {
		l.quotas[quotaKey(q.EmployeeID, q.Year)] = q
	}
	return l
}

var _ leave.LeaveQuotaRepository = (*LeaveQuotas)(nil)

func quotaKey(employeeID string, year int) string {
	return fmt.Sprintf("%s/%d", employeeID, year)
}

func (l *LeaveQuotas) Create(_ context.Context, q leave.LeaveQuota) (leave.LeaveQuota, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return leave.LeaveQuota{}, l.Err
	}
	key := quotaKey(q.EmployeeID, q.Year)
	if existing, ok := l.quotas[key]; ok {
		return existing, nil
	}
	if q.ID == "" {
		q.ID = "quota-" + key
	}
	l.quotas[key] = q
	return q, nil
}

func (l *LeaveQuotas) GetByEmployeeAndYear(_ context.Context, employeeID string, year int) (leave.LeaveQuota, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return leave.LeaveQuota{}, l.Err
	}
	q, ok := l.quotas[quotaKey(employeeID, year)]
	if !ok {
		return leave.LeaveQuota{}, leave.ErrQuotaNotFound
	}
	return q, nil
}

func (l *LeaveQuotas) DecrementQuota(_ context.Context, employeeID string, year int, days int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	key := quotaKey(employeeID, year)
	q, ok := l.quotas[key]
	if !ok {
		return leave.ErrQuotaNotFound
	}
	if q.Remaining() < days {
		return leave.ErrQuotaExhausted
	}
	q.UsedDays += days
	l.quotas[key] = q
	return nil
}

func (l *LeaveQuotas) RestoreQuota(_ context.Context, employeeID string, year int, days int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	key := quotaKey(employeeID, year)
	q, ok := l.quotas[key]
	if !ok {
		return nil
	}
	q.UsedDays = max(q.UsedDays-days, 0)
	l.quotas[key] = q
	return nil
}
