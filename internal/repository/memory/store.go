// Package memory provides a process-lifetime implementation of repository.Store.
// It is meant for development and demos; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// DefaultActivityLimit is the number of activity entries retained before the oldest are evicted.
const DefaultActivityLimit = 100

var _ repository.Store = (*Store)(nil)

// Store keeps every entity kind in its own id-keyed map. A single mutex serialises all
// operations so a mutation and its activity entry are observed together.
type Store struct {
	mu sync.Mutex

	users       map[int64]model.User
	employees   map[int64]model.Employee
	documents   map[int64]model.Document
	population  map[int64]model.PopulationRecord
	investments map[int64]model.Investment

	// activities is kept newest first.
	activities    []model.Activity
	activityLimit int
	activitySeq   int64

	ids *idAllocator
	now func() time.Time
}

// Option configures a Store.
type Option func(*config)

type config struct {
	clock         func() time.Time
	activityLimit int
	perKindIDs    bool
	seed          bool
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.clock = now }
}

// WithActivityLimit sets how many activity entries are retained.
func WithActivityLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.activityLimit = n
		}
	}
}

// WithPerKindIDs gives every entity kind its own id sequence instead of one shared counter.
func WithPerKindIDs() Option {
	return func(c *config) { c.perKindIDs = true }
}

// WithSeed controls whether demo data is loaded on construction. Default true.
func WithSeed(seed bool) Option {
	return func(c *config) { c.seed = seed }
}

// New builds a Store. Seed data goes through the regular create methods, so it also
// produces activity entries.
func New(opts ...Option) *Store {
	cfg := config{
		clock:         time.Now,
		activityLimit: DefaultActivityLimit,
		seed:          true,
	}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Store{
		users:         make(map[int64]model.User),
		employees:     make(map[int64]model.Employee),
		documents:     make(map[int64]model.Document),
		population:    make(map[int64]model.PopulationRecord),
		investments:   make(map[int64]model.Investment),
		activityLimit: cfg.activityLimit,
		ids:           newIDAllocator(cfg.perKindIDs),
		now:           cfg.clock,
	}
	if cfg.seed {
		seed(s)
	}
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

// --- users ---

func (s *Store) GetUser(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := in.Role
	if role == "" {
		role = model.DefaultRole
	}
	u := model.User{
		ID:        s.ids.next(kindUser),
		Username:  in.Username,
		Password:  in.Password,
		Role:      role,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	s.appendActivity(repository.UserCreatedMsg(u.Username), repository.ActorFrom(ctx), time.Time{})
	return &u, nil
}

// --- employees ---

func (s *Store) ListEmployees(context.Context) ([]model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, cloneEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetEmployee(_ context.Context, id int64) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e = cloneEmployee(e)
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in model.EmployeeInput) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	status := in.Status
	if status == "" {
		status = model.EmployeeActive
	}
	e := model.Employee{
		ID:               s.ids.next(kindEmployee),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Position:         in.Position,
		Department:       in.Department,
		Email:            in.Email,
		Phone:            in.Phone,
		HireDate:         in.HireDate,
		Status:           status,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.employees[e.ID] = cloneEmployee(e)
	s.appendActivity(repository.EmployeeCreatedMsg(e.FullName()), repository.ActorFrom(ctx), time.Time{})
	e = cloneEmployee(e)
	return &e, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, patch model.EmployeePatch) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&e)
	e.UpdatedAt = s.after(e.UpdatedAt)
	s.employees[id] = cloneEmployee(e)
	s.appendActivity(repository.EmployeeUpdatedMsg(e.FullName()), repository.ActorFrom(ctx), time.Time{})
	e = cloneEmployee(e)
	return &e, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return false, nil
	}
	delete(s.employees, id)
	s.appendActivity(repository.EmployeeDeletedMsg(e.FullName()), repository.ActorFrom(ctx), time.Time{})
	return true, nil
}

func (s *Store) EmployeeCount(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.employees), nil
}

func (s *Store) ListDepartments(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distinct(s.employees, func(e model.Employee) string { return e.Department }), nil
}

// --- documents ---

func (s *Store) ListDocuments(context.Context) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		out = append(out, cloneDocument(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetDocument(_ context.Context, id int64) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d = cloneDocument(d)
	return &d, nil
}

func (s *Store) CreateDocument(ctx context.Context, in model.DocumentInput) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := model.Document{
		ID:          s.ids.next(kindDocument),
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		FilePath:    in.FilePath,
		FileSize:    in.FileSize,
		FileType:    in.FileType,
		Tags:        cloneTags(in.Tags),
		UploadDate:  s.now(),
		UploadedBy:  in.UploadedBy,
	}
	s.documents[d.ID] = cloneDocument(d)
	s.appendActivity(repository.DocumentCreatedMsg(d.Title), repository.ActorFrom(ctx), time.Time{})
	d = cloneDocument(d)
	return &d, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return false, nil
	}
	delete(s.documents, id)
	s.appendActivity(repository.DocumentDeletedMsg(d.Title), repository.ActorFrom(ctx), time.Time{})
	return true, nil
}

func (s *Store) DocumentCount(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents), nil
}

// --- population ---

func (s *Store) ListPopulationRecords(context.Context) ([]model.PopulationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PopulationRecord, 0, len(s.population))
	for _, r := range s.population {
		out = append(out, clonePopulation(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreatePopulationRecord(ctx context.Context, in model.PopulationInput) (*model.PopulationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.PopulationRecord{
		ID:              s.ids.next(kindPopulation),
		Kebele:          in.Kebele,
		MaleCount:       in.MaleCount,
		FemaleCount:     in.FemaleCount,
		ChildrenCount:   in.ChildrenCount,
		AdultCount:      in.AdultCount,
		ElderlyCount:    in.ElderlyCount,
		TotalPopulation: in.TotalPopulation,
		RecordDate:      in.RecordDate,
		CreatedAt:       s.now(),
		UpdatedBy:       in.UpdatedBy,
	}
	s.population[r.ID] = clonePopulation(r)
	s.appendActivity(repository.PopulationCreatedMsg(r.Kebele), repository.ActorFrom(ctx), time.Time{})
	r = clonePopulation(r)
	return &r, nil
}

func (s *Store) TotalPopulation(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, r := range s.population {
		total += r.TotalPopulation
	}
	return total, nil
}

func (s *Store) ListKebeles(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distinct(s.population, func(r model.PopulationRecord) string { return r.Kebele }), nil
}

// --- investments ---

func (s *Store) ListInvestments(context.Context) ([]model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Investment, 0, len(s.investments))
	for _, inv := range s.investments {
		out = append(out, cloneInvestment(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetInvestment(_ context.Context, id int64) (*model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	inv = cloneInvestment(inv)
	return &inv, nil
}

func (s *Store) CreateInvestment(ctx context.Context, in model.InvestmentInput) (*model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	status := in.Status
	if status == "" {
		status = model.InvestmentPlanned
	}
	inv := model.Investment{
		ID:                     s.ids.next(kindInvestment),
		InvestorName:           in.InvestorName,
		CompanyName:            in.CompanyName,
		Sector:                 in.Sector,
		ProjectType:            in.ProjectType,
		EstimatedCapital:       in.EstimatedCapital,
		Location:               in.Location,
		StartDate:              in.StartDate,
		ExpectedCompletionDate: in.ExpectedCompletionDate,
		Status:                 status,
		Description:            in.Description,
		ContactEmail:           in.ContactEmail,
		ContactPhone:           in.ContactPhone,
		CreatedAt:              now,
		UpdatedAt:              now,
		CreatedBy:              in.CreatedBy,
	}
	s.investments[inv.ID] = cloneInvestment(inv)
	s.appendActivity(repository.InvestmentCreatedMsg(inv.CompanyName), repository.ActorFrom(ctx), time.Time{})
	inv = cloneInvestment(inv)
	return &inv, nil
}

func (s *Store) UpdateInvestment(ctx context.Context, id int64, patch model.InvestmentPatch) (*model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&inv)
	inv.UpdatedAt = s.after(inv.UpdatedAt)
	s.investments[id] = cloneInvestment(inv)
	s.appendActivity(repository.InvestmentUpdatedMsg(inv.CompanyName), repository.ActorFrom(ctx), time.Time{})
	inv = cloneInvestment(inv)
	return &inv, nil
}

func (s *Store) DeleteInvestment(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return false, nil
	}
	delete(s.investments, id)
	s.appendActivity(repository.InvestmentDeletedMsg(inv.CompanyName), repository.ActorFrom(ctx), time.Time{})
	return true, nil
}

func (s *Store) InvestmentCount(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.investments), nil
}

func (s *Store) ListSectors(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distinct(s.investments, func(inv model.Investment) string { return inv.Sector }), nil
}

// --- activities ---

func (s *Store) AddActivity(_ context.Context, action, actor string, at time.Time) (*model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.appendActivity(action, actor, at)
	return &a, nil
}

func (s *Store) RecentActivities(_ context.Context, limit int) ([]model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = repository.DefaultRecentActivities
	}
	if limit > len(s.activities) {
		limit = len(s.activities)
	}
	out := make([]model.Activity, limit)
	copy(out, s.activities[:limit])
	return out, nil
}

// appendActivity must be called with s.mu held. Entries are kept sorted newest first,
// so a backdated timestamp is inserted at its chronological position.
func (s *Store) appendActivity(action, actor string, at time.Time) model.Activity {
	if at.IsZero() {
		at = s.now()
	}
	if actor == "" {
		actor = "System"
	}
	s.activitySeq++
	a := model.Activity{ID: s.activitySeq, Action: action, Actor: actor, Timestamp: at}

	i := sort.Search(len(s.activities), func(i int) bool {
		return !s.activities[i].Timestamp.After(at)
	})
	s.activities = append(s.activities, model.Activity{})
	copy(s.activities[i+1:], s.activities[i:])
	s.activities[i] = a

	if len(s.activities) > s.activityLimit {
		s.activities = s.activities[:s.activityLimit]
	}
	return a
}

// after returns the current time, nudged forward if the clock has not moved past prev.
func (s *Store) after(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func distinct[T any](m map[int64]T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, len(m))
	for _, v := range m {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Records crossing the store boundary are cloned so callers never share
// pointer or slice fields with stored state.

func cloneEmployee(e model.Employee) model.Employee {
	e.Address = clonePtr(e.Address)
	e.EmergencyContact = clonePtr(e.EmergencyContact)
	return e
}

func cloneDocument(d model.Document) model.Document {
	d.Description = clonePtr(d.Description)
	d.Tags = cloneTags(d.Tags)
	d.UploadedBy = clonePtr(d.UploadedBy)
	return d
}

func clonePopulation(r model.PopulationRecord) model.PopulationRecord {
	r.UpdatedBy = clonePtr(r.UpdatedBy)
	return r
}

func cloneInvestment(inv model.Investment) model.Investment {
	inv.Description = clonePtr(inv.Description)
	inv.ContactEmail = clonePtr(inv.ContactEmail)
	inv.ContactPhone = clonePtr(inv.ContactPhone)
	inv.CreatedBy = clonePtr(inv.CreatedBy)
	return inv
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
