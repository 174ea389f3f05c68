package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/allowance"
	"github.com/viant/vacation/service/dao/criteria"
	"github.com/viant/vacation/service/dao/request"
)

const (
	requestsFolder   = "requests"
	allowancesFolder = "allowances"
	teamsFile        = "teams.json"
)

// Service implements a filesystem-based request and allowance storage.
// Requests live in <base>/requests/<id>.json, allowance records in
// <base>/allowances/<user>_<year>.json and team sizes in <base>/teams.json.
//
// CompareAndSave writes the allowance records first and restores their prior
// content when the request write fails.
type Service struct {
	basePath     string
	fs           afs.Service
	rosters      map[string]int
	defaultTotal int
	mu           sync.RWMutex
}

var (
	_ request.Service   = (*Service)(nil)
	_ allowance.Service = (*allowances)(nil)
)

// Save persists a request to the filesystem
func (s *Service) Save(ctx context.Context, r *model.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload(ctx, s.requestPath(r.ID), r)
}

// Load retrieves a request from the filesystem
func (s *Service) Load(ctx context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*model.Request, error) {
	var r model.Request
	if err := s.download(ctx, s.requestPath(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a request from the filesystem
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.requestPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if request exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete request file: %w", err)
	}
	return nil
}

// List returns all requests matching the parameters
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(ctx, criteria.Filter(parameters))
}

func (s *Service) list(ctx context.Context, filter *model.Filter) ([]*model.Request, error) {
	folder := url.Join(s.basePath, requestsFolder)
	exists, err := s.fs.Exists(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to check request folder: %w", err)
	}
	if !exists {
		return nil, nil
	}
	objects, err := s.fs.List(ctx, folder, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list request files: %w", err)
	}
	var requests []*model.Request
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read request file %s: %w", object.URL(), err)
		}
		var r model.Request
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request from %s: %w", object.URL(), err)
		}
		if !filter.Matches(&r) {
			continue
		}
		requests = append(requests, &r)
	}
	model.SortRequests(requests)
	return requests, nil
}

// CompareAndSave persists r if the stored status equals expected and applies deltas.
func (s *Service) CompareAndSave(ctx context.Context, r *model.Request, expected model.Status, deltas ...ledger.Delta) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, r.ID)
	if err != nil {
		return err
	}
	if current.Status != expected {
		return dao.ErrConflict
	}

	var written []*ledger.Record
	for _, delta := range deltas {
		key := ledger.Key{UserID: delta.UserID, Year: delta.Year}
		prior, err := s.loadRecord(ctx, key)
		if err != nil {
			s.restore(ctx, written)
			return err
		}
		updated := *prior
		updated.Consumed += delta.Days
		if err = s.upload(ctx, s.recordPath(key), &updated); err != nil {
			s.restore(ctx, written)
			return err
		}
		written = append(written, prior)
	}
	if err = s.upload(ctx, s.requestPath(r.ID), r); err != nil {
		s.restore(ctx, written)
		return err
	}
	return nil
}

func (s *Service) restore(ctx context.Context, records []*ledger.Record) {
	for _, rec := range records {
		_ = s.upload(ctx, s.recordPath(rec.Key()), rec)
	}
}

// ListApprovedOverlapping returns approved team requests overlapping rng
func (s *Service) ListApprovedOverlapping(ctx context.Context, teamID string, rng model.Range) ([]*model.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(ctx, &model.Filter{TeamID: teamID, Statuses: []model.Status{model.StatusApproved}, Overlaps: &rng})
}

// TeamRosterSize returns the configured team size
func (s *Service) TeamRosterSize(ctx context.Context, teamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if size, ok := s.rosters[teamID]; ok {
		return size, nil
	}
	sizes := map[string]int{}
	err := s.download(ctx, url.Join(s.basePath, teamsFile), &sizes)
	if errors.Is(err, dao.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return sizes[teamID], nil
}

// Allowances exposes the allowance view of the store.
func (s *Service) Allowances() allowance.Service { return (*allowances)(s) }

type allowances Service

func (a *allowances) Load(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	if key.UserID == "" {
		return nil, dao.ErrInvalidID
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return (*Service)(a).loadRecord(ctx, key)
}

func (a *allowances) Adjust(ctx context.Context, delta ledger.Delta) error {
	return a.update(ctx, ledger.Key{UserID: delta.UserID, Year: delta.Year}, func(r *ledger.Record) { r.Consumed += delta.Days })
}

func (a *allowances) SetTotal(ctx context.Context, key ledger.Key, total int) error {
	return a.update(ctx, key, func(r *ledger.Record) { r.Total = total })
}

func (a *allowances) Reset(ctx context.Context, key ledger.Key, consumed int) error {
	return a.update(ctx, key, func(r *ledger.Record) { r.Consumed = consumed })
}

func (a *allowances) update(ctx context.Context, key ledger.Key, fn func(r *ledger.Record)) error {
	if key.UserID == "" {
		return dao.ErrInvalidID
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	s := (*Service)(a)
	rec, err := s.loadRecord(ctx, key)
	if err != nil {
		return err
	}
	fn(rec)
	return s.upload(ctx, s.recordPath(key), rec)
}

func (s *Service) loadRecord(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	var rec ledger.Record
	err := s.download(ctx, s.recordPath(key), &rec)
	if errors.Is(err, dao.ErrNotFound) {
		return &ledger.Record{UserID: key.UserID, Year: key.Year, Total: s.defaultTotal}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) upload(ctx context.Context, filePath string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filePath, err)
	}
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save file %s: %w", filePath, err)
	}
	return nil
}

func (s *Service) download(ctx context.Context, filePath string, v interface{}) error {
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if %s exists: %w", filePath, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filePath, err)
	}
	return nil
}

func (s *Service) requestPath(id string) string {
	return url.Join(s.basePath, requestsFolder, id+".json")
}

func (s *Service) recordPath(key ledger.Key) string {
	return url.Join(s.basePath, allowancesFolder, fmt.Sprintf("%s_%d.json", key.UserID, key.Year))
}

// New creates a new filesystem request storage service
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()

	// Ensure the base directory exists
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	ret := &Service{
		basePath:     url.Normalize(basePath, file.Scheme),
		fs:           fs,
		rosters:      map[string]int{},
		defaultTotal: model.DefaultSettings().DefaultVacationDays,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}
