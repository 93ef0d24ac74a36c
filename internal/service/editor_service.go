package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-editor/internal/dto"
	"github.com/noah-isme/sma-timetable-editor/internal/models"
	"github.com/noah-isme/sma-timetable-editor/internal/solver"
	"github.com/noah-isme/sma-timetable-editor/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
	"github.com/noah-isme/sma-timetable-editor/pkg/jobs"
)

type rosterReader interface {
	Snapshot(ctx context.Context, level string) (models.RosterSnapshot, error)
}

type variantListStore interface {
	Load(ctx context.Context, level string) ([]models.Grid, int, error)
	Save(ctx context.Context, level string, grids []models.Grid, selected int) error
}

type generationClient interface {
	Generate(ctx context.Context, req solver.GenerateRequest) (models.Grid, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// editorSession is the mutable editing state for one education level: the
// immutable roster snapshot, the variant store and the undo/redo history.
// All access goes through the service mutex; the UI is synchronous between
// user action and state commit, so there is never more than one mutation in
// flight per session.
type editorSession struct {
	level      string
	epoch      int
	generating bool
	version    int
	snapshot   models.RosterSnapshot
	index      *AssignmentIndex
	rules      *ConflictValidator
	accountant *CompletionAccountant
	history    *editHistory
	variants   *variantStore
}

// EditorService owns the interactive timetable editing sessions. Every
// accepted mutation flows through the conflict validator, lands in the edit
// history, is mirrored into the variant store and is persisted through a
// fire-and-forget queue whose failures never roll back in-memory state.
type EditorService struct {
	cfg       config.EditorConfig
	rosters   rosterReader
	variants  variantListStore
	generator generationClient
	cache     statsCache
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	persist   *jobs.Queue

	mu       sync.Mutex
	sessions map[string]*editorSession
}

type variantPersistPayload struct {
	Level    string
	Grids    []models.Grid
	Selected int
}

// NewEditorService wires editor dependencies. The cache and metrics are
// optional; the variant store is required for persistence but its absence
// only disables the side-channel writes.
func NewEditorService(
	cfg config.EditorConfig,
	rosters rosterReader,
	variants variantListStore,
	generator generationClient,
	cache statsCache,
	metrics *MetricsService,
	logger *zap.Logger,
) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EditorService{
		cfg:       cfg,
		rosters:   rosters,
		variants:  variants,
		generator: generator,
		cache:     cache,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
		sessions:  make(map[string]*editorSession),
	}
	s.persist = jobs.NewQueue("variant-persist", s.handlePersist, jobs.QueueConfig{
		Workers:    cfg.PersistWorkers,
		MaxRetries: cfg.PersistRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the persistence queue workers.
func (s *EditorService) Start(ctx context.Context) {
	s.persist.Start(ctx)
}

// Stop halts the persistence queue workers. Variant writes are
// fire-and-forget, so jobs still buffered at shutdown are dropped.
func (s *EditorService) Stop() {
	s.persist.Stop()
}

// OpenSession loads the roster snapshot and the persisted variant list for
// the level and (re)initialises the editing session. Reopening an existing
// session replaces it and invalidates any in-flight generation result.
func (s *EditorService) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "level is required")
	}

	snapshot, err := s.rosters.Snapshot(ctx, req.Level)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster snapshot")
	}

	grids, selected, err := s.loadVariants(ctx, req.Level)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	epoch := 0
	if prev, ok := s.sessions[req.Level]; ok {
		epoch = prev.epoch + 1
	}

	sess := &editorSession{
		level:      req.Level,
		epoch:      epoch,
		snapshot:   snapshot,
		index:      NewAssignmentIndex(snapshot.Assignments),
		variants:   newVariantStore(s.cfg.VariantCapacity),
		accountant: NewCompletionAccountant(snapshot.Quotas),
	}
	sess.rules = NewConflictValidator(sess.index, snapshot.Quotas)

	for _, grid := range grids {
		sess.variants.Add(grid)
	}
	if !sess.variants.Select(selected) {
		// Stored lists without a usable selected index fall back to the
		// newest variant so history and store never diverge.
		sess.variants.Select(sess.variants.Len() - 1)
	}
	if seed, ok := sess.variants.Get(sess.variants.Selected()); ok {
		sess.history = newEditHistory(seed)
	} else {
		sess.history = newEditHistory(models.NewGrid(s.cfg.Days, s.cfg.BlocksPerDay, s.cfg.GradesPerLevel))
	}

	s.sessions[req.Level] = sess

	return &dto.SessionResponse{
		Level:    req.Level,
		Teachers: len(snapshot.Teachers),
		Courses:  len(snapshot.Courses),
		Variants: variantState(sess, s.cfg.VariantCapacity),
	}, nil
}

// CloseSession drops the session. A generation result still in flight will
// find the session gone and be discarded.
func (s *EditorService) CloseSession(level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[level]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "no editing session for this level")
	}
	delete(s.sessions, level)
	return nil
}

// Grid returns the currently visible grid with editor state for rendering.
func (s *EditorService) Grid(level string) (*dto.GridResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(level)
	if err != nil {
		return nil, err
	}
	return gridResponse(sess, s.cfg.VariantCapacity), nil
}

// PlaceCourse validates and applies a manual insert (or clear, course ID 0).
// A conflict produces a rejected EditResult, not an error: the grid is left
// untouched and no history entry is created.
func (s *EditorService) PlaceCourse(ctx context.Context, level string, req dto.CellEditRequest) (*dto.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.editableSession(level)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell edit")
	}

	grid := sess.history.Current()
	if !grid.InRange(req.Day, req.Block, req.Grade) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cell reference is out of range")
	}

	if !sess.rules.CanPlace(grid, req.Day, req.Block, req.Grade, req.CourseID) {
		s.metrics.RecordEdit("place", false)
		return &dto.EditResult{
			Accepted: false,
			Reason:   "the assigned teacher is already booked in this time block",
			Version:  sess.version,
		}, nil
	}

	s.commit(ctx, sess, grid.WithCellSet(req.Day, req.Block, req.Grade, req.CourseID))
	s.metrics.RecordEdit("place", true)
	return &dto.EditResult{Accepted: true, Version: sess.version}, nil
}

// AttemptSwap validates and applies a drag-and-drop swap. On rejection the
// grid is unchanged; the UI simply re-renders the previous state.
func (s *EditorService) AttemptSwap(ctx context.Context, level string, req dto.SwapRequest) (*dto.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.editableSession(level)
	if err != nil {
		return nil, err
	}

	grid := sess.history.Current()
	if !grid.InRange(req.Source.Day, req.Source.Block, req.Source.Grade) ||
		!grid.InRange(req.Destination.Day, req.Destination.Block, req.Destination.Grade) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cell reference is out of range")
	}
	if req.Source == req.Destination {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source and destination are the same cell")
	}

	if !sess.rules.CanSwap(grid, req.Source, req.Destination) {
		s.metrics.RecordEdit("swap", false)
		return &dto.EditResult{
			Accepted: false,
			Reason:   "the moved course's teacher is already booked in the destination block",
			Version:  sess.version,
		}, nil
	}

	s.commit(ctx, sess, sess.rules.ApplySwap(grid, req.Source, req.Destination))
	s.metrics.RecordEdit("swap", true)
	return &dto.EditResult{Accepted: true, Version: sess.version}, nil
}

// Undo steps the history back one snapshot; a no-op at the oldest entry.
func (s *EditorService) Undo(ctx context.Context, level string) (*dto.UndoRedoResult, error) {
	return s.moveHistory(ctx, level, "undo")
}

// Redo steps the history forward one snapshot; a no-op at the newest entry.
func (s *EditorService) Redo(ctx context.Context, level string) (*dto.UndoRedoResult, error) {
	return s.moveHistory(ctx, level, "redo")
}

func (s *EditorService) moveHistory(ctx context.Context, level, direction string) (*dto.UndoRedoResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.editableSession(level)
	if err != nil {
		return nil, err
	}

	var moved bool
	if direction == "undo" {
		moved = sess.history.Undo()
	} else {
		moved = sess.history.Redo()
	}
	s.metrics.RecordHistoryMove(direction, moved)

	if moved {
		sess.variants.SyncCurrent(sess.history.Current())
		sess.version++
		s.invalidateStats(ctx, sess.level)
		s.enqueuePersist(sess)
	}

	return &dto.UndoRedoResult{
		Moved:   moved,
		Version: sess.version,
		History: historyState(sess.history),
	}, nil
}

// Generate submits the roster snapshot to the external solver and stores the
// returned grid as a new variant. Edits on the session are refused while the
// call is in flight, and a result arriving after the session was closed or
// reopened is discarded.
func (s *EditorService) Generate(ctx context.Context, level string) (*dto.GenerateResponse, error) {
	s.mu.Lock()
	sess, err := s.session(level)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.generating {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrGenerationBusy, "")
	}
	sess.generating = true
	epoch := sess.epoch
	req := solver.GenerateRequest{
		Level:        sess.level,
		Days:         s.cfg.Days,
		Blocks:       s.cfg.BlocksPerDay,
		Grades:       s.cfg.GradesPerLevel,
		Teachers:     sess.snapshot.Teachers,
		Assignments:  sess.snapshot.Assignments,
		Quotas:       sess.snapshot.Quotas,
		Restrictions: sess.snapshot.Restrictions,
	}
	s.mu.Unlock()

	grid, genErr := s.generator.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[level]
	if !ok || current.epoch != epoch {
		s.logger.Info("discarding generation result for stale session", zap.String("level", level))
		return nil, appErrors.Clone(appErrors.ErrSessionState, "editing session is gone; generation result discarded")
	}
	current.generating = false

	if genErr != nil {
		s.metrics.RecordGeneration(false)
		return nil, genErr
	}

	current.variants.Add(grid)
	current.history.Reset(grid)
	current.version++
	s.invalidateStats(ctx, level)
	s.enqueuePersist(current)
	s.metrics.RecordGeneration(true)

	return &dto.GenerateResponse{
		Level:    level,
		Variants: variantState(current, s.cfg.VariantCapacity),
		Version:  current.version,
	}, nil
}

// Variants lists the stored variants with their fill level.
func (s *EditorService) Variants(level string) ([]dto.VariantSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(level)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.VariantSummary, 0, sess.variants.Len())
	for i, grid := range sess.variants.All() {
		summaries = append(summaries, dto.VariantSummary{
			Index:    i,
			Selected: i == sess.variants.Selected(),
			Placed:   sess.accountant.PlacedTotal(grid),
		})
	}
	return summaries, nil
}

// SelectVariant switches the session to a stored variant and resets the edit
// history to that variant's saved state.
func (s *EditorService) SelectVariant(ctx context.Context, level string, index int) (*dto.SelectVariantResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.editableSession(level)
	if err != nil {
		return nil, err
	}

	if !sess.variants.Select(index) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no stored variant at index %d", index))
	}
	seed, _ := sess.variants.Get(index)
	sess.history.Reset(seed)
	sess.version++
	s.invalidateStats(ctx, level)
	s.enqueuePersist(sess)

	return &dto.SelectVariantResponse{
		Level:    level,
		Variants: variantState(sess, s.cfg.VariantCapacity),
		Version:  sess.version,
	}, nil
}

// Stats computes (or serves from cache) completion statistics for the
// visible grid.
func (s *EditorService) Stats(ctx context.Context, level string) (*dto.StatsResponse, error) {
	s.mu.Lock()
	sess, err := s.session(level)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	grid := sess.history.Current()
	version := sess.version
	accountant := sess.accountant
	s.mu.Unlock()

	cacheKey := fmt.Sprintf("editor:%s:stats:%d", level, version)
	if s.cache != nil {
		var cached models.CompletionStats
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &dto.StatsResponse{Level: level, Stats: cached}, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	stats := models.CompletionStats{
		RequiredTotal:   accountant.RequiredTotal(),
		PlacedTotal:     accountant.PlacedTotal(grid),
		CompletionRatio: accountant.CompletionRatio(grid),
		Shortfalls:      accountant.Shortfalls(grid),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache completion stats", zap.String("level", level), zap.Error(err))
		}
	}

	return &dto.StatsResponse{Level: level, Stats: stats}, nil
}

// Advice computes the slot-fill advice for an empty cell. It is recomputed
// on every call; an empty course list is a valid answer.
func (s *EditorService) Advice(level string, cell dto.CellRef) (*dto.AdviceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(level)
	if err != nil {
		return nil, err
	}

	grid := sess.history.Current()
	if !grid.InRange(cell.Day, cell.Block, cell.Grade) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cell reference is out of range")
	}
	if grid.Get(cell.Day, cell.Block, cell.Grade) != 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cell is not empty")
	}

	return &dto.AdviceResponse{
		Cell:    cell,
		Courses: sess.rules.EligibleCourses(grid, cell.Day, cell.Block, cell.Grade),
	}, nil
}

// CurrentGrid exposes the visible grid and roster snapshot for read-only
// consumers such as the export service.
func (s *EditorService) CurrentGrid(level string) (models.Grid, models.RosterSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(level)
	if err != nil {
		return models.Grid{}, models.RosterSnapshot{}, err
	}
	return sess.history.Current(), sess.snapshot, nil
}

// --- internals ---

func (s *EditorService) session(level string) (*editorSession, error) {
	sess, ok := s.sessions[level]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no editing session for this level")
	}
	return sess, nil
}

func (s *EditorService) editableSession(level string) (*editorSession, error) {
	sess, err := s.session(level)
	if err != nil {
		return nil, err
	}
	if sess.generating {
		return nil, appErrors.Clone(appErrors.ErrGenerationBusy, "grid is locked while a generation request is in flight")
	}
	return sess, nil
}

// commit appends the accepted grid to the history, mirrors it into the
// variant store and schedules the fire-and-forget persistence write.
func (s *EditorService) commit(ctx context.Context, sess *editorSession, grid models.Grid) {
	sess.history.Commit(grid)
	sess.variants.SyncCurrent(grid)
	sess.version++
	s.invalidateStats(ctx, sess.level)
	s.enqueuePersist(sess)
}

func (s *EditorService) loadVariants(ctx context.Context, level string) ([]models.Grid, int, error) {
	if s.variants == nil {
		return nil, -1, nil
	}
	grids, selected, err := s.variants.Load(ctx, level)
	if err != nil {
		return nil, -1, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load persisted variants")
	}
	return grids, selected, nil
}

func (s *EditorService) enqueuePersist(sess *editorSession) {
	if s.variants == nil {
		return
	}
	payload := variantPersistPayload{
		Level:    sess.level,
		Grids:    sess.variants.All(),
		Selected: sess.variants.Selected(),
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "variant_sync", Payload: payload}
	if err := s.persist.Enqueue(job); err != nil {
		s.metrics.RecordPersistFailure()
		s.logger.Warn("failed to enqueue variant persistence", zap.String("level", sess.level), zap.Error(err))
	}
}

func (s *EditorService) handlePersist(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(variantPersistPayload)
	if !ok {
		return fmt.Errorf("unexpected persistence payload %T", job.Payload)
	}
	if err := s.variants.Save(ctx, payload.Level, payload.Grids, payload.Selected); err != nil {
		s.metrics.RecordPersistFailure()
		return err
	}
	return nil
}

func (s *EditorService) invalidateStats(ctx context.Context, level string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("editor:%s:stats:*", level)); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.String("level", level), zap.Error(err))
	}
}

func historyState(h *editHistory) dto.HistoryState {
	return dto.HistoryState{
		Cursor:  h.Cursor(),
		Length:  h.Len(),
		CanUndo: h.Cursor() > 0,
		CanRedo: h.Cursor() < h.Len()-1,
	}
}

func variantState(sess *editorSession, capacity int) dto.VariantState {
	return dto.VariantState{
		Count:    sess.variants.Len(),
		Selected: sess.variants.Selected(),
		Capacity: capacity,
	}
}

func gridResponse(sess *editorSession, capacity int) *dto.GridResponse {
	grid := sess.history.Current()

	colors := make(map[int]string, len(sess.snapshot.Teachers))
	for _, teacher := range sess.snapshot.Teachers {
		colors[teacher.ID] = ColorFor(teacher.ID)
	}

	return &dto.GridResponse{
		Level:    sess.level,
		Days:     grid.Days(),
		Blocks:   grid.Blocks(),
		Grades:   grid.Grades(),
		Cells:    grid.Cells(),
		Colors:   colors,
		Version:  sess.version,
		History:  historyState(sess.history),
		Variants: variantState(sess, capacity),
	}
}
