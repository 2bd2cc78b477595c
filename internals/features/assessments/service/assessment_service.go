// file: internals/features/assessments/service/assessment_service.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"lms_backend/internals/features/assessments/clock"
	"lms_backend/internals/features/assessments/dto"
	"lms_backend/internals/features/assessments/model"
	"lms_backend/internals/features/assessments/scoring"
	helper "lms_backend/internals/helpers"
)

/* =========================================================
   SERVICE
========================================================= */

type Options struct {
	// EnforceTimeLimit: tolak submit yang lewat deadline (+grace) dari start marker.
	EnforceTimeLimit bool
	TimeLimitGrace   time.Duration
	// SessionTTL: umur marker quiz tanpa batas waktu, dan retensi marker quiz
	// bertimer setelah deadline+grace. Marker exam tidak kedaluwarsa.
	SessionTTL time.Duration
}

type AssessmentService struct {
	Assessments AssessmentStore
	Attempts    AttemptStore
	Sessions    SessionStore // boleh nil
	Guard       *AttemptGuard
	Opts        Options

	now func() time.Time
}

func NewAssessmentService(assessments AssessmentStore, attempts AttemptStore, sessions SessionStore, opts Options) *AssessmentService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 6 * time.Hour
	}
	return &AssessmentService{
		Assessments: assessments,
		Attempts:    attempts,
		Sessions:    sessions,
		Guard:       NewAttemptGuard(attempts),
		Opts:        opts,
		now:         time.Now,
	}
}

// WithClock mengganti sumber waktu (dipakai test).
func (s *AssessmentService) WithClock(now func() time.Time) *AssessmentService {
	s.now = now
	return s
}

func (s *AssessmentService) clockNow() time.Time { return s.now().UTC() }

func (s *AssessmentService) load(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) (*model.AssessmentModel, []model.Question, error) {
	a, err := s.Assessments.GetByID(ctx, kind, lessonID, id)
	if err != nil {
		return nil, nil, err
	}
	qs, err := a.DecodeQuestions()
	if err != nil {
		return nil, nil, err
	}
	return a, qs, nil
}

/* =========================================================
   CATALOG
========================================================= */

// GetForLearner mengembalikan assessment tanpa kunci jawaban.
// Kind dengan RequiresSessionToView butuh identity dan lolos guard.
func (s *AssessmentService) GetForLearner(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, who *helper.Identity) (*dto.AssessmentView, error) {
	if kind.RequiresSessionToView && who == nil {
		return nil, model.ErrUnauthenticated
	}

	a, qs, err := s.load(ctx, kind, lessonID, id)
	if err != nil {
		return nil, err
	}

	if who != nil {
		if err := s.Guard.Check(ctx, kind, a.AssessmentID, who.LearnerID); err != nil {
			return nil, err
		}
	}

	view := dto.NewAssessmentView(kind, a, qs)
	return &view, nil
}

/* =========================================================
   START (time-limit clock)
========================================================= */

func (s *AssessmentService) Start(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, who *helper.Identity) (*dto.StartResponse, error) {
	if who == nil {
		return nil, model.ErrUnauthenticated
	}
	a, _, err := s.load(ctx, kind, lessonID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Guard.Check(ctx, kind, a.AssessmentID, who.LearnerID); err != nil {
		return nil, err
	}

	now := s.clockNow()
	startedAt := now
	if s.Sessions != nil {
		startedAt, err = s.Sessions.Begin(ctx, s.sessionKey(kind, a.AssessmentID, who.LearnerID), now, s.markerTTL(kind, a.TimeLimit()))
		if err != nil {
			return nil, fmt.Errorf("begin session: %w", err)
		}
	}

	w := clock.NewWindow(startedAt, a.TimeLimit())
	resp := &dto.StartResponse{
		StartedAt:        w.StartedAt,
		TimeLimitMinutes: a.AssessmentTimeLimitMinutes,
		ElapsedSeconds:   int64(w.Elapsed(now).Seconds()),
	}
	if w.Timed() {
		deadline := w.Deadline()
		remaining := int64(w.Remaining(now).Seconds())
		resp.Deadline = &deadline
		resp.RemainingSeconds = &remaining
	}
	return resp, nil
}

// markerTTL: Kind tanpa retake disimpan tanpa expiry (0) sampai submit menghapusnya.
func (s *AssessmentService) markerTTL(kind model.Kind, limit time.Duration) time.Duration {
	if !kind.AllowsRetake {
		return 0
	}
	return clock.NewWindow(time.Time{}, limit).TTL(s.Opts.TimeLimitGrace, s.Opts.SessionTTL)
}

func (s *AssessmentService) sessionKey(kind model.Kind, assessmentID, learnerID uuid.UUID) model.SessionKey {
	return model.SessionKey{Kind: kind.Name, AssessmentID: assessmentID, LearnerID: learnerID}
}

/* =========================================================
   SUBMIT
========================================================= */

// DecodeAnswers membaca payload answers sesuai kemampuan Kind.
//   - ValidatesPayload: harus JSON object atau array, selain itu ErrInvalidAnswers.
//     Array tidak punya key question id, jadi dinilai sebagai jawaban kosong.
//   - selain itu: apa pun yang bukan object dinilai sebagai jawaban kosong
func DecodeAnswers(kind model.Kind, raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	answers := map[string]any{}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []any
		if err := sonic.Unmarshal(trimmed, &list); err != nil && kind.ValidatesPayload {
			return nil, model.ErrInvalidAnswers
		}
		return answers, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if kind.ValidatesPayload {
			return nil, model.ErrInvalidAnswers
		}
		return answers, nil
	}
	if err := sonic.Unmarshal(trimmed, &answers); err != nil {
		if kind.ValidatesPayload {
			return nil, model.ErrInvalidAnswers
		}
		return map[string]any{}, nil
	}
	return answers, nil
}

// Submit menilai jawaban dan menyimpan tepat satu attempt.
func (s *AssessmentService) Submit(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, who *helper.Identity, rawAnswers []byte) (*dto.SubmitResponse, error) {
	if who == nil {
		return nil, model.ErrUnauthenticated
	}

	a, qs, err := s.load(ctx, kind, lessonID, id)
	if err != nil {
		return nil, err
	}

	answers, err := DecodeAnswers(kind, rawAnswers)
	if err != nil {
		return nil, err
	}

	if err := s.Guard.Check(ctx, kind, a.AssessmentID, who.LearnerID); err != nil {
		return nil, err
	}

	// startedAt dari marker kalau ada; tanpa marker sama dengan waktu submit
	now := s.clockNow()
	startedAt := now
	hasMarker := false
	key := s.sessionKey(kind, a.AssessmentID, who.LearnerID)
	if s.Sessions != nil {
		if t, ok, err := s.Sessions.Get(ctx, key); err != nil {
			log.Printf("[AssessmentService] WARN read start marker %s: %v", key, err)
		} else if ok {
			startedAt, hasMarker = t, true
		}
	}
	if s.Opts.EnforceTimeLimit && hasMarker {
		if clock.NewWindow(startedAt, a.TimeLimit()).Expired(now, s.Opts.TimeLimitGrace) {
			return nil, model.ErrTimeLimitExceeded
		}
	}

	out := scoring.Score(qs, answers)

	maxScore := a.AssessmentMaxScore
	if maxScore <= 0 {
		maxScore = model.SumPoints(qs)
	}

	attempt := &model.AttemptModel{
		AttemptAssessmentID:   a.AssessmentID,
		AttemptLessonID:       a.AssessmentLessonID,
		AttemptLearnerID:      who.LearnerID,
		AttemptScore:          out.Score,
		AttemptMaxScore:       maxScore,
		AttemptCorrectAnswers: out.CorrectAnswers,
		AttemptTotalQuestions: out.TotalQuestions,
		AttemptStartedAt:      startedAt,
		AttemptCompletedAt:    now,
	}
	if err := attempt.SetAnswers(out.Results); err != nil {
		return nil, err
	}

	if err := s.Attempts.Create(ctx, kind, attempt); err != nil {
		if !kind.AllowsRetake && helper.IsUniqueViolation(err) {
			return nil, model.ErrAlreadyTaken
		}
		log.Printf("[AssessmentService] ERROR create %s attempt: %v", kind.Name, err)
		return nil, err
	}

	if hasMarker {
		if err := s.Sessions.Clear(ctx, key); err != nil {
			log.Printf("[AssessmentService] WARN clear start marker %s: %v", key, err)
		}
	}

	log.Printf("[AssessmentService] %s submitted. attempt_id=%s learner_id=%s score=%.2f/%.2f correct=%d/%d",
		kind.Name, attempt.AttemptID, who.LearnerID, out.Score, maxScore, out.CorrectAnswers, out.TotalQuestions)

	return &dto.SubmitResponse{
		AttemptID:      attempt.AttemptID,
		Score:          out.Score,
		MaxScore:       maxScore,
		CorrectAnswers: out.CorrectAnswers,
		TotalQuestions: out.TotalQuestions,
		Questions:      dto.JoinResults(qs, out.Results),
	}, nil
}

/* =========================================================
   RESULTS & HISTORY
========================================================= */

// LatestResult: attempt terakhir (completed_at DESC) + soal lengkap dengan kunci.
func (s *AssessmentService) LatestResult(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, who *helper.Identity) (*dto.ResultResponse, error) {
	if who == nil {
		return nil, model.ErrUnauthenticated
	}
	a, qs, err := s.load(ctx, kind, lessonID, id)
	if err != nil {
		return nil, err
	}

	at, err := s.Attempts.FindLatest(ctx, kind, a.AssessmentID, who.LearnerID)
	if err != nil {
		return nil, err
	}
	if at == nil {
		return nil, model.ErrNoResult
	}
	return project(a, qs, at)
}

// GetAttempt: satu attempt milik learner sendiri; milik orang lain => not found.
func (s *AssessmentService) GetAttempt(ctx context.Context, kind model.Kind, lessonID, id, attemptID uuid.UUID, who *helper.Identity) (*dto.ResultResponse, error) {
	if who == nil {
		return nil, model.ErrUnauthenticated
	}
	a, qs, err := s.load(ctx, kind, lessonID, id)
	if err != nil {
		return nil, err
	}

	at, err := s.Attempts.GetByID(ctx, kind, attemptID)
	if err != nil {
		return nil, err
	}
	if at.AttemptAssessmentID != a.AssessmentID || at.AttemptLearnerID != who.LearnerID {
		return nil, model.ErrAttemptNotFound
	}
	return project(a, qs, at)
}

func project(a *model.AssessmentModel, qs []model.Question, at *model.AttemptModel) (*dto.ResultResponse, error) {
	answers, err := at.DecodeAnswers()
	if err != nil {
		return nil, err
	}
	res := dto.NewResultResponse(a, qs, at, answers)
	return &res, nil
}

func (s *AssessmentService) ListMyAttempts(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, who *helper.Identity, pg helper.Paging) ([]dto.AttemptSummary, int64, error) {
	if who == nil {
		return nil, 0, model.ErrUnauthenticated
	}
	a, err := s.Assessments.GetByID(ctx, kind, lessonID, id)
	if err != nil {
		return nil, 0, err
	}
	learnerID := who.LearnerID
	rows, total, err := s.Attempts.List(ctx, kind, model.AttemptFilter{
		AssessmentID: a.AssessmentID,
		LearnerID:    &learnerID,
		Offset:       pg.Offset,
		Limit:        pg.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return dto.FromAttemptModels(rows), total, nil
}

// ListAttemptsForAssessment: laporan semua learner (teacher/admin).
func (s *AssessmentService) ListAttemptsForAssessment(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID, pg helper.Paging) ([]dto.AttemptSummary, int64, error) {
	a, err := s.Assessments.GetByID(ctx, kind, lessonID, id)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.Attempts.List(ctx, kind, model.AttemptFilter{
		AssessmentID: a.AssessmentID,
		Offset:       pg.Offset,
		Limit:        pg.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return dto.FromAttemptModels(rows), total, nil
}

/* =========================================================
   AUTHORING
========================================================= */

func (s *AssessmentService) Create(ctx context.Context, kind model.Kind, lessonID uuid.UUID, who *helper.Identity, req dto.CreateAssessmentRequest) (*dto.AssessmentDetail, error) {
	req.Normalize()

	qs, maxScore, err := BuildQuestions(kind, req)
	if err != nil {
		return nil, err
	}

	m := &model.AssessmentModel{
		AssessmentLessonID:         lessonID,
		AssessmentTitle:            req.Title,
		AssessmentDescription:      req.Description,
		AssessmentTimeLimitMinutes: req.TimeLimitMinutes,
		AssessmentMaxScore:         maxScore,
	}
	if who != nil {
		createdBy := who.LearnerID
		m.AssessmentCreatedBy = &createdBy
	}
	if err := m.SetQuestions(qs); err != nil {
		return nil, err
	}

	if err := s.Assessments.Create(ctx, kind, m); err != nil {
		log.Printf("[AssessmentService] ERROR create %s: %v", kind.Name, err)
		return nil, err
	}

	detail := dto.NewAssessmentDetail(kind, m, qs)
	return &detail, nil
}

// BuildQuestions memvalidasi aturan lintas-field yang tidak bisa diekspresikan di tag validator.
func BuildQuestions(kind model.Kind, req dto.CreateAssessmentRequest) ([]model.Question, float64, error) {
	if req.Title == "" {
		return nil, 0, invalid("title is required")
	}
	if len(req.Questions) == 0 {
		return nil, 0, invalid("at least one question is required")
	}

	seen := make(map[string]struct{}, len(req.Questions))
	qs := make([]model.Question, 0, len(req.Questions))

	for i, in := range req.Questions {
		qt := model.QuestionType(in.Type)
		if !kind.Supports(qt) {
			return nil, 0, invalid("questions[%d].type %q is not allowed for %s", i, in.Type, kind.Name)
		}

		id := in.ID
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, 0, invalid("questions[%d].id %q is duplicated", i, id)
		}
		seen[id] = struct{}{}

		if strings.TrimSpace(in.CorrectAnswer) == "" {
			return nil, 0, invalid("questions[%d].correctAnswer is required", i)
		}
		if in.Points <= 0 {
			return nil, 0, invalid("questions[%d].points must be > 0", i)
		}

		opts := in.Options
		if qt == model.QuestionTypeTrueFalse && len(opts) == 0 {
			opts = []string{"True", "False"}
		}
		if qt.IsChoice() {
			if len(opts) < 2 {
				return nil, 0, invalid("questions[%d] needs at least 2 options", i)
			}
			if !contains(opts, in.CorrectAnswer) {
				return nil, 0, invalid("questions[%d].correctAnswer must be one of options", i)
			}
		} else {
			opts = nil
		}

		qs = append(qs, model.Question{
			ID:            id,
			Text:          in.Text,
			Type:          qt,
			Options:       opts,
			CorrectAnswer: in.CorrectAnswer,
			Points:        in.Points,
		})
	}

	sum := model.SumPoints(qs)
	if req.MaxScore != nil && !floatEq(*req.MaxScore, sum) {
		return nil, 0, invalid("maxScore %.2f must equal the sum of question points %.2f", *req.MaxScore, sum)
	}
	return qs, sum, nil
}

func (s *AssessmentService) Delete(ctx context.Context, kind model.Kind, lessonID, id uuid.UUID) error {
	if _, err := s.Assessments.GetByID(ctx, kind, lessonID, id); err != nil {
		return err
	}
	if err := s.Assessments.DeleteByID(ctx, kind, id); err != nil {
		return err
	}
	log.Printf("[AssessmentService] %s deleted. id=%s lesson_id=%s", kind.Name, id, lessonID)
	return nil
}

/* =========================================================
   HELPERS
========================================================= */

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidAssessment}, args...)...)
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func floatEq(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

// IsClientError: error yang berasal dari input/status learner, bukan kegagalan store.
func IsClientError(err error) bool {
	for _, e := range []error{
		model.ErrAssessmentNotFound, model.ErrAttemptNotFound, model.ErrNoResult,
		model.ErrAlreadyTaken, model.ErrUnauthenticated, model.ErrInvalidAnswers,
		model.ErrTimeLimitExceeded, model.ErrInvalidAssessment,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
