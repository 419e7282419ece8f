package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eduquest/client/internal/app/models"
	"github.com/eduquest/client/internal/app/models/dto"
	"github.com/eduquest/client/internal/gateway"
	"github.com/eduquest/client/internal/pkg/apperrors"
	"github.com/eduquest/client/internal/pkg/querycache"
)

// Cache key prefixes
const (
	keyCourses      = "courses:"
	keyEnrollment   = "enrollment:"
	keyEnrollments  = "enrollments:"
	keyDashboard    = "dashboard:"
	keyAchievements = "achievements:"
)

// LearningService serves the catalog, enrollment, achievement and dashboard
// views through a short-lived query cache. Writes invalidate the queries they affect.
type LearningService struct {
	api    *gateway.Client
	cache  *querycache.Cache
	logger zerolog.Logger
}

// NewLearningService creates a new LearningService
func NewLearningService(api *gateway.Client, cache *querycache.Cache, logger zerolog.Logger) *LearningService {
	return &LearningService{
		api:    api,
		cache:  cache,
		logger: logger.With().Str("component", "learning").Logger(),
	}
}

// ResetCache forgets every cached query; called when the session changes hands
func (s *LearningService) ResetCache() {
	s.cache.Reset()
}

func key(prefix string, parts ...string) string {
	k := prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// ListCourses returns the catalog
func (s *LearningService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "list"), s.api.Courses().List)
}

// GetCourse returns one course
func (s *LearningService) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "get", itoa(courseID)), func(ctx context.Context) (*models.Course, error) {
		return s.api.Courses().Get(ctx, courseID)
	})
}

// SearchCourses runs a free-text search
func (s *LearningService) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "search", query), func(ctx context.Context) ([]models.Course, error) {
		return s.api.Courses().Search(ctx, query)
	})
}

// CoursesByCategory filters the catalog by category
func (s *LearningService) CoursesByCategory(ctx context.Context, category string) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "category", category), func(ctx context.Context) ([]models.Course, error) {
		return s.api.Courses().ByCategory(ctx, category)
	})
}

// CoursesByLevel filters the catalog by level
func (s *LearningService) CoursesByLevel(ctx context.Context, level models.Level) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "level", string(level)), func(ctx context.Context) ([]models.Course, error) {
		return s.api.Courses().ByLevel(ctx, level)
	})
}

// PopularCourses returns the most enrolled courses
func (s *LearningService) PopularCourses(ctx context.Context) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "popular"), s.api.Courses().Popular)
}

// RecentCourses returns the newest courses
func (s *LearningService) RecentCourses(ctx context.Context) ([]models.Course, error) {
	return querycache.Fetch(ctx, s.cache, key(keyCourses, "recent"), s.api.Courses().Recent)
}

// Home loads the landing page lists in parallel
func (s *LearningService) Home(ctx context.Context) (*dto.HomeView, error) {
	view := &dto.HomeView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Popular, err = s.PopularCourses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.Recent, err = s.RecentCourses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// CreateCourse adds a course
func (s *LearningService) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	course, err := s.api.Courses().Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyCourses)
	s.logger.Info().Int64("course_id", course.ID).Msg("Course created")
	return course, nil
}

// UpdateCourse replaces a course
func (s *LearningService) UpdateCourse(ctx context.Context, courseID int64, req dto.CourseRequest) (*models.Course, error) {
	course, err := s.api.Courses().Update(ctx, courseID, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyCourses, keyEnrollment, keyEnrollments)
	return course, nil
}

// DeleteCourse removes a course
func (s *LearningService) DeleteCourse(ctx context.Context, courseID int64) error {
	if err := s.api.Courses().Delete(ctx, courseID); err != nil {
		return err
	}
	s.cache.Invalidate(keyCourses, keyEnrollment, keyEnrollments, keyDashboard)
	s.logger.Info().Int64("course_id", courseID).Msg("Course deleted")
	return nil
}

// MyEnrollment returns the caller's enrollment in a course; ok is false when
// the caller is not enrolled.
func (s *LearningService) MyEnrollment(ctx context.Context, courseID int64) (*models.Enrollment, bool, error) {
	e, err := querycache.Fetch(ctx, s.cache, key(keyEnrollment, itoa(courseID)), func(ctx context.Context) (*models.Enrollment, error) {
		return s.api.Enrollments().MyCourse(ctx, courseID)
	})
	if err != nil {
		if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return e, true, nil
}

// CourseDetail loads a course and, for a logged-in caller, their enrollment.
// An enrollment lookup failure does not fail the view.
func (s *LearningService) CourseDetail(ctx context.Context, courseID int64, authenticated bool) (*dto.CourseDetailView, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	view := &dto.CourseDetailView{Course: course}
	if !authenticated {
		return view, nil
	}

	e, ok, err := s.MyEnrollment(ctx, courseID)
	if err != nil {
		s.logger.Debug().Err(err).Int64("course_id", courseID).Msg("Enrollment lookup failed")
		return view, nil
	}
	view.Enrollment, view.Enrolled = e, ok
	return view, nil
}

// Enroll enrolls the caller and invalidates the enrollment and dashboard queries
func (s *LearningService) Enroll(ctx context.Context, courseID int64) (*models.Enrollment, error) {
	e, err := s.api.Enrollments().Enroll(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyEnrollment, keyEnrollments, keyDashboard)
	s.logger.Info().Int64("course_id", courseID).Msg("Enrolled in course")
	return e, nil
}

// Unenroll leaves a course
func (s *LearningService) Unenroll(ctx context.Context, courseID int64) error {
	if err := s.api.Enrollments().Unenroll(ctx, courseID); err != nil {
		return err
	}
	s.cache.Invalidate(keyEnrollment, keyEnrollments, keyDashboard)
	s.logger.Info().Int64("course_id", courseID).Msg("Left course")
	return nil
}

// UpdateProgress records progress; completion may award achievements
func (s *LearningService) UpdateProgress(ctx context.Context, courseID int64, progress int) (*models.Enrollment, error) {
	e, err := s.api.Enrollments().UpdateProgress(ctx, courseID, progress)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(keyEnrollment, keyEnrollments, keyDashboard, keyAchievements)
	return e, nil
}

// MyEnrollments lists the caller's enrollments
func (s *LearningService) MyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return querycache.Fetch(ctx, s.cache, key(keyEnrollments, "mine"), s.api.Enrollments().MyCourses)
}

// CourseEnrollments lists every enrollment of a course
func (s *LearningService) CourseEnrollments(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	return querycache.Fetch(ctx, s.cache, key(keyEnrollments, "course", itoa(courseID)), func(ctx context.Context) ([]models.Enrollment, error) {
		return s.api.Enrollments().CourseEnrollments(ctx, courseID)
	})
}

// CourseStats returns the enrollment count of a course
func (s *LearningService) CourseStats(ctx context.Context, courseID int64) (*dto.EnrollmentStats, error) {
	return querycache.Fetch(ctx, s.cache, key(keyEnrollments, "stats", itoa(courseID)), func(ctx context.Context) (*dto.EnrollmentStats, error) {
		return s.api.Enrollments().CourseStats(ctx, courseID)
	})
}

// MyAchievements lists the caller's achievements
func (s *LearningService) MyAchievements(ctx context.Context) ([]models.Achievement, error) {
	return querycache.Fetch(ctx, s.cache, key(keyAchievements, "mine"), s.api.Achievements().Mine)
}

// UserAchievements lists another user's achievements
func (s *LearningService) UserAchievements(ctx context.Context, userID int64) ([]models.Achievement, error) {
	return querycache.Fetch(ctx, s.cache, key(keyAchievements, "user", itoa(userID)), func(ctx context.Context) ([]models.Achievement, error) {
		return s.api.Achievements().ByUser(ctx, userID)
	})
}

// AchievementCount returns how many achievements the caller holds
func (s *LearningService) AchievementCount(ctx context.Context) (*dto.AchievementCount, error) {
	return querycache.Fetch(ctx, s.cache, key(keyAchievements, "count"), s.api.Achievements().MyCount)
}

// AchievementTypes lists the achievement types
func (s *LearningService) AchievementTypes(ctx context.Context) ([]models.AchievementType, error) {
	return querycache.Fetch(ctx, s.cache, key(keyAchievements, "types"), s.api.Achievements().Types)
}

// UserDashboard returns another user's dashboard
func (s *LearningService) UserDashboard(ctx context.Context, userID int64) (*models.Dashboard, error) {
	return querycache.Fetch(ctx, s.cache, key(keyDashboard, "user", itoa(userID)), func(ctx context.Context) (*models.Dashboard, error) {
		return s.api.Dashboard().ByUser(ctx, userID)
	})
}

// Dashboard loads the dashboard page. The summary is required; the
// enrollment and achievement lists degrade to empty on failure.
func (s *LearningService) Dashboard(ctx context.Context) (*dto.DashboardView, error) {
	view := &dto.DashboardView{
		Enrollments:  []models.Enrollment{},
		Achievements: []models.Achievement{},
	}

	var g errgroup.Group
	g.Go(func() error {
		d, err := querycache.Fetch(ctx, s.cache, key(keyDashboard, "mine"), s.api.Dashboard().Mine)
		view.Dashboard = d
		return err
	})
	g.Go(func() error {
		if list, err := s.MyEnrollments(ctx); err == nil {
			view.Enrollments = list
		} else {
			s.logger.Debug().Err(err).Msg("Dashboard enrollments unavailable")
		}
		return nil
	})
	g.Go(func() error {
		if list, err := s.MyAchievements(ctx); err == nil {
			view.Achievements = list
		} else {
			s.logger.Debug().Err(err).Msg("Dashboard achievements unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
