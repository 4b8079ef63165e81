package repository

import (
	"errors"
	"time"

	"skillify_backend/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// WithTx returns a repository bound to tx.
func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// FindForUpdate loads the (user, video) record and locks its row until the
// surrounding transaction ends. Returns gorm.ErrRecordNotFound when absent.
func (r *ProgressRepository) FindForUpdate(userID uint, videoID string) (*model.VideoProgress, error) {
	var p model.VideoProgress
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Find(userID uint, videoID string) (*model.VideoProgress, error) {
	var p model.VideoProgress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Create(p *model.VideoProgress) error {
	return r.DB.Create(p).Error
}

func (r *ProgressRepository) Save(p *model.VideoProgress) error {
	return r.DB.Save(p).Error
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.VideoProgress, error) {
	var list []model.VideoProgress
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *ProgressRepository) FindByUserAndCourse(userID uint, courseFile string) ([]model.VideoProgress, error) {
	var list []model.VideoProgress
	err := r.DB.Where("user_id = ? AND course_file = ?", userID, courseFile).Order("id ASC").Find(&list).Error
	return list, err
}

type completedVideo struct {
	CourseFile string
	VideoID    string
}

// CompletedVideoIDs lists a user's completed video ids grouped by course file.
func (r *ProgressRepository) CompletedVideoIDs(userID uint) (map[string][]string, error) {
	var rows []completedVideo
	err := r.DB.Model(&model.VideoProgress{}).
		Select("course_file, video_id").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	byCourse := make(map[string][]string)
	for _, row := range rows {
		byCourse[row.CourseFile] = append(byCourse[row.CourseFile], row.VideoID)
	}
	return byCourse, nil
}

func (r *ProgressRepository) CompletionsSince(userID uint, since time.Time) ([]model.VideoProgress, error) {
	var list []model.VideoProgress
	err := r.DB.Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, since).
		Order("completed_at ASC").
		Find(&list).Error
	return list, err
}

func (r *ProgressRepository) RecentCompletions(userID uint, limit int) ([]model.VideoProgress, error) {
	var list []model.VideoProgress
	err := r.DB.Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ProgressRepository) CountByUser(userID uint, completed bool) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoProgress{}).
		Where("user_id = ? AND completed = ?", userID, completed).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoProgress{}).Where("completed = ?", true).Count(&count).Error
	return count, err
}

// IsRetryable reports whether a failed progress transaction lost a race on
// the (user, video) key and can simply be run again.
func IsRetryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 1213 deadlock, 1205 lock wait timeout
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// CompletionTimesSince lists completion times of every user after since.
func (r *ProgressRepository) CompletionTimesSince(since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.Model(&model.VideoProgress{}).
		Where("completed = ? AND completed_at > ?", true, since).
		Pluck("completed_at", &times).Error
	return times, err
}
