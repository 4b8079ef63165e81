package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"sort"
	"time"

	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"
	"skillify_backend/pkg/logger"
	"skillify_backend/pkg/mailer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	leaderboardSize   = 50
	activityPerSource = 5
	activityFeedSize  = 20
)

var ErrCannotDemoteSelf = errors.New("cannot demote yourself")

type AdminStats struct {
	Users            int64   `json:"users"`
	Posts            int64   `json:"posts"`
	Tasks            int64   `json:"tasks"`
	VideosWatched    int64   `json:"videosWatched"`
	ActiveNow        int64   `json:"activeNow"`
	NewUsersThisWeek int64   `json:"newUsersThisWeek"`
	ServerStatus     string  `json:"serverStatus"`
	Uptime           float64 `json:"uptime"`
}

type ActivityItem struct {
	Type string    `json:"type"`
	Msg  string    `json:"msg"`
	Time time.Time `json:"time"`
	User string    `json:"user"`
}

type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	ID              uint    `json:"id"`
	Username        string  `json:"username"`
	XP              int     `json:"xp"`
	Level           int     `json:"level"`
	Streak          int     `json:"streak"`
	FocusHours      float64 `json:"focusHours"`
	VideosCompleted int64   `json:"videosCompleted"`
	PostsCount      int64   `json:"postsCount"`
	Avatar          string  `json:"avatar"`
}

type UserActivity struct {
	VideosCompleted  int64 `json:"videosCompleted"`
	VideosInProgress int64 `json:"videosInProgress"`
	Posts            int64 `json:"posts"`
	Tasks            int64 `json:"tasks"`
}

type UserDetails struct {
	*model.User
	Activity UserActivity `json:"activity"`
}

type Analytics struct {
	Registrations    map[string]int `json:"registrations"`
	VideoCompletions map[string]int `json:"videoCompletions"`
	TotalNewUsers    int            `json:"totalNewUsers"`
	TotalCompletions int            `json:"totalCompletions"`
}

type AdminService struct {
	UserRepo     *repository.UserRepository
	PostRepo     *repository.PostRepository
	TaskRepo     *repository.TaskRepository
	ProgressRepo *repository.ProgressRepository
	Mailer       mailer.Sender
	StartedAt    time.Time
}

func NewAdminService(
	userRepo *repository.UserRepository,
	postRepo *repository.PostRepository,
	taskRepo *repository.TaskRepository,
	progressRepo *repository.ProgressRepository,
	sender mailer.Sender,
) *AdminService {
	return &AdminService{
		UserRepo:     userRepo,
		PostRepo:     postRepo,
		TaskRepo:     taskRepo,
		ProgressRepo: progressRepo,
		Mailer:       sender,
		StartedAt:    time.Now(),
	}
}

// Stats runs the platform counters concurrently.
func (s *AdminService) Stats() (*AdminStats, error) {
	now := time.Now()
	stats := &AdminStats{
		ServerStatus: "Online",
		Uptime:       now.Sub(s.StartedAt).Seconds(),
	}

	var g errgroup.Group
	count := func(dst *int64, fn func() (int64, error)) {
		g.Go(func() error {
			n, err := fn()
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&stats.Users, s.UserRepo.Count)
	count(&stats.Posts, s.PostRepo.Count)
	count(&stats.Tasks, s.TaskRepo.Count)
	count(&stats.VideosWatched, s.ProgressRepo.CountCompleted)
	count(&stats.ActiveNow, func() (int64, error) {
		return s.UserRepo.CountLoggedInSince(now.Add(-24 * time.Hour))
	})
	count(&stats.NewUsersThisWeek, func() (int64, error) {
		return s.UserRepo.CountCreatedSince(now.AddDate(0, 0, -7))
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) Users(page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.FindPage((page-1)*limit, limit)
}

// Activity merges the latest sign-ups, posts and tasks into one feed, newest first.
func (s *AdminService) Activity() ([]ActivityItem, error) {
	users, err := s.UserRepo.FindLatest(activityPerSource)
	if err != nil {
		return nil, err
	}
	posts, err := s.PostRepo.FindLatest(activityPerSource)
	if err != nil {
		return nil, err
	}
	tasks, err := s.TaskRepo.FindLatest(activityPerSource)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(users)+len(posts)+len(tasks))
	for _, u := range users {
		items = append(items, ActivityItem{Type: "USER", Msg: "New user joined: " + u.Username, Time: u.CreatedAt, User: u.Username})
	}
	for _, p := range posts {
		name := authorName(p.User)
		items = append(items, ActivityItem{Type: "POST", Msg: "New post by " + name, Time: p.CreatedAt, User: name})
	}
	for _, t := range tasks {
		name := authorName(t.User)
		items = append(items, ActivityItem{Type: "TASK", Msg: "Task created by " + name, Time: t.CreatedAt, User: name})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	if len(items) > activityFeedSize {
		items = items[:activityFeedSize]
	}
	return items, nil
}

func authorName(u *model.User) string {
	if u == nil {
		return "Unknown"
	}
	return u.Username
}

func (s *AdminService) Leaderboard() ([]LeaderboardEntry, error) {
	users, err := s.UserRepo.FindTopByXP(leaderboardSize)
	if err != nil {
		return nil, err
	}
	board := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		videos, err := s.ProgressRepo.CountByUser(u.ID, true)
		if err != nil {
			return nil, err
		}
		posts, err := s.PostRepo.CountByUser(u.ID)
		if err != nil {
			return nil, err
		}
		board[i] = LeaderboardEntry{
			Rank:            i + 1,
			ID:              u.ID,
			Username:        u.Username,
			XP:              u.XP,
			Level:           u.Level,
			Streak:          u.Streak,
			FocusHours:      u.FocusHours,
			VideosCompleted: videos,
			PostsCount:      posts,
			Avatar:          u.Avatar,
		}
	}
	return board, nil
}

func (s *AdminService) findUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AdminService) UserDetails(id uint) (*UserDetails, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}
	var a UserActivity
	if a.VideosCompleted, err = s.ProgressRepo.CountByUser(id, true); err != nil {
		return nil, err
	}
	if a.VideosInProgress, err = s.ProgressRepo.CountByUser(id, false); err != nil {
		return nil, err
	}
	if a.Posts, err = s.PostRepo.CountByUser(id); err != nil {
		return nil, err
	}
	if a.Tasks, err = s.TaskRepo.CountByUser(id); err != nil {
		return nil, err
	}
	return &UserDetails{User: user, Activity: a}, nil
}

// DeleteUser removes a non-admin account with everything it owns.
func (s *AdminService) DeleteUser(id uint) error {
	user, err := s.findUser(id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return util.ErrCannotDeleteAdmin
	}
	if err := s.UserRepo.Delete(id); err != nil {
		return err
	}
	logger.Log.Info("User deleted by admin", zap.Uint("userId", id))
	return nil
}

// resolveUser looks a user up by id, or by email when id is zero.
func (s *AdminService) resolveUser(id uint, email string) (*model.User, error) {
	if id != 0 {
		return s.findUser(id)
	}
	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AdminService) Promote(id uint, email string) (*model.User, error) {
	user, err := s.resolveUser(id, email)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, util.ErrAlreadyAdmin
	}
	user.Role = model.RoleAdmin
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AdminService) Demote(actorID, id uint) (*model.User, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, util.ErrNotAdmin
	}
	if user.ID == actorID {
		return nil, ErrCannotDemoteSelf
	}
	user.Role = model.RoleUser
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func adminMail(to mail.Address, subject, body, signature string) mailer.Message {
	return mailer.Message{
		To:      to,
		Subject: subject,
		Text:    body + "\n\n- " + signature,
		HTML:    fmt.Sprintf("<h2>%s</h2><p>%s</p><hr><p>- %s</p>", html.EscapeString(subject), html.EscapeString(body), signature),
	}
}

func (s *AdminService) SendMessage(ctx context.Context, id uint, email, subject, body string) (*model.User, error) {
	user, err := s.resolveUser(id, email)
	if err != nil {
		return nil, err
	}
	msg := adminMail(mail.Address{Name: user.Username, Address: user.Email}, subject, body, "Skillify Admin")
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return nil, err
	}
	return user, nil
}

// Broadcast mails every user and returns how many deliveries succeeded.
func (s *AdminService) Broadcast(ctx context.Context, subject, body string) (sent, total int, err error) {
	users, err := s.UserRepo.FindAll()
	if err != nil {
		return 0, 0, err
	}
	for _, u := range users {
		msg := adminMail(mail.Address{Name: u.Username, Address: u.Email}, subject, body, "Skillify Team")
		if err := s.Mailer.Send(ctx, msg); err != nil {
			logger.Log.Warn("Broadcast delivery failed", zap.String("email", u.Email), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, len(users), nil
}

// Analytics counts sign-ups and video completions per UTC day over the last days.
func (s *AdminService) Analytics(days int) (*Analytics, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	created, err := s.UserRepo.CreationTimesSince(since)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CompletionTimesSince(since)
	if err != nil {
		return nil, err
	}
	return &Analytics{
		Registrations:    countByDay(created),
		VideoCompletions: countByDay(completed),
		TotalNewUsers:    len(created),
		TotalCompletions: len(completed),
	}, nil
}

func countByDay(times []time.Time) map[string]int {
	out := make(map[string]int)
	for _, t := range times {
		out[t.UTC().Format(util.DateFormat)]++
	}
	return out
}
