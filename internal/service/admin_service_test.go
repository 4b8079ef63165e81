package service

import (
	"context"
	"testing"

	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(f *fixture) *AdminService {
	return NewAdminService(
		f.Users,
		repository.NewPostRepository(f.DB),
		repository.NewTaskRepository(f.DB),
		f.ProgressRepo,
		f.Mailer,
	)
}

func TestAdmin_StatsAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	admin := newAdminService(f)
	progress := f.progressService()
	ctx := context.Background()

	ann := f.user(t, "ann")
	bob := f.user(t, "bob")
	_, err := progress.ReportProgress(ctx, bob.ID, ProgressReport{VideoID: firstWebVideo, CourseFile: "web.html", WatchedPercent: 95})
	require.NoError(t, err)
	_, err = NewCommunityService(admin.PostRepo, f.Users).CreatePost(ann.ID, "hello")
	require.NoError(t, err)
	_, err = NewTaskService(admin.TaskRepo).Create(ann.ID, TaskInput{})
	require.NoError(t, err)

	stats, err := admin.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Users)
	assert.EqualValues(t, 1, stats.Posts)
	assert.EqualValues(t, 1, stats.Tasks)
	assert.EqualValues(t, 1, stats.VideosWatched)
	assert.EqualValues(t, 2, stats.NewUsersThisWeek)
	assert.Equal(t, "Online", stats.ServerStatus)

	board, err := admin.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Username)
	assert.Equal(t, 1, board[0].Rank)
	assert.EqualValues(t, 1, board[0].VideosCompleted)
	assert.EqualValues(t, 1, board[1].PostsCount)

	feed, err := admin.Activity()
	require.NoError(t, err)
	assert.Len(t, feed, 4)

	details, err := admin.UserDetails(ann.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, details.Activity.Posts)
	assert.EqualValues(t, 1, details.Activity.Tasks)

	analytics, err := admin.Analytics(30)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalNewUsers)
	assert.Equal(t, 1, analytics.TotalCompletions)
}

func TestAdmin_RoleChangesAndDeletion(t *testing.T) {
	f := newFixture(t)
	admin := newAdminService(f)
	root := f.user(t, "root")
	root.Role = model.RoleAdmin
	require.NoError(t, f.Users.Update(root))
	member := f.user(t, "member")

	assert.ErrorIs(t, admin.DeleteUser(root.ID), util.ErrCannotDeleteAdmin)

	promoted, err := admin.Promote(0, member.Email)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	_, err = admin.Promote(member.ID, "")
	assert.ErrorIs(t, err, util.ErrAlreadyAdmin)

	_, err = admin.Demote(root.ID, root.ID)
	assert.ErrorIs(t, err, ErrCannotDemoteSelf)
	demoted, err := admin.Demote(root.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin())
	_, err = admin.Demote(root.ID, member.ID)
	assert.ErrorIs(t, err, util.ErrNotAdmin)

	require.NoError(t, admin.DeleteUser(member.ID))
	assert.ErrorIs(t, admin.DeleteUser(member.ID), util.ErrUserNotFound)
}

func TestAdmin_Messaging(t *testing.T) {
	f := newFixture(t)
	admin := newAdminService(f)
	ann := f.user(t, "ann")
	f.user(t, "bob")
	ctx := context.Background()

	_, err := admin.SendMessage(ctx, ann.ID, "", "Hi", "<b>welcome</b>")
	require.NoError(t, err)

	sent, total, err := admin.Broadcast(ctx, "News", "release")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 2, total)

	msgs := f.Mailer.Sent()
	require.Len(t, msgs, 3)
	assert.Equal(t, ann.Email, msgs[0].To.Address)
	assert.Contains(t, msgs[0].HTML, "&lt;b&gt;welcome&lt;/b&gt;")

	_, err = admin.SendMessage(ctx, 0, "nobody@example.com", "Hi", "x")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
