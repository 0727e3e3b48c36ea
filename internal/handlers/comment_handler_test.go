package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/sori-music/backend/pkg/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakePostRepo is an in-memory stand-in for the Mongo-backed post store.
type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: make(map[string]*models.Post)}
	for _, post := range posts {
		repo.posts[post.ID.Hex()] = post
	}
	return repo
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (r *fakePostRepo) GetPostsByUserID(context.Context, string, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) GetPostsByIDs(context.Context, []string) ([]models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) GetAllPosts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) GetShorts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *fakePostRepo) CountPosts(context.Context) (int64, error)              { return 0, nil }
func (r *fakePostRepo) UpdatePost(context.Context, string, *models.Post) error { return nil }
func (r *fakePostRepo) DeletePost(context.Context, string) error               { return nil }
func (r *fakePostRepo) IncrementLikesCount(context.Context, string) error      { return nil }
func (r *fakePostRepo) DecrementLikesCount(context.Context, string) error      { return nil }
func (r *fakePostRepo) IncrementCommentsCount(context.Context, string) error   { return nil }
func (r *fakePostRepo) DecrementCommentsCount(context.Context, string) error   { return nil }
func (r *fakePostRepo) IncrementRepostsCount(context.Context, string) error    { return nil }
func (r *fakePostRepo) DecrementRepostsCount(context.Context, string) error    { return nil }

type memNotificationRepo struct {
	created []*models.Notification
}

func (r *memNotificationRepo) CreateNotification(n *models.Notification) error {
	r.created = append(r.created, n)
	return nil
}

func (r *memNotificationRepo) GetByRecipientID(uint, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *memNotificationRepo) GetGrouped(uint) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error) {
	return nil, nil, nil, nil, nil
}

func (r *memNotificationRepo) GetUnreadCount(uint) (int64, error) { return 0, nil }
func (r *memNotificationRepo) MarkAsRead(uint) error              { return nil }
func (r *memNotificationRepo) MarkAllAsRead(uint) error           { return nil }

type commentFixture struct {
	handler       *CommentHandler
	post          *models.Post
	notifications *memNotificationRepo
}

func newCommentFixture(t *testing.T, ownerID uint) *commentFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Comment{}, &models.CommentLike{}))

	post := &models.Post{
		ID:     primitive.NewObjectID(),
		UserID: postOwnerID(ownerID),
		Title:  "new single",
	}
	notifications := &memNotificationRepo{}
	notifier := realtime.NewNotifier(notifications, realtime.NewHub())

	handler := NewCommentHandler(
		repositories.NewPostgresCommentRepository(db),
		newFakePostRepo(post),
		nil,
		repositories.NewPostgresCommentLikeRepository(db),
		notifier,
	)
	return &commentFixture{handler: handler, post: post, notifications: notifications}
}

func postComment(t *testing.T, fixture *commentFixture, userID uint, postID, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
	return rec, fixture.handler.CreateComment(c)
}

func fetchComments(t *testing.T, fixture *commentFixture, postID string) []interaction.ThreadedComment {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)

	require.NoError(t, fixture.handler.GetCommentsByPostID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var tree []interaction.ThreadedComment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	return tree
}

func TestCreateCommentAndThreadedFetch(t *testing.T) {
	fixture := newCommentFixture(t, 2)
	postID := fixture.post.ID.Hex()

	rec, err := postComment(t, fixture, 1, postID, `{"content":"love this"}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var top models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.NotZero(t, top.ID)

	_, err = postComment(t, fixture, 2, postID, `{"content":"thanks","parent_id":`+strconv.Itoa(int(top.ID))+`}`)
	require.NoError(t, err)

	tree := fetchComments(t, fixture, postID)
	require.Len(t, tree, 1)
	assert.Equal(t, "love this", tree[0].Content)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "thanks", tree[0].Replies[0].Content)
}

// A reply targeting another reply is accepted and stored, but the threaded
// view only attaches replies of top-level comments.
func TestReplyToReplyIsStoredButNotThreaded(t *testing.T) {
	fixture := newCommentFixture(t, 2)
	postID := fixture.post.ID.Hex()

	rec, err := postComment(t, fixture, 1, postID, `{"content":"top"}`)
	require.NoError(t, err)
	var top models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))

	rec, err = postComment(t, fixture, 2, postID, `{"content":"reply","parent_id":`+strconv.Itoa(int(top.ID))+`}`)
	require.NoError(t, err)
	var reply models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))

	rec, err = postComment(t, fixture, 1, postID, `{"content":"deeper","parent_id":`+strconv.Itoa(int(reply.ID))+`}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	tree := fetchComments(t, fixture, postID)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "reply", tree[0].Replies[0].Content)
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	fixture := newCommentFixture(t, 2)

	_, err := postComment(t, fixture, 1, primitive.NewObjectID().Hex(), `{"content":"hello"}`)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCreateCommentNotifiesPostOwner(t *testing.T) {
	fixture := newCommentFixture(t, 2)

	_, err := postComment(t, fixture, 1, fixture.post.ID.Hex(), `{"content":"nice"}`)
	require.NoError(t, err)

	require.Len(t, fixture.notifications.created, 1)
	notification := fixture.notifications.created[0]
	assert.Equal(t, "comment", notification.Type)
	assert.Equal(t, uint(1), notification.ActorID)
	assert.Equal(t, uint(2), notification.RecipientID)
}

// Commenting on your own post does not notify yourself.
func TestCreateCommentOnOwnPostSkipsNotification(t *testing.T) {
	fixture := newCommentFixture(t, 2)

	_, err := postComment(t, fixture, 2, fixture.post.ID.Hex(), `{"content":"mine"}`)
	require.NoError(t, err)

	assert.Empty(t, fixture.notifications.created)
}

func TestDeleteCommentOwnership(t *testing.T) {
	fixture := newCommentFixture(t, 2)
	postID := fixture.post.ID.Hex()

	rec, err := postComment(t, fixture, 1, postID, `{"content":"mine"}`)
	require.NoError(t, err)
	var comment models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))

	deleteAs := func(userID uint) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(int(comment.ID)))
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
		return fixture.handler.DeleteComment(c)
	}

	err = deleteAs(2)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	require.NoError(t, deleteAs(1))
	assert.Empty(t, fetchComments(t, fixture, postID))
}
