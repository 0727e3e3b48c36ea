package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// blockingPostRepo holds the likes-count bump until released, then reports
// the state of the context it was handed.
type blockingPostRepo struct {
	*fakePostRepo
	release chan struct{}
	bumped  chan error
}

func (r *blockingPostRepo) IncrementLikesCount(ctx context.Context, _ string) error {
	<-r.release
	r.bumped <- ctx.Err()
	return nil
}

// The fire-and-forget counter bump must survive the end of the request; a
// canceled request context would silently drop it.
func TestLikePostCounterBumpOutlivesRequest(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Like{}))

	post := &models.Post{ID: primitive.NewObjectID(), UserID: postOwnerID(2), Title: "new single"}
	postRepo := &blockingPostRepo{
		fakePostRepo: newFakePostRepo(post),
		release:      make(chan struct{}),
		bumped:       make(chan error, 1),
	}
	notifier := realtime.NewNotifier(&memNotificationRepo{}, realtime.NewHub())
	handler := NewLikeHandler(repositories.NewPostgresLikeRepository(db), postRepo, nil, notifier)

	reqCtx, cancel := context.WithCancel(context.Background())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID.Hex())
	c.Set("user", &models.JwtCustomClaims{UserID: 1})

	require.NoError(t, handler.LikePost(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The response is written and the request context is gone before the
	// bump gets to run.
	cancel()
	close(postRepo.release)

	select {
	case bumpErr := <-postRepo.bumped:
		assert.NoError(t, bumpErr, "likes count bump saw a dead context")
	case <-time.After(time.Second):
		t.Fatal("likes count bump never ran")
	}
}
