package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
	"blog-app/internal/repository/sqlstore"
	"blog-app/internal/service"
)

type fixture struct {
	store    *sqlstore.Store
	tx       *service.Transactor
	logs     *test.Hook
	posts    service.PostService
	comments service.CommentService
	users    service.UserService
}

func newFixture(c *qt.C) *fixture {
	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, filepath.Join(c.TempDir(), "blog.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { db.Close() })

	store := sqlstore.New(db, sqlstore.DialectSQLite)
	c.Assert(store.Init(ctx), qt.IsNil)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := test.NewLocal(logger)

	tx := service.NewTransactor(store, logger)
	return &fixture{
		store:    store,
		tx:       tx,
		logs:     hook,
		posts:    service.NewPostService(tx),
		comments: service.NewCommentService(tx),
		users:    service.NewUserService(tx, service.DefaultPasswordPolicy()),
	}
}

func (f *fixture) register(c *qt.C, email string) *domain.User {
	user, err := f.users.Register(context.Background(), service.RegisterInput{
		Name:                 "Name",
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	c.Assert(err, qt.IsNil)
	return user
}

func TestExecute_CommitsOnSuccess(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	owner := f.register(c, "owner@example.com")

	post, err := service.Execute(context.Background(), f.tx, service.Op{Name: "test.create"}, func(ctx context.Context, store repository.Store) (*domain.Post, error) {
		p := &domain.Post{UserID: owner.ID, Title: "t", Content: "c"}
		_, err := store.Posts().Create(ctx, p)
		return p, err
	})
	c.Assert(err, qt.IsNil)

	got, err := f.posts.Get(context.Background(), post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "t")
}

func TestExecute_RollsBackPartialMutation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	owner := f.register(c, "owner@example.com")
	original, err := f.posts.Create(ctx, owner, service.PostInput{Title: "before", Content: "before"})
	c.Assert(err, qt.IsNil)

	_, err = service.Execute(ctx, f.tx, service.Op{Name: "test.update", EntityID: original.ID}, func(ctx context.Context, store repository.Store) (*domain.Post, error) {
		p := *original
		p.Title = "after"
		if err := store.Posts().Update(ctx, &p); err != nil {
			return nil, err
		}
		if _, err := store.Posts().Create(ctx, &domain.Post{UserID: owner.ID, Title: "extra", Content: "x"}); err != nil {
			return nil, err
		}
		return nil, errors.New("disk on fire")
	})

	var werr *domain.WriteError
	c.Assert(errors.As(err, &werr), qt.IsTrue)
	c.Assert(werr.Op, qt.Equals, "test.update")
	c.Assert(werr.EntityID, qt.Equals, original.ID)
	c.Assert(werr.Message, qt.Equals, "disk on fire")

	got, err := f.posts.Get(ctx, original.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "before")

	page, err := f.posts.List(ctx, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(page.Total, qt.Equals, 1)

	c.Assert(f.logs.LastEntry(), qt.IsNotNil)
	c.Assert(f.logs.LastEntry().Level, qt.Equals, logrus.ErrorLevel)
	c.Assert(f.logs.LastEntry().Data["op"], qt.Equals, "test.update")
}

func TestExecute_RecoversPanics(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := service.Execute(context.Background(), f.tx, service.Op{Name: "test.panic"}, func(ctx context.Context, store repository.Store) (int, error) {
		panic("unexpected")
	})
	var werr *domain.WriteError
	c.Assert(errors.As(err, &werr), qt.IsTrue)
	c.Assert(werr.Message, qt.Contains, "unexpected")
}

func TestExecute_NegativeAcknowledgementCarriesEntityID(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	err := f.posts.Delete(context.Background(), &domain.Post{ID: 77})
	var werr *domain.WriteError
	c.Assert(errors.As(err, &werr), qt.IsTrue)
	c.Assert(werr.EntityID, qt.Equals, int64(77))

	var ack *repository.AckError
	c.Assert(errors.As(err, &ack), qt.IsTrue)
}

func TestPostService_OwnerComesFromActor(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	actor := f.register(c, "actor@example.com")

	post, err := f.posts.Create(ctx, actor, service.PostInput{Title: "Mine", Content: "text"})
	c.Assert(err, qt.IsNil)
	c.Assert(post.UserID, qt.Equals, actor.ID)
	c.Assert(post.User.ID, qt.Equals, actor.ID)

	stored, err := f.posts.Get(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.UserID, qt.Equals, actor.ID)

	comment, err := f.comments.Create(ctx, actor, stored, service.CommentInput{Comment: "hello"})
	c.Assert(err, qt.IsNil)
	c.Assert(comment.UserID, qt.Equals, actor.ID)
	c.Assert(comment.PostID, qt.Equals, post.ID)
	c.Assert(comment.Post.User, qt.IsNil)
}

func TestPostService_CreateRequiresActor(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.posts.Create(context.Background(), nil, service.PostInput{Title: "t", Content: "c"})
	var authErr *domain.AuthorizationError
	c.Assert(errors.As(err, &authErr), qt.IsTrue)
}

func TestPostService_UpdateLeavesInputUntouched(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	actor := f.register(c, "actor@example.com")
	post, err := f.posts.Create(ctx, actor, service.PostInput{Title: "old", Content: "old"})
	c.Assert(err, qt.IsNil)

	updated, err := f.posts.Update(ctx, post, service.PostInput{Title: "new", Content: "new"})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Title, qt.Equals, "new")
	c.Assert(post.Title, qt.Equals, "old")
}

func TestPostService_DeleteRemovesComments(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	owner := f.register(c, "owner@example.com")
	reader := f.register(c, "reader@example.com")

	post, err := f.posts.Create(ctx, owner, service.PostInput{Title: "t", Content: "c"})
	c.Assert(err, qt.IsNil)
	comment, err := f.comments.Create(ctx, reader, post, service.CommentInput{Comment: "nice"})
	c.Assert(err, qt.IsNil)

	c.Assert(f.posts.Delete(ctx, post), qt.IsNil)

	_, err = f.posts.Get(ctx, post.ID)
	var nf *domain.NotFoundError
	c.Assert(errors.As(err, &nf), qt.IsTrue)
	_, err = f.comments.Get(ctx, comment.ID)
	c.Assert(errors.As(err, &nf), qt.IsTrue)
}

func TestPostService_CommentsPagination(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	owner := f.register(c, "owner@example.com")
	post, err := f.posts.Create(ctx, owner, service.PostInput{Title: "t", Content: "c"})
	c.Assert(err, qt.IsNil)

	for i := 0; i < 11; i++ {
		_, err := f.comments.Create(ctx, owner, post, service.CommentInput{Comment: "c"})
		c.Assert(err, qt.IsNil)
	}

	first, err := f.posts.Comments(ctx, post.ID, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(first.CurrentPage, qt.Equals, 1)
	c.Assert(first.Items, qt.HasLen, 10)
	c.Assert(first.LastPage(), qt.Equals, 2)
	c.Assert(first.Items[0].ID > first.Items[9].ID, qt.IsTrue)

	second, err := f.posts.Comments(ctx, post.ID, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(second.Items, qt.HasLen, 1)
}

func TestCommentService_Delete(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	owner := f.register(c, "owner@example.com")
	post, err := f.posts.Create(ctx, owner, service.PostInput{Title: "t", Content: "c"})
	c.Assert(err, qt.IsNil)
	comment, err := f.comments.Create(ctx, owner, post, service.CommentInput{Comment: "bye"})
	c.Assert(err, qt.IsNil)

	c.Assert(f.comments.Delete(ctx, comment), qt.IsNil)

	err = f.comments.Delete(ctx, comment)
	var werr *domain.WriteError
	c.Assert(errors.As(err, &werr), qt.IsTrue)
	c.Assert(werr.EntityID, qt.Equals, comment.ID)
}
