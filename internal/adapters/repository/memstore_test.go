package repository_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/okian/gradebook/internal/adapters/repository"
	"github.com/okian/gradebook/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When a session is created", func() {
			id, evicted, err := store.Create(ctx, session.New())

			Convey("Then it gets a uuid and can be viewed", func() {
				So(err, ShouldBeNil)
				So(evicted, ShouldBeEmpty)
				So(id, ShouldHaveLength, 36)
				So(store.Count(ctx), ShouldEqual, 1)
				err := store.View(ctx, id, func(s *session.Session) error {
					So(s.Roster(), ShouldBeEmpty)
					return nil
				})
				So(err, ShouldBeNil)
			})

			Convey("And updates are visible to later views", func() {
				err := store.Update(ctx, id, func(s *session.Session) error {
					_, err := s.ImportRoster(strings.NewReader("Name\nAlice\n"))
					return err
				})
				So(err, ShouldBeNil)
				_ = store.View(ctx, id, func(s *session.Session) error {
					So(s.Roster(), ShouldHaveLength, 1)
					return nil
				})
			})

			Convey("And errors from the callback are returned", func() {
				boom := errors.New("boom")
				So(store.Update(ctx, id, func(*session.Session) error { return boom }), ShouldEqual, boom)
			})

			Convey("And deleting it makes it unknown", func() {
				So(store.Delete(ctx, id), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 0)
				err := store.View(ctx, id, func(*session.Session) error { return nil })
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(store.Delete(ctx, id), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an unknown id is updated", func() {
			err := store.Update(ctx, "nope", func(*session.Session) error { return nil })

			Convey("Then not found is reported", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			id, _, _ := store.Create(ctx, session.New())
			So(store.Close(), ShouldBeNil)

			Convey("Then it refuses further work", func() {
				_, _, err := store.Create(ctx, session.New())
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				err = store.View(ctx, id, func(*session.Session) error { return nil })
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store bounded to two sessions", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(
			repository.WithMaxSessions(2),
			repository.WithIDGenerator(sequentialIDs()),
		)
		first, _, _ := store.Create(ctx, session.New())
		second, _, _ := store.Create(ctx, session.New())

		Convey("When a third session is created", func() {
			third, evicted, err := store.Create(ctx, session.New())

			Convey("Then the oldest is evicted", func() {
				So(err, ShouldBeNil)
				So(evicted, ShouldEqual, first)
				So(third, ShouldEqual, "s3")
				So(store.Count(ctx), ShouldEqual, 2)
				So(errors.Is(store.Delete(ctx, first), repository.ErrNotFound), ShouldBeTrue)
				So(store.Delete(ctx, second), ShouldBeNil)
			})
		})

		Convey("When the oldest was deleted explicitly", func() {
			So(store.Delete(ctx, first), ShouldBeNil)
			_, evicted, err := store.Create(ctx, session.New())

			Convey("Then nothing is evicted", func() {
				So(err, ShouldBeNil)
				So(evicted, ShouldBeEmpty)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})

	Convey("Given concurrent graders on one session", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		id, _, _ := store.Create(ctx, session.New())
		_ = store.Update(ctx, id, func(s *session.Session) error {
			_, err := s.ImportRoster(strings.NewReader("Name\nAlice\n"))
			return err
		})

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = store.Update(ctx, id, func(s *session.Session) error {
					return s.RecordScore("Alice", fmt.Sprintf("c%d", i), 2)
				})
			}(i)
		}
		wg.Wait()

		Convey("Then every write is kept", func() {
			_ = store.View(ctx, id, func(s *session.Session) error {
				So(s.Evaluation().Count(), ShouldEqual, 50)
				return nil
			})
		})
	})
}
