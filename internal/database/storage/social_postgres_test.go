package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/FilmFeed/internal/domain"
	"github.com/GoArmGo/FilmFeed/internal/logger"
)

func TestToggleLike(t *testing.T) {
	for _, favorited := range []bool{true, false} {
		db, mock := newMockDB(t)
		s := NewSocialStorage(db, logger.Discard())
		photoID, userID := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`WITH removed AS ( DELETE FROM likes`)).
			WithArgs(photoID.String(), userID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(favorited))

		got, err := s.ToggleLike(context.Background(), photoID, userID)
		require.NoError(t, err)
		assert.Equal(t, favorited, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestToggleLikeMissingPhoto(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())

	mock.ExpectQuery(regexp.QuoteMeta(`WITH removed AS`)).
		WillReturnError(&pq.Error{Code: pgForeignKeyViolation, Constraint: fkLikePhoto, Message: "violates foreign key constraint"})

	_, err := s.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}

func TestToggleLikeKeepsConcurrentInsert(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())

	// строка, вставленная параллельным запросом, должна вернуться через RETURNING
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, photo_id) DO UPDATE SET created_at = likes.created_at RETURNING photo_id`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	favorited, err := s.ToggleLike(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentMissingPhoto(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comments (photo_id, user_id, body) VALUES ($1, $2, $3)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "nice").
		WillReturnError(&pq.Error{Code: pgForeignKeyViolation, Constraint: fkCommentPhoto})

	err := s.AddComment(context.Background(), uuid.New(), uuid.New(), "nice")
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorForeignKeyIsNotMissingTarget(t *testing.T) {
	authorErr := func(constraint string) error {
		return &pq.Error{
			Code:       pgForeignKeyViolation,
			Constraint: constraint,
			Message:    `insert violates foreign key constraint "` + constraint + `"`,
		}
	}

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		call   func(s *SocialStorage) error
	}{
		{
			name: "comment",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comments`)).
					WillReturnError(authorErr("comments_user_id_fkey"))
			},
			call: func(s *SocialStorage) error {
				return s.AddComment(context.Background(), uuid.New(), uuid.New(), "nice")
			},
		},
		{
			name: "like",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`WITH removed AS`)).
					WillReturnError(authorErr("likes_user_id_fkey"))
			},
			call: func(s *SocialStorage) error {
				_, err := s.ToggleLike(context.Background(), uuid.New(), uuid.New())
				return err
			},
		},
		{
			name: "shout",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shoutbox`)).
					WillReturnError(authorErr("shoutbox_user_id_fkey"))
			},
			call: func(s *SocialStorage) error {
				return s.AddShout(context.Background(), uuid.New(), uuid.New(), "hi")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			s := NewSocialStorage(db, logger.Discard())
			tt.expect(mock)

			err := tt.call(s)
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrPhotoNotFound)
			assert.NotErrorIs(t, err, domain.ErrProfileNotFound)
			assert.Contains(t, domain.RootCause(err).Error(), "_user_id_fkey")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddShoutMissingProfile(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shoutbox`)).
		WillReturnError(&pq.Error{Code: pgForeignKeyViolation, Constraint: fkShoutboxTarget})

	err := s.AddShout(context.Background(), uuid.New(), uuid.New(), "hi")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestAddShout(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())
	profileID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shoutbox (profile_id, user_id, body) VALUES ($1, $2, $3)`)).
		WithArgs(profileID.String(), userID.String(), "hello").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.AddShout(context.Background(), profileID, userID, "hello"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLikedPhotoIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialStorage(db, logger.Discard())
	userID, first, second := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT photo_id FROM likes WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"photo_id"}).AddRow(first.String()).AddRow(second.String()))

	ids, err := s.ListLikedPhotoIDs(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
