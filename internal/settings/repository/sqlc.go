package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
)

type SQLCRepository struct{ q *db.Queries }

func New(pg *pgxpool.Pool) *SQLCRepository { return &SQLCRepository{q: db.New(pg)} }

func toPgUUIDPtr(u *uuid.UUID) pgtype.UUID {
	if u == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *u, Valid: true}
}

func (r *SQLCRepository) Get(ctx context.Context, key string, accountID *uuid.UUID) (string, bool, error) {
	if accountID != nil {
		row, err := r.q.GetAccountSettingByKeyAccount(ctx, db.GetAccountSettingByKeyAccountParams{Key: key, AccountID: toPgUUIDPtr(accountID)})
		if err == nil {
			return row.Value, true, nil
		}
	}
	row, err := r.q.GetAccountSettingGlobal(ctx, key)
	if err != nil {
		return "", false, nil
	}
	return row.Value, true, nil
}

func (r *SQLCRepository) Upsert(ctx context.Context, key string, accountID *uuid.UUID, value string, secret bool) error {
	id := uuid.New()
	return r.q.UpsertAccountSetting(ctx, db.UpsertAccountSettingParams{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		AccountID: toPgUUIDPtr(accountID),
		Key:       key,
		Value:     value,
		IsSecret:  secret,
	})
}
