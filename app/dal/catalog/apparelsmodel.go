package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlc"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	apparelsFieldNames          = builder.RawFieldNames(&Apparels{})
	apparelsRows                = strings.Join(apparelsFieldNames, ",")
	apparelsRowsExpectAutoSet   = strings.Join(stringx.Remove(apparelsFieldNames, "`id`", "`created_at`"), ",")
	apparelsRowsWithPlaceHolder = strings.Join(stringx.Remove(apparelsFieldNames, "`id`", "`created_at`"), "=?,") + "=?"

	cacheApparelsIdPrefix = "cache:apparels:id:"
)

var _ ApparelsModel = (*customApparelsModel)(nil)

type (
	// ApparelsModel is an interface to be customized, add more methods here,
	// and implement the added methods in customApparelsModel.
	ApparelsModel interface {
		Insert(ctx context.Context, data *Apparels) (sql.Result, error)
		FindOne(ctx context.Context, id int64) (*Apparels, error)
		Update(ctx context.Context, data *Apparels) error
		Delete(ctx context.Context, id int64) error
		// Search narrows candidates on the SQL side; final ranking happens
		// in the matcher.
		Search(ctx context.Context, category string, maxPrice int64, limit int) ([]*Apparels, error)
	}

	customApparelsModel struct {
		sqlc.CachedConn
		table string
	}

	Apparels struct {
		Id        int64     `db:"id"`
		Name      string    `db:"name"`
		Category  string    `db:"category"`
		Price     int64     `db:"price"` // cents
		Fabric    string    `db:"fabric"`
		Fit       string    `db:"fit"`
		Color     string    `db:"color"`
		Pattern   string    `db:"pattern"`
		Styles    string    `db:"styles"`    // JSON array
		Occasions string    `db:"occasions"` // JSON array
		Sizes     string    `db:"sizes"`     // JSON array
		CreatedAt time.Time `db:"created_at"`
	}
)

// NewApparelsModel returns a model for the database table.
func NewApparelsModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) ApparelsModel {
	return &customApparelsModel{
		CachedConn: sqlc.NewConn(conn, c, opts...),
		table:      "`apparels`",
	}
}

func (m *customApparelsModel) Insert(ctx context.Context, data *Apparels) (sql.Result, error) {
	apparelsIdKey := fmt.Sprintf("%s%v", cacheApparelsIdPrefix, data.Id)
	return m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", m.table, apparelsRowsExpectAutoSet)
		return conn.ExecCtx(ctx, query, data.Name, data.Category, data.Price, data.Fabric, data.Fit, data.Color, data.Pattern, data.Styles, data.Occasions, data.Sizes)
	}, apparelsIdKey)
}

func (m *customApparelsModel) FindOne(ctx context.Context, id int64) (*Apparels, error) {
	apparelsIdKey := fmt.Sprintf("%s%v", cacheApparelsIdPrefix, id)
	var resp Apparels
	err := m.QueryRowCtx(ctx, &resp, apparelsIdKey, func(ctx context.Context, conn sqlx.SqlConn, v any) error {
		query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", apparelsRows, m.table)
		return conn.QueryRowCtx(ctx, v, query, id)
	})
	switch err {
	case nil:
		return &resp, nil
	case sqlc.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *customApparelsModel) Update(ctx context.Context, data *Apparels) error {
	apparelsIdKey := fmt.Sprintf("%s%v", cacheApparelsIdPrefix, data.Id)
	_, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("update %s set %s where `id` = ?", m.table, apparelsRowsWithPlaceHolder)
		return conn.ExecCtx(ctx, query, data.Name, data.Category, data.Price, data.Fabric, data.Fit, data.Color, data.Pattern, data.Styles, data.Occasions, data.Sizes, data.Id)
	}, apparelsIdKey)
	return err
}

func (m *customApparelsModel) Delete(ctx context.Context, id int64) error {
	apparelsIdKey := fmt.Sprintf("%s%v", cacheApparelsIdPrefix, id)
	_, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("delete from %s where `id` = ?", m.table)
		return conn.ExecCtx(ctx, query, id)
	}, apparelsIdKey)
	return err
}

func (m *customApparelsModel) Search(ctx context.Context, category string, maxPrice int64, limit int) ([]*Apparels, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	var conds []string
	var args []any
	if category != "" {
		conds = append(conds, "`category` = ?")
		args = append(args, category)
	}
	if maxPrice > 0 {
		// keep slightly-over-budget items so the matcher can decay them
		conds = append(conds, "`price` <= ?")
		args = append(args, maxPrice*2)
	}

	query := fmt.Sprintf("select %s from %s", apparelsRows, m.table)
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by `price` asc, `id` asc limit ?"
	args = append(args, limit)

	var resp []*Apparels
	err := m.QueryRowsNoCacheCtx(ctx, &resp, query, args...)
	switch err {
	case nil:
		return resp, nil
	case sqlc.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}
