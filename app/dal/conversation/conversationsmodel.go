package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	conversationsFieldNames        = builder.RawFieldNames(&Conversations{})
	conversationsRows              = strings.Join(conversationsFieldNames, ",")
	conversationsRowsExpectAutoSet = strings.Join(stringx.Remove(conversationsFieldNames, "`created_at`"), ",")
)

var _ ConversationsModel = (*customConversationsModel)(nil)

type (
	// ConversationsModel persists terminal conversation logs. The table is an
	// audit trail, so there is no cache in front of it.
	ConversationsModel interface {
		Insert(ctx context.Context, data *Conversations) (sql.Result, error)
		FindOne(ctx context.Context, id int64) (*Conversations, error)
		Delete(ctx context.Context, id int64) error
	}

	customConversationsModel struct {
		conn  sqlx.SqlConn
		table string
	}

	Conversations struct {
		Id         int64     `db:"id"` // snowflake, assigned by the service
		UserId     int64     `db:"user_id"`
		Stage      string    `db:"stage"`
		Turns      string    `db:"turns"`      // JSON
		Attributes string    `db:"attributes"` // JSON
		CreatedAt  time.Time `db:"created_at"`
	}
)

// NewConversationsModel returns a model for the database table.
func NewConversationsModel(conn sqlx.SqlConn) ConversationsModel {
	return &customConversationsModel{
		conn:  conn,
		table: "`conversations`",
	}
}

func (m *customConversationsModel) Insert(ctx context.Context, data *Conversations) (sql.Result, error) {
	query := fmt.Sprintf("insert into %s (%s) values (?, ?, ?, ?, ?)", m.table, conversationsRowsExpectAutoSet)
	return m.conn.ExecCtx(ctx, query, data.Id, data.UserId, data.Stage, data.Turns, data.Attributes)
}

func (m *customConversationsModel) FindOne(ctx context.Context, id int64) (*Conversations, error) {
	query := fmt.Sprintf("select %s from %s where `id` = ? limit 1", conversationsRows, m.table)
	var resp Conversations
	err := m.conn.QueryRowCtx(ctx, &resp, query, id)
	switch err {
	case nil:
		return &resp, nil
	case sqlx.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (m *customConversationsModel) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("delete from %s where `id` = ?", m.table)
	_, err := m.conn.ExecCtx(ctx, query, id)
	return err
}
