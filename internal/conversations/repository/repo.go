package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/launchmentor/launchmentor-backend/internal/conversations/domain"
)

type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ownsProject checks that the project belongs to the user.
func (r *Repo) ownsProject(ctx context.Context, userDBID, projectID string) error {
	const q = `
select 1
from projects
where id = $1::uuid and user_id = $2::uuid;
`
	var one int
	if err := r.db.QueryRow(ctx, q, projectID, userDBID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// getConversation resolves a conversation and verifies ownership through its
// project in one query.
func (r *Repo) getConversation(ctx context.Context, userDBID, conversationID string) (*domain.Conversation, error) {
	const q = `
select c.id::text, c.project_id::text, c.mentor_id, c.title, c.created_at
from conversations c
join projects p on p.id = c.project_id
where c.id = $1::uuid and p.user_id = $2::uuid;
`
	var conv domain.Conversation
	err := r.db.QueryRow(ctx, q, conversationID, userDBID).
		Scan(&conv.ID, &conv.ProjectID, &conv.MentorID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// Get is the exported ownership-checked lookup.
func (r *Repo) Get(ctx context.Context, userDBID, conversationID string) (*domain.Conversation, error) {
	return r.getConversation(ctx, userDBID, conversationID)
}

// Ensure returns the (project, mentor) conversation, creating it if absent.
// The insert is idempotent on the unique (project_id, mentor_id) key, so two
// concurrent callers converge on the same row instead of racing
// lookup-then-create into duplicates.
func (r *Repo) Ensure(ctx context.Context, userDBID, projectID, mentorID, title string) (*domain.Conversation, error) {
	if err := r.ownsProject(ctx, userDBID, projectID); err != nil {
		return nil, err
	}

	const ins = `
insert into conversations (project_id, mentor_id, title)
values ($1::uuid, $2, $3)
on conflict (project_id, mentor_id) do nothing;
`
	if _, err := r.db.Exec(ctx, ins, projectID, mentorID, title); err != nil {
		return nil, err
	}

	const sel = `
select id::text, project_id::text, mentor_id, title, created_at
from conversations
where project_id = $1::uuid and mentor_id = $2;
`
	var conv domain.Conversation
	err := r.db.QueryRow(ctx, sel, projectID, mentorID).
		Scan(&conv.ID, &conv.ProjectID, &conv.MentorID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// History returns the full transcript in created_at ascending order.
func (r *Repo) History(ctx context.Context, userDBID, conversationID string) ([]domain.Message, error) {
	if _, err := r.getConversation(ctx, userDBID, conversationID); err != nil {
		return nil, err
	}

	const q = `
select id::text, conversation_id::text, role, content, created_at
from messages
where conversation_id = $1::uuid
order by created_at asc;
`
	rows, err := r.db.Query(ctx, q, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertMessage persists one message row. The user and assistant sides of a
// turn are separate inserts on purpose: a crash between them leaves a
// dangling user message, which the next history load simply shows.
func (r *Repo) InsertMessage(ctx context.Context, userDBID, conversationID, role, content string) (*domain.Message, error) {
	if _, err := r.getConversation(ctx, userDBID, conversationID); err != nil {
		return nil, err
	}

	const q = `
insert into messages (conversation_id, role, content)
values ($1::uuid, $2, $3)
returning id::text, conversation_id::text, role, content, created_at;
`
	var m domain.Message
	err := r.db.QueryRow(ctx, q, conversationID, role, content).
		Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
