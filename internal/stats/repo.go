package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MentorUsage is one day's message volume for one mentor, across all users.
// It feeds the dashboard counters; no per-user data is kept here.
type MentorUsage struct {
	Day          time.Time `json:"day"`
	MentorID     string    `json:"mentor_id"`
	MessageCount int64     `json:"message_count"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// AggregateDay recomputes one day's counts from the messages table and
// upserts them, so reruns are safe.
func (r *Repo) AggregateDay(ctx context.Context, day time.Time) error {
	const q = `
insert into mentor_usage_daily (day, mentor_id, message_count)
select $1::date, c.mentor_id, count(*)
from messages m
join conversations c on c.id = m.conversation_id
where m.created_at >= $1::date and m.created_at < $1::date + interval '1 day'
group by c.mentor_id
on conflict (day, mentor_id) do update set message_count = excluded.message_count;
`
	_, err := r.db.Exec(ctx, q, day.UTC().Truncate(24*time.Hour))
	return err
}

// Recent returns the last n days of usage rows, newest first.
func (r *Repo) Recent(ctx context.Context, days int) ([]MentorUsage, error) {
	if days <= 0 {
		days = 30
	}

	const q = `
select day, mentor_id, message_count
from mentor_usage_daily
where day >= current_date - $1 * interval '1 day'
order by day desc, mentor_id asc;
`
	rows, err := r.db.Query(ctx, q, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MentorUsage{}
	for rows.Next() {
		var u MentorUsage
		if err := rows.Scan(&u.Day, &u.MentorID, &u.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
