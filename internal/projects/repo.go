package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

// Stage buckets for the startup lifecycle.
const (
	StageIdea       = "idea"
	StageValidation = "validation"
	StageMVP        = "mvp"
	StageTraction   = "traction"
)

var validStages = map[string]bool{
	StageIdea: true, StageValidation: true, StageMVP: true, StageTraction: true,
}

var validTeamSizes = map[string]bool{
	"solo": true, "2-3": true, "4+": true,
}

var validTechKnowledge = map[string]bool{
	"beginner": true, "intermediate": true, "advanced": true,
}

// Project is the startup profile captured once during onboarding and
// read-only afterwards. The latest created row per user is the active one.
type Project struct {
	ID              string    `json:"id"`
	Idea            string    `json:"idea"`
	Stage           string    `json:"stage"`
	Industry        string    `json:"industry"`
	TargetCustomer  string    `json:"target_customer"`
	TeamSize        string    `json:"team_size"`
	TechKnowledge   string    `json:"tech_knowledge"`
	TractionMetrics string    `json:"traction_metrics"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateProject struct {
	Idea            string
	Stage           string
	Industry        string
	TargetCustomer  string
	TeamSize        string
	TechKnowledge   string
	TractionMetrics string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, userDBID string, in CreateProject) (*Project, error) {
	if in.Idea == "" {
		return nil, fmt.Errorf("idea required")
	}
	if !validStages[in.Stage] {
		return nil, fmt.Errorf("invalid stage %q", in.Stage)
	}
	if in.TeamSize != "" && !validTeamSizes[in.TeamSize] {
		return nil, fmt.Errorf("invalid team size %q", in.TeamSize)
	}
	if in.TechKnowledge != "" && !validTechKnowledge[in.TechKnowledge] {
		return nil, fmt.Errorf("invalid tech knowledge %q", in.TechKnowledge)
	}

	const q = `
insert into projects (user_id, idea, stage, industry, target_customer, team_size, tech_knowledge, traction_metrics)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
returning id::text, idea, stage, industry, target_customer, team_size, tech_knowledge, traction_metrics, created_at;
`
	var p Project
	err := r.db.QueryRow(ctx, q, userDBID,
		in.Idea, in.Stage, in.Industry, in.TargetCustomer,
		in.TeamSize, in.TechKnowledge, in.TractionMetrics,
	).Scan(&p.ID, &p.Idea, &p.Stage, &p.Industry, &p.TargetCustomer,
		&p.TeamSize, &p.TechKnowledge, &p.TractionMetrics, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActive returns the user's latest project.
func (r *Repo) GetActive(ctx context.Context, userDBID string) (*Project, error) {
	const q = `
select id::text, idea, stage, industry, target_customer, team_size, tech_knowledge, traction_metrics, created_at
from projects
where user_id = $1::uuid
order by created_at desc
limit 1;
`
	var p Project
	err := r.db.QueryRow(ctx, q, userDBID).
		Scan(&p.ID, &p.Idea, &p.Stage, &p.Industry, &p.TargetCustomer,
			&p.TeamSize, &p.TechKnowledge, &p.TractionMetrics, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Get returns one project, scoped to its owner.
func (r *Repo) Get(ctx context.Context, userDBID, projectID string) (*Project, error) {
	const q = `
select id::text, idea, stage, industry, target_customer, team_size, tech_knowledge, traction_metrics, created_at
from projects
where id = $1::uuid and user_id = $2::uuid;
`
	var p Project
	err := r.db.QueryRow(ctx, q, projectID, userDBID).
		Scan(&p.ID, &p.Idea, &p.Stage, &p.Industry, &p.TargetCustomer,
			&p.TeamSize, &p.TechKnowledge, &p.TractionMetrics, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects for the user, newest first.
func (r *Repo) List(ctx context.Context, userDBID string) ([]Project, error) {
	const q = `
select id::text, idea, stage, industry, target_customer, team_size, tech_knowledge, traction_metrics, created_at
from projects
where user_id = $1::uuid
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userDBID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 4)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Idea, &p.Stage, &p.Industry, &p.TargetCustomer,
			&p.TeamSize, &p.TechKnowledge, &p.TractionMetrics, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
