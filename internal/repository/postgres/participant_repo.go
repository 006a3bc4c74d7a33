package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventrsvp/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

func scanParticipant(s scanner) (*domain.Participant, error) {
	p := &domain.Participant{}
	if err := s.Scan(&p.UserID, &p.EventID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO event_participants (user_id, event_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, p.UserID, p.EventID, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyParticipant
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *participantRepository) Get(ctx context.Context, eventID, userID string) (*domain.Participant, error) {
	query := `
		SELECT user_id, event_id, status, created_at, updated_at
		FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) UpdateStatus(ctx context.Context, eventID, userID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	query := `
		UPDATE event_participants SET status = $1, updated_at = NOW()
		WHERE event_id = $2 AND user_id = $3
		RETURNING user_id, event_id, status, created_at, updated_at
	`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, status, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *participantRepository) ListByEventIDs(ctx context.Context, eventIDs []string) (map[string][]*domain.Participant, error) {
	out := make(map[string][]*domain.Participant, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ep.user_id, ep.event_id, ep.status, ep.created_at, ep.updated_at, u.name, u.email
		FROM event_participants ep
		JOIN users u ON u.id = ep.user_id
		WHERE ep.event_id = ANY($1)
		ORDER BY ep.created_at, ep.user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p := &domain.Participant{User: &domain.ParticipantUser{}}
		if err := rows.Scan(&p.UserID, &p.EventID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.User.Name, &p.User.Email); err != nil {
			return nil, err
		}
		p.User.ID = p.UserID
		out[p.EventID] = append(out[p.EventID], p)
	}
	return out, rows.Err()
}

func (r *participantRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.UserParticipation, error) {
	query := `
		SELECT ep.status, e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.created_at, e.updated_at
		FROM event_participants ep
		JOIN events e ON e.id = ep.event_id
		WHERE ep.user_id = $1
		ORDER BY e.date, e.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.UserParticipation, 0)
	for rows.Next() {
		var status domain.ParticipantStatus
		e := &domain.Event{}
		var descNull, locNull sql.NullString
		if err := rows.Scan(&status, &e.ID, &e.Title, &descNull, &e.Date, &locNull, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if descNull.Valid {
			e.Description = &descNull.String
		}
		if locNull.Valid {
			e.Location = &locNull.String
		}
		out = append(out, &domain.UserParticipation{EventID: e.ID, Status: status, Event: e})
	}
	return out, rows.Err()
}
