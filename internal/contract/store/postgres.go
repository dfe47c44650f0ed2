package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"plansign/internal/contract/models"
	"plansign/pkg/platform/sentinel"
)

// Postgres persists contract aggregates. Field lists and audit trails are
// JSONB columns so ReplaceAudit can be a single jsonb_set statement: the
// record write and the state move land in one UPDATE, with no
// read-modify-write in between.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Open connects with the lib/pq driver and pings before returning.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS contracts (
	id              TEXT PRIMARY KEY,
	event_id        TEXT NOT NULL,
	file_name       TEXT NOT NULL,
	contract_url    TEXT NOT NULL,
	is_electronic   BOOLEAN NOT NULL,
	workflow_status TEXT NOT NULL,
	fields          JSONB NOT NULL DEFAULT '[]',
	audit_trail     JSONB NOT NULL DEFAULT '{}',
	last_edited     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS contracts_event_id_idx ON contracts (event_id);
`

// Migrate creates the contracts table. Idempotent.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate contracts schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, c *models.Contract) error {
	fields, trail, err := marshalAggregate(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, event_id, file_name, contract_url, is_electronic, workflow_status, fields, audit_trail, last_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.EventID, c.FileName, c.ContractURL, c.Workflow.IsElectronic,
		string(c.Workflow.Status), fields, trail, c.LastEdited,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, file_name, contract_url, is_electronic, workflow_status, fields, audit_trail, last_edited
		FROM contracts WHERE id = $1`, id)
	return scanContract(row)
}

func (s *Postgres) FindByEvent(ctx context.Context, eventID string) ([]*models.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, file_name, contract_url, is_electronic, workflow_status, fields, audit_trail, last_edited
		FROM contracts WHERE event_id = $1 ORDER BY last_edited DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query contracts by event: %w", err)
	}
	defer rows.Close()

	var out []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, c *models.Contract) error {
	fields, trail, err := marshalAggregate(c)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts
		SET file_name = $2, contract_url = $3, is_electronic = $4, workflow_status = $5,
		    fields = $6, audit_trail = $7, last_edited = $8
		WHERE id = $1`,
		c.ID, c.FileName, c.ContractURL, c.Workflow.IsElectronic,
		string(c.Workflow.Status), fields, trail, c.LastEdited,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) ReplaceAudit(ctx context.Context, contractID string, record models.SignatureAudit, newState models.WorkflowState) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts
		SET audit_trail = jsonb_set(audit_trail, ARRAY[$2], $3::jsonb),
		    workflow_status = $4,
		    last_edited = now()
		WHERE id = $1`,
		contractID, record.FieldID, payload, string(newState),
	)
	if err != nil {
		return fmt.Errorf("replace audit record: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func marshalAggregate(c *models.Contract) ([]byte, []byte, error) {
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal fields: %w", err)
	}
	trail := c.AuditTrail
	if trail == nil {
		trail = map[string]models.SignatureAudit{}
	}
	trailBytes, err := json.Marshal(trail)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal audit trail: %w", err)
	}
	return fields, trailBytes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*models.Contract, error) {
	var (
		c          models.Contract
		status     string
		fields     []byte
		trail      []byte
		lastEdited time.Time
	)
	err := row.Scan(&c.ID, &c.EventID, &c.FileName, &c.ContractURL,
		&c.Workflow.IsElectronic, &status, &fields, &trail, &lastEdited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}
	c.Workflow.Status = models.WorkflowState(status)
	c.LastEdited = lastEdited
	if err := json.Unmarshal(fields, &c.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if err := json.Unmarshal(trail, &c.AuditTrail); err != nil {
		return nil, fmt.Errorf("unmarshal audit trail: %w", err)
	}
	return &c, nil
}
