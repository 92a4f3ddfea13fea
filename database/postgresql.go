package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"reflect"
	"sort"
	"strings"
	"time"

	"OdontoSystem/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// InitDB opens a pooled postgres connection and verifies it.
func InitDB(ctx context.Context, dsn string, verbose bool) (*gorm.DB, error) {
	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}
	if err := testDatabaseConnection(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

func testDatabaseConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Dentist{},
		&models.Procedure{},
		&models.Appointment{},
		&models.BudgetGoal{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate record tables")
	}
	for _, table := range []string{TableClinicEntries, TablePersonalEntries} {
		if err := db.Table(table).AutoMigrate(&models.LedgerEntry{}); err != nil {
			return errors.Wrapf(err, "failed to migrate %s", table)
		}
	}
	return nil
}

// GormStore implements Store on a direct SQL connection.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GormStore{db: db, timeout: timeout}
}

func (s *GormStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

func (s *GormStore) Select(ctx context.Context, table string, q *Query, dest any) error {
	tx, cancel := s.session(ctx)
	defer cancel()

	tx = tx.Table(table)
	if where, args := q.whereClause(); where != "" {
		tx = tx.Where(where, args...)
	}
	if q != nil {
		for _, o := range q.Orders {
			tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
		}
		if q.Max > 0 {
			tx = tx.Limit(q.Max)
		}
	}
	return translateError(tx.Find(dest).Error, "select "+table)
}

func (s *GormStore) Insert(ctx context.Context, table string, row any) error {
	values, err := columns(row)
	if err != nil {
		return err
	}
	tx, cancel := s.session(ctx)
	defer cancel()
	return translateError(tx.Table(table).Create(values).Error, "insert "+table)
}

func (s *GormStore) Update(ctx context.Context, table string, q *Query, patch map[string]any, dest any) error {
	where, args := q.whereClause()
	if where == "" {
		return errors.Wrap(ErrInvalidInput, "update without filters")
	}

	tx, cancel := s.session(ctx)
	res := tx.Table(table).Where(where, args...).Updates(patch)
	cancel()
	if err := translateError(res.Error, "update "+table); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "update %s", table)
	}
	if dest == nil {
		return nil
	}
	return s.Select(ctx, table, q, dest)
}

func (s *GormStore) Upsert(ctx context.Context, table string, row any, onConflict ...string) error {
	values, err := columns(row)
	if err != nil {
		return err
	}

	conflict := make([]clause.Column, 0, len(onConflict))
	skip := map[string]bool{"id": true}
	for _, name := range onConflict {
		conflict = append(conflict, clause.Column{Name: name})
		skip[name] = true
	}
	updates := make([]string, 0, len(values))
	for name := range values {
		if !skip[name] {
			updates = append(updates, name)
		}
	}
	sort.Strings(updates)

	tx, cancel := s.session(ctx)
	err = tx.Table(table).Clauses(clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(values).Error
	cancel()
	if err := translateError(err, "upsert "+table); err != nil {
		return err
	}

	// Read the merged row back so the caller sees the surviving id.
	q := NewQuery()
	for _, name := range onConflict {
		q.Eq(name, values[name])
	}
	if len(onConflict) == 0 {
		q.Eq("id", values["id"])
	}
	rows := reflect.New(reflect.SliceOf(reflect.TypeOf(row).Elem()))
	if err := s.Select(ctx, table, q.Limit(1), rows.Interface()); err != nil {
		return err
	}
	if rows.Elem().Len() == 0 {
		return errors.Wrapf(ErrNotFound, "upsert %s", table)
	}
	reflect.ValueOf(row).Elem().Set(rows.Elem().Index(0))
	return nil
}

func (s *GormStore) Delete(ctx context.Context, table string, q *Query) error {
	where, args := q.whereClause()
	if where == "" {
		return errors.Wrap(ErrInvalidInput, "delete without filters")
	}
	tx, cancel := s.session(ctx)
	defer cancel()

	res := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s", table, where), args...)
	if err := translateError(res.Error, "delete "+table); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "delete %s", table)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	return nil
}

// columns turns a row struct into the column map the REST store would send,
// so omitempty fields are skipped in both implementations.
func columns(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	for k, v := range values {
		if n, ok := v.(json.Number); ok {
			values[k] = n.String()
		}
	}
	return values, nil
}

func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()

	var kind error
	var netErr net.Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		kind = ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "duplicate key value"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		kind = ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "FOREIGN KEY constraint failed"):
		kind = ErrInvalidReference
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		kind = ErrUnavailable
	case strings.Contains(msg, "SQLSTATE 22"),
		strings.Contains(msg, "SQLSTATE 23502"),
		strings.Contains(msg, "SQLSTATE 23514"),
		strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		kind = ErrInvalidInput
	default:
		kind = ErrUnavailable
	}
	return errors.Wrapf(kind, "%s: %s", op, msg)
}
