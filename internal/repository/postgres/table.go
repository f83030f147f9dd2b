package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dtroode/daycare-server/internal/model"
)

// Table implements the CRUD, counting and pagination operations shared by
// every entity repository. R is the row type scanned by sqlx, I and U are the
// insert and update shapes.
type Table[R any, I, U model.Writable] struct {
	db      DBTX
	name    string
	columns []string
	fields  string
}

// NewTable creates a Table over name. columns lists every readable column
// and is the only set of names accepted for ordering and filtering.
func NewTable[R any, I, U model.Writable](db DBTX, name string, columns []string) *Table[R, I, U] {
	return &Table[R, I, U]{
		db:      db,
		name:    name,
		columns: columns,
		fields:  strings.Join(columns, ", "),
	}
}

// Name returns the table name.
func (t *Table[R, I, U]) Name() string {
	return t.name
}

// FindByID returns the row with the given id, or nil if there is none.
func (t *Table[R, I, U]) FindByID(ctx context.Context, id uuid.UUID) (*R, error) {
	return t.getWhere(ctx, "id = $1", id)
}

// FindMany returns the rows selected by opts. It never returns a nil slice.
func (t *Table[R, I, U]) FindMany(ctx context.Context, opts model.QueryOptions) ([]R, error) {
	b := &builder{}
	b.write("SELECT ", t.fields, " FROM ", t.name)
	if err := t.writeOptions(b, opts); err != nil {
		return nil, err
	}

	rows := make([]R, 0)
	if err := t.db.SelectContext(ctx, &rows, b.String(), b.args...); err != nil {
		return nil, normalize(err)
	}
	return rows, nil
}

// FindManyPaginated returns one page of rows together with the total count.
// The count and the page are read by two separate queries, so concurrent
// writes may make them disagree.
func (t *Table[R, I, U]) FindManyPaginated(ctx context.Context, page, pageSize int, opts model.QueryOptions) (model.Page[R], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}
	if page-1 > math.MaxInt/pageSize {
		return model.Page[R]{}, model.NewStoreError(model.CodeInvalidArgument,
			fmt.Sprintf("page %d of %s is out of range", page, t.Name()), nil)
	}

	total, err := t.Count(ctx, nil)
	if err != nil {
		return model.Page[R]{}, err
	}

	opts.Limit = pageSize
	opts.Offset = (page - 1) * pageSize
	rows, err := t.FindMany(ctx, opts)
	if err != nil {
		return model.Page[R]{}, err
	}

	return model.NewPage(rows, page, pageSize, total), nil
}

// Create inserts one row and returns it as stored.
func (t *Table[R, I, U]) Create(ctx context.Context, in I) (R, error) {
	var row R
	cols := in.Columns()
	if err := t.checkWritable(cols); err != nil {
		return row, err
	}

	b := &builder{}
	b.write("INSERT INTO ", t.name)
	if len(cols) == 0 {
		b.write(" DEFAULT VALUES")
	} else {
		b.write(" (", joinNames(cols), ") VALUES (")
		for i, c := range cols {
			if i > 0 {
				b.write(", ")
			}
			b.write(b.arg(c.Value))
		}
		b.write(")")
	}
	b.write(" RETURNING ", t.fields)

	if err := t.db.GetContext(ctx, &row, b.String(), b.args...); err != nil {
		return row, normalize(err)
	}
	return row, nil
}

// CreateMany inserts all rows with a single statement. Columns missing from
// some of the inputs are written as DEFAULT.
func (t *Table[R, I, U]) CreateMany(ctx context.Context, in []I) ([]R, error) {
	rows := make([]R, 0, len(in))
	if len(in) == 0 {
		return rows, nil
	}

	var names []string
	values := make([]map[string]any, len(in))
	for i, item := range in {
		cols := item.Columns()
		if err := t.checkWritable(cols); err != nil {
			return nil, err
		}
		values[i] = make(map[string]any, len(cols))
		for _, c := range cols {
			if !slices.Contains(names, c.Name) {
				names = append(names, c.Name)
			}
			values[i][c.Name] = c.Value
		}
	}
	if len(names) == 0 {
		return nil, model.NewStoreError(model.CodeInvalidColumn, fmt.Sprintf("no columns to insert into %s", t.Name()), nil)
	}

	b := &builder{}
	b.write("INSERT INTO ", t.name, " (", strings.Join(names, ", "), ") VALUES ")
	for i, v := range values {
		if i > 0 {
			b.write(", ")
		}
		b.write("(")
		for j, name := range names {
			if j > 0 {
				b.write(", ")
			}
			val, ok := v[name]
			if !ok {
				b.write("DEFAULT")
				continue
			}
			b.write(b.arg(val))
		}
		b.write(")")
	}
	b.write(" RETURNING ", t.fields)

	if err := t.db.SelectContext(ctx, &rows, b.String(), b.args...); err != nil {
		return nil, normalize(err)
	}
	return rows, nil
}

// Update applies a partial update to the row with the given id and bumps
// updated_at. Exactly one row must match.
func (t *Table[R, I, U]) Update(ctx context.Context, id uuid.UUID, in U) (R, error) {
	return t.updateColumns(ctx, id, in.Columns())
}

// Upsert inserts the row or, when its id already exists, overwrites the
// supplied columns.
func (t *Table[R, I, U]) Upsert(ctx context.Context, in I) (R, error) {
	var row R
	cols := in.Columns()
	if err := t.checkWritable(cols); err != nil {
		return row, err
	}
	if len(cols) == 0 {
		return t.Create(ctx, in)
	}

	b := &builder{}
	b.write("INSERT INTO ", t.name, " (", joinNames(cols), ") VALUES (")
	for i, c := range cols {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.arg(c.Value))
	}
	b.write(") ON CONFLICT (id) DO UPDATE SET ")
	for _, c := range cols {
		if c.Name == "id" || c.Name == "updated_at" {
			continue
		}
		b.write(c.Name, " = EXCLUDED.", c.Name, ", ")
	}
	b.write("updated_at = NOW() RETURNING ", t.fields)

	if err := t.db.GetContext(ctx, &row, b.String(), b.args...); err != nil {
		return row, normalize(err)
	}
	return row, nil
}

// Delete removes the row with the given id. Missing rows are not an error.
func (t *Table[R, I, U]) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM " + t.name + " WHERE id = $1"
	if _, err := t.db.ExecContext(ctx, query, id); err != nil {
		return normalize(err)
	}
	return nil
}

// DeleteMany removes every row whose id is in ids.
func (t *Table[R, I, U]) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	list := make(pq.StringArray, len(ids))
	for i, id := range ids {
		list[i] = id.String()
	}

	query := "DELETE FROM " + t.name + " WHERE id = ANY($1::uuid[])"
	if _, err := t.db.ExecContext(ctx, query, list); err != nil {
		return normalize(err)
	}
	return nil
}

// Count returns the number of rows matching all filters. A nil filter value
// matches NULL.
func (t *Table[R, I, U]) Count(ctx context.Context, filters model.Filters) (int, error) {
	b := &builder{}
	b.write("SELECT COUNT(*) FROM ", t.name)

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if err := t.checkColumn(k); err != nil {
			return 0, err
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for i, k := range keys {
		if i == 0 {
			b.write(" WHERE ")
		} else {
			b.write(" AND ")
		}
		if filters[k] == nil {
			b.write(k, " IS NULL")
			continue
		}
		b.write(k, " = ", b.arg(filters[k]))
	}

	var n int
	if err := t.db.GetContext(ctx, &n, b.String(), b.args...); err != nil {
		return 0, normalize(err)
	}
	return n, nil
}

// Exists reports whether a row with the given id exists.
func (t *Table[R, I, U]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found uuid.UUID
	query := "SELECT id FROM " + t.name + " WHERE id = $1"
	if err := t.db.GetContext(ctx, &found, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, normalize(err)
	}
	return true, nil
}

// getWhere selects one row filtered by where. No rows yields (nil, nil).
func (t *Table[R, I, U]) getWhere(ctx context.Context, where string, args ...any) (*R, error) {
	var row R
	query := "SELECT " + t.fields + " FROM " + t.name + " WHERE " + where
	if err := t.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, normalize(err)
	}
	return &row, nil
}

// selectWhere selects all rows matching tail, which holds the WHERE
// condition followed by any ORDER BY or LIMIT clause.
func (t *Table[R, I, U]) selectWhere(ctx context.Context, tail string, args ...any) ([]R, error) {
	rows := make([]R, 0)
	query := "SELECT " + t.fields + " FROM " + t.name + " WHERE " + tail
	if err := t.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, normalize(err)
	}
	return rows, nil
}

// updateColumns writes cols to the row with the given id and bumps updated_at.
func (t *Table[R, I, U]) updateColumns(ctx context.Context, id uuid.UUID, cols []model.Column) (R, error) {
	var row R
	if err := t.checkWritable(cols); err != nil {
		return row, err
	}

	b := &builder{}
	b.write("UPDATE ", t.name, " SET ")
	for _, c := range cols {
		if c.Name == "updated_at" {
			continue
		}
		b.write(c.Name, " = ", b.arg(c.Value), ", ")
	}
	b.write("updated_at = NOW() WHERE id = ", b.arg(id), " RETURNING ", t.fields)

	if err := t.db.GetContext(ctx, &row, b.String(), b.args...); err != nil {
		return row, normalize(err)
	}
	return row, nil
}

func (t *Table[R, I, U]) writeOptions(b *builder, opts model.QueryOptions) error {
	if opts.OrderBy != "" {
		if err := t.checkColumn(opts.OrderBy); err != nil {
			return err
		}
		dir := "ASC"
		switch opts.Direction {
		case model.SortDesc:
			dir = "DESC"
		case model.SortAsc, "":
		default:
			return model.NewStoreError(model.CodeInvalidColumn, fmt.Sprintf("unknown sort direction %q", opts.Direction), nil)
		}
		b.write(" ORDER BY ", opts.OrderBy, " ", dir)
	}

	limit := opts.Limit
	if limit <= 0 && opts.Offset > 0 {
		limit = model.DefaultPageSize
	}
	if limit > 0 {
		b.write(" LIMIT ", strconv.Itoa(limit))
	}
	if opts.Offset > 0 {
		b.write(" OFFSET ", strconv.Itoa(opts.Offset))
	}
	return nil
}

func (t *Table[R, I, U]) checkColumn(name string) error {
	if !slices.Contains(t.columns, name) {
		return model.NewStoreError(model.CodeInvalidColumn, fmt.Sprintf("unknown column %q on %s", name, t.Name()), nil)
	}
	return nil
}

func (t *Table[R, I, U]) checkWritable(cols []model.Column) error {
	for _, c := range cols {
		if err := t.checkColumn(c.Name); err != nil {
			return err
		}
	}
	return nil
}

func joinNames(cols []model.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
