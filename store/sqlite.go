package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ktakeda/loadplan/core/model"
)

// SQLiteStore persists plans to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS plan_headers (
    id TEXT PRIMARY KEY,
    plan_name TEXT NOT NULL,
    period_start TEXT NOT NULL,
    period_end TEXT NOT NULL,
    status TEXT NOT NULL,
    total_days INTEGER NOT NULL,
    total_trips INTEGER NOT NULL,
    total_warnings INTEGER NOT NULL,
    unloaded_count INTEGER NOT NULL,
    avg_volume_utilization REAL NOT NULL,
    max_volume_utilization REAL NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS plan_details (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plan_id TEXT NOT NULL,
    loading_date TEXT NOT NULL,
    truck_id INTEGER NOT NULL,
    truck_name TEXT NOT NULL,
    trip_number INTEGER NOT NULL,
    product_id INTEGER NOT NULL,
    product_code TEXT NOT NULL,
    product_name TEXT NOT NULL,
    container_id INTEGER NOT NULL,
    container_name TEXT NOT NULL,
    num_containers INTEGER NOT NULL,
    total_quantity INTEGER NOT NULL,
    delivery_date TEXT NOT NULL,
    is_advanced INTEGER NOT NULL,
    original_date TEXT,
    volume_utilization REAL NOT NULL,
    weight_utilization REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS plan_warnings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plan_id TEXT NOT NULL,
    warning_date TEXT,
    warning_type TEXT NOT NULL,
    message TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plan_unloaded (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plan_id TEXT NOT NULL,
    product_id INTEGER NOT NULL,
    product_code TEXT NOT NULL,
    product_name TEXT NOT NULL,
    container_id INTEGER NOT NULL,
    num_containers INTEGER NOT NULL,
    total_quantity INTEGER NOT NULL,
    delivery_date TEXT NOT NULL,
    reason TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS planned_quantities (
    product_id INTEGER NOT NULL,
    due_date TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (product_id, due_date)
);
`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save writes the header, details, warnings and unloaded tasks in one
// transaction and returns the generated plan id.
func (s *SQLiteStore) Save(ctx context.Context, periodStart, periodEnd time.Time, res *model.LoadingPlanResult) (string, error) {
	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	name := fmt.Sprintf("積載計画 %s", res.Period)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO plan_headers (id, plan_name, period_start, period_end, status, total_days, total_trips,
		 total_warnings, unloaded_count, avg_volume_utilization, max_volume_utilization, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, model.DateKey(periodStart), model.DateKey(periodEnd), res.Summary.Status,
		res.Summary.TotalDays, res.Summary.TotalTrips, res.Summary.TotalWarnings,
		res.Summary.UnloadedCount, res.Summary.AvgVolumeUtilization,
		res.Summary.MaxVolumeUtilization, time.Now().Unix())
	if err != nil {
		return "", err
	}

	for _, date := range res.Dates {
		day := res.DailyPlans[date]
		for _, truck := range day.Trucks {
			for _, item := range truck.LoadedItems {
				original := ""
				if item.IsAdvanced {
					original = model.DateKey(item.OriginalDate)
				}
				_, err = tx.ExecContext(ctx,
					`INSERT INTO plan_details (plan_id, loading_date, truck_id, truck_name, trip_number,
					 product_id, product_code, product_name, container_id, container_name,
					 num_containers, total_quantity, delivery_date, is_advanced, original_date,
					 volume_utilization, weight_utilization)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					id, date, truck.TruckID, truck.TruckName, truck.TripNumber,
					item.ProductID, item.ProductCode, item.ProductName,
					item.ContainerID, item.ContainerName, item.NumContainers,
					item.TotalQuantity, model.DateKey(item.DeliveryDate),
					boolToInt(item.IsAdvanced), original,
					truck.VolumeUtilization, truck.WeightUtilization)
				if err != nil {
					return "", err
				}
			}
		}
		for _, msg := range day.Warnings {
			if err := insertWarning(ctx, tx, id, date, msg); err != nil {
				return "", err
			}
		}
	}
	for _, msg := range res.Warnings {
		if err := insertWarning(ctx, tx, id, "", msg); err != nil {
			return "", err
		}
	}
	for _, u := range res.UnloadedTasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO plan_unloaded (plan_id, product_id, product_code, product_name,
			 container_id, num_containers, total_quantity, delivery_date, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, u.ProductID, u.ProductCode, u.ProductName, u.ContainerID,
			u.NumContainers, u.TotalQuantity, model.DateKey(u.DeliveryDate), u.Reason)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func insertWarning(ctx context.Context, tx *sql.Tx, planID, date, msg string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO plan_warnings (plan_id, warning_date, warning_type, message) VALUES (?, ?, ?, ?)`,
		planID, date, WarningType(msg), msg)
	return err
}

// Get loads one saved plan back into the in-memory shape.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Header, *model.LoadingPlanResult, error) {
	var h Header
	var start, end string
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, plan_name, period_start, period_end, status, total_days, total_trips, total_warnings,
		 unloaded_count, avg_volume_utilization, max_volume_utilization, created_at
		 FROM plan_headers WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &start, &end, &h.Summary.Status, &h.Summary.TotalDays, &h.Summary.TotalTrips,
			&h.Summary.TotalWarnings, &h.Summary.UnloadedCount, &h.Summary.AvgVolumeUtilization,
			&h.Summary.MaxVolumeUtilization, &created)
	if err != nil {
		return Header{}, nil, err
	}
	h.PeriodStart, _ = time.Parse(model.DateLayout, start)
	h.PeriodEnd, _ = time.Parse(model.DateLayout, end)
	h.Status = h.Summary.Status
	h.CreatedAt = time.Unix(created, 0).UTC()

	res := &model.LoadingPlanResult{
		DailyPlans: make(map[string]model.DailyPlan),
		Summary:    h.Summary,
		Period:     fmt.Sprintf("%s ~ %s", start, end),
	}
	if err := s.loadDetails(ctx, id, res); err != nil {
		return Header{}, nil, err
	}
	if err := s.loadWarnings(ctx, id, res); err != nil {
		return Header{}, nil, err
	}
	if err := s.loadUnloaded(ctx, id, res); err != nil {
		return Header{}, nil, err
	}
	return h, res, nil
}

func (s *SQLiteStore) loadDetails(ctx context.Context, id string, res *model.LoadingPlanResult) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT loading_date, truck_id, truck_name, trip_number, product_id, product_code,
		 product_name, container_id, container_name, num_containers, total_quantity,
		 delivery_date, is_advanced, original_date, volume_utilization, weight_utilization
		 FROM plan_details WHERE plan_id = ? ORDER BY loading_date, truck_id, id`, id)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			date, truckName, delivery, original string
			truckID                             int64
			trip, advanced                      int
			item                                model.LoadedItem
			volUtil, wtUtil                     float64
		)
		if err := rows.Scan(&date, &truckID, &truckName, &trip, &item.ProductID, &item.ProductCode,
			&item.ProductName, &item.ContainerID, &item.ContainerName, &item.NumContainers,
			&item.TotalQuantity, &delivery, &advanced, &original, &volUtil, &wtUtil); err != nil {
			return err
		}
		item.DeliveryDate, _ = time.Parse(model.DateLayout, delivery)
		item.IsAdvanced = advanced != 0
		if original != "" {
			item.OriginalDate, _ = time.Parse(model.DateLayout, original)
		}

		day := res.DailyPlans[date]
		if day.Date.IsZero() {
			day.Date, _ = time.Parse(model.DateLayout, date)
		}
		idx := -1
		for i, t := range day.Trucks {
			if t.TruckID == truckID && t.TripNumber == trip {
				idx = i
				break
			}
		}
		if idx < 0 {
			day.Trucks = append(day.Trucks, model.TruckDayAssignment{
				TruckID:           truckID,
				TruckName:         truckName,
				TripNumber:        trip,
				VolumeUtilization: volUtil,
				WeightUtilization: wtUtil,
			})
			idx = len(day.Trucks) - 1
		}
		day.Trucks[idx].LoadedItems = append(day.Trucks[idx].LoadedItems, item)
		res.DailyPlans[date] = day
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rebuildDates(res)
	return nil
}

func (s *SQLiteStore) loadWarnings(ctx context.Context, id string, res *model.LoadingPlanResult) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT warning_date, message FROM plan_warnings WHERE plan_id = ? ORDER BY id`, id)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var date, msg string
		if err := rows.Scan(&date, &msg); err != nil {
			return err
		}
		if date == "" {
			res.Warnings = append(res.Warnings, msg)
			continue
		}
		day := res.DailyPlans[date]
		if day.Date.IsZero() {
			day.Date, _ = time.Parse(model.DateLayout, date)
		}
		day.Warnings = append(day.Warnings, msg)
		res.DailyPlans[date] = day
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rebuildDates(res)
	return nil
}

func (s *SQLiteStore) loadUnloaded(ctx context.Context, id string, res *model.LoadingPlanResult) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, product_code, product_name, container_id, num_containers,
		 total_quantity, delivery_date, reason FROM plan_unloaded WHERE plan_id = ? ORDER BY id`, id)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var u model.UnloadedTask
		var delivery string
		if err := rows.Scan(&u.ProductID, &u.ProductCode, &u.ProductName, &u.ContainerID,
			&u.NumContainers, &u.TotalQuantity, &delivery, &u.Reason); err != nil {
			return err
		}
		u.DeliveryDate, _ = time.Parse(model.DateLayout, delivery)
		res.UnloadedTasks = append(res.UnloadedTasks, u)
	}
	return rows.Err()
}

// List returns stored headers, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Header, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_name, period_start, period_end, status, total_days, total_trips, total_warnings,
		 unloaded_count, avg_volume_utilization, max_volume_utilization, created_at
		 FROM plan_headers ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Header
	for rows.Next() {
		var h Header
		var start, end string
		var created int64
		if err := rows.Scan(&h.ID, &h.Name, &start, &end, &h.Summary.Status, &h.Summary.TotalDays,
			&h.Summary.TotalTrips, &h.Summary.TotalWarnings, &h.Summary.UnloadedCount,
			&h.Summary.AvgVolumeUtilization, &h.Summary.MaxVolumeUtilization, &created); err != nil {
			return nil, err
		}
		h.PeriodStart, _ = time.Parse(model.DateLayout, start)
		h.PeriodEnd, _ = time.Parse(model.DateLayout, end)
		h.Status = h.Summary.Status
		h.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// Delete removes the plan and all its rows.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{"plan_details", "plan_warnings", "plan_unloaded"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE plan_id = ?`, table), id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_headers WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// RecomputePlannedQuantities clears every planned quantity and rewrites them
// from the given result. Reset and rewrite share one transaction so readers
// never observe a half-applied state.
func (s *SQLiteStore) RecomputePlannedQuantities(ctx context.Context, res *model.LoadingPlanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM planned_quantities`); err != nil {
		return err
	}
	for _, pq := range plannedQuantities(res) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO planned_quantities (product_id, due_date, quantity) VALUES (?, ?, ?)`,
			pq.ProductID, model.DateKey(pq.DueDate), pq.Quantity)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PlannedQuantities reads the current write-back table, ordered by product
// and due date.
func (s *SQLiteStore) PlannedQuantities(ctx context.Context) ([]PlannedQuantity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, due_date, quantity FROM planned_quantities ORDER BY product_id, due_date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []PlannedQuantity
	for rows.Next() {
		var pq PlannedQuantity
		var due string
		if err := rows.Scan(&pq.ProductID, &due, &pq.Quantity); err != nil {
			return nil, err
		}
		pq.DueDate, _ = time.Parse(model.DateLayout, due)
		out = append(out, pq)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func rebuildDates(res *model.LoadingPlanResult) {
	res.Dates = res.Dates[:0]
	for key := range res.DailyPlans {
		res.Dates = append(res.Dates, key)
	}
	sort.Strings(res.Dates)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
