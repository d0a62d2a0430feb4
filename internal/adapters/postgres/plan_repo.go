package postgres

import (
	"context"

	"github.com/rutamapa/rutamapa/internal/core/domain"
)

// PlanRepo implements ports.RoutePlanRepository.
type PlanRepo struct {
	db *DB
}

func NewPlanRepo(db *DB) *PlanRepo {
	return &PlanRepo{db: db}
}

func (r *PlanRepo) Insert(ctx context.Context, rec *domain.RoutePlanRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO route_plans (
			id, session_id,
			origin_name, origin_address, origin_lon, origin_lat,
			dest_name, dest_address, dest_lon, dest_lat,
			route_type, distance_meters, duration_seconds,
			fuel_cost, toll_cost, total_cost, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		rec.ID, rec.SessionID,
		rec.Origin.Name, rec.Origin.Address, rec.Origin.Coordinate.Lon, rec.Origin.Coordinate.Lat,
		rec.Destination.Name, rec.Destination.Address, rec.Destination.Coordinate.Lon, rec.Destination.Coordinate.Lat,
		string(rec.RouteType), rec.Metrics.DistanceMeters, rec.Metrics.DurationSeconds,
		rec.Metrics.FuelCost, rec.Metrics.TollCost, rec.Metrics.TotalCost, rec.CreatedAt,
	)
	return err
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*domain.RoutePlanRecord, error) {
	rec := &domain.RoutePlanRecord{}
	var routeType string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, session_id,
		       origin_name, COALESCE(origin_address, ''), origin_lon, origin_lat,
		       dest_name, COALESCE(dest_address, ''), dest_lon, dest_lat,
		       route_type, distance_meters, duration_seconds,
		       fuel_cost, toll_cost, total_cost, created_at
		FROM route_plans WHERE id = $1
	`, id).Scan(
		&rec.ID, &rec.SessionID,
		&rec.Origin.Name, &rec.Origin.Address, &rec.Origin.Coordinate.Lon, &rec.Origin.Coordinate.Lat,
		&rec.Destination.Name, &rec.Destination.Address, &rec.Destination.Coordinate.Lon, &rec.Destination.Coordinate.Lat,
		&routeType, &rec.Metrics.DistanceMeters, &rec.Metrics.DurationSeconds,
		&rec.Metrics.FuelCost, &rec.Metrics.TollCost, &rec.Metrics.TotalCost, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.RouteType = domain.RouteType(routeType)
	return rec, nil
}

func (r *PlanRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.RoutePlanRecord, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM route_plans`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, session_id,
		       origin_name, COALESCE(origin_address, ''), origin_lon, origin_lat,
		       dest_name, COALESCE(dest_address, ''), dest_lon, dest_lat,
		       route_type, distance_meters, duration_seconds,
		       fuel_cost, toll_cost, total_cost, created_at
		FROM route_plans
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []domain.RoutePlanRecord
	for rows.Next() {
		var rec domain.RoutePlanRecord
		var routeType string
		if err := rows.Scan(
			&rec.ID, &rec.SessionID,
			&rec.Origin.Name, &rec.Origin.Address, &rec.Origin.Coordinate.Lon, &rec.Origin.Coordinate.Lat,
			&rec.Destination.Name, &rec.Destination.Address, &rec.Destination.Coordinate.Lon, &rec.Destination.Coordinate.Lat,
			&routeType, &rec.Metrics.DistanceMeters, &rec.Metrics.DurationSeconds,
			&rec.Metrics.FuelCost, &rec.Metrics.TollCost, &rec.Metrics.TotalCost, &rec.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		rec.RouteType = domain.RouteType(routeType)
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}
