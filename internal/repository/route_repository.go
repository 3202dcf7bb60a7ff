package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// RouteRepository defines route and route point persistence operations.
type RouteRepository interface {
	Create(ctx context.Context, route *model.Route) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	ReplacePoints(ctx context.Context, routeID string, points []model.RoutePoint) error
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Route, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Route, error)
	FindPublicByID(ctx context.Context, id string) (*model.Route, error)
	ListByUser(ctx context.Context, userID string) ([]model.Route, error)
	ListPublic(ctx context.Context) ([]model.Route, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RouteRepository) error) error
}

type routeRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates a new route repository.
func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db: db}
}

func orderedPoints(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC").Order("position ASC")
}

// Create inserts the route together with its points.
func (r *routeRepository) Create(ctx context.Context, route *model.Route) error {
	return r.db.WithContext(ctx).Omit("User").Create(route).Error
}

func (r *routeRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Route{}).Where("id = ?", id).Updates(fields).Error
}

// ReplacePoints deletes every point of the route and inserts the given ones.
func (r *routeRepository) ReplacePoints(ctx context.Context, routeID string, points []model.RoutePoint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("route_id = ?", routeID).Delete(&model.RoutePoint{}).Error; err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	for i := range points {
		points[i].RouteID = routeID
	}
	return db.Create(&points).Error
}

// DeleteForUser removes the route and its points when owned by userID.
func (r *routeRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Route{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		// Cascades already when foreign keys are enforced.
		return tx.Where("route_id = ?", id).Delete(&model.RoutePoint{}).Error
	})
	return deleted, err
}

func (r *routeRepository) FindByID(ctx context.Context, id string) (*model.Route, error) {
	var route model.Route
	if err := r.db.WithContext(ctx).Preload("Points", orderedPoints).Where("id = ?", id).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Route, error) {
	var route model.Route
	if err := r.db.WithContext(ctx).Preload("Points", orderedPoints).
		Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) FindPublicByID(ctx context.Context, id string) (*model.Route, error) {
	var route model.Route
	if err := r.db.WithContext(ctx).Preload("Points", orderedPoints).
		Where("id = ? AND is_public = ?", id, true).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) ListByUser(ctx context.Context, userID string) ([]model.Route, error) {
	var routes []model.Route
	if err := r.db.WithContext(ctx).Preload("Points", orderedPoints).
		Where("user_id = ?", userID).Order("created_at DESC").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *routeRepository) ListPublic(ctx context.Context) ([]model.Route, error) {
	var routes []model.Route
	if err := r.db.WithContext(ctx).Preload("Points", orderedPoints).
		Where("is_public = ?", true).Order("created_at DESC").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

// WithTransaction executes a function within a database transaction.
func (r *routeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RouteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &routeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
