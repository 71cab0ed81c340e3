package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulecore/masterschedule/internal/models"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Deactivate(ctx context.Context, id string) error
}

// CreateRoomRequest holds payload for creating rooms.
type CreateRoomRequest struct {
	RoomNumber           string         `json:"room_number" validate:"required"`
	Building             string         `json:"building" validate:"required"`
	Floor                int            `json:"floor"`
	Zone                 string         `json:"zone"`
	Type                 models.RoomType `json:"type" validate:"required"`
	CapacityMin          int            `json:"capacity_min" validate:"min=0"`
	CapacityNominal      int            `json:"capacity_nominal" validate:"required,min=1"`
	CapacityMax          int            `json:"capacity_max" validate:"min=0"`
	AllowSharing         bool           `json:"allow_sharing"`
	MaxConcurrentClasses int            `json:"max_concurrent_classes" validate:"min=0"`
	HasProjector         bool           `json:"has_projector"`
	HasSmartboard        bool           `json:"has_smartboard"`
	HasComputers         bool           `json:"has_computers"`
	WheelchairAccessible bool           `json:"wheelchair_accessible"`
	ActivityTags         []string       `json:"activity_tags"`
}

// UpdateRoomRequest holds payload for updating rooms.
type UpdateRoomRequest struct {
	CreateRoomRequest
	Active bool `json:"active"`
}

// RoomService handles room CRUD.
type RoomService struct {
	repo      roomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs the room service.
func NewRoomService(repo roomRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger}
}

// List returns rooms and pagination metadata.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create registers a new room.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := roomFromRequest(req)
	room.Active = true
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// Update modifies an existing room.
func (s *RoomService) Update(ctx context.Context, id string, req UpdateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req.CreateRoomRequest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	room := roomFromRequest(req.CreateRoomRequest)
	room.ID = existing.ID
	room.Active = req.Active
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// Deactivate marks a room inactive.
func (s *RoomService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate room")
	}
	return nil
}

func roomFromRequest(req CreateRoomRequest) *models.Room {
	room := &models.Room{
		RoomNumber:           strings.TrimSpace(req.RoomNumber),
		Building:             strings.TrimSpace(req.Building),
		Floor:                req.Floor,
		Zone:                 req.Zone,
		Type:                 req.Type,
		CapacityMin:          req.CapacityMin,
		CapacityNominal:      req.CapacityNominal,
		CapacityMax:          req.CapacityMax,
		AllowSharing:         req.AllowSharing,
		MaxConcurrentClasses: req.MaxConcurrentClasses,
		HasProjector:         req.HasProjector,
		HasSmartboard:        req.HasSmartboard,
		HasComputers:         req.HasComputers,
		WheelchairAccessible: req.WheelchairAccessible,
	}
	_ = marshalInto(&room.ActivityTags, req.ActivityTags)
	return room
}
