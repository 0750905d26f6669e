package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingService owns property and vehicle listings: CRUD with ownership
// checks, search indexing, and photo storage.
type ListingService struct {
	Properties repository.PropertyRepository
	Vehicles   repository.VehicleRepository
	GCS        *storage.Client
	GCSBucket  string
	ES         *elasticsearch.Client
	ESIndex    string
	Logger     *logrus.Logger
}

func NewListingService(props repository.PropertyRepository, vehicles repository.VehicleRepository, gcs *storage.Client, bucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ListingService {
	return &ListingService{
		Properties: props,
		Vehicles:   vehicles,
		GCS:        gcs,
		GCSBucket:  bucket,
		ES:         es,
		ESIndex:    esIndex,
		Logger:     logger,
	}
}

type PropertyInput struct {
	Title        string
	Description  string
	PropertyType entity.PropertyType
	Price        float64
	Location     string
	Latitude     *float64
	Longitude    *float64
	Status       entity.ListingStatus
}

func (s *ListingService) CreateProperty(ctx context.Context, ownerID string, in PropertyInput) (*entity.PropertyListing, error) {
	status := in.Status
	if status == "" {
		status = entity.ListingAvailable
	}
	p := &entity.PropertyListing{
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		PropertyType: in.PropertyType,
		Price:        in.Price,
		Location:     in.Location,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Status:       status,
		Images:       []string{},
	}
	if err := s.Properties.Create(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexProperty(ctx, p)
	return p, nil
}

func (s *ListingService) GetProperty(ctx context.Context, id string) (*entity.PropertyListing, error) {
	p, err := s.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ListingService) UpdateProperty(ctx context.Context, id, callerID string, in PropertyInput) (*entity.PropertyListing, error) {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.PropertyType != "" {
		p.PropertyType = in.PropertyType
	}
	if in.Price > 0 {
		p.Price = in.Price
	}
	if in.Location != "" {
		p.Location = in.Location
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if err := s.Properties.Update(ctx, p); err != nil {
		return nil, err
	}
	_ = s.indexProperty(ctx, p)
	return p, nil
}

func (s *ListingService) DeleteProperty(ctx context.Context, id, callerID string) error {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != callerID {
		return ErrForbidden
	}
	if err := s.Properties.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteFromIndex(ctx, "property:"+id)
	return nil
}

func (s *ListingService) ListProperties(ctx context.Context, f repository.ListingFilter) ([]*entity.PropertyListing, error) {
	return s.Properties.List(ctx, f)
}

type VehicleInput struct {
	Title        string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	FuelType     string
	Transmission string
	Status       entity.ListingStatus
}

func (s *ListingService) CreateVehicle(ctx context.Context, ownerID string, in VehicleInput) (*entity.VehicleListing, error) {
	status := in.Status
	if status == "" {
		status = entity.ListingAvailable
	}
	v := &entity.VehicleListing{
		OwnerID:      ownerID,
		Title:        in.Title,
		Make:         in.Make,
		Model:        in.Model,
		Year:         in.Year,
		Price:        in.Price,
		Mileage:      in.Mileage,
		FuelType:     in.FuelType,
		Transmission: in.Transmission,
		Status:       status,
		Images:       []string{},
	}
	if err := s.Vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	_ = s.indexVehicle(ctx, v)
	return v, nil
}

func (s *ListingService) GetVehicle(ctx context.Context, id string) (*entity.VehicleListing, error) {
	v, err := s.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *ListingService) UpdateVehicle(ctx context.Context, id, callerID string, in VehicleInput) (*entity.VehicleListing, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, ErrForbidden
	}
	if in.Title != "" {
		v.Title = in.Title
	}
	if in.Make != "" {
		v.Make = in.Make
	}
	if in.Model != "" {
		v.Model = in.Model
	}
	if in.Year > 0 {
		v.Year = in.Year
	}
	if in.Price > 0 {
		v.Price = in.Price
	}
	if in.Mileage > 0 {
		v.Mileage = in.Mileage
	}
	if in.FuelType != "" {
		v.FuelType = in.FuelType
	}
	if in.Transmission != "" {
		v.Transmission = in.Transmission
	}
	if in.Status != "" {
		v.Status = in.Status
	}
	if err := s.Vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	_ = s.indexVehicle(ctx, v)
	return v, nil
}

func (s *ListingService) DeleteVehicle(ctx context.Context, id, callerID string) error {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	if v.OwnerID != callerID {
		return ErrForbidden
	}
	if err := s.Vehicles.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteFromIndex(ctx, "vehicle:"+id)
	return nil
}

func (s *ListingService) ListVehicles(ctx context.Context, f repository.ListingFilter) ([]*entity.VehicleListing, error) {
	return s.Vehicles.List(ctx, f)
}

// AddPropertyPhoto uploads a photo to GCS and appends its public URL to the
// listing's images.
func (s *ListingService) AddPropertyPhoto(ctx context.Context, id, callerID string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return "", err
	}
	if p.OwnerID != callerID {
		return "", ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("listings", "property", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.Images = append(p.Images, url)
	if err := s.Properties.Update(ctx, p); err != nil {
		return "", err
	}
	_ = s.indexProperty(ctx, p)
	return url, nil
}

// AddVehiclePhoto is the vehicle counterpart of AddPropertyPhoto.
func (s *ListingService) AddVehiclePhoto(ctx context.Context, id, callerID string, r io.Reader, filename, contentType string) (string, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return "", err
	}
	if v.OwnerID != callerID {
		return "", ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("listings", "vehicle", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	v.Images = append(v.Images, url)
	if err := s.Vehicles.Update(ctx, v); err != nil {
		return "", err
	}
	_ = s.indexVehicle(ctx, v)
	return url, nil
}

func (s *ListingService) indexProperty(ctx context.Context, p *entity.PropertyListing) error {
	doc := map[string]any{
		"kind":       "property",
		"title":      p.Title,
		"desc":       p.Description,
		"location":   p.Location,
		"price":      p.Price,
		"status":     p.Status,
		"owner_id":   p.OwnerID,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
	}
	return s.index(ctx, "property:"+p.ID, doc)
}

func (s *ListingService) indexVehicle(ctx context.Context, v *entity.VehicleListing) error {
	doc := map[string]any{
		"kind":       "vehicle",
		"title":      v.Title,
		"desc":       v.Make + " " + v.Model,
		"price":      v.Price,
		"status":     v.Status,
		"owner_id":   v.OwnerID,
		"created_at": v.CreatedAt.Format(time.RFC3339Nano),
	}
	return s.index(ctx, "vehicle:"+v.ID, doc)
}

func (s *ListingService) index(ctx context.Context, docID string, doc map[string]any) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: docID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doc_id", docID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("doc_id", docID).Warn("es index response error")
	}
	return nil
}

func (s *ListingService) deleteFromIndex(ctx context.Context, docID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: docID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

// Search performs a multi_match over title, description and location.
func (s *ListingService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "desc", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		src := h.Source
		src["id"] = h.ID
		out = append(out, src)
	}
	return out, nil
}
