// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrCatalogUnavailable is returned when neither the remote nor the static source produced items.
var ErrCatalogUnavailable = errors.New("unable to fetch products")

// source implements the Source interface.
type source struct {
	remote    Remote
	static    Static
	logger    *zap.Logger
	tracer    trace.Tracer
	fallbacks metric.Int64Counter
}

// NewSource creates a catalog source that prefers remote and falls back to static.
func NewSource(remote Remote, static Static, logger *zap.Logger) Source {
	if logger == nil {
		logger = zap.NewNop()
	}

	fallbacks, err := otel.Meter("storefront/catalog").Int64Counter(
		"catalog.fallbacks",
		metric.WithDescription("Catalog requests served by a fallback instead of the remote endpoint"),
	)
	if err != nil {
		logger.Warn("failed to create fallback counter", zap.Error(err))
	}

	return &source{
		remote:    remote,
		static:    static,
		logger:    logger,
		tracer:    otel.Tracer("storefront/catalog"),
		fallbacks: fallbacks,
	}
}

// FetchItems returns remapped remote items, or the static items verbatim if the remote fails.
func (s *source) FetchItems(ctx context.Context) ([]Item, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.fetch_items")
	defer span.End()

	records, err := s.remote.Products(ctx)
	if err == nil {
		span.SetAttributes(
			attribute.String("catalog.source", "remote"),
			attribute.Int("catalog.items", len(records)),
		)
		return remapProducts(records), nil
	}

	s.logger.Warn("remote catalog failed, using fallback data", zap.Error(err))
	s.recordFallback(ctx, "items")

	items, fallbackErr := s.static.Products(ctx)
	if fallbackErr != nil {
		s.logger.Error("both remote catalog and fallback failed",
			zap.NamedError("remote_error", err),
			zap.NamedError("fallback_error", fallbackErr),
		)
		span.RecordError(fallbackErr)
		span.SetStatus(codes.Error, ErrCatalogUnavailable.Error())
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, fallbackErr)
	}

	span.SetAttributes(
		attribute.String("catalog.source", "static"),
		attribute.Int("catalog.items", len(items)),
	)
	return items, nil
}

// FetchCategories returns the remote category labels or the default list. It never fails.
func (s *source) FetchCategories(ctx context.Context) []string {
	ctx, span := s.tracer.Start(ctx, "catalog.fetch_categories")
	defer span.End()

	categories, err := s.remote.Categories(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch categories", zap.Error(err))
		s.recordFallback(ctx, "categories")
		span.SetAttributes(attribute.Bool("catalog.default_categories", true))
		return DefaultCategories()
	}

	span.SetAttributes(attribute.Int("catalog.categories", len(categories)))
	return categories
}

// FetchItemsByCategory returns remote items in category, or an empty slice on failure.
func (s *source) FetchItemsByCategory(ctx context.Context, category string) []Item {
	ctx, span := s.tracer.Start(ctx, "catalog.fetch_items_by_category",
		trace.WithAttributes(attribute.String("catalog.category", category)),
	)
	defer span.End()

	records, err := s.remote.ProductsByCategory(ctx, category)
	if err != nil {
		s.logger.Warn("failed to fetch category products",
			zap.String("category", category),
			zap.Error(err),
		)
		s.recordFallback(ctx, "category_items")
		return []Item{}
	}

	span.SetAttributes(attribute.Int("catalog.items", len(records)))
	return remapProducts(records)
}

func (s *source) recordFallback(ctx context.Context, kind string) {
	if s.fallbacks == nil {
		return
	}
	s.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.fallback", kind)))
}
