// Package docstore implements a typed convenience client over an id-keyed
// document store: upsert, read and delete by id, predicate reads, and
// paginated, sorted listings with exact totals, all scoped by an optional
// tenancy namespace.
//
// Tenancy is a convention, not server-enforced isolation. Every saved record
// is stamped with a namespace-qualified EntityType tag and every read path
// filters on it, but any access bypassing this client can read across
// namespaces.
package docstore

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/logger"
)

// Page is one window of a listing together with exact totals computed
// independently of the window position.
type Page[T any] struct {
	Data       []T
	TotalCount int
	TotalPages int
}

// ListOptions parameterizes List. SortBy names a single field, with a
// leading "-" for descending order.
type ListOptions struct {
	Page      int
	PageSize  int
	SortBy    string
	Predicate *Predicate
}

// Repository provides the CRUD surface for one document type. Repositories
// hold only immutable configuration and may be used concurrently.
type Repository[T any] struct {
	client   *Client
	typeName string
	tag      string
	log      logger.Logger
}

// NewRepository builds a repository for T on the given client. The
// EntityType tag every save stamps is derived from T's type name and the
// client's namespace.
func NewRepository[T any](c *Client) *Repository[T] {
	typeName := reflect.TypeOf((*T)(nil)).Elem().Name()
	tag := entityTag(c.namespace, typeName)
	return &Repository[T]{
		client:   c,
		typeName: typeName,
		tag:      tag,
		log:      c.logger.With("entityType", tag),
	}
}

// Save upserts the document by its identifier, assigning a generated UUID
// when the identifier is empty. The record's EntityType tag is always
// recomputed here; caller-supplied values are overwritten.
func (r *Repository[T]) Save(ctx context.Context, entity *T) (err error) {
	defer r.observe("save", time.Now(), &err)
	if entity == nil {
		return NewValidationError("entity is required")
	}
	rec, err := toRecord(entity)
	if err != nil {
		return err
	}
	id, err := entityID(entity)
	if err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
		if err := setEntityID(entity, id); err != nil {
			return err
		}
		rec[idField] = id
	}
	rec[entityTypeField] = r.tag
	if err := r.client.exec.UpsertItem(ctx, rec); err != nil {
		return err
	}
	r.log.Debug("document saved", "id", id)
	return nil
}

// FindByID fetches a document by identifier. Absence and presence under a
// foreign namespace both return an EntityNotFoundError.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (entity *T, err error) {
	defer r.observe("find_by_id", time.Now(), &err)
	if id == "" {
		return nil, NewValidationError("id is required")
	}
	rec, err := r.client.exec.ReadItem(ctx, id)
	if errors.Is(err, ErrItemNotFound) {
		return nil, newNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	if err := checkNamespace(rec, r.client.namespace, id); err != nil {
		return nil, err
	}
	return fromRecord[T](rec)
}

// FindOne returns the first document matching pred within the repository's
// namespace, or (nil, nil) when nothing matches.
func (r *Repository[T]) FindOne(ctx context.Context, pred *Predicate) (entity *T, err error) {
	defer r.observe("find_one", time.Now(), &err)
	if pred == nil {
		return nil, NewValidationError("predicate is required")
	}
	recs, err := r.client.exec.Query(ctx, Query{
		Predicate: scope(pred, r.tag),
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return fromRecord[T](recs[0])
}

// DeleteByID removes a document by identifier. The preceding read gives
// delete the same not-found and namespace semantics as FindByID.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) (err error) {
	defer r.observe("delete_by_id", time.Now(), &err)
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	if err := r.client.exec.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			// Removed concurrently between the read and the delete.
			return newNotFoundError(id)
		}
		return err
	}
	r.log.Debug("document deleted", "id", id)
	return nil
}

// List returns one page of documents matching opts.Predicate within the
// repository's namespace, ordered by opts.SortBy, together with the exact
// total count and page count. A page beyond the last is empty data, not an
// error.
//
// The store reports matched rows only, never totals, so List makes two round
// trips: an ids-only projection covering every match, then a fetch of the
// page's id window with the same ORDER BY re-applied. A write landing
// between the two queries can skew Data relative to TotalCount; the store
// guarantees per-document atomicity only.
func (r *Repository[T]) List(ctx context.Context, opts ListOptions) (page *Page[T], err error) {
	defer r.observe("list", time.Now(), &err)
	if opts.Page < 1 {
		return nil, NewValidationError("page must be >= 1, got %d", opts.Page)
	}
	if opts.PageSize < 1 {
		return nil, NewValidationError("page size must be >= 1, got %d", opts.PageSize)
	}
	if strings.TrimSpace(opts.SortBy) == "" {
		return nil, NewValidationError("sort key is required")
	}
	if opts.Predicate == nil {
		return nil, NewValidationError("predicate is required")
	}
	sort, err := ParseSortKey(opts.SortBy)
	if err != nil {
		return nil, err
	}

	scoped := scope(opts.Predicate, r.tag)
	ids, err := r.matchingIDs(ctx, scoped, sort)
	if err != nil {
		return nil, err
	}

	page = &Page[T]{
		Data:       []T{},
		TotalCount: len(ids),
		TotalPages: totalPages(len(ids), opts.PageSize),
	}
	skip := (opts.Page - 1) * opts.PageSize
	if skip >= len(ids) {
		return page, nil
	}
	end := skip + opts.PageSize
	if end > len(ids) {
		end = len(ids)
	}

	// The id window alone comes back unordered, so the sort is re-applied.
	recs, err := r.client.exec.Query(ctx, Query{
		Predicate: scoped.And(In(idField, ids[skip:end])),
		Sort:      &sort,
	})
	if err != nil {
		return nil, err
	}
	data := make([]T, 0, len(recs))
	for _, rec := range recs {
		entity, err := fromRecord[T](rec)
		if err != nil {
			return nil, err
		}
		data = append(data, *entity)
	}
	page.Data = data
	return page, nil
}

// matchingIDs runs the ids-only projection query: the complete ordered set
// of matching identifiers, without transferring document bodies.
func (r *Repository[T]) matchingIDs(ctx context.Context, pred *Predicate, sort Sort) ([]string, error) {
	recs, err := r.client.exec.Query(ctx, Query{
		Projection: []string{idField},
		Predicate:  pred,
		Sort:       &sort,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if id, ok := rec[idField].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Repository[T]) observe(operation string, start time.Time, err *error) {
	r.client.metrics.Observe(operation, *err, time.Since(start))
}

func totalPages(count, pageSize int) int {
	if count == 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
